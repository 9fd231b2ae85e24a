//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the inty module embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the config and cache
	// directories and prefixes environment variables (INTY_PATH).
	Name = "inty"
	// Description is a one-line summary shown in help output.
	Description = "Interpreter for a small integer scripting language"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
