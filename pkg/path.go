package pkg

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// PathEnv names the environment variable listing directories searched for
// script files that are not found relative to the working directory.
const PathEnv = "INTY_PATH"

// ScriptExt is appended to a script name that is not found as given.
const ScriptExt = ".inty"

// Prefix returns the base name of the running executable with any extension
// removed. It names the config and cache directories.
//
// The dlv debugger's default output name "__debug_bin" maps to [Name], and
// leading dots are removed.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))
		id = regexp.MustCompile(`^__debug_bin\d*$`).ReplaceAllString(id, Name)
		id = strings.TrimLeft(id, ".")

		if id == "" {
			return Name
		}

		return id
	},
)

// ConfigDir returns the user configuration directory for [Prefix].
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the user cache directory for [Prefix]. It holds REPL
// history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// SearchPath returns the directories searched for scripts: dirs first,
// followed by each entry of $INTY_PATH. Entries that are not existing
// directories are dropped.
func SearchPath(dirs ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(list)
}

// FindScript resolves name to a readable file.
//
// A name containing a path separator, or one that exists relative to the
// working directory, is used as is. Otherwise each directory from
// [SearchPath] is tried, first with name and then with name+[ScriptExt].
func FindScript(name string) (string, error) {
	if isFile(name) || strings.ContainsRune(name, filepath.Separator) {
		return name, nil
	}

	candidates := []string{name}
	if filepath.Ext(name) != ScriptExt {
		candidates = append(candidates, name+ScriptExt)
	}

	for _, dir := range SearchPath() {
		for _, c := range candidates {
			if path := filepath.Join(dir, c); isFile(path) {
				return path, nil
			}
		}
	}

	return "", &fs.PathError{Op: "find", Path: name, Err: fs.ErrNotExist}
}

// IsNotFound reports whether err came from a failed [FindScript] search.
func IsNotFound(err error) bool { return errors.Is(err, fs.ErrNotExist) }

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
