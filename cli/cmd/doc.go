// Package cmd implements the inty subcommands: run, eval, repl, fmt, init
// and version.
//
// Commands receive their dependencies through the [context.Context] that
// [github.com/ardnew/inty/cli] builds: the parsed [kong.Context] and the
// interpreter [lang.Option] values selected by global flags.
package cmd

var (
	// CacheIdentifier is the kong variable holding the path of the runtime
	// cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the YAML
	// configuration file.
	ConfigIdentifier = "config"

	// ColorIdentifier is the kong variable holding the default of color
	// flags. It is false when NO_COLOR is set.
	ColorIdentifier = "color"
)
