package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/xyproto/env/v2"

	"github.com/ardnew/inty/cli/cmd"
	"github.com/ardnew/inty/log"
	"github.com/ardnew/inty/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// dirMode is the permission mode of created directories.
const dirMode os.FileMode = 0o700

// CLI is the top-level command-line interface for inty.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Lang  langConfig  `embed:"" group:"lang"`

	Run     cmd.Run     `cmd:"" default:"withargs" help:"Run scripts in one session"`
	Eval    cmd.Eval    `cmd:""                    help:"Evaluate source given as arguments"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Print the syntax tree of a script"`
	Init    cmd.Init    `cmd:""                    help:"Write the configuration file"`
	Version cmd.Version `cmd:""                    help:"Print version information"`
}

// Run executes the inty CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, exit, cmd.Streams{}, args...)
}

func run(
	ctx context.Context,
	exit func(code int),
	streams cmd.Streams,
	args ...string,
) error {
	var cli CLI

	if err := mkdirAll(pkg.ConfigDir(), pkg.CacheDir()); err != nil {
		return err
	}

	configBase := filepath.Join(pkg.ConfigDir(), baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configBase + ".yaml",
		cmd.CacheIdentifier:  pkg.CacheDir(),
		cmd.ColorIdentifier:  strconv.FormatBool(env.Str("NO_COLOR") == ""),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Lang.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before kong so parse errors are logged the way
	// the user asked, whatever the flag position.
	cli.Log.scan(args)

	options := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Lang.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configBase+".json"),
		kong.Configuration(loadYAML(ctx), configBase+".yaml"),
		kong.Configuration(loadScript(ctx), configBase+pkg.ScriptExt),
		vars,
	}

	if streams.Out != nil {
		options = append(options, kong.Writers(streams.Out, streams.Err))
	}

	parser, err := kong.New(&cli, options...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, cli.Lang.options()...)
	ctx = cmd.WithStreams(ctx, streams)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	log.TraceContext(ctx, "command selected", slog.String("command", ktx.Command()))

	return ktx.Run(ctx, &cli)
}

// mkdirAll creates each of dirs.
func mkdirAll(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return err
		}
	}

	return nil
}
