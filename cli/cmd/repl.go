package cmd

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/inty/cli/cmd/repl"
	"github.com/ardnew/inty/lang"
	"github.com/ardnew/inty/log"
)

// Repl starts an interactive session.
type Repl struct {
	Load    []string `help:"Scripts to evaluate before the first prompt." placeholder:"SCRIPT" short:"l"`
	History string   `default:"${cache}/history"                           help:"History file; empty disables persistence."`
	Plain   bool     `help:"Use the line-oriented interface even on a terminal."`
	Color   bool     `default:"${color}"                                   help:"Colorize prompts and results."              negatable:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	opts := optionsFrom(ctx)
	session := lang.NewSession(opts...)

	if len(r.Load) > 0 {
		srcs, err := openSources(ctx, r.Load)
		if err != nil {
			return err
		}

		defer func() { _ = srcs.Close() }()

		for _, src := range srcs {
			attr := slog.String("source", src.name)

			if _, err := session.RunReader(ctx, src); err != nil {
				return lang.WrapError(err).With(attr)
			}

			log.DebugContext(ctx, "repl loaded script", attr)
		}
	}

	history := r.History
	if history != "" {
		history = kong.ExpandPath(history)
	}

	streams := streamsFrom(ctx)

	return repl.Run(ctx, session,
		repl.WithStreams(streams.In, streams.Out, streams.Err),
		repl.WithHistory(history),
		repl.WithPlain(r.Plain),
		repl.WithColor(r.Color),
		repl.WithLangOptions(opts...),
	)
}
