package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/inty/lang"
	"github.com/ardnew/inty/log"
)

// debugIndent is the YAML indent used for --debug syntax tree dumps.
const debugIndent = 2

// Run evaluates scripts in order within one session, so later scripts see
// the top-level bindings of earlier ones.
type Run struct {
	Debug bool `help:"Print tokens and the syntax tree of each script to stderr." short:"d"`

	Scripts []string `arg:"" help:"Script files, names found on $INTY_PATH, or '-' for stdin." name:"script" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := openSources(ctx, r.Scripts)
	if err != nil {
		return err
	}

	defer func() { _ = srcs.Close() }()

	session := lang.NewSession(optionsFrom(ctx)...)

	for _, src := range srcs {
		if err := r.runSource(ctx, session, src); err != nil {
			return err
		}
	}

	return nil
}

func (r *Run) runSource(ctx context.Context, session *lang.Session, src source) error {
	streams := streamsFrom(ctx)
	attr := slog.String("source", src.name)

	text, err := lang.ReadSource(src)
	if err != nil {
		return ErrReadSource.With(attr).Wrap(err)
	}

	log.DebugContext(ctx, "run script", attr, slog.Int("length", len(text)))

	if r.Debug {
		tokens, err := lang.Tokenize(text)
		if err != nil {
			return lang.WrapError(err).With(attr)
		}

		if err := lang.FormatTokens(streams.Err, tokens); err != nil {
			return ErrWriteOutput.With(attr).Wrap(err)
		}
	}

	prog, err := lang.ParseString(ctx, text, optionsFrom(ctx)...)
	if err != nil {
		return lang.WrapError(err).With(attr)
	}

	if r.Debug {
		if err := prog.FormatYAML(ctx, streams.Err, debugIndent); err != nil {
			return ErrWriteOutput.With(attr).Wrap(err)
		}
	}

	results, err := session.Exec(ctx, prog)
	if err != nil {
		return lang.WrapError(err).With(attr)
	}

	if err := lang.FormatValues(streams.Out, results); err != nil {
		return ErrWriteOutput.With(attr).Wrap(err)
	}

	return nil
}
