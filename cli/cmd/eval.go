package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/inty/lang"
)

// Eval evaluates source given on the command line. Multiple arguments are
// joined with spaces, so quoting is needed only for shell metacharacters.
type Eval struct {
	Source []string `arg:"" help:"Source text to evaluate." name:"source"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) error {
	source := strings.Join(e.Source, " ")

	results, err := lang.NewSession(optionsFrom(ctx)...).Run(ctx, source)
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "eval"))
	}

	if err := lang.FormatValues(streamsFrom(ctx).Out, results); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
