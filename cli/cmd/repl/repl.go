// Package repl implements the interactive read-eval-print loop.
//
// On a terminal the loop runs as a full-screen-free Bubble Tea program with
// fuzzy completion of keywords, bound names, and control commands. When
// input or output is redirected, or when plain mode is requested, a
// line-oriented loop reads statements instead. Both front-ends share one
// persistent history and evaluate into the same [lang.Session].
package repl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/inty/lang"
	"github.com/ardnew/inty/log"
)

type config struct {
	in      io.Reader
	out     io.Writer
	err     io.Writer
	history string
	opts    []lang.Option
	color   bool
	plain   bool
}

// Option configures [Run].
type Option func(config) config

// WithStreams sets the input, output, and error streams. Nil streams keep
// their defaults.
func WithStreams(in io.Reader, out, err io.Writer) Option {
	return func(c config) config {
		if in != nil {
			c.in = in
		}

		if out != nil {
			c.out = out
		}

		if err != nil {
			c.err = err
		}

		return c
	}
}

// WithHistory sets the history file. An empty path keeps history in memory.
func WithHistory(path string) Option {
	return func(c config) config {
		c.history = path

		return c
	}
}

// WithColor enables or disables colored output.
func WithColor(enable bool) Option {
	return func(c config) config {
		c.color = enable

		return c
	}
}

// WithPlain forces the line-oriented front-end even on a terminal.
func WithPlain(enable bool) Option {
	return func(c config) config {
		c.plain = enable

		return c
	}
}

// WithLangOptions sets the options used for sessions created by the edit
// command.
func WithLangOptions(opts ...lang.Option) Option {
	return func(c config) config {
		c.opts = opts

		return c
	}
}

// Run starts the REPL on session and returns when the user quits, input
// ends, or ctx is cancelled.
func Run(ctx context.Context, session *lang.Session, opts ...Option) error {
	c := config{in: os.Stdin, out: os.Stdout, err: os.Stderr, color: true}
	for _, opt := range opts {
		c = opt(c)
	}

	history := NewHistory(c.history)
	if err := history.Load(); err != nil {
		log.WarnContext(ctx, "history unavailable",
			slog.String("path", c.history),
			slog.Any("error", err),
		)
	}

	interactive := !c.plain && isTerminal(c.in) && isTerminal(c.out)

	log.DebugContext(ctx, "repl start",
		slog.Bool("interactive", interactive),
		slog.Int("history", history.Len()),
	)

	if !interactive {
		return runPlain(ctx, session, history, c, newLineReader(c, history))
	}

	p := tea.NewProgram(
		newModel(ctx, session, history, c),
		tea.WithContext(ctx),
		tea.WithInput(c.in),
		tea.WithOutput(c.out),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
