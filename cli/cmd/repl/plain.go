package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/peterh/liner"

	"github.com/ardnew/inty/lang"
	"github.com/ardnew/inty/log"
)

const plainHint = "prefix commands with ':'"

// lineReader reads one line of input per prompt. It returns [io.EOF] when
// input ends.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// newLineReader returns a liner-backed reader for the process's standard
// input, seeded with the evaluation history, and a plain scanner for any
// other stream.
func newLineReader(c config, history *History) lineReader {
	if f, ok := c.in.(*os.File); !ok || f != os.Stdin {
		return &scanReader{scan: bufio.NewScanner(c.in)}
	}

	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)

	if lines := history.Lines(modeEval); len(lines) > 0 {
		_, _ = ln.ReadHistory(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	}

	return ln
}

// scanReader reads lines without prompting.
type scanReader struct {
	scan *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if r.scan.Scan() {
		return r.scan.Text(), nil
	}

	if err := r.scan.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

func (*scanReader) AppendHistory(string) {}

func (*scanReader) Close() error { return nil }

// runPlain is the line-oriented front-end. Lines beginning with ':' are
// control commands; everything else is evaluated once it forms complete
// statements.
func runPlain(
	ctx context.Context,
	session *lang.Session,
	history *History,
	c config,
	lr lineReader,
) error {
	defer lr.Close()

	style := newStyles(c.out, c.color)

	for ctx.Err() == nil {
		source, err := readStatement(ctx, lr)

		switch {
		case errors.Is(err, io.EOF):
			return nil

		case errors.Is(err, liner.ErrPromptAborted):
			continue

		case err != nil:
			return err
		}

		line := strings.TrimSpace(source)
		if line == "" {
			continue
		}

		if input, ok := strings.CutPrefix(line, ":"); ok {
			next, quit := plainCommand(ctx, session, history, c, style, input)
			if quit {
				return nil
			}

			session = next

			continue
		}

		lr.AppendHistory(strings.ReplaceAll(source, "\n", " "))

		if err := history.Add(source, modeEval); err != nil {
			log.DebugContext(ctx, "history write failed", slog.Any("error", err))
		}

		lines, err := evaluate(ctx, session, source)
		if err != nil {
			fmt.Fprintln(c.err, style.err.Render("error: "+err.Error()))

			continue
		}

		for _, l := range lines {
			fmt.Fprintln(c.out, style.result.Render(l))
		}
	}

	return nil
}

// plainCommand runs a control command and returns the session to continue
// with and whether the loop should end.
func plainCommand(
	ctx context.Context,
	session *lang.Session,
	history *History,
	c config,
	style styles,
	input string,
) (*lang.Session, bool) {
	if err := history.Add(input, modeCtrl); err != nil {
		log.DebugContext(ctx, "history write failed", slog.Any("error", err))
	}

	out, action, err := control(session, input, plainHint)
	if err != nil {
		fmt.Fprintln(c.err, style.err.Render(err.Error()))

		return session, false
	}

	switch action {
	case actionQuit:
		return session, true

	case actionClear:
		termenv.NewOutput(c.out).ClearScreen()

	case actionEdit:
		cmd := &editCommand{
			ctx:     ctx,
			session: session,
			opts:    c.opts,
			stdin:   c.in,
			stdout:  c.out,
			stderr:  c.err,
		}

		switch err := cmd.Run(); {
		case errors.Is(err, ErrEditDeclined), err == nil && cmd.result == nil:
			fmt.Fprintln(c.out, style.hint.Render("edit cancelled"))

		case err != nil:
			fmt.Fprintln(c.err, style.err.Render("error: "+err.Error()))

		default:
			fmt.Fprintln(c.out, style.result.Render(
				fmt.Sprintf("bindings replaced (%d)", len(cmd.result.Names())),
			))

			return cmd.result, false
		}
	}

	if out != "" {
		fmt.Fprintln(c.out, style.hint.Render(out))
	}

	return session, false
}

// readStatement reads lines until they form complete statements or a line
// begins a control command. Input that ends mid-statement is returned as
// is so the evaluator reports it.
func readStatement(ctx context.Context, lr lineReader) (string, error) {
	var b strings.Builder

	for {
		prompt := evalPrompt
		if b.Len() > 0 {
			prompt = contPrompt
		}

		line, err := lr.Prompt(prompt)
		if errors.Is(err, io.EOF) && b.Len() > 0 {
			return b.String(), nil
		}

		if err != nil {
			return "", err
		}

		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, nil
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(line)

		if !incomplete(ctx, b.String()) {
			return b.String(), nil
		}
	}
}
