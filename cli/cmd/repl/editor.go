package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/ardnew/inty/lang"
	"github.com/ardnew/inty/log"
)

const defaultEditor = "vi"

// editor returns the command line of the user's editor.
func editor() []string {
	cmd := strings.Fields(env.Str("VISUAL", env.Str("EDITOR", defaultEditor)))
	if len(cmd) == 0 {
		return []string{defaultEditor}
	}

	return cmd
}

// editCommand implements [tea.ExecCommand] for the edit-evaluate-retry loop.
//
// The session's bindings are written as let statements to a temporary file
// and opened in the user's editor. The edited file is evaluated in a fresh
// session; on success that session replaces the current one. On failure the
// user is asked to edit again, and declining returns [ErrEditDeclined].
type editCommand struct {
	ctx     context.Context
	session *lang.Session
	opts    []lang.Option
	result  *lang.Session // nil when the edit was cancelled
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop.
func (c *editCommand) Run() error {
	f, err := os.CreateTemp("", "inty-edit-*.inty")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	_, err = f.WriteString(bindingSource(c.session))
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	input := bufio.NewScanner(c.stdin)

	for {
		if err := runEditor(c.ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		next := lang.NewSession(c.opts...)

		_, err = next.Run(c.ctx, string(data))

		log.TraceContext(c.ctx, "edit evaluated",
			slog.Int("length", len(data)),
			slog.Bool("ok", err == nil),
		)

		if err == nil {
			c.result = next

			return nil
		}

		fmt.Fprintf(c.stderr, "\nerror: %s\n", err)
		fmt.Fprint(c.stdout, "Edit again? [Y/n] ")

		if !input.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(input.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor opens path in the user's editor and waits for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	argv := append(editor(), path)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
