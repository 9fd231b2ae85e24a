package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/inty/lang"
)

// Fmt parses a script and writes it back in the chosen representation.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical inty source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Print the syntax tree as an indented outline."`
	Tokens Tokens `cmd:""                    help:"Print the token stream."`
}

// Input is the script operand shared by every fmt subcommand.
type Input struct {
	Source string `arg:"" default:"-" help:"Script file, name found on $INTY_PATH, or '-' for stdin." name:"source"`
}

func (f Input) read(ctx context.Context) (string, error) {
	srcs, err := openSources(ctx, []string{f.Source})
	if err != nil {
		return "", err
	}

	defer func() { _ = srcs.Close() }()

	// A single name always yields exactly one source.
	text, err := lang.ReadSource(srcs[0])
	if err != nil {
		return "", ErrReadSource.With(slog.String("source", f.Source)).Wrap(err)
	}

	return text, nil
}

func (f Input) parse(ctx context.Context, format string) (lang.Program, error) {
	text, err := f.read(ctx)
	if err != nil {
		return nil, err
	}

	prog, err := lang.ParseString(ctx, text, optionsFrom(ctx)...)
	if err != nil {
		return nil, lang.WrapError(err).With(
			slog.String("source", f.Source),
			slog.String("format", format),
		)
	}

	return prog, nil
}

// Native writes the canonical source form.
type Native struct {
	Indent int `default:"0" help:"Indent width for blocks; 0 keeps blocks on one line." short:"i"`

	Input `embed:""`
}

// Run executes the native format command.
func (n *Native) Run(ctx context.Context) error {
	prog, err := n.parse(ctx, "native")
	if err != nil {
		return err
	}

	return writeErr(prog.Format(ctx, streamsFrom(ctx).Out, n.Indent))
}

// JSON writes the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width; 0 writes compact JSON." short:"i"`

	Input `embed:""`
}

// Run executes the json format command.
func (j *JSON) Run(ctx context.Context) error {
	prog, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	return writeErr(prog.FormatJSON(ctx, streamsFrom(ctx).Out, j.Indent))
}

// YAML writes the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width; 0 writes flow-style YAML." short:"i"`

	Input `embed:""`
}

// Run executes the yaml format command.
func (y *YAML) Run(ctx context.Context) error {
	prog, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	return writeErr(prog.FormatYAML(ctx, streamsFrom(ctx).Out, y.Indent))
}

// AST prints the syntax tree as an indented outline.
type AST struct {
	Input `embed:""`
}

// Run executes the ast format command.
func (a *AST) Run(ctx context.Context) error {
	prog, err := a.parse(ctx, "ast")
	if err != nil {
		return err
	}

	return writeErr(prog.Print(ctx, streamsFrom(ctx).Out))
}

// Tokens prints the token stream separated by spaces.
type Tokens struct {
	Input `embed:""`
}

// Run executes the tokens format command.
func (t *Tokens) Run(ctx context.Context) error {
	text, err := t.read(ctx)
	if err != nil {
		return err
	}

	tokens, err := lang.Tokenize(text)
	if err != nil {
		return lang.WrapError(err).With(slog.String("source", t.Source))
	}

	return writeErr(lang.FormatTokens(streamsFrom(ctx).Out, tokens))
}

func writeErr(err error) error {
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
