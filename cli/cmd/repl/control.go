package repl

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ardnew/inty/lang"
)

const (
	evalPrompt = "➜ "
	contPrompt = "… "
	ctrlPrompt = " :"
)

// inputMode selects how a submitted line is interpreted.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// ctrlCommands are the control-mode commands.
var ctrlCommands = []string{"clear", "edit", "env", "help", "quit", "reset"}

// ctrlAction is a control command effect the front-end must carry out.
type ctrlAction int

const (
	actionNone ctrlAction = iota
	actionClear
	actionEdit
	actionQuit
)

func helpMessage(ctrlHint string) string {
	return `
Commands (` + ctrlHint + `):

  help     Print this message
  env      List bindings and their values
  reset    Discard all bindings
  edit     Edit bindings in $EDITOR
  clear    Clear screen
  quit     Exit

Statements are evaluated as they are entered; top-level let bindings
persist between lines. Input that ends mid-statement continues on the
next line.
`
}

// control interprets a control command. It returns text to show the user and
// the action the front-end must carry out.
func control(session *lang.Session, input, ctrlHint string) (string, ctrlAction, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", actionNone, nil
	}

	switch fields[0] {
	case "h", "help", "?":
		return helpMessage(ctrlHint), actionNone, nil

	case "env":
		return strings.Join(bindings(session), "\n"), actionNone, nil

	case "reset":
		session.Reset()

		return "bindings cleared", actionNone, nil

	case "edit":
		return "", actionEdit, nil

	case "clear":
		return "", actionClear, nil

	case "q", "quit", "exit":
		return "", actionQuit, nil

	default:
		return "", actionNone, fmt.Errorf("unknown command: %s (try 'help')", fields[0])
	}
}

// evaluate runs source in session and returns the text of each value it
// produced.
func evaluate(ctx context.Context, session *lang.Session, source string) ([]string, error) {
	results, err := session.Run(ctx, source)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(results))

	for _, v := range results {
		if v != nil {
			lines = append(lines, v.String())
		}
	}

	return lines, nil
}

// incomplete reports whether source ends mid-statement and more input should
// be read before evaluating.
func incomplete(ctx context.Context, source string) bool {
	_, err := lang.ParseString(ctx, source, lang.WithCache(false))

	return lang.IsIncomplete(err)
}

// bindings returns "name = value" for each binding in session, sorted by
// name.
func bindings(session *lang.Session) []string {
	names := session.Names()
	lines := make([]string, 0, len(names))

	for _, name := range names {
		if v, ok := session.Lookup(name); ok {
			lines = append(lines, name+" = "+v.String())
		}
	}

	return lines
}

// bindingSource renders the session's bindings as let statements that
// recreate them.
func bindingSource(session *lang.Session) string {
	var sb strings.Builder

	for _, line := range bindings(session) {
		sb.WriteString("let ")
		sb.WriteString(line)
		sb.WriteString(";\n")
	}

	return sb.String()
}

// candidates returns the completion candidates for mode.
func candidates(session *lang.Session, mode inputMode) []string {
	if mode == modeCtrl {
		return ctrlCommands
	}

	names := append(lang.Keywords(), session.Names()...)
	slices.Sort(names)

	return slices.Compact(names)
}
