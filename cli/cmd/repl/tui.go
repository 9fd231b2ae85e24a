package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/inty/lang"
	"github.com/ardnew/inty/log"
)

const (
	defaultWidth = 80
	charLimit    = 4096
	ctrlHint     = "press Esc to toggle mode"
)

// editDoneMsg is sent when an edit produced a new session.
type editDoneMsg struct{ session *lang.Session }

// editCancelledMsg is sent when the user emptied the file or declined to
// edit again after an error.
type editCancelledMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

// model is the Bubble Tea model of the interactive front-end.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *lang.Session
	opts         []lang.Option
	history      *History
	style        styles
	matches      fuzzy.Matches // current fuzzy match results
	pending      []string      // lines of an unfinished statement
	evalText     string
	ctrlText     string
	preTabText   string // input text before tab-cycling began
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int
	evalCursor   int
	ctrlCursor   int
	width        int
	mode         inputMode
	tabActive    bool // whether user is tab-cycling
	quitting     bool
}

func newModel(ctx context.Context, session *lang.Session, history *History, c config) model {
	style := newStyles(c.out, c.color)

	ti := textinput.New()
	ti.Prompt = style.prompt.Render(evalPrompt)
	ti.TextStyle = style.input
	ti.Focus()
	ti.CharLimit = charLimit
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		opts:       c.opts,
		history:    history,
		style:      style,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(evalPrompt)-2, 1)

		return m, nil

	case editDoneMsg:
		m.session = msg.session

		return m, tea.Println(m.style.result.Render(
			"bindings replaced (" + strconv.Itoa(len(m.session.Names())) + ")",
		))

	case editCancelledMsg:
		return m, tea.Println(m.style.hint.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(m.style.err.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(m.style.hint.Render(
			fmt.Sprintf("history %d/%d", m.historyIdx+1, m.history.Len()),
		))

	case len(m.pending) > 0 && strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(m.style.hint.Render(
			"continuing statement; Ctrl+C discards it",
		))

	case strings.TrimSpace(m.input.Value()) == "":
		hint := "Type a statement or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(m.style.hint.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(m.style.renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.pending = nil
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m = m.withPrompt()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Editing and cursor keys never auto-complete.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the selected completion candidate by step, starting a tab
// cycle if none is active. A sole candidate is accepted immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word with replacement and moves
// the cursor to its end.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)
	m.wordEnd = cursor
}

// refreshMatches recomputes the matches for the current input. With
// autoConfirm, a word that already equals its only candidate is accepted so
// the bar disappears once the user finishes typing it.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	line := m.input.Value()

	m.input.SetValue("")
	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.matches = nil

	if m.mode == modeCtrl {
		return m.executeCommand(strings.TrimSpace(line))
	}

	echo := tea.Println(m.style.prompt.Render(m.promptText()) + m.style.input.Render(line))
	source := strings.Join(append(m.pending, line), "\n")

	if strings.TrimSpace(source) == "" {
		m.pending = nil

		return m.withPrompt(), nil
	}

	ctx := m.ctxFunc()

	if incomplete(ctx, source) {
		m.pending = append(m.pending, line)

		return m.withPrompt(), echo
	}

	m.pending = nil
	m = m.withPrompt()

	if err := m.history.Add(source, modeEval); err != nil {
		log.DebugContext(ctx, "history write failed", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	lines, err := evaluate(ctx, m.session, source)
	if err != nil {
		log.DebugContext(ctx, "repl eval failed", slog.Any("error", err))

		return m, tea.Sequence(echo, tea.Println(m.style.err.Render("error: "+err.Error())))
	}

	cmds := []tea.Cmd{echo}
	for _, l := range lines {
		cmds = append(cmds, tea.Println(m.style.result.Render(l)))
	}

	return m, tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	if input == "" {
		return m, nil
	}

	ctx := m.ctxFunc()

	if err := m.history.Add(input, modeCtrl); err != nil {
		log.DebugContext(ctx, "history write failed", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(m.style.ctrlPrompt.Render(ctrlPrompt) + m.style.input.Render(input))

	out, action, err := control(m.session, input, ctrlHint)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(m.style.err.Render(err.Error())))
	}

	switch action {
	case actionQuit:
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case actionClear:
		return m, tea.ClearScreen

	case actionEdit:
		return m, tea.Sequence(echo, m.edit(ctx))
	}

	if out == "" {
		return m, echo
	}

	return m, tea.Sequence(echo, tea.Println(m.style.hint.Render(out)))
}

func (m model) edit(ctx context.Context) tea.Cmd {
	cmd := &editCommand{ctx: ctx, session: m.session, opts: m.opts}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editCancelledMsg{}

		case err != nil:
			return editErrorMsg{err: err}

		case cmd.result == nil:
			return editCancelledMsg{}

		default:
			return editDoneMsg{session: cmd.result}
		}
	})
}

// historyStep moves through history by step. With inMode, entries of the
// other mode are skipped; otherwise the mode follows the entry.
func (m model) historyStep(step int, inMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil || (inMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches input modes, keeping each mode's unsent text.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m.tabActive = false

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	m = m.withPrompt()
	refreshMatches(&m, false)

	return m
}

func (m model) promptText() string {
	switch {
	case m.mode == modeCtrl:
		return ctrlPrompt
	case len(m.pending) > 0:
		return contPrompt
	default:
		return evalPrompt
	}
}

func (m model) withPrompt() model {
	style := m.style.prompt
	if m.mode == modeCtrl {
		style = m.style.ctrlPrompt
	}

	m.input.Prompt = style.Render(m.promptText())

	return m
}
