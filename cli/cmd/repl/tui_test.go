package repl

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/inty/lang"
)

func newTestModel(t *testing.T) model {
	t.Helper()

	c := config{out: new(strings.Builder)}

	return newModel(t.Context(), lang.NewSession(), NewHistory(""), c)
}

func typeText(m model, s string) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return m
}

func press(m model, k tea.KeyType) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: k})

	return m
}

func TestModel_Continuation(t *testing.T) {
	m := typeText(newTestModel(t), "let x = [1,")
	m = press(m, tea.KeyEnter)

	if len(m.pending) != 1 || m.promptText() != contPrompt {
		t.Fatalf("pending = %q, prompt = %q; want continuation", m.pending, m.promptText())
	}

	m = typeText(m, "2];")
	m = press(m, tea.KeyEnter)

	if len(m.pending) != 0 || m.promptText() != evalPrompt {
		t.Fatalf("pending = %q after complete statement", m.pending)
	}

	if v, ok := m.session.Lookup("x"); !ok || v.String() != "[1, 2]" {
		t.Errorf("x = %v, %v; want [1, 2]", v, ok)
	}

	entry, err := m.history.Entry(0)
	if err != nil || entry.Line != "let x = [1, 2];" || entry.Mode != modeEval {
		t.Errorf("history[0] = %+v, %v", entry, err)
	}
}

func TestModel_CtrlCDiscardsPending(t *testing.T) {
	m := typeText(newTestModel(t), "1 +")
	m = press(m, tea.KeyEnter)
	m = press(m, tea.KeyCtrlC)

	if len(m.pending) != 0 || m.quitting {
		t.Fatalf("pending = %q, quitting = %v", m.pending, m.quitting)
	}

	m = press(m, tea.KeyCtrlC)
	if !m.quitting {
		t.Error("second Ctrl+C on empty input should quit")
	}
}

func TestModel_ModeToggleKeepsText(t *testing.T) {
	m := typeText(newTestModel(t), "1 + ")
	m = press(m, tea.KeyEsc)

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("mode = %v, input = %q after Esc", m.mode, m.input.Value())
	}

	m = typeText(m, "he")
	m = press(m, tea.KeyEsc)

	if m.mode != modeEval || m.input.Value() != "1 + " {
		t.Errorf("mode = %v, input = %q; want eval text restored", m.mode, m.input.Value())
	}

	m = press(m, tea.KeyEsc)
	if m.input.Value() != "he" {
		t.Errorf("control text = %q, want %q", m.input.Value(), "he")
	}
}

func TestModel_TabCompletes(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.session.Run(t.Context(), "let total = 5;"); err != nil {
		t.Fatal(err)
	}

	m = typeText(m, "tota")
	m = press(m, tea.KeyTab)

	if got := m.input.Value(); got != "total" {
		t.Errorf("input after Tab = %q, want %q", got, "total")
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := newTestModel(t)

	for _, line := range []string{"1", "2"} {
		m = typeText(m, line)
		m = press(m, tea.KeyEnter)
	}

	m = press(m, tea.KeyEsc)
	m = typeText(m, "env")
	m = press(m, tea.KeyEnter)
	m = press(m, tea.KeyEsc)

	m = press(m, tea.KeyShiftUp)
	if m.input.Value() != "2" || m.mode != modeEval {
		t.Fatalf("Shift+Up = %q in mode %v, want eval entry", m.input.Value(), m.mode)
	}

	m = press(m, tea.KeyDown)
	if m.input.Value() != "env" || m.mode != modeCtrl {
		t.Errorf("Down = %q in mode %v, want control entry", m.input.Value(), m.mode)
	}

	m = press(m, tea.KeyDown)
	if m.input.Value() != "" {
		t.Errorf("Down past end = %q, want empty", m.input.Value())
	}
}

func TestModel_Quit(t *testing.T) {
	m := press(newTestModel(t), tea.KeyEsc)
	m = typeText(m, "quit")
	m = press(m, tea.KeyEnter)

	if !m.quitting || m.View() != "" {
		t.Errorf("quitting = %v, view = %q", m.quitting, m.View())
	}
}
