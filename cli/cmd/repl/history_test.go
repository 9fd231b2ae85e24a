package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_AddAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	for _, add := range []struct {
		line string
		mode inputMode
	}{
		{"let a = 1;", modeEval},
		{"env", modeCtrl},
		{"a +\n2", modeEval},
		{"   ", modeEval},
		{"env", modeCtrl},
	} {
		if err := h.Add(add.line, add.mode); err != nil {
			t.Fatalf("Add(%q): %v", add.line, err)
		}
	}

	want := []HistoryEntry{
		{Line: "let a = 1;", Mode: modeEval},
		{Line: "a + 2", Mode: modeEval},
		{Line: "env", Mode: modeCtrl},
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load(): %v", err)
	}

	for _, hist := range []*History{h, reloaded} {
		if hist.Len() != len(want) {
			t.Fatalf("Len() = %d, want %d", hist.Len(), len(want))
		}

		for i, w := range want {
			got, err := hist.Entry(i)
			if err != nil || got != w {
				t.Errorf("Entry(%d) = %+v, %v; want %+v", i, got, err, w)
			}
		}
	}

	if got := reloaded.Lines(modeEval); !slices.Equal(got, []string{"let a = 1;", "a + 2"}) {
		t.Errorf("Lines(eval) = %q", got)
	}
}

func TestHistory_Entry_OutOfBounds(t *testing.T) {
	h := NewHistory("")

	for _, i := range []int{-1, 0, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}

func TestHistory_MemoryOnly(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("1 + 1", modeEval); err != nil {
		t.Fatalf("Add(): %v", err)
	}

	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestHistory_UnprefixedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("1 + 2\nC:reset\n\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load(): %v", err)
	}

	want := []HistoryEntry{{"1 + 2", modeEval}, {"reset", modeCtrl}}
	for i, w := range want {
		if got, _ := h.Entry(i); got != w {
			t.Errorf("Entry(%d) = %+v, want %+v", i, got, w)
		}
	}
}
