package lang

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/inty/log"
)

func TestSession_Persistence(t *testing.T) {
	s := NewSession(WithCache(false))

	steps := []struct {
		source string
		want   string
	}{
		{"let x = 5", ""},
		{"let y = x * 2", ""},
		{"x + y", "15"},
		{"let x = [x, y]; x", "[5, 10]"},
		{"{ let x = 0; x }", "0"},
		{"x", "[5, 10]"},
	}

	for _, step := range steps {
		results, err := s.Run(t.Context(), step.source)
		if err != nil {
			t.Fatalf("Run(%q) error = %v", step.source, err)
		}

		var buf strings.Builder
		if err := FormatValues(&buf, results); err != nil {
			t.Fatal(err)
		}

		if got := strings.TrimSpace(buf.String()); got != step.want {
			t.Errorf("Run(%q) = %q, want %q", step.source, got, step.want)
		}
	}

	if got, want := s.Names(), []string{"x", "y"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	if v, ok := s.Lookup("y"); !ok || !v.Equal(Int(10)) {
		t.Errorf("Lookup(y) = %v, %v", v, ok)
	}
}

func TestSession_ErrorKeepsEarlierBindings(t *testing.T) {
	s := NewSession()

	_, err := s.Run(t.Context(), "let a = 1; let b = a / 0; let c = 3")
	if !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("Run() error = %v, want ErrDivideByZero", err)
	}

	if _, ok := s.Lookup("a"); !ok {
		t.Error("binding made before the failure was lost")
	}

	for _, name := range []string{"b", "c"} {
		if _, ok := s.Lookup(name); ok {
			t.Errorf("binding %q made at or after the failure", name)
		}
	}

	// A syntax error binds nothing.
	if _, err := s.Run(t.Context(), "let d = 1; let = 2"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("Run() error = %v, want ErrSyntax", err)
	}

	if _, ok := s.Lookup("d"); ok {
		t.Error("statement of an unparsable source was evaluated")
	}
}

func TestSession_Reset(t *testing.T) {
	s := NewSession()

	if _, err := s.Run(t.Context(), "let gone = true"); err != nil {
		t.Fatal(err)
	}

	s.Reset()

	if len(s.Names()) != 0 {
		t.Errorf("Names() after Reset = %v", s.Names())
	}

	if _, err := s.Run(t.Context(), "gone"); !errors.Is(err, ErrUnknownIdentifier) {
		t.Errorf("Run(gone) error = %v, want ErrUnknownIdentifier", err)
	}
}

func TestSession_RunReader(t *testing.T) {
	s := NewSession()

	results, err := s.RunReader(t.Context(), strings.NewReader("let n = 3;\nn ^ 2\n"))
	if err != nil {
		t.Fatalf("RunReader() error = %v", err)
	}

	if len(results) != 2 || results[0] != nil || !results[1].Equal(Int(9)) {
		t.Errorf("RunReader() = %v", NativeValues(results))
	}

	if _, err := s.RunReader(t.Context(), failingReader{}); !errors.Is(err, ErrReadInput) {
		t.Errorf("RunReader(failing) error = %v, want ErrReadInput", err)
	}
}

func TestSession_Concurrent(t *testing.T) {
	s := NewSession()

	const workers = 8

	var wg sync.WaitGroup

	for i := range workers {
		wg.Go(func() {
			source := fmt.Sprintf("let v%d = %d; v%d * 2", i, i, i)

			results, err := s.Run(t.Context(), source)
			if err != nil {
				t.Errorf("Run(%q) error = %v", source, err)

				return
			}

			if got := results[len(results)-1]; !got.Equal(Int(int32(i * 2))) {
				t.Errorf("Run(%q) = %v", source, got)
			}
		})
	}

	wg.Wait()

	if got := len(s.Names()); got != workers {
		t.Errorf("len(Names()) = %d, want %d", got, workers)
	}
}

func TestSession_Trace(t *testing.T) {
	var buf strings.Builder

	logger := log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	)

	s := NewSession(WithLogger(logger), WithCache(false))
	if _, err := s.Run(t.Context(), "let x = 2; x"); err != nil {
		t.Fatal(err)
	}

	out := buf.String()

	for _, want := range []string{
		"msg=bind name=x value.kind=Integer value.value=2 rebound=false",
		`msg="session run" statement_count=2 binding_count=1 ok=true`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("trace output missing %q:\n%s", want, out)
		}
	}
}
