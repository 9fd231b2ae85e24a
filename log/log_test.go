package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMake_Defaults(t *testing.T) {
	l := Make(nil)

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", l.Level(), DefaultLevel)
	}

	if l.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", l.Format(), DefaultFormat)
	}

	// A nil writer discards.
	l.Error("nowhere")
}

func TestLogger_Zero(t *testing.T) {
	var l Logger

	l.Info("ignored")
	l.ErrorContext(t.Context(), "ignored")

	if got := l.With(slog.Int("n", 1)); got.Logger != nil {
		t.Error("With on zero Logger returned a live logger")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("zero Logger reports %v/%v", l.Level(), l.Format())
	}

	if w := l.Wrap(WithLevel(LevelError)); w.Logger == nil || w.Level() != LevelError {
		t.Error("Wrap on zero Logger did not build a logger")
	}
}

func TestLogger_Methods(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelTrace), WithPretty(false), WithTimeLayout("none"))

	calls := []struct {
		level string
		fn    func()
	}{
		{"TRACE", func() { l.Trace("m") }},
		{"TRACE", func() { l.TraceContext(t.Context(), "m") }},
		{"DEBUG", func() { l.Debug("m") }},
		{"DEBUG", func() { l.DebugContext(t.Context(), "m") }},
		{"INFO", func() { l.Info("m") }},
		{"INFO", func() { l.InfoContext(t.Context(), "m") }},
		{"WARN", func() { l.Warn("m") }},
		{"WARN", func() { l.WarnContext(t.Context(), "m") }},
		{"ERROR", func() { l.Error("m") }},
		{"ERROR", func() { l.ErrorContext(t.Context(), "m") }},
	}

	for _, c := range calls {
		buf.Reset()
		c.fn()

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("record %q: %v", buf.String(), err)
		}

		if rec["level"] != c.level || rec["msg"] != "m" {
			t.Errorf("record = %v, want level %s", rec, c.level)
		}

		if _, ok := rec["time"]; ok {
			t.Errorf("record has time with layout none: %v", rec)
		}
	}
}

func TestLogger_WrapAndWith(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithFormat(FormatText), WithPretty(false), WithTimeLayout(""))
	tagged := base.With(slog.String("session", "repl"))
	quiet := base.Wrap(WithLevel(LevelError))

	tagged.Info("one")
	quiet.Warn("two")
	quiet.Error("three")
	base.Info("four")

	want := "level=INFO msg=one session=repl\n" +
		"level=ERROR msg=three\n" +
		"level=INFO msg=four\n"

	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	if base.Level() != DefaultLevel {
		t.Errorf("Wrap changed the receiver level to %v", base.Level())
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithCaller(true), WithPretty(false), WithTimeLayout("none"))

	l.Info("here")

	var rec struct {
		Source struct {
			File string `json:"file"`
		} `json:"source"`
	}

	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}

	if got := filepath.Base(rec.Source.File); got != "log_test.go" {
		t.Errorf("source file = %q, want log_test.go", got)
	}

	buf.Reset()
	swapDefault(t, l)

	Warn("there")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("package function recorded %q", buf.String())
	}
}

func TestWithTimeLayout(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RFC3339", time.RFC3339},
		{"rfc-3339-nano", time.RFC3339Nano},
		{"Kitchen", time.Kitchen},
		{"ms", time.StampMilli},
		{"none", ""},
		{"", ""},
		{"--", ""},
		{"2006/01/02", "2006/01/02"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var s settings

			WithTimeLayout(tt.in)(&s)

			if s.layout != tt.want {
				t.Errorf("layout = %q, want %q", s.layout, tt.want)
			}
		})
	}
}

func TestReplaceAttr_Time(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithPretty(false), WithTimeLayout("2006"))
	l.Info("dated")

	year := time.Now().Format("2006")
	if got := buf.String(); !strings.HasPrefix(got, "time="+year+" ") {
		t.Errorf("output = %q, want time=%s prefix", got, year)
	}
}
