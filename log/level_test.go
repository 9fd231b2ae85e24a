package log

import (
	"log/slog"
	"slices"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", LevelDebug},
		{" Info ", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(slog.LevelInfo + 2)},
		{"debug-4", LevelTrace},
		{"verbose", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"text", FormatText},
		{"JSON", FormatJSON},
		{" text\n", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	if got, want := slices.Collect(Levels()), []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}

	if got, want := slices.Collect(Formats()), []string{"json", "text"}; !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}

	for name := range Levels() {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("ParseLevel(%q).String() = %q", name, got)
		}
	}
}

func TestLevelLabel(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelWarn, "warn"},
		{Level(slog.LevelInfo + 2), "info+2"},
		{LevelTrace - 1, "debug-5"},
	}

	for _, tt := range tests {
		if got := tt.level.label(); got != tt.want {
			t.Errorf("Level(%d).label() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}
