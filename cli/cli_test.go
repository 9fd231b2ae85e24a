package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/inty/cli/cmd"
	"github.com/ardnew/inty/lang"
	"github.com/ardnew/inty/pkg"
)

// runCLI runs the CLI with stdin and returns what it wrote to stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	streams := cmd.Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut}
	exit := func(code int) { t.Logf("exit(%d): %s", code, errOut.String()) }

	err := run(t.Context(), exit, streams, args...)

	return out.String(), err
}

func TestRun_Commands(t *testing.T) {
	script := filepath.Join(t.TempDir(), "double.inty")
	if err := os.WriteFile(script, []byte("let n = 21;\nn * 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"default_stdin", "let x = 2; x * 3; [x, x == 2]", nil, "6\n[2, true]\n"},
		{"run_file", "", []string{"run", script}, "42\n"},
		{"run_default_with_file", "", []string{script}, "42\n"},
		{"run_file_then_stdin", "n + 1", []string{script, "-"}, "42\n22\n"},
		{"eval_joined", "", []string{"eval", "1", "+", "2", "*", "3"}, "7\n"},
		{"fmt_native", "let  x=1;x*(2+3)", []string{"fmt"}, "let x = 1;\nx * (2 + 3)\n"},
		{"fmt_tokens", "-x", []string{"fmt", "tokens"}, "- x\n"},
		{"version", "", []string{"version"}, pkg.Name + " " + pkg.Version + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCLI(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("run(%q): %v", tt.args, err)
			}

			if got != tt.want {
				t.Errorf("run(%q) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  error
	}{
		{"divide", "1 / 0", nil, lang.ErrDivideByZero},
		{"syntax", "", []string{"eval", "let = 1"}, lang.ErrSyntax},
		{"unknown", "", []string{"eval", "y"}, lang.ErrUnknownIdentifier},
		{"depth", "", []string{"--max-depth=2", "eval", "((((1))))"}, lang.ErrMaxDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.stdin, tt.args...)
			if err == nil {
				t.Fatal("run() succeeded")
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRun_MissingScript(t *testing.T) {
	_, err := runCLI(t, "", "run", "no-such-script")
	if !errors.Is(err, cmd.ErrOpenSource) || !pkg.IsNotFound(err) {
		t.Errorf("run(missing) error = %v, want ErrOpenSource wrapping not-found", err)
	}
}

func TestRun_InitThenConfig(t *testing.T) {
	path := filepath.Join(pkg.ConfigDir(), baseConfig+".yaml")

	t.Cleanup(func() { _ = os.Remove(path) })

	if _, err := runCLI(t, "", "--max-depth=3", "init"); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	if !strings.Contains(string(data), "max_depth: 3") {
		t.Errorf("config missing max_depth:\n%s", data)
	}

	if _, err := runCLI(t, "", "init"); !errors.Is(err, cmd.ErrFileExists) {
		t.Errorf("second init error = %v, want ErrFileExists", err)
	}

	// The written depth limit now applies without the flag.
	_, err = runCLI(t, "", "eval", "((((1))))")
	if !errors.Is(err, lang.ErrMaxDepth) {
		t.Errorf("eval with configured depth: %v, want max depth error", err)
	}

	if _, err := runCLI(t, "", "--max-depth=100", "eval", "((((1))))"); err != nil {
		t.Errorf("flag should override config: %v", err)
	}
}

func TestRun_ScriptConfig(t *testing.T) {
	path := filepath.Join(pkg.ConfigDir(), baseConfig+pkg.ScriptExt)
	if err := os.WriteFile(path, []byte("let max_depth = 1 + 1;"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = os.Remove(path) })

	if _, err := runCLI(t, "", "eval", "((((1))))"); !errors.Is(err, lang.ErrMaxDepth) {
		t.Errorf("eval with script config: %v, want max depth error", err)
	}
}

func TestRun_ReplPlain(t *testing.T) {
	const input = "let a = 5;\na *\n2\n:env\n:quit\n99\n"

	got, err := runCLI(t, input, "repl", "--history=")
	if err != nil {
		t.Fatalf("repl: %v", err)
	}

	if want := "10\na = 5\n"; got != want {
		t.Errorf("repl output = %q, want %q", got, want)
	}
}

func TestRun_ReplLoad(t *testing.T) {
	script := filepath.Join(t.TempDir(), "setup.inty")
	if err := os.WriteFile(script, []byte("let base = 40;"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := runCLI(t, "base + 2\n", "repl", "--history=", "--load", script)
	if err != nil {
		t.Fatalf("repl: %v", err)
	}

	if got != "42\n" {
		t.Errorf("repl output = %q, want %q", got, "42\n")
	}
}
