package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testContext returns a context whose streams read stdin and write to the
// returned buffers.
func testContext(t *testing.T, stdin string) (context.Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var out, errOut bytes.Buffer

	ctx := WithStreams(t.Context(), Streams{
		In:  strings.NewReader(stdin),
		Out: &out,
		Err: &errOut,
	})

	return ctx, &out, &errOut
}

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func readAll(t *testing.T, srcs sources) []string {
	t.Helper()

	var got []string

	for _, src := range srcs {
		data, err := io.ReadAll(src)
		if err != nil {
			t.Fatalf("reading %s: %v", src.name, err)
		}

		got = append(got, string(data))
	}

	return got
}

func TestOpenSources(t *testing.T) {
	dir := t.TempDir()
	first := writeScript(t, dir, "first.inty", "1")
	second := writeScript(t, dir, "second.inty", "2")

	link := filepath.Join(dir, "link.inty")
	if err := os.Symlink(first, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{"none_is_stdin", nil, []string{"in"}},
		{"order_kept", []string{second, first}, []string{"2", "1"}},
		{"duplicates_dropped", []string{first, first, second}, []string{"1", "2"}},
		{"symlink_dropped", []string{first, link}, []string{"1"}},
		{"stdin_last", []string{"-", first, "-"}, []string{"1", "in"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, _ := testContext(t, "in")

			srcs, err := openSources(ctx, tt.names)
			if err != nil {
				t.Fatalf("openSources(): %v", err)
			}

			defer func() { _ = srcs.Close() }()

			got := readAll(t, srcs)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("openSources(%q) read %q, want %q", tt.names, got, tt.want)
			}
		})
	}
}

func TestOpenSources_SearchPath(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "lib.inty", "let lib = 1;")

	t.Setenv("INTY_PATH", dir)

	ctx, _, _ := testContext(t, "")

	srcs, err := openSources(ctx, []string{"lib"})
	if err != nil {
		t.Fatalf("openSources(lib): %v", err)
	}

	defer func() { _ = srcs.Close() }()

	if got := readAll(t, srcs); len(got) != 1 || got[0] != "let lib = 1;" {
		t.Errorf("read %q", got)
	}
}

func TestOpenSources_Missing(t *testing.T) {
	ctx, _, _ := testContext(t, "")
	t.Setenv("INTY_PATH", "")

	_, err := openSources(ctx, []string{filepath.Join(t.TempDir(), "nope.inty")})
	if !errors.Is(err, ErrOpenSource) {
		t.Errorf("openSources() error = %v, want ErrOpenSource", err)
	}
}

func TestError(t *testing.T) {
	base := NewError("write config")
	wrapped := base.Wrapf("disk %s", "full")

	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match its sentinel")
	}

	if errors.Is(wrapped, ErrReadSource) {
		t.Error("wrapped error should not match another sentinel")
	}

	if got, want := wrapped.Error(), "write config: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
