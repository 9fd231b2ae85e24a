package lang

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func TestError_IsSurvivesWrapAndWith(t *testing.T) {
	sentinels := []*Error{
		ErrLexical,
		ErrSyntax,
		ErrMaxDepth,
		ErrUnknownIdentifier,
		ErrType,
		ErrDivideByZero,
		ErrLogic,
		ErrReadInput,
	}

	for _, s := range sentinels {
		t.Run(s.Error(), func(t *testing.T) {
			derived := s.Wrapf("detail %d", 1).With(slog.String("k", "v"))

			if !errors.Is(derived, s) {
				t.Errorf("derived error %q does not match its sentinel", derived)
			}

			wrapped := fmt.Errorf("outer: %w", derived)
			if !errors.Is(wrapped, s) {
				t.Errorf("fmt-wrapped error does not match its sentinel")
			}

			for _, other := range sentinels {
				if other != s && errors.Is(derived, other) {
					t.Errorf("%q unexpectedly matches %q", derived, other)
				}
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrType, "type error"},
		{ErrType.Wrapf("bad %s", "thing"), "type error: bad thing"},
		{ErrReadInput.Wrap(io.ErrUnexpectedEOF), "failed to read input: unexpected EOF"},
		{WrapError(io.EOF), "EOF"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestError_WrapErrorKeepsExisting(t *testing.T) {
	orig := ErrLogic.Wrapf("x")

	if got := WrapError(fmt.Errorf("ctx: %w", orig)); got != orig {
		t.Errorf("WrapError() = %p, want %p", got, orig)
	}

	if !errors.Is(WrapError(io.EOF), io.EOF) {
		t.Error("WrapError lost the wrapped cause")
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrSyntax.Wrapf("oops").With(slog.Int("line", 3))

	attrs := err.LogValue().Group()

	got := make(map[string]string, len(attrs))
	for _, a := range attrs {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error": "syntax error",
		"cause": "oops",
		"line":  "3",
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("attr %s = %q, want %q", k, got[k], v)
		}
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindUnknown},
		{io.EOF, KindUnknown},
		{ErrLexical, KindLexical},
		{ErrSyntax.Wrap(ErrMaxDepth), KindSyntactic},
		{ErrMaxDepth, KindSyntactic},
		{ErrUnknownIdentifier.Wrapf("q"), KindUnresolvedReference},
		{ErrType, KindType},
		{ErrDivideByZero, KindDivideByZero},
		{ErrLogic, KindLogic},
		{ErrReadInput.Wrap(io.EOF), KindIO},
	}

	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}

	if KindUnresolvedReference.String() != "unresolved reference" {
		t.Errorf("KindUnresolvedReference.String() = %q", KindUnresolvedReference)
	}
}
