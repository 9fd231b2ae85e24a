package lang

import (
	"errors"
	"testing"
)

func FuzzTokenize(f *testing.F) {
	for _, source := range roundTripSources {
		f.Add(source)
	}

	f.Add("2147483648")
	f.Add("let _x1 = @")
	f.Add("a\n\tb ! = !=")

	f.Fuzz(func(t *testing.T, source string) {
		tokens, err := Tokenize(source)
		if err != nil {
			if !errors.Is(err, ErrLexical) {
				t.Fatalf("Tokenize(%q) error = %v, want ErrLexical", source, err)
			}

			return
		}

		for _, tok := range tokens {
			if tok.Kind == TokenInvalid {
				t.Fatalf("Tokenize(%q) produced an invalid token", source)
			}
		}
	})
}

func FuzzParseFormat(f *testing.F) {
	for _, source := range roundTripSources {
		f.Add(source)
	}

	f.Add("((((1))))")
	f.Add("if if")
	f.Add("{ }")

	f.Fuzz(func(t *testing.T, source string) {
		tokens, err := Tokenize(source)
		if err != nil {
			return
		}

		prog, err := Parse(tokens, WithMaxDepth(64))
		if err != nil {
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("Parse(%q) error = %v, want ErrSyntax", source, err)
			}

			return
		}

		formatted := prog.String()

		again, err := Tokenize(formatted)
		if err != nil {
			t.Fatalf("Tokenize(Format(%q)) error = %v\n%s", source, err, formatted)
		}

		// Formatting may add parentheses, so allow extra depth.
		got, err := Parse(again, WithMaxDepth(256))
		if err != nil {
			t.Fatalf("Parse(Format(%q)) error = %v\n%s", source, err, formatted)
		}

		if !got.Equal(prog) {
			t.Fatalf("Format(%q) changed the tree:\n%s", source, formatted)
		}

		// Evaluation must not panic; any error is an ordinary failure.
		_, _ = Evaluate(t.Context(), prog, nil)
	})
}
