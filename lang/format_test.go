package lang

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

// roundTripSources parse successfully and exercise every statement and
// expression form.
var roundTripSources = []string{
	"1",
	"let x = 42",
	"x + y - z",
	"x - (y - z)",
	"x - (y + z)",
	"(x - y) - z",
	"x * (y / z)",
	"(x + y) * z",
	"2 ^ 3 ^ 4",
	"(2 ^ 3) ^ 4",
	"(-3) ^ 2",
	"-3 ^ 2",
	"-(3 + 4)",
	"- -x",
	"!!true",
	"!(a < b)",
	"+x * -y",
	"(-x) ^ (-y)",
	"a && b || c && d",
	"a && (b || c)",
	"(a || b) || c",
	"a || (b || c)",
	"a == b != c",
	"a == (b != c)",
	"1 < 2 == (3 > 4)",
	"[]",
	"[1, [true, false], [x + 1, []]]",
	"[(1 + 2) * 3, -x]",
	"if x 1",
	"if x 1 else 2",
	"if x (-1)",
	"if x (-1 + 2) else -3",
	"if x (+y) else { 1 }",
	"if a if b 1 else 2",
	"if a { if b 1 } else 2",
	"{ 1; 2 }",
	"{ let y = 1; { let z = y; z * 2 } }",
	"let a = 1; let b = a + 1; if a < b [a, b] else { b }",
	"if x <= 10 let y = x else let y = 0",
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, source := range roundTripSources {
		t.Run(source, func(t *testing.T) {
			want, err := Parse(mustTokenize(t, source))
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", source, err)
			}

			for _, indent := range []int{0, 2, 4} {
				var buf bytes.Buffer

				if err := want.Format(t.Context(), &buf, indent); err != nil {
					t.Fatalf("Format(%d) error = %v", indent, err)
				}

				got, err := Parse(mustTokenize(t, buf.String()))
				if err != nil {
					t.Fatalf("Parse(Format(%d)) error = %v\n%s", indent, err, buf.String())
				}

				if !got.Equal(want) {
					t.Errorf("round trip with indent %d changed the tree:\n%s", indent, buf.String())
				}
			}
		})
	}
}

func TestFormat_Canonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1+2*3", "1 + 2 * 3"},
		{"(1+2)*3", "(1 + 2) * 3"},
		{"((a))", "a"},
		{"a-(b-c)", "a - (b - c)"},
		{"(a-b)-c", "a - b - c"},
		{"2^(3^4)", "2 ^ 3 ^ 4"},
		{"(2^3)^4", "(2 ^ 3) ^ 4"},
		{"(-3)^2", "(-3) ^ 2"},
		{"-(3^2)", "-3 ^ 2"},
		{"-(-(x))", "--x"},
		{"!(a && b)", "!(a && b)"},
		{"if x (-1) else (-2)", "if x (-1) else -2"},
		{"if(x)(y)", "if x y"},
		{"let  v=[1,2 ,3]", "let v = [1, 2, 3]"},
		{"{1;{2}}", "{ 1; { 2 } }"},
		{"1;2", "1;\n2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog, err := Parse(mustTokenize(t, tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if got := prog.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_Indent(t *testing.T) {
	prog, err := Parse(mustTokenize(t, "let a = 1; if a { let b = a; { b } } else 0"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var buf bytes.Buffer

	if err := prog.Format(t.Context(), &buf, 2); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "let a = 1;\n" +
		"if a {\n" +
		"  let b = a;\n" +
		"  {\n" +
		"    b\n" +
		"  }\n" +
		"} else 0\n"

	if got := buf.String(); got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}

	buf.Reset()

	if err := (Program{}).Format(t.Context(), &buf, 2); err != nil || buf.Len() != 0 {
		t.Errorf("Format(empty) = %q, %v", buf.String(), err)
	}
}

func TestFormat_BuiltTree(t *testing.T) {
	// Trees built directly need the same parentheses as parsed ones.
	prog := Program{
		NewExprStmt(NewBinary(BinPow, NewUnary(UnMinus, NewInteger(3)), NewInteger(2))),
		NewExprStmt(NewBinary(BinSub, NewIdent("a"), NewBinary(BinAdd, NewIdent("b"), NewIdent("c")))),
		NewIf(NewIdent("x"), NewExprStmt(NewUnary(UnMinus, NewIdent("y"))), nil),
		NewExprStmt(NewRelational(RelLt, NewLogical(LogAnd, NewBool(true), NewBool(false)), NewInteger(1))),
	}

	want := "(-3) ^ 2;\na - (b + c);\nif x (-y);\n(true && false) < 1"
	if got := prog.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}

	got, err := Parse(mustTokenize(t, prog.String()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !got.Equal(prog) {
		t.Errorf("built tree did not round trip: %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	prog, err := Parse(mustTokenize(t, "let x = -1; if x < 0 [x] else true"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var buf bytes.Buffer

	if err := prog.FormatJSON(t.Context(), &buf, 0); err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}

	want := `[{"let":{"name":"x","value":{"unary":{"op":"-","operand":1}}}},` +
		`{"if":{"else":{"expr":true},"test":{"relational":{"left":{"ident":"x"},"op":"<","right":0}},` +
		`"then":{"expr":{"list":[{"ident":"x"}]}}}}]` + "\n"

	if got := buf.String(); got != want {
		t.Errorf("FormatJSON() =\n%s\nwant\n%s", got, want)
	}

	buf.Reset()

	if err := prog.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatalf("FormatJSON(indent) error = %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("indented output is not JSON: %v", err)
	}

	if len(decoded) != 2 || decoded[0]["let"] == nil || decoded[1]["if"] == nil {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestFormatJSON_Operators(t *testing.T) {
	prog, err := Parse(mustTokenize(t, "1 < 2 && 3 >= 2"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var buf bytes.Buffer

	if err := prog.FormatJSON(t.Context(), &buf, 0); err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}

	marshaled, err := prog.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	for name, out := range map[string]string{
		"FormatJSON":  buf.String(),
		"MarshalJSON": string(marshaled),
	} {
		for _, op := range []string{`"op":"&&"`, `"op":"<"`, `"op":">="`} {
			if !strings.Contains(out, op) {
				t.Errorf("%s output %s does not contain %s", name, out, op)
			}
		}

		if strings.Contains(out, `\u00`) {
			t.Errorf("%s output is HTML-escaped: %s", name, out)
		}
	}

	if strings.HasSuffix(string(marshaled), "\n") {
		t.Errorf("MarshalJSON() = %q, want no trailing newline", marshaled)
	}
}

func TestFormatYAML(t *testing.T) {
	prog, err := Parse(mustTokenize(t, "let total = 2 ^ 3; [total, false]"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer

		if err := prog.FormatYAML(t.Context(), &buf, indent); err != nil {
			t.Fatalf("FormatYAML(%d) error = %v", indent, err)
		}

		var decoded []map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("FormatYAML(%d) output is not YAML: %v\n%s", indent, err, buf.String())
		}

		if len(decoded) != 2 {
			t.Fatalf("decoded %d statements, want 2", len(decoded))
		}

		let, ok := decoded[0]["let"].(map[string]any)
		if !ok || let["name"] != "total" {
			t.Errorf("FormatYAML(%d) let = %v", indent, decoded[0])
		}
	}
}

func TestFormatTokens(t *testing.T) {
	var buf bytes.Buffer

	tokens := mustTokenize(t, "let x=[1,2]; if x>=3 {x} else !true")

	if err := FormatTokens(&buf, tokens); err != nil {
		t.Fatalf("FormatTokens() error = %v", err)
	}

	want := "let x = [ 1 , 2 ] ; if x >= 3 { x } else ! true\n"
	if got := buf.String(); got != want {
		t.Errorf("FormatTokens() = %q, want %q", got, want)
	}

	// The spaced form lexes back to the same tokens.
	again := mustTokenize(t, strings.TrimSpace(buf.String()))
	if len(again) != len(tokens) {
		t.Fatalf("re-lexed %d tokens, want %d", len(again), len(tokens))
	}

	for i := range tokens {
		if again[i] != tokens[i] {
			t.Errorf("token %d = %v, want %v", i, again[i], tokens[i])
		}
	}
}

func TestFormatValues(t *testing.T) {
	results, err := run(t, "let a = 3; a * 2; [a, a > 1]; if false 1")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var buf bytes.Buffer

	if err := FormatValues(&buf, results); err != nil {
		t.Fatalf("FormatValues() error = %v", err)
	}

	if got, want := buf.String(), "6\n[3, true]\n"; got != want {
		t.Errorf("FormatValues() = %q, want %q", got, want)
	}
}

func TestProgram_Print(t *testing.T) {
	prog, err := Parse(mustTokenize(t, "let a = 1 + 2; if a > 2 { a }"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var buf bytes.Buffer

	if err := prog.Print(t.Context(), &buf); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Let", "Binary", "Relational", "Block", "Ident"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print() output missing %q:\n%s", want, out)
		}
	}
}

type shortWriter struct{ left int }

func (w *shortWriter) Write(p []byte) (int, error) {
	if w.left <= 0 {
		return 0, io.ErrShortWrite
	}

	w.left--

	return len(p), nil
}

func TestProgram_PrintWriteError(t *testing.T) {
	prog, err := Parse(mustTokenize(t, "let a = [1, 2]; { a }"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	for _, lines := range []int{0, 1, 3} {
		w := &shortWriter{left: lines}

		if err := prog.Print(t.Context(), w); !errors.Is(err, io.ErrShortWrite) {
			t.Errorf("Print() after %d lines error = %v, want %v", lines, err, io.ErrShortWrite)
		}
	}
}
