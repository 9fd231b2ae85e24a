package lang

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// MarshalJSON implements json.Marshaler for Program.
func (prog Program) MarshalJSON() ([]byte, error) {
	return marshalJSON(prog.ToNative())
}

// MarshalJSON implements json.Marshaler for Value.
func (v Value) MarshalJSON() ([]byte, error) {
	return marshalJSON(v.Native())
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer

	if err := encodeJSON(&buf, v, 0); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// encodeJSON writes v and a newline to w. Operators such as < and && are
// written as-is rather than HTML-escaped.
func encodeJSON(w io.Writer, v any, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	return enc.Encode(v)
}

// ToNative converts the program to native Go data: one map per statement,
// keyed by the lowercase statement kind.
func (prog Program) ToNative() []any {
	result := make([]any, len(prog))
	for i, stmt := range prog {
		result[i] = stmt.ToNative()
	}

	return result
}

// ToNative converts a statement to its native Go representation.
func (s *Stmt) ToNative() any {
	if s == nil {
		return nil
	}

	switch s.Kind {
	case StmtExpr:
		return map[string]any{"expr": s.Expr.ToNative()}

	case StmtLet:
		return map[string]any{
			"let": map[string]any{
				"name":  s.Name,
				"value": s.Expr.ToNative(),
			},
		}

	case StmtIf:
		data := map[string]any{
			"test": s.Expr.ToNative(),
			"then": s.Then.ToNative(),
		}

		if s.Else != nil {
			data["else"] = s.Else.ToNative()
		}

		return map[string]any{"if": data}

	case StmtBlock:
		return map[string]any{"block": Program(s.Body).ToNative()}

	default:
		return nil
	}
}

// ToNative converts an expression to its native Go representation.
// Literals become plain values; every other form becomes a single-key map
// naming the form.
func (e *Expr) ToNative() any {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case ExprInteger:
		return e.Int

	case ExprBool:
		return e.Bool

	case ExprIdent:
		return map[string]any{"ident": e.Name}

	case ExprUnary:
		return map[string]any{
			"unary": map[string]any{
				"op":      e.Op(),
				"operand": e.Operand.ToNative(),
			},
		}

	case ExprBinary, ExprLogical, ExprRelational:
		return map[string]any{
			nativeKey(e.Kind): map[string]any{
				"op":    e.Op(),
				"left":  e.Left.ToNative(),
				"right": e.Right.ToNative(),
			},
		}

	case ExprList:
		elems := make([]any, len(e.Elems))
		for i, elem := range e.Elems {
			elems[i] = elem.ToNative()
		}

		return map[string]any{"list": elems}

	default:
		return nil
	}
}

func nativeKey(k ExprKind) string {
	switch k {
	case ExprLogical:
		return "logical"
	case ExprRelational:
		return "relational"
	default:
		return "binary"
	}
}

// NativeValues converts evaluation results to native Go data.
// Entries for statements without a value are nil.
func NativeValues(results []*Value) []any {
	out := make([]any, len(results))

	for i, v := range results {
		if v != nil {
			out[i] = v.Native()
		}
	}

	return out
}
