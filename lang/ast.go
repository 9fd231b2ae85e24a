package lang

import (
	"context"
	"io"
	"strconv"
	"strings"
)

// UnOp is a prefix operator.
type UnOp int

const (
	UnPlus UnOp = iota
	UnMinus
	UnNot
)

// String returns the source spelling of the operator.
func (op UnOp) String() string {
	switch op {
	case UnPlus:
		return "+"
	case UnMinus:
		return "-"
	case UnNot:
		return "!"
	default:
		return "?"
	}
}

// BinOp is an arithmetic infix operator.
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinPow
)

// String returns the source spelling of the operator.
func (op BinOp) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinPow:
		return "^"
	default:
		return "?"
	}
}

// LogOp is a logical infix operator.
type LogOp int

const (
	LogAnd LogOp = iota
	LogOr
)

// String returns the source spelling of the operator.
func (op LogOp) String() string {
	switch op {
	case LogAnd:
		return "&&"
	case LogOr:
		return "||"
	default:
		return "?"
	}
}

// RelOp is a comparison operator.
type RelOp int

const (
	RelEq RelOp = iota
	RelNe
	RelGt
	RelLt
	RelGe
	RelLe
)

// String returns the source spelling of the operator.
func (op RelOp) String() string {
	switch op {
	case RelEq:
		return "=="
	case RelNe:
		return "!="
	case RelGt:
		return ">"
	case RelLt:
		return "<"
	case RelGe:
		return ">="
	case RelLe:
		return "<="
	default:
		return "?"
	}
}

// ExprKind indicates the variant of an [Expr].
type ExprKind int

const (
	// ExprInteger is an integer literal.
	ExprInteger ExprKind = iota

	// ExprBool is a boolean literal.
	ExprBool

	// ExprIdent is a reference to a bound name.
	ExprIdent

	// ExprUnary applies a [UnOp] to Operand.
	ExprUnary

	// ExprBinary applies a [BinOp] to Left and Right.
	ExprBinary

	// ExprLogical applies a [LogOp] to Left and Right.
	ExprLogical

	// ExprRelational applies a [RelOp] to Left and Right.
	ExprRelational

	// ExprList is a list literal.
	ExprList
)

// String returns a string representation of the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprInteger:
		return "Integer"

	case ExprBool:
		return "Bool"

	case ExprIdent:
		return "Ident"

	case ExprUnary:
		return "Unary"

	case ExprBinary:
		return "Binary"

	case ExprLogical:
		return "Logical"

	case ExprRelational:
		return "Relational"

	case ExprList:
		return "List"

	default:
		return "Unknown"
	}
}

// Expr is an expression node.
// Only the fields relevant to Kind are set. Trees are never mutated after
// construction, so subtrees may be shared freely.
type Expr struct {
	Kind ExprKind

	Int  int32  // ExprInteger
	Bool bool   // ExprBool
	Name string // ExprIdent

	UnOp  UnOp  // ExprUnary
	BinOp BinOp // ExprBinary
	LogOp LogOp // ExprLogical
	RelOp RelOp // ExprRelational

	Operand *Expr   // ExprUnary
	Left    *Expr   // ExprBinary, ExprLogical, ExprRelational
	Right   *Expr   // ExprBinary, ExprLogical, ExprRelational
	Elems   []*Expr // ExprList
}

// Op returns the source spelling of the expression's operator, or the empty
// string for operand-free kinds.
func (e *Expr) Op() string {
	switch e.Kind {
	case ExprUnary:
		return e.UnOp.String()
	case ExprBinary:
		return e.BinOp.String()
	case ExprLogical:
		return e.LogOp.String()
	case ExprRelational:
		return e.RelOp.String()
	default:
		return ""
	}
}

// Equal reports whether e and other are structurally identical.
func (e *Expr) Equal(other *Expr) bool {
	if e == nil || other == nil {
		return e == other
	}

	if e.Kind != other.Kind {
		return false
	}

	switch e.Kind {
	case ExprInteger:
		return e.Int == other.Int

	case ExprBool:
		return e.Bool == other.Bool

	case ExprIdent:
		return e.Name == other.Name

	case ExprUnary:
		return e.UnOp == other.UnOp && e.Operand.Equal(other.Operand)

	case ExprBinary:
		return e.BinOp == other.BinOp &&
			e.Left.Equal(other.Left) && e.Right.Equal(other.Right)

	case ExprLogical:
		return e.LogOp == other.LogOp &&
			e.Left.Equal(other.Left) && e.Right.Equal(other.Right)

	case ExprRelational:
		return e.RelOp == other.RelOp &&
			e.Left.Equal(other.Left) && e.Right.Equal(other.Right)

	case ExprList:
		if len(e.Elems) != len(other.Elems) {
			return false
		}

		for i := range e.Elems {
			if !e.Elems[i].Equal(other.Elems[i]) {
				return false
			}
		}

		return true

	default:
		return false
	}
}

// String returns the canonical source text of the expression.
func (e *Expr) String() string {
	var sb strings.Builder

	writeExpr(&sb, e)

	return sb.String()
}

// StmtKind indicates the variant of a [Stmt].
type StmtKind int

const (
	// StmtExpr evaluates Expr and yields its value.
	StmtExpr StmtKind = iota

	// StmtLet binds Name to the value of Expr.
	StmtLet

	// StmtIf evaluates Then or Else depending on the truth of Expr.
	StmtIf

	// StmtBlock evaluates Body in a nested scope.
	StmtBlock
)

// String returns a string representation of the statement kind.
func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "Expr"

	case StmtLet:
		return "Let"

	case StmtIf:
		return "If"

	case StmtBlock:
		return "Block"

	default:
		return "Unknown"
	}
}

// Stmt is a statement node.
type Stmt struct {
	Kind StmtKind

	Expr *Expr   // StmtExpr value, StmtLet initializer, StmtIf test
	Name string  // StmtLet
	Then *Stmt   // StmtIf
	Else *Stmt   // StmtIf, optional
	Body []*Stmt // StmtBlock
}

// Equal reports whether s and other are structurally identical.
func (s *Stmt) Equal(other *Stmt) bool {
	if s == nil || other == nil {
		return s == other
	}

	if s.Kind != other.Kind {
		return false
	}

	switch s.Kind {
	case StmtExpr:
		return s.Expr.Equal(other.Expr)

	case StmtLet:
		return s.Name == other.Name && s.Expr.Equal(other.Expr)

	case StmtIf:
		return s.Expr.Equal(other.Expr) &&
			s.Then.Equal(other.Then) && s.Else.Equal(other.Else)

	case StmtBlock:
		return Program(s.Body).Equal(Program(other.Body))

	default:
		return false
	}
}

// String returns the canonical source text of the statement.
func (s *Stmt) String() string {
	var sb strings.Builder

	writeStmt(&sb, s)

	return sb.String()
}

// Program is an ordered sequence of top-level statements.
type Program []*Stmt

// Equal reports whether p and other contain structurally identical
// statements in the same order.
func (p Program) Equal(other Program) bool {
	if len(p) != len(other) {
		return false
	}

	for i := range p {
		if !p[i].Equal(other[i]) {
			return false
		}
	}

	return true
}

// Print writes an indented tree representation of the program. It returns
// the first error from w.
func (p Program) Print(ctx context.Context, w io.Writer) error {
	return p.PrintIndent(ctx, w, 0)
}

// PrintIndent writes an indented tree representation of the program
// starting at the given depth.
func (p Program) PrintIndent(_ context.Context, w io.Writer, indent int) error {
	o := &outline{w: w}
	o.program(p, indent)

	return o.err
}

// Print writes a formatted representation of the statement.
func (s *Stmt) Print(_ context.Context, w io.Writer, indent int) error {
	o := &outline{w: w}
	o.stmt(s, indent)

	return o.err
}

// Print writes a formatted representation of the expression.
func (e *Expr) Print(_ context.Context, w io.Writer, indent int) error {
	o := &outline{w: w}
	o.expr(e, indent)

	return o.err
}

// outline writes tree lines until the first write error, which it keeps.
type outline struct {
	w   io.Writer
	err error
}

func (o *outline) put(indent int, eol string, item ...string) {
	if o.err != nil {
		return
	}

	_, o.err = io.WriteString(o.w, strings.Repeat("  ", indent)+strings.Join(item, ": ")+eol)
}

func (o *outline) program(p Program, indent int) {
	for _, stmt := range p {
		o.stmt(stmt, indent)
	}
}

func (o *outline) stmt(s *Stmt, indent int) {
	switch s.Kind {
	case StmtExpr:
		o.put(indent, ":\n", "Expr")
		o.expr(s.Expr, indent+1)

	case StmtLet:
		o.put(indent, ":\n", "Let", s.Name)
		o.expr(s.Expr, indent+1)

	case StmtIf:
		o.put(indent, "\n", "If")
		o.put(indent+1, ":\n", "Test")
		o.expr(s.Expr, indent+2)
		o.put(indent+1, ":\n", "Then")
		o.stmt(s.Then, indent+2)

		if s.Else != nil {
			o.put(indent+1, ":\n", "Else")
			o.stmt(s.Else, indent+2)
		}

	case StmtBlock:
		o.put(indent, "\n", "Block")
		o.program(s.Body, indent+1)
	}
}

func (o *outline) expr(e *Expr, indent int) {
	switch e.Kind {
	case ExprInteger:
		o.put(indent, "\n", "Integer", strconv.FormatInt(int64(e.Int), 10))

	case ExprBool:
		o.put(indent, "\n", "Bool", strconv.FormatBool(e.Bool))

	case ExprIdent:
		o.put(indent, "\n", "Ident", e.Name)

	case ExprUnary:
		o.put(indent, "\n", "Unary", e.Op())
		o.expr(e.Operand, indent+1)

	case ExprBinary, ExprLogical, ExprRelational:
		o.put(indent, "\n", e.Kind.String(), e.Op())
		o.expr(e.Left, indent+1)
		o.expr(e.Right, indent+1)

	case ExprList:
		if len(e.Elems) == 0 {
			o.put(indent, "\n", "List", "(empty)")

			return
		}

		o.put(indent, "\n", "List")

		for _, elem := range e.Elems {
			o.expr(elem, indent+1)
		}
	}
}
