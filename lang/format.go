package lang

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Binding strength of each expression form, loosest first.
const (
	precOr = iota + 1
	precAnd
	precRelational
	precAdditive
	precMultiplicative
	precPower
	precUnary
	precPrimary
)

func precedence(e *Expr) int {
	switch e.Kind {
	case ExprLogical:
		if e.LogOp == LogOr {
			return precOr
		}

		return precAnd

	case ExprRelational:
		return precRelational

	case ExprBinary:
		switch e.BinOp {
		case BinAdd, BinSub:
			return precAdditive
		case BinMul, BinDiv:
			return precMultiplicative
		default:
			return precPower
		}

	case ExprUnary:
		return precUnary

	default:
		return precPrimary
	}
}

// printer renders syntax trees as canonical source text with the minimum
// parentheses needed to reproduce the same tree when parsed.
type printer struct {
	sb     strings.Builder
	indent int // spaces per block level; 0 keeps blocks on one line
	depth  int
}

func writeExpr(sb *strings.Builder, e *Expr) {
	p := printer{}
	p.expr(e)
	sb.WriteString(p.sb.String())
}

func writeStmt(sb *strings.Builder, s *Stmt) {
	p := printer{}
	p.stmt(s)
	sb.WriteString(p.sb.String())
}

func (p *printer) stmt(s *Stmt) {
	switch s.Kind {
	case StmtExpr:
		p.expr(s.Expr)

	case StmtLet:
		p.sb.WriteString("let ")
		p.sb.WriteString(s.Name)
		p.sb.WriteString(" = ")
		p.expr(s.Expr)

	case StmtIf:
		p.sb.WriteString("if ")
		p.expr(s.Expr)
		p.sb.WriteByte(' ')

		// A leading sign would otherwise continue the test expression.
		if s.Then.Kind == StmtExpr && startsWithSign(s.Then.Expr) {
			p.sb.WriteByte('(')
			p.expr(s.Then.Expr)
			p.sb.WriteByte(')')
		} else {
			p.stmt(s.Then)
		}

		if s.Else != nil {
			p.sb.WriteString(" else ")
			p.stmt(s.Else)
		}

	case StmtBlock:
		p.block(s.Body)
	}
}

func (p *printer) block(body []*Stmt) {
	if p.indent <= 0 {
		p.sb.WriteString("{ ")

		for i, stmt := range body {
			if i > 0 {
				p.sb.WriteString("; ")
			}

			p.stmt(stmt)
		}

		p.sb.WriteString(" }")

		return
	}

	p.sb.WriteString("{\n")
	p.depth++

	for i, stmt := range body {
		p.sb.WriteString(strings.Repeat(" ", p.depth*p.indent))
		p.stmt(stmt)

		if i < len(body)-1 {
			p.sb.WriteByte(';')
		}

		p.sb.WriteByte('\n')
	}

	p.depth--
	p.sb.WriteString(strings.Repeat(" ", p.depth*p.indent))
	p.sb.WriteByte('}')
}

func (p *printer) expr(e *Expr) {
	switch e.Kind {
	case ExprInteger:
		fmt.Fprint(&p.sb, e.Int)

	case ExprBool:
		fmt.Fprint(&p.sb, e.Bool)

	case ExprIdent:
		p.sb.WriteString(e.Name)

	case ExprUnary:
		p.sb.WriteString(e.Op())
		p.operand(e.Operand, precedence(e.Operand) < precPower)

	case ExprBinary, ExprLogical, ExprRelational:
		prec := precedence(e)

		var leftParen, rightParen bool

		if prec == precPower {
			// Right-associative; a signed base must be parenthesized.
			leftParen = precedence(e.Left) < precPrimary
			rightParen = precedence(e.Right) < precPower
		} else {
			leftParen = precedence(e.Left) < prec
			rightParen = precedence(e.Right) <= prec
		}

		p.operand(e.Left, leftParen)
		p.sb.WriteByte(' ')
		p.sb.WriteString(e.Op())
		p.sb.WriteByte(' ')
		p.operand(e.Right, rightParen)

	case ExprList:
		p.sb.WriteByte('[')

		for i, elem := range e.Elems {
			if i > 0 {
				p.sb.WriteString(", ")
			}

			p.expr(elem)
		}

		p.sb.WriteByte(']')
	}
}

func (p *printer) operand(e *Expr, paren bool) {
	if paren {
		p.sb.WriteByte('(')
	}

	p.expr(e)

	if paren {
		p.sb.WriteByte(')')
	}
}

// startsWithSign reports whether the rendered form of e begins with a
// unary + or - token.
func startsWithSign(e *Expr) bool {
	for {
		switch e.Kind {
		case ExprUnary:
			return e.UnOp != UnNot

		case ExprInteger:
			return e.Int < 0

		case ExprBinary, ExprLogical, ExprRelational:
			if precedence(e) == precPower && precedence(e.Left) < precPrimary {
				return false // parenthesized
			}

			if precedence(e.Left) < precedence(e) {
				return false // parenthesized
			}

			e = e.Left

		default:
			return false
		}
	}
}

// Format writes the program as canonical source text, one top-level
// statement per line. Blocks are written on a single line when indent is
// zero, and across multiple lines indented by indent spaces otherwise.
//
// Parsing the output yields a program equal to any program produced by
// [Parse].
func (prog Program) Format(_ context.Context, w io.Writer, indent int) error {
	p := printer{indent: indent}

	for i, stmt := range prog {
		if i > 0 {
			p.sb.WriteString(";\n")
		}

		p.stmt(stmt)
	}

	if len(prog) > 0 {
		p.sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, p.sb.String())

	return err
}

// String returns the canonical single-line-block source text of prog.
func (prog Program) String() string {
	var sb strings.Builder

	_ = prog.Format(context.Background(), &sb, 0)

	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatJSON writes the program's syntax tree as JSON to the writer.
func (prog Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return encodeJSON(w, prog.ToNative(), indent)
}

// FormatYAML writes the program's syntax tree as YAML to the writer.
func (prog Program) FormatYAML(
	ctx context.Context,
	w io.Writer,
	indent int,
) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, prog.ToNative(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatTokens writes the tokens as source text separated by single spaces,
// followed by a newline.
func FormatTokens(w io.Writer, tokens []Token) error {
	text := make([]string, len(tokens))
	for i, tok := range tokens {
		text[i] = tok.String()
	}

	_, err := fmt.Fprintln(w, strings.Join(text, " "))

	return err
}

// FormatValues writes each non-nil result on its own line.
func FormatValues(w io.Writer, results []*Value) error {
	for _, v := range results {
		if v == nil {
			continue
		}

		if _, err := fmt.Fprintln(w, v.String()); err != nil {
			return err
		}
	}

	return nil
}
