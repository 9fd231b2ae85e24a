package lang

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/inty/log"
)

// Parse builds a [Program] from a token sequence.
//
// Statements are separated by semicolons. Parsing stops at the first
// statement not followed by a semicolon, and any tokens remaining at that
// point are reported as a syntax error. A single trailing semicolon is
// accepted. An empty token sequence yields an empty Program.
func Parse(tokens []Token, opts ...Option) (Program, error) {
	return parseTokens(context.Background(), tokens, makeOptions(opts...))
}

func parseTokens(
	ctx context.Context,
	tokens []Token,
	o options,
) (Program, error) {
	p := &parser{
		ctx:      ctx,
		tokens:   tokens,
		maxDepth: o.maxDepth,
		logger:   o.logger,
	}

	return p.parseProgram()
}

// parser holds the parser state.
type parser struct {
	ctx      context.Context
	tokens   []Token
	pos      int
	depth    int
	maxDepth int
	logger   log.Logger
}

// parseProgram parses: [ Stmt { ";" Stmt } [ ";" ] ].
func (p *parser) parseProgram() (Program, error) {
	prog := Program{}

	for !p.eof() {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		prog = append(prog, stmt)

		if !p.accept(TokenSemicolon) {
			break
		}
	}

	if !p.eof() {
		return nil, ErrSyntax.
			Wrapf("invalid expression: tokens remaining after parsing").
			With(
				slog.String("token", p.tokens[p.pos].String()),
				slog.Int("index", p.pos),
			)
	}

	return prog, nil
}

// parseStmt parses: IfStmt | LetStmt | Block | Expr.
func (p *parser) parseStmt() (*Stmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.logger.TraceContext(
		p.ctx,
		"parse statement",
		slog.String("token", p.peek().String()),
		slog.Int("depth", p.depth),
	)

	switch p.peek() {
	case TokenIf:
		return p.parseIf()

	case TokenLet:
		return p.parseLet()

	case TokenLBrace:
		return p.parseBlock()

	default:
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		return NewExprStmt(expr), nil
	}
}

// parseIf parses: "if" Or Stmt [ "else" Stmt ].
func (p *parser) parseIf() (*Stmt, error) {
	p.advance()

	test, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	if !p.accept(TokenElse) {
		return NewIf(test, then, nil), nil
	}

	els, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	return NewIf(test, then, els), nil
}

// parseLet parses: "let" Ident "=" Or.
func (p *parser) parseLet() (*Stmt, error) {
	p.advance()

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if tok.Kind != TokenIdent {
		return nil, expected(TokenIdent, tok)
	}

	if err := p.expect(TokenAssign); err != nil {
		return nil, err
	}

	init, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	return NewLet(tok.Text, init), nil
}

// parseBlock parses: "{" Stmt { ";" Stmt } [ ";" ] "}".
func (p *parser) parseBlock() (*Stmt, error) {
	p.advance()

	if p.peek() == TokenRBrace {
		return nil, ErrSyntax.Wrapf("block must contain at least one statement")
	}

	var body []*Stmt

	for {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)

		if !p.accept(TokenSemicolon) || p.peek() == TokenRBrace {
			break
		}
	}

	if err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}

	return NewBlock(body...), nil
}

// parseOr parses: And { "||" And }.
func (p *parser) parseOr() (*Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.accept(TokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = NewLogical(LogOr, left, right)
	}

	return left, nil
}

// parseAnd parses: Relational { "&&" Relational }.
func (p *parser) parseAnd() (*Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}

	for p.accept(TokenAnd) {
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}

		left = NewLogical(LogAnd, left, right)
	}

	return left, nil
}

var relOps = map[TokenKind]RelOp{
	TokenEq: RelEq,
	TokenNe: RelNe,
	TokenGt: RelGt,
	TokenLt: RelLt,
	TokenGe: RelGe,
	TokenLe: RelLe,
}

// parseRelational parses: Additive { RelOp Additive }.
func (p *parser) parseRelational() (*Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := relOps[p.peek()]
		if !ok {
			return left, nil
		}

		p.advance()

		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}

		left = NewRelational(op, left, right)
	}
}

// parseAdditive parses: Multiplicative { ("+" | "-") Multiplicative }.
func (p *parser) parseAdditive() (*Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		var op BinOp

		switch p.peek() {
		case TokenPlus:
			op = BinAdd
		case TokenMinus:
			op = BinSub
		default:
			return left, nil
		}

		p.advance()

		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		left = NewBinary(op, left, right)
	}
}

// parseMultiplicative parses: Power { ("*" | "/") Power }.
func (p *parser) parseMultiplicative() (*Expr, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	for {
		var op BinOp

		switch p.peek() {
		case TokenStar:
			op = BinMul
		case TokenSlash:
			op = BinDiv
		default:
			return left, nil
		}

		p.advance()

		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}

		left = NewBinary(op, left, right)
	}
}

// parsePower parses: Unary [ "^" Power ].
// The right operand recurses so that exponentiation associates to the right.
func (p *parser) parsePower() (*Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	if !p.accept(TokenCaret) {
		return left, nil
	}

	right, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	return NewBinary(BinPow, left, right), nil
}

// parseUnary parses: ("+" | "-" | "!") Power | Primary.
func (p *parser) parseUnary() (*Expr, error) {
	var op UnOp

	switch p.peek() {
	case TokenPlus:
		op = UnPlus
	case TokenMinus:
		op = UnMinus
	case TokenBang:
		op = UnNot
	default:
		return p.parsePrimary()
	}

	p.advance()

	operand, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	return NewUnary(op, operand), nil
}

// parsePrimary parses: Integer | "true" | "false" | Ident | "(" Or ")" |
// List.
func (p *parser) parsePrimary() (*Expr, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case TokenInteger:
		return NewInteger(tok.Int), nil

	case TokenTrue:
		return NewBool(true), nil

	case TokenFalse:
		return NewBool(false), nil

	case TokenIdent:
		return NewIdent(tok.Text), nil

	case TokenLParen:
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}

		return expr, nil

	case TokenLBracket:
		return p.parseList()

	default:
		return nil, ErrSyntax.
			Wrapf("unexpected token: %s", tok).
			With(slog.Int("index", p.pos-1))
	}
}

// parseList parses the remainder of: "[" [ Or { "," Or } ] "]".
// Commas are skipped eagerly, so leading, trailing, and repeated commas are
// accepted.
func (p *parser) parseList() (*Expr, error) {
	elems := []*Expr{}

	for {
		for p.accept(TokenComma) {
		}

		if p.accept(TokenRBracket) {
			return NewList(elems...), nil
		}

		elem, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		elems = append(elems, elem)

		if p.peek() != TokenComma {
			if err := p.expect(TokenRBracket); err != nil {
				return nil, err
			}

			return NewList(elems...), nil
		}
	}
}

// Helper methods

func (p *parser) eof() bool {
	return p.pos >= len(p.tokens)
}

// peek returns the kind of the current token, or [TokenInvalid] at the end
// of input.
func (p *parser) peek() TokenKind {
	if p.eof() {
		return TokenInvalid
	}

	return p.tokens[p.pos].Kind
}

func (p *parser) advance() {
	if !p.eof() {
		p.pos++
	}
}

// next consumes and returns the current token.
func (p *parser) next() (Token, error) {
	if p.eof() {
		return Token{}, p.endOfInput()
	}

	tok := p.tokens[p.pos]
	p.pos++

	return tok, nil
}

func (p *parser) accept(kind TokenKind) bool {
	if p.peek() == kind {
		p.advance()

		return true
	}

	return false
}

func (p *parser) expect(kind TokenKind) error {
	tok, err := p.next()
	if err != nil {
		return err
	}

	if tok.Kind != kind {
		return expected(kind, tok).With(slog.Int("index", p.pos-1))
	}

	return nil
}

// errEndOfInput marks syntax errors that more input could resolve.
var errEndOfInput = errors.New("unexpected end of input")

func (p *parser) endOfInput() *Error {
	if len(p.tokens) == 0 {
		return ErrSyntax.Wrap(errEndOfInput)
	}

	last := p.tokens[len(p.tokens)-1]

	return ErrSyntax.
		Wrapf("%w after %s", errEndOfInput, last).
		With(slog.String("last", last.String()))
}

// IsIncomplete reports whether err is a syntax error caused by the source
// ending early, such as an unclosed block or a trailing operator.
// Interactive callers use it to request a continuation line.
func IsIncomplete(err error) bool {
	return errors.Is(err, errEndOfInput)
}

func expected(kind TokenKind, found Token) *Error {
	return ErrSyntax.
		Wrapf("expected %s, found %s", kind, found).
		With(
			slog.String("expected", kind.String()),
			slog.String("found", found.String()),
		)
}

// enter records one level of nesting and fails once the limit is exceeded.
func (p *parser) enter() error {
	p.depth++

	if p.depth > p.maxDepth {
		return ErrSyntax.Wrap(
			ErrMaxDepth.With(
				slog.Int("depth", p.depth),
				slog.Int("max_depth", p.maxDepth),
			),
		)
	}

	return nil
}

func (p *parser) leave() {
	p.depth--
}
