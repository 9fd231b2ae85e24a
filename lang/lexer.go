package lang

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Position is a location in source text.
// Line and Column are 1-based; Offset is a 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

// attrs returns the position as structured logging attributes.
func (p Position) attrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("offset", p.Offset),
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	}
}

// Lexer converts source text into tokens in a single left-to-right pass.
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

// NewLexer returns a Lexer positioned at the start of source.
func NewLexer(source string) *Lexer {
	return &Lexer{
		input: []byte(source),
		pos:   0,
		line:  1,
		col:   1,
	}
}

// Tokenize converts source text into an ordered sequence of tokens.
// The first lexical error aborts the scan; no partial result is returned.
func Tokenize(source string) ([]Token, error) {
	var tokens []Token

	for tok, err := range NewLexer(source).All() {
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
	}

	return tokens, nil
}

// All returns an iterator over the remaining tokens.
// Iteration stops after the first error, which is yielded with a zero Token.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, ok, err := l.Next()
			if err != nil {
				yield(Token{}, err)

				return
			}

			if !ok || !yield(tok, nil) {
				return
			}
		}
	}
}

// Next scans the next token.
// It reports ok == false once the input is exhausted.
func (l *Lexer) Next() (tok Token, ok bool, err error) {
	l.skipWhitespace()

	if l.eof() {
		return Token{}, false, nil
	}

	pos := l.position()
	ch := l.peek()

	switch {
	case isDigit(ch):
		return l.scanInteger(pos)

	case isIdentifierStart(ch):
		return l.scanWord(), true, nil
	}

	l.advance()

	switch ch {
	case '+':
		return MarkerToken(TokenPlus), true, nil
	case '-':
		return MarkerToken(TokenMinus), true, nil
	case '*':
		return MarkerToken(TokenStar), true, nil
	case '/':
		return MarkerToken(TokenSlash), true, nil
	case '^':
		return MarkerToken(TokenCaret), true, nil
	case '(':
		return MarkerToken(TokenLParen), true, nil
	case ')':
		return MarkerToken(TokenRParen), true, nil
	case '[':
		return MarkerToken(TokenLBracket), true, nil
	case ']':
		return MarkerToken(TokenRBracket), true, nil
	case '{':
		return MarkerToken(TokenLBrace), true, nil
	case '}':
		return MarkerToken(TokenRBrace), true, nil
	case ';':
		return MarkerToken(TokenSemicolon), true, nil
	case ',':
		return MarkerToken(TokenComma), true, nil
	case '=':
		return l.pair('=', TokenEq, TokenAssign), true, nil
	case '!':
		return l.pair('=', TokenNe, TokenBang), true, nil
	case '<':
		return l.pair('=', TokenLe, TokenLt), true, nil
	case '>':
		return l.pair('=', TokenGe, TokenGt), true, nil
	case '&':
		if l.expect('&') {
			return MarkerToken(TokenAnd), true, nil
		}
	case '|':
		if l.expect('|') {
			return MarkerToken(TokenOr), true, nil
		}
	}

	return Token{}, false, unexpectedChar(ch, pos)
}

// pair returns double if the next character is second, consuming it, or
// single otherwise.
func (l *Lexer) pair(second rune, double, single TokenKind) Token {
	if l.expect(second) {
		return MarkerToken(double)
	}

	return MarkerToken(single)
}

func (l *Lexer) scanInteger(pos Position) (Token, bool, error) {
	start := l.pos

	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}

	text := string(l.input[start:l.pos])

	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		numErr := &strconv.NumError{}
		if errors.As(err, &numErr) {
			err = numErr.Err
		}

		return Token{}, false, ErrLexical.
			Wrap(fmt.Errorf("invalid integer literal %s: %w", text, err)).
			With(pos.attrs()...).
			With(slog.String("literal", text))
	}

	return IntegerToken(int32(n)), true, nil
}

func (l *Lexer) scanWord() Token {
	start := l.pos

	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}

	text := string(l.input[start:l.pos])

	if tok, ok := LookupKeyword(text); ok {
		return tok
	}

	return IdentToken(text)
}

func unexpectedChar(ch rune, pos Position) error {
	return ErrLexical.
		Wrapf("unexpected character: %c", ch).
		With(pos.attrs()...).
		With(slog.String("char", string(ch)))
}

// Helper methods

func (l *Lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) expect(ch rune) bool {
	if !l.eof() && l.peek() == ch {
		l.advance()

		return true
	}

	return false
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// Character classification

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
