package lang

import "strconv"

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	TokenInvalid TokenKind = iota

	// Literals carry a payload.
	TokenInteger
	TokenIdent

	// Keywords.
	TokenLet
	TokenIf
	TokenElse
	TokenTrue
	TokenFalse

	// Logic.
	TokenOr
	TokenAnd

	// Relational.
	TokenEq
	TokenNe
	TokenGt
	TokenLt
	TokenGe
	TokenLe

	// Arithmetic.
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenCaret

	// Brackets.
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace

	// Punctuation.
	TokenBang
	TokenAssign
	TokenSemicolon
	TokenComma
)

var tokenSpelling = [...]string{
	TokenInvalid:   "<invalid>",
	TokenInteger:   "<integer>",
	TokenIdent:     "<identifier>",
	TokenLet:       "let",
	TokenIf:        "if",
	TokenElse:      "else",
	TokenTrue:      "true",
	TokenFalse:     "false",
	TokenOr:        "||",
	TokenAnd:       "&&",
	TokenEq:        "==",
	TokenNe:        "!=",
	TokenGt:        ">",
	TokenLt:        "<",
	TokenGe:        ">=",
	TokenLe:        "<=",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenCaret:     "^",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenBang:      "!",
	TokenAssign:    "=",
	TokenSemicolon: ";",
	TokenComma:     ",",
}

// String returns the source spelling of a bare token kind, or a placeholder
// in angle brackets for the literal kinds.
func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenSpelling) {
		return tokenSpelling[TokenInvalid]
	}

	return tokenSpelling[k]
}

// Token is a single lexical unit.
// Only Integer tokens use Int and only Ident tokens use Text; every other
// kind is a bare marker. Tokens are comparable with ==.
type Token struct {
	Kind TokenKind
	Int  int32
	Text string
}

// String renders the token exactly as it is spelled in source.
func (t Token) String() string {
	switch t.Kind {
	case TokenInteger:
		return strconv.FormatInt(int64(t.Int), 10)

	case TokenIdent:
		return t.Text

	default:
		return t.Kind.String()
	}
}

// IntegerToken returns an Integer literal token.
func IntegerToken(n int32) Token { return Token{Kind: TokenInteger, Int: n} }

// IdentToken returns an identifier token.
func IdentToken(name string) Token { return Token{Kind: TokenIdent, Text: name} }

// MarkerToken returns a bare token of the given kind.
func MarkerToken(kind TokenKind) Token { return Token{Kind: kind} }

var keywords = map[string]TokenKind{
	"let":   TokenLet,
	"if":    TokenIf,
	"else":  TokenElse,
	"true":  TokenTrue,
	"false": TokenFalse,
}

// LookupKeyword maps a reserved word to its token.
func LookupKeyword(text string) (Token, bool) {
	kind, ok := keywords[text]
	if !ok {
		return Token{}, false
	}

	return MarkerToken(kind), true
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	return []string{"let", "if", "else", "true", "false"}
}
