// Package lang implements a small expression-oriented scripting language
// over 32-bit integers, booleans, and lists.
//
// Source text flows through three stages, each of which reports the first
// error it encounters as an [*Error] matching one of the package sentinels:
//
//   - [Tokenize] converts text into [Token]s.
//   - [Parse] builds a [Program] by precedence climbing.
//   - [Evaluate] walks the tree against an [Environment].
//
// [ParseString] combines the first two stages behind a bounded cache, and a
// [Session] adds a persistent root environment for interactive use.
//
// # Grammar
//
// Informal EBNF:
//
//	Program     → [ Stmt { ';' Stmt } [ ';' ] ]
//	Stmt        → If | Let | Block | Or
//	If          → 'if' Or Stmt [ 'else' Stmt ]
//	Let         → 'let' Ident '=' Or
//	Block       → '{' Stmt { ';' Stmt } [ ';' ] '}'
//	Or          → And { '||' And }
//	And         → Relational { '&&' Relational }
//	Relational  → Additive { ( '==' | '!=' | '>' | '<' | '>=' | '<=' ) Additive }
//	Additive    → Multiplicative { ( '+' | '-' ) Multiplicative }
//	Multiplicative → Power { ( '*' | '/' ) Power }
//	Power       → Unary [ '^' Power ]
//	Unary       → ( '+' | '-' | '!' ) Power | Primary
//	Primary     → Integer | 'true' | 'false' | Ident | '(' Or ')' | List
//	List        → '[' { ',' } [ Or { ',' { ',' } Or } { ',' } ] ']'
//
// Because a unary operator takes a Power operand, -3 ^ 2 is -(3 ^ 2).
//
// # Example
//
//	let width = 6;
//	let height = 7;
//	let area = width * height;
//	if area > 40 { let big = true; big } else false;
//	[width, height, area]
//
// # Semantics
//
// Arithmetic wraps on 32-bit overflow. Division truncates toward zero and
// fails on a zero divisor; exponentiation fails on a negative exponent.
// Both operands of && and || are always evaluated. Conditions accept a
// Bool, or an Integer, which is true when positive. Lists compare equal
// element by element.
//
// Each block runs in a child scope of the enclosing one, so its bindings
// vanish when it ends; a let in an inner scope shadows, and never alters,
// an outer binding of the same name.
package lang
