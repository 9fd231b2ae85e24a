package lang

// Constructors for building syntax trees programmatically without parsing
// source text. This is useful for generating formatted programs or for
// testing.
//
// Example:
//
//	prog := lang.Program{
//	    lang.NewLet("x", lang.NewBinary(lang.BinAdd,
//	        lang.NewInteger(1),
//	        lang.NewInteger(2),
//	    )),
//	    lang.NewExprStmt(lang.NewIdent("x")),
//	}

// NewInteger creates an integer literal [Expr].
func NewInteger(n int32) *Expr {
	return &Expr{Kind: ExprInteger, Int: n}
}

// NewBool creates a boolean literal [Expr].
func NewBool(b bool) *Expr {
	return &Expr{Kind: ExprBool, Bool: b}
}

// NewIdent creates an identifier reference [Expr].
func NewIdent(name string) *Expr {
	return &Expr{Kind: ExprIdent, Name: name}
}

// NewUnary creates a prefix operation [Expr].
func NewUnary(op UnOp, operand *Expr) *Expr {
	return &Expr{Kind: ExprUnary, UnOp: op, Operand: operand}
}

// NewBinary creates an arithmetic [Expr].
func NewBinary(op BinOp, left, right *Expr) *Expr {
	return &Expr{Kind: ExprBinary, BinOp: op, Left: left, Right: right}
}

// NewLogical creates a logical [Expr].
func NewLogical(op LogOp, left, right *Expr) *Expr {
	return &Expr{Kind: ExprLogical, LogOp: op, Left: left, Right: right}
}

// NewRelational creates a comparison [Expr].
func NewRelational(op RelOp, left, right *Expr) *Expr {
	return &Expr{Kind: ExprRelational, RelOp: op, Left: left, Right: right}
}

// NewList creates a list literal [Expr].
func NewList(elems ...*Expr) *Expr {
	return &Expr{Kind: ExprList, Elems: elems}
}

// NewExprStmt creates an expression [Stmt].
func NewExprStmt(expr *Expr) *Stmt {
	return &Stmt{Kind: StmtExpr, Expr: expr}
}

// NewLet creates a binding [Stmt].
func NewLet(name string, init *Expr) *Stmt {
	return &Stmt{Kind: StmtLet, Name: name, Expr: init}
}

// NewIf creates a conditional [Stmt]. The else branch may be nil.
func NewIf(test *Expr, then, els *Stmt) *Stmt {
	return &Stmt{Kind: StmtIf, Expr: test, Then: then, Else: els}
}

// NewBlock creates a nested-scope [Stmt].
func NewBlock(body ...*Stmt) *Stmt {
	return &Stmt{Kind: StmtBlock, Body: body}
}
