package ast

import "github.com/kaubo-lang/kaubo/lang/token"

type (
	// IntLit is an integer literal.
	IntLit struct {
		Pos token.Span
		Val int64
	}

	// FloatLit is a floating point literal.
	FloatLit struct {
		Pos token.Span
		Val float64
	}

	// StringLit is a string literal.
	StringLit struct {
		Pos token.Span
		Val string
	}

	// BoolLit is a true/false literal.
	BoolLit struct {
		Pos token.Span
		Val bool
	}

	// NullLit is the null literal.
	NullLit struct {
		Pos token.Span
	}

	// ListLit is a list literal, e.g. [1, 2, 3].
	ListLit struct {
		Pos   token.Span
		Items []Expr
	}

	// JSONEntry is a single key/value pair of a JSON literal.
	JSONEntry struct {
		Key   string
		Value Expr
	}

	// JSONLit is a JSON object literal, e.g. json{ "a": 1 }.
	JSONLit struct {
		Pos     token.Span
		Entries []JSONEntry
	}

	// StructFieldInit is a single field initializer in a struct literal.
	StructFieldInit struct {
		Name  string
		Value Expr
	}

	// StructLit is a struct literal, e.g. Point { x: 1, y: 2 }.
	StructLit struct {
		Pos    token.Span
		Name   string
		Fields []StructFieldInit
	}

	// Ident is a variable reference.
	Ident struct {
		Pos  token.Span
		Name string
	}

	// BinaryExpr is a binary operator expression, e.g. x + y.
	BinaryExpr struct {
		Op          token.Kind
		Left, Right Expr
	}

	// UnaryExpr is a unary operator expression, e.g. -x, not x.
	UnaryExpr struct {
		OpPos token.Pos
		Op    token.Kind
		Right Expr
	}

	// GroupingExpr is a parenthesized expression.
	GroupingExpr struct {
		Pos  token.Span
		Expr Expr
	}

	// Param is a single lambda parameter, with an optional type annotation.
	Param struct {
		Name string
		Type *Type
	}

	// LambdaExpr is a lambda literal, e.g. |a: int, b: int| -> int { ... }.
	LambdaExpr struct {
		Pos    token.Span
		Params []Param
		Return *Type
		Body   *Block
	}

	// CallExpr is a function call expression, e.g. f(x, y).
	CallExpr struct {
		Pos  token.Span
		Fn   Expr
		Args []Expr
	}

	// MemberExpr is a member access expression, e.g. x.y.
	MemberExpr struct {
		Pos    token.Span
		Target Expr
		Name   string
	}

	// IndexExpr is an index access expression, e.g. x[y].
	IndexExpr struct {
		Pos    token.Span
		Target Expr
		Index  Expr
	}

	// YieldExpr is a yield expression inside a generator lambda body.
	YieldExpr struct {
		Pos   token.Span
		Value Expr // nil for a bare `yield;`
	}
)

func (n *IntLit) Span() token.Span       { return n.Pos }
func (n *FloatLit) Span() token.Span     { return n.Pos }
func (n *StringLit) Span() token.Span    { return n.Pos }
func (n *BoolLit) Span() token.Span      { return n.Pos }
func (n *NullLit) Span() token.Span      { return n.Pos }
func (n *ListLit) Span() token.Span      { return n.Pos }
func (n *JSONLit) Span() token.Span      { return n.Pos }
func (n *StructLit) Span() token.Span    { return n.Pos }
func (n *Ident) Span() token.Span        { return n.Pos }
func (n *GroupingExpr) Span() token.Span { return n.Pos }
func (n *LambdaExpr) Span() token.Span   { return n.Pos }
func (n *CallExpr) Span() token.Span     { return n.Pos }
func (n *MemberExpr) Span() token.Span   { return n.Pos }
func (n *IndexExpr) Span() token.Span    { return n.Pos }
func (n *YieldExpr) Span() token.Span    { return n.Pos }

func (n *BinaryExpr) Span() token.Span {
	l, r := n.Left.Span(), n.Right.Span()
	return token.Span{Start: l.Start, End: r.End}
}

func (n *UnaryExpr) Span() token.Span {
	r := n.Right.Span()
	return token.Span{Start: n.OpPos, End: r.End}
}

func (n *IntLit) exprNode()       {}
func (n *FloatLit) exprNode()     {}
func (n *StringLit) exprNode()    {}
func (n *BoolLit) exprNode()      {}
func (n *NullLit) exprNode()      {}
func (n *ListLit) exprNode()      {}
func (n *JSONLit) exprNode()      {}
func (n *StructLit) exprNode()    {}
func (n *Ident) exprNode()        {}
func (n *BinaryExpr) exprNode()   {}
func (n *UnaryExpr) exprNode()    {}
func (n *GroupingExpr) exprNode() {}
func (n *LambdaExpr) exprNode()   {}
func (n *CallExpr) exprNode()     {}
func (n *MemberExpr) exprNode()   {}
func (n *IndexExpr) exprNode()    {}
func (n *YieldExpr) exprNode()    {}
