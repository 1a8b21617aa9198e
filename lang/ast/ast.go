// Package ast defines the abstract syntax tree produced by the parser
// Node shapes follow the same general approach as github.com/mna/nenuphar's lang/ast package
// (tagged Expr/Stmt interfaces, every node owning its children, a Span()
// accessor), adapted to Kaubo's own grammar.
package ast

import "github.com/kaubo-lang/kaubo/lang/token"

// Node is implemented by every AST node.
type Node interface {
	Span() token.Span
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Type represents a (advisory, never gating) type annotation.
type Type struct {
	// Name is the nominal type name (int, float, bool, string, any, or a
	// user struct name), empty if Elem or Func is set.
	Name string
	// Elem is set for a list-of-T type (Name == "list").
	Elem *Type
	// Func is set for a function type (params)->return.
	Func *FuncType
}

// FuncType is a function type (params)->return with an optional return.
type FuncType struct {
	Params []*Type
	Return *Type // nil if the function has no declared return type
}

// Chunk is the root of a parsed file: a sequence of top-level statements.
type Chunk struct {
	Name  string // source file name, may be empty
	Block *Block
}

func (c *Chunk) Span() token.Span {
	if c.Block != nil {
		return c.Block.Span()
	}
	return token.Span{}
}

// Block is a sequence of statements delimited by { } or a whole file.
type Block struct {
	Start token.Pos
	End   token.Pos
	Stmts []Stmt
}

func (b *Block) Span() token.Span { return token.Span{Start: b.Start, End: b.End} }
