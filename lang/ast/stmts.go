package ast

import "github.com/kaubo-lang/kaubo/lang/token"

type (
	// ExprStmt is an expression used as a statement.
	ExprStmt struct {
		Pos  token.Span
		Expr Expr
	}

	// EmptyStmt is a standalone semicolon.
	EmptyStmt struct {
		Pos token.Span
	}

	// BlockStmt wraps a Block used as a statement (e.g. a bare { ... }).
	BlockStmt struct {
		Block *Block
	}

	// VarDecl is a variable declaration, optionally `pub` (only valid inside a
	// module body) and with an optional type annotation.
	VarDecl struct {
		Pos  token.Span
		Pub  bool
		Name string
		Type *Type // nil if not annotated
		Init Expr  // nil if not initialized
	}

	// ElifClause is a single `elif cond { ... }` arm.
	ElifClause struct {
		Cond Expr
		Body *Block
	}

	// IfStmt is an if/elif/else statement.
	IfStmt struct {
		Pos   token.Span
		Cond  Expr
		Then  *Block
		Elifs []ElifClause
		Else  *Block // nil if no else clause
	}

	// WhileStmt is a while loop.
	WhileStmt struct {
		Pos  token.Span
		Cond Expr
		Body *Block
	}

	// ForInStmt is a for-in loop: for var <name> in <iterable> { ... }.
	ForInStmt struct {
		Pos      token.Span
		Name     string
		Iterable Expr
		Body     *Block
	}

	// ReturnStmt is a return statement, with an optional value.
	ReturnStmt struct {
		Pos   token.Span
		Value Expr // nil for a bare `return;`
	}

	// PrintStmt is a debug print statement.
	PrintStmt struct {
		Pos   token.Span
		Value Expr
	}

	// BreakStmt breaks out of the innermost loop.
	BreakStmt struct {
		Pos token.Span
	}

	// ContinueStmt continues the innermost loop.
	ContinueStmt struct {
		Pos token.Span
	}

	// ModuleDef is a `module name { ... }` declaration.
	ModuleDef struct {
		Pos  token.Span
		Name string
		Body *Block
	}

	// ImportKind distinguishes the three import forms.
	ImportKind int

	// ImportStmt is one of the three import forms:
	//   import a.b.c;
	//   import a.b.c as name;
	//   from a.b.c import x, y;
	ImportStmt struct {
		Pos   token.Span
		Kind  ImportKind
		Path  string   // dotted module path, e.g. "a.b.c"
		Alias string   // set only for ImportAs
		Names []string // set only for ImportFrom
	}

	// StructField is a single field declaration inside a struct definition.
	StructField struct {
		Name string
		Type *Type
	}

	// StructDef declares a named shape with ordered fields.
	StructDef struct {
		Pos    token.Span
		Name   string
		Fields []StructField
	}

	// MethodDef is a single method inside an impl block. A method whose name
	// begins with "operator " registers as an operator overload.
	MethodDef struct {
		Name   string
		Lambda *LambdaExpr
	}

	// ImplBlock declares methods on a previously defined struct shape.
	ImplBlock struct {
		Pos     token.Span
		Struct  string
		Methods []MethodDef
	}
)

const (
	ImportPlain ImportKind = iota
	ImportAs
	ImportFrom
)

func (n *ExprStmt) Span() token.Span     { return n.Pos }
func (n *EmptyStmt) Span() token.Span    { return n.Pos }
func (n *BlockStmt) Span() token.Span    { return n.Block.Span() }
func (n *VarDecl) Span() token.Span      { return n.Pos }
func (n *IfStmt) Span() token.Span       { return n.Pos }
func (n *WhileStmt) Span() token.Span    { return n.Pos }
func (n *ForInStmt) Span() token.Span    { return n.Pos }
func (n *ReturnStmt) Span() token.Span   { return n.Pos }
func (n *PrintStmt) Span() token.Span    { return n.Pos }
func (n *BreakStmt) Span() token.Span    { return n.Pos }
func (n *ContinueStmt) Span() token.Span { return n.Pos }
func (n *ModuleDef) Span() token.Span    { return n.Pos }
func (n *ImportStmt) Span() token.Span   { return n.Pos }
func (n *StructDef) Span() token.Span    { return n.Pos }
func (n *ImplBlock) Span() token.Span    { return n.Pos }

func (n *ExprStmt) stmtNode()     {}
func (n *EmptyStmt) stmtNode()    {}
func (n *BlockStmt) stmtNode()    {}
func (n *VarDecl) stmtNode()      {}
func (n *IfStmt) stmtNode()       {}
func (n *WhileStmt) stmtNode()    {}
func (n *ForInStmt) stmtNode()    {}
func (n *ReturnStmt) stmtNode()   {}
func (n *PrintStmt) stmtNode()    {}
func (n *BreakStmt) stmtNode()    {}
func (n *ContinueStmt) stmtNode() {}
func (n *ModuleDef) stmtNode()    {}
func (n *ImportStmt) stmtNode()   {}
func (n *StructDef) stmtNode()    {}
func (n *ImplBlock) stmtNode()    {}
