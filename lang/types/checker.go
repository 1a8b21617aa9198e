package types

import (
	"github.com/kaubo-lang/kaubo/lang/ast"
	"github.com/kaubo-lang/kaubo/lang/token"
)

// Checker walks a parsed chunk and infers types advisorily; it never
// returns a fatal error, only a list of Warnings to surface to the user.
type Checker struct {
	structs map[string]map[string]*Type // struct name -> field name -> type
	scope   *scope
	warns   []Warning
}

// Check type-checks a chunk and returns the advisory warnings collected.
// A nil or empty result means the checker found nothing worth flagging;
// it says nothing about whether the program will run successfully.
func Check(chunk *ast.Chunk) []Warning {
	c := &Checker{
		structs: make(map[string]map[string]*Type),
		scope:   newScope(nil),
	}
	if chunk.Block == nil {
		return c.warns
	}
	c.collectStructs(chunk.Block.Stmts)
	for _, s := range chunk.Block.Stmts {
		c.checkStmt(s)
	}
	return c.warns
}

func (c *Checker) warn(w Warning) {
	c.warns = append(c.warns, w)
}

// collectStructs does a shallow pre-pass so member access against a
// struct defined later in the same file still resolves field types.
func (c *Checker) collectStructs(stmts []ast.Stmt) {
	structNames := make(map[string]bool)
	for _, s := range stmts {
		if sd, ok := s.(*ast.StructDef); ok {
			structNames[sd.Name] = true
		}
	}
	for _, s := range stmts {
		if sd, ok := s.(*ast.StructDef); ok {
			fields := make(map[string]*Type)
			for _, f := range sd.Fields {
				name := ""
				if f.Type != nil {
					name = f.Type.Name
				}
				fields[f.Name] = fromAnnotationName(name, structNames)
			}
			c.structs[sd.Name] = fields
		}
	}
}

func (c *Checker) pushScope() { c.scope = newScope(c.scope) }
func (c *Checker) popScope()  { c.scope = c.scope.parent }

func (c *Checker) annType(t *ast.Type) *Type {
	if t == nil {
		return Any
	}
	if t.Func != nil {
		sig := &FuncSig{Return: c.annType(t.Func.Return)}
		for _, p := range t.Func.Params {
			sig.Params = append(sig.Params, c.annType(p))
		}
		return &Type{Kind: KindFunc, Func: sig}
	}
	if t.Name == "list" && t.Elem != nil {
		return &Type{Kind: KindList, Elem: c.annType(t.Elem)}
	}
	structNames := make(map[string]bool, len(c.structs))
	for name := range c.structs {
		structNames[name] = true
	}
	return fromAnnotationName(t.Name, structNames)
}

func (c *Checker) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		c.inferExpr(n.Expr)
	case *ast.EmptyStmt, *ast.BreakStmt, *ast.ContinueStmt:
		// no type information
	case *ast.BlockStmt:
		c.pushScope()
		for _, st := range n.Block.Stmts {
			c.checkStmt(st)
		}
		c.popScope()
	case *ast.VarDecl:
		var declared *Type
		if n.Type != nil {
			declared = c.annType(n.Type)
		}
		var initType *Type
		if n.Init != nil {
			initType = c.inferExpr(n.Init)
		}
		switch {
		case declared != nil && initType != nil && !compatible(declared, initType):
			c.warn(mismatch(n.Pos.Start, declared, initType, "variable "+n.Name))
			c.scope.define(n.Name, declared)
		case declared != nil:
			c.scope.define(n.Name, declared)
		case initType != nil:
			c.scope.define(n.Name, initType)
		default:
			c.scope.define(n.Name, Any)
		}
	case *ast.IfStmt:
		c.checkCondition(n.Cond)
		c.checkStmt(&ast.BlockStmt{Block: n.Then})
		for _, elif := range n.Elifs {
			c.checkCondition(elif.Cond)
			c.checkStmt(&ast.BlockStmt{Block: elif.Body})
		}
		if n.Else != nil {
			c.checkStmt(&ast.BlockStmt{Block: n.Else})
		}
	case *ast.WhileStmt:
		c.checkCondition(n.Cond)
		c.checkStmt(&ast.BlockStmt{Block: n.Body})
	case *ast.ForInStmt:
		iterType := c.inferExpr(n.Iterable)
		c.pushScope()
		if iterType != nil && iterType.Kind == KindList {
			c.scope.define(n.Name, iterType.Elem)
		} else {
			c.scope.define(n.Name, Any)
		}
		for _, st := range n.Body.Stmts {
			c.checkStmt(st)
		}
		c.popScope()
	case *ast.ReturnStmt:
		if n.Value != nil {
			c.inferExpr(n.Value)
		}
	case *ast.PrintStmt:
		c.inferExpr(n.Value)
	case *ast.ModuleDef:
		c.pushScope()
		for _, st := range n.Body.Stmts {
			c.checkStmt(st)
		}
		c.popScope()
	case *ast.ImportStmt:
		// import bindings are resolved by the module resolver, not here
	case *ast.StructDef:
		// handled in collectStructs
	case *ast.ImplBlock:
		fields := c.structs[n.Struct]
		for _, m := range n.Methods {
			c.checkMethod(n.Struct, fields, m.Lambda)
		}
	}
}

func (c *Checker) checkCondition(e ast.Expr) {
	t := c.inferExpr(e)
	if t != nil && t.Kind != KindBool && t.Kind != KindAny {
		c.warn(mismatch(e.Span().Start, Bool, t, "condition"))
	}
}

func (c *Checker) checkMethod(structName string, fields map[string]*Type, lam *ast.LambdaExpr) {
	if lam == nil {
		return
	}
	c.pushScope()
	for _, p := range lam.Params {
		if p.Name == "self" {
			c.scope.define("self", &Type{Kind: KindStruct, Struct: structName})
			continue
		}
		c.scope.define(p.Name, c.annType(p.Type))
	}
	for _, st := range lam.Body.Stmts {
		c.checkStmt(st)
	}
	c.popScope()
	_ = fields
}

func (c *Checker) inferLambda(lam *ast.LambdaExpr) *Type {
	c.pushScope()
	sig := &FuncSig{}
	for _, p := range lam.Params {
		pt := c.annType(p.Type)
		sig.Params = append(sig.Params, pt)
		c.scope.define(p.Name, pt)
	}
	if lam.Return != nil {
		sig.Return = c.annType(lam.Return)
	}
	for _, st := range lam.Body.Stmts {
		c.checkStmt(st)
	}
	c.popScope()
	return &Type{Kind: KindFunc, Func: sig}
}

// inferExpr infers the best-effort type of e, recording warnings for any
// mismatch it can prove. It always returns a non-nil Type (Any when
// inference can't determine anything useful).
func (c *Checker) inferExpr(e ast.Expr) *Type {
	switch n := e.(type) {
	case *ast.IntLit:
		return Int
	case *ast.FloatLit:
		return Float
	case *ast.StringLit:
		return Str
	case *ast.BoolLit:
		return Bool
	case *ast.NullLit:
		return Null
	case *ast.ListLit:
		var elem *Type
		for _, item := range n.Items {
			it := c.inferExpr(item)
			if elem == nil {
				elem = it
			} else if !Equal(elem, it) {
				elem = Any
			}
		}
		if elem == nil {
			elem = Any
		}
		return &Type{Kind: KindList, Elem: elem}
	case *ast.JSONLit:
		for _, entry := range n.Entries {
			c.inferExpr(entry.Value)
		}
		return Any
	case *ast.StructLit:
		fields := c.structs[n.Name]
		for _, f := range n.Fields {
			got := c.inferExpr(f.Value)
			if fields != nil {
				if want, ok := fields[f.Name]; ok && !compatible(want, got) {
					c.warn(mismatch(f.Value.Span().Start, want, got, n.Name+"."+f.Name))
				}
			}
		}
		return &Type{Kind: KindStruct, Struct: n.Name}
	case *ast.Ident:
		if t, ok := c.scope.lookup(n.Name); ok {
			return t
		}
		c.warn(Warning{Kind: WarnUndefinedName, Pos: n.Pos.Start, Message: "undefined name " + n.Name})
		return Any
	case *ast.BinaryExpr:
		return c.inferBinary(n)
	case *ast.UnaryExpr:
		right := c.inferExpr(n.Right)
		if n.Op == token.NOT {
			return Bool
		}
		if right != nil && !isNumeric(right) && right.Kind != KindAny {
			c.warn(mismatch(n.Right.Span().Start, Int, right, "unary -"))
		}
		return right
	case *ast.GroupingExpr:
		return c.inferExpr(n.Expr)
	case *ast.LambdaExpr:
		return c.inferLambda(n)
	case *ast.CallExpr:
		fnType := c.inferExpr(n.Fn)
		for _, a := range n.Args {
			c.inferExpr(a)
		}
		if fnType != nil && fnType.Kind == KindFunc {
			if fnType.Func != nil {
				if len(fnType.Func.Params) != len(n.Args) {
					c.warn(Warning{
						Kind:    WarnArity,
						Pos:     n.Pos.Start,
						Message: "call expects a different number of arguments",
					})
				}
				if fnType.Func.Return != nil {
					return fnType.Func.Return
				}
			}
			return Any
		}
		if fnType != nil && fnType.Kind != KindAny {
			c.warn(Warning{Kind: WarnNotCallable, Pos: n.Pos.Start, Message: "value of type " + fnType.String() + " is not callable"})
		}
		return Any
	case *ast.MemberExpr:
		targetType := c.inferExpr(n.Target)
		if targetType != nil && targetType.Kind == KindStruct {
			if fields, ok := c.structs[targetType.Struct]; ok {
				if ft, ok := fields[n.Name]; ok {
					return ft
				}
				c.warn(Warning{
					Kind:    WarnUnknownMember,
					Pos:     n.Pos.Start,
					Message: targetType.Struct + " has no field " + n.Name,
				})
			}
		}
		return Any
	case *ast.IndexExpr:
		targetType := c.inferExpr(n.Target)
		c.inferExpr(n.Index)
		if targetType != nil && targetType.Kind == KindList {
			return targetType.Elem
		}
		if targetType != nil && targetType.Kind != KindAny && targetType.Kind != KindString {
			c.warn(Warning{Kind: WarnNotIndexable, Pos: n.Pos.Start, Message: "value of type " + targetType.String() + " is not indexable"})
		}
		return Any
	case *ast.YieldExpr:
		if n.Value != nil {
			c.inferExpr(n.Value)
		}
		return Any
	default:
		return Any
	}
}

func (c *Checker) inferBinary(n *ast.BinaryExpr) *Type {
	left := c.inferExpr(n.Left)
	right := c.inferExpr(n.Right)

	switch n.Op {
	case token.ASSIGN:
		if id, ok := n.Left.(*ast.Ident); ok {
			if want, ok := c.scope.lookup(id.Name); ok && !compatible(want, right) {
				c.warn(mismatch(n.Left.Span().Start, want, right, "assignment to "+id.Name))
			}
		}
		return right
	case token.AND, token.OR:
		if left != nil && left.Kind != KindBool && left.Kind != KindAny {
			c.warn(mismatch(n.Left.Span().Start, Bool, left, "operand"))
		}
		if right != nil && right.Kind != KindBool && right.Kind != KindAny {
			c.warn(mismatch(n.Right.Span().Start, Bool, right, "operand"))
		}
		return Bool
	case token.EQ, token.NEQ, token.LT, token.GT, token.LE, token.GE:
		return Bool
	case token.PLUS:
		if isStringLike(left) && isStringLike(right) {
			return Str
		}
		return c.promoteNumeric(n, left, right)
	case token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		return c.promoteNumeric(n, left, right)
	default:
		return Any
	}
}

func isStringLike(t *Type) bool {
	return t != nil && (t.Kind == KindString || t.Kind == KindAny)
}

// promoteNumeric implements int/float arithmetic promotion: int op int is
// int, any float operand promotes the whole expression to float. A
// non-numeric operand that isn't KindAny is flagged but doesn't block
// inference of the rest of the expression.
func (c *Checker) promoteNumeric(n *ast.BinaryExpr, left, right *Type) *Type {
	if left != nil && !isNumeric(left) && left.Kind != KindAny {
		c.warn(mismatch(n.Left.Span().Start, Int, left, "arithmetic operand"))
	}
	if right != nil && !isNumeric(right) && right.Kind != KindAny {
		c.warn(mismatch(n.Right.Span().Start, Int, right, "arithmetic operand"))
	}
	if (left != nil && left.Kind == KindFloat) || (right != nil && right.Kind == KindFloat) {
		return Float
	}
	if (left != nil && left.Kind == KindAny) || (right != nil && right.Kind == KindAny) {
		return Any
	}
	return Int
}
