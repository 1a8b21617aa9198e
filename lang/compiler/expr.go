package compiler

import (
	"github.com/kaubo-lang/kaubo/lang/ast"
	"github.com/kaubo-lang/kaubo/lang/token"
	"github.com/kaubo-lang/kaubo/lang/value"
)

func (c *Compiler) compileExpr(e ast.Expr) error {
	line := c.lineOf(e.Span().Start)
	switch n := e.(type) {
	case *ast.IntLit:
		idx := c.chunk.addConstant(value.Int(n.Val))
		return c.emitLoadConst(idx, line)
	case *ast.FloatLit:
		idx := c.chunk.addConstant(value.Float(n.Val))
		return c.emitLoadConst(idx, line)
	case *ast.StringLit:
		idx := c.constString(n.Val)
		return c.emitLoadConst(idx, line)
	case *ast.BoolLit:
		if n.Val {
			c.emit(OpTrue, line)
		} else {
			c.emit(OpFalse, line)
		}
		return nil
	case *ast.NullLit:
		c.emit(OpNull, line)
		return nil
	case *ast.ListLit:
		for _, item := range n.Items {
			if err := c.compileExpr(item); err != nil {
				return err
			}
		}
		if len(n.Items) > 0xFFFF {
			return errAt(ErrUnimplemented, n.Pos.Start, "list literal too large")
		}
		c.emit(OpBuildList, line)
		c.emitU16(uint16(len(n.Items)), line)
		return nil
	case *ast.JSONLit:
		for _, entry := range n.Entries {
			idx := c.constString(entry.Key)
			if err := c.emitLoadConst(idx, line); err != nil {
				return err
			}
			if err := c.compileExpr(entry.Value); err != nil {
				return err
			}
		}
		c.emit(OpBuildJSON, line)
		c.emitU16(uint16(len(n.Entries)), line)
		return nil
	case *ast.StructLit:
		info, ok := c.structs[n.Name]
		if !ok {
			return errAt(ErrUnresolvedName, n.Pos.Start, "unknown struct %q", n.Name)
		}
		if err := c.emitLoadName(n.Pos.Start, n.Name, line); err != nil {
			return err
		}
		// push field values in shape-declared order, defaulting to null for
		// any field the literal doesn't mention.
		provided := make(map[string]ast.Expr, len(n.Fields))
		for _, f := range n.Fields {
			provided[f.Name] = f.Value
		}
		for _, fname := range info.fields {
			if val, ok := provided[fname]; ok {
				if err := c.compileExpr(val); err != nil {
					return err
				}
			} else {
				c.emit(OpNull, line)
			}
		}
		nameIdx := c.constString(n.Name)
		c.emit(OpBuildStruct, line)
		c.emitU16(uint16(nameIdx), line)
		c.emitU16(uint16(len(info.fields)), line)
		return nil
	case *ast.Ident:
		return c.emitLoadName(n.Pos.Start, n.Name, line)
	case *ast.GroupingExpr:
		return c.compileExpr(n.Expr)
	case *ast.UnaryExpr:
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		switch n.Op {
		case token.MINUS:
			c.emit(OpNeg, line)
		case token.NOT:
			c.emit(OpNot, line)
		default:
			return errAt(ErrInvalidOperator, n.OpPos, "invalid unary operator %s", n.Op.GoString())
		}
		return nil
	case *ast.BinaryExpr:
		return c.compileBinary(n, line)
	case *ast.LambdaExpr:
		return c.compileLambda(n, "")
	case *ast.CallExpr:
		// obj.method(args) compiles like any other call: GetMember decides
		// at runtime whether the result is a plain value or a bound method
		// that implicitly supplies self, since `.` resolves struct fields,
		// struct methods and module exports alike.
		if err := c.compileExpr(n.Fn); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := c.compileExpr(a); err != nil {
				return err
			}
		}
		if len(n.Args) > 0xFF {
			return errAt(ErrUnimplemented, n.Pos.Start, "call has too many arguments")
		}
		c.emit(OpCall, line)
		c.emitU8(uint8(len(n.Args)), line)
		return nil
	case *ast.MemberExpr:
		if err := c.compileExpr(n.Target); err != nil {
			return err
		}
		idx := c.constString(n.Name)
		c.emit(OpGetMember, line)
		c.emitU16(uint16(idx), line)
		return nil
	case *ast.IndexExpr:
		if err := c.compileExpr(n.Target); err != nil {
			return err
		}
		if err := c.compileExpr(n.Index); err != nil {
			return err
		}
		c.emit(OpIndexGet, line)
		return nil
	case *ast.YieldExpr:
		if n.Value != nil {
			if err := c.compileExpr(n.Value); err != nil {
				return err
			}
		} else {
			c.emit(OpNull, line)
		}
		c.emit(OpYield, line)
		c.chunk.IsGenerator = true
		return nil
	default:
		return errAt(ErrUnimplemented, e.Span().Start, "unsupported expression %T", e)
	}
}

func (c *Compiler) compileBinary(n *ast.BinaryExpr, line int32) error {
	if n.Op == token.ASSIGN {
		return c.compileAssign(n, line)
	}
	if n.Op == token.AND || n.Op == token.OR {
		return c.compileLogical(n, line)
	}
	if err := c.compileExpr(n.Left); err != nil {
		return err
	}
	if err := c.compileExpr(n.Right); err != nil {
		return err
	}
	op, ok := binaryOpcodes[n.Op]
	if !ok {
		return errAt(ErrInvalidOperator, n.Span().Start, "invalid binary operator %s", n.Op.GoString())
	}
	c.emit(op, line)
	return nil
}

var binaryOpcodes = map[token.Kind]Opcode{
	token.PLUS:    OpAdd,
	token.MINUS:   OpSub,
	token.STAR:    OpMul,
	token.SLASH:   OpDiv,
	token.PERCENT: OpMod,
	token.EQ:      OpEq,
	token.NEQ:     OpNeq,
	token.LT:      OpLt,
	token.GT:      OpGt,
	token.LE:      OpLe,
	token.GE:      OpGe,
}

// compileLogical implements `and` and `or` by short-circuiting: OpJumpIfFalse
// never pops, so the taken branch leaves the tested value as the result;
// the fallthrough path explicitly pops it before evaluating the other
// operand.
func (c *Compiler) compileLogical(n *ast.BinaryExpr, line int32) error {
	if err := c.compileExpr(n.Left); err != nil {
		return err
	}
	if n.Op == token.AND {
		skip := c.emitJump(OpJumpIfFalse, line)
		c.emit(OpPop, line)
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		return c.patchJump(skip)
	}
	// OR: if left is falsy, jump past the short-circuit and evaluate right.
	elseJump := c.emitJump(OpJumpIfFalse, line)
	end := c.emitJump(OpJump, line)
	if err := c.patchJump(elseJump); err != nil {
		return err
	}
	c.emit(OpPop, line)
	if err := c.compileExpr(n.Right); err != nil {
		return err
	}
	return c.patchJump(end)
}

// compileAssign compiles `target = value`. Each target kind pushes
// whatever OpSetMember/OpIndexSet/store-name needs before the value, so
// that the opcode can leave the assigned value as the expression's
// result (assignment is itself an expression in Kaubo).
func (c *Compiler) compileAssign(n *ast.BinaryExpr, line int32) error {
	switch target := n.Left.(type) {
	case *ast.Ident:
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		c.emit(OpDup, line)
		return c.emitStoreName(target.Pos.Start, target.Name, line)
	case *ast.MemberExpr:
		if err := c.compileExpr(target.Target); err != nil {
			return err
		}
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		idx := c.constString(target.Name)
		c.emit(OpSetMember, line)
		c.emitU16(uint16(idx), line)
		return nil
	case *ast.IndexExpr:
		if err := c.compileExpr(target.Target); err != nil {
			return err
		}
		if err := c.compileExpr(target.Index); err != nil {
			return err
		}
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		c.emit(OpIndexSet, line)
		return nil
	default:
		return errAt(ErrInvalidAssignTarget, n.Span().Start, "invalid assignment target")
	}
}
