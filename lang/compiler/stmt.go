package compiler

import (
	"github.com/kaubo-lang/kaubo/lang/ast"
)

func (c *Compiler) compileStmt(s ast.Stmt) error {
	line := c.lineOf(s.Span().Start)
	switch n := s.(type) {
	case *ast.ExprStmt:
		if err := c.compileExpr(n.Expr); err != nil {
			return err
		}
		c.emit(OpPop, line)
		return nil
	case *ast.EmptyStmt:
		return nil
	case *ast.BlockStmt:
		c.beginScope()
		for _, st := range n.Block.Stmts {
			if err := c.compileStmt(st); err != nil {
				return err
			}
		}
		c.endScope(line)
		return nil
	case *ast.VarDecl:
		return c.compileVarDecl(n, line)
	case *ast.IfStmt:
		return c.compileIf(n, line)
	case *ast.WhileStmt:
		return c.compileWhile(n, line)
	case *ast.ForInStmt:
		return c.compileForIn(n, line)
	case *ast.ReturnStmt:
		if n.Value != nil {
			if err := c.compileExpr(n.Value); err != nil {
				return err
			}
		} else {
			c.emit(OpNull, line)
		}
		c.emit(OpReturn, line)
		return nil
	case *ast.PrintStmt:
		if err := c.compileExpr(n.Value); err != nil {
			return err
		}
		c.emit(OpPrint, line)
		return nil
	case *ast.BreakStmt:
		return c.compileBreak(n, line)
	case *ast.ContinueStmt:
		return c.compileContinue(n, line)
	case *ast.ModuleDef:
		c.beginScope()
		for _, st := range n.Body.Stmts {
			if err := c.compileStmt(st); err != nil {
				return err
			}
		}
		c.endScope(line)
		return nil
	case *ast.ImportStmt:
		return c.compileImport(n, line)
	case *ast.StructDef:
		return c.compileStructDef(n, line)
	case *ast.ImplBlock:
		return c.compileImplBlock(n, line)
	default:
		return errAt(ErrUnimplemented, s.Span().Start, "unsupported statement %T", s)
	}
}

func (c *Compiler) compileVarDecl(n *ast.VarDecl, line int32) error {
	if n.Init != nil {
		if err := c.compileExpr(n.Init); err != nil {
			return err
		}
	} else {
		c.emit(OpNull, line)
	}
	slot, err := c.declareLocal(n.Pos.Start, n.Name)
	if err != nil {
		return err
	}
	if op, ok := storeLocalShort(slot); ok {
		c.emit(op, line)
	} else {
		c.emit(OpStoreLocalWide, line)
		c.emitU16(uint16(slot), line)
	}
	c.emit(OpPop, line) // declaration is a statement, not an expression
	if n.Pub {
		if c.enclosing != nil {
			return errAt(ErrUnimplemented, n.Pos.Start, "pub is only valid at module top level")
		}
		c.exports = append(c.exports, ExportSlot{Name: n.Name, Slot: slot})
	}
	return nil
}

func (c *Compiler) compileIf(n *ast.IfStmt, line int32) error {
	if err := c.compileExpr(n.Cond); err != nil {
		return err
	}
	elseJump := c.emitJump(OpJumpIfFalse, line)
	c.emit(OpPop, line)
	if err := c.compileStmt(&ast.BlockStmt{Block: n.Then}); err != nil {
		return err
	}
	endJumps := []int{c.emitJump(OpJump, line)}
	if err := c.patchJump(elseJump); err != nil {
		return err
	}
	c.emit(OpPop, line)

	for _, elif := range n.Elifs {
		if err := c.compileExpr(elif.Cond); err != nil {
			return err
		}
		nextJump := c.emitJump(OpJumpIfFalse, line)
		c.emit(OpPop, line)
		if err := c.compileStmt(&ast.BlockStmt{Block: elif.Body}); err != nil {
			return err
		}
		endJumps = append(endJumps, c.emitJump(OpJump, line))
		if err := c.patchJump(nextJump); err != nil {
			return err
		}
		c.emit(OpPop, line)
	}

	if n.Else != nil {
		if err := c.compileStmt(&ast.BlockStmt{Block: n.Else}); err != nil {
			return err
		}
	}
	for _, j := range endJumps {
		if err := c.patchJump(j); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileWhile(n *ast.WhileStmt, line int32) error {
	start := c.loopStart()
	if err := c.compileExpr(n.Cond); err != nil {
		return err
	}
	exitJump := c.emitJump(OpJumpIfFalse, line)
	c.emit(OpPop, line)

	c.loops = append(c.loops, loopCtx{continueTarget: start})
	if err := c.compileStmt(&ast.BlockStmt{Block: n.Body}); err != nil {
		return err
	}
	loop := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]

	if err := c.emitLoop(OpLoop, start, line); err != nil {
		return err
	}
	if err := c.patchJump(exitJump); err != nil {
		return err
	}
	c.emit(OpPop, line)
	for _, j := range loop.breakJumps {
		if err := c.patchJump(j); err != nil {
			return err
		}
	}
	return nil
}

// compileForIn lowers `for var x in it { body }` onto the iterator
// protocol: OpGetIter converts the iterable to an iterator value, and
// OpIterNext either pushes the next element and falls through, or jumps
// past the loop entirely once the iterator is exhausted.
func (c *Compiler) compileForIn(n *ast.ForInStmt, line int32) error {
	if err := c.compileExpr(n.Iterable); err != nil {
		return err
	}
	c.emit(OpGetIter, line)

	c.beginScope()
	start := c.loopStart()
	exitJump := c.emitJump(OpIterNext, line)

	slot, err := c.declareLocal(n.Pos.Start, n.Name)
	if err != nil {
		return err
	}
	if op, ok := storeLocalShort(slot); ok {
		c.emit(op, line)
	} else {
		c.emit(OpStoreLocalWide, line)
		c.emitU16(uint16(slot), line)
	}
	c.emit(OpPop, line)

	c.loops = append(c.loops, loopCtx{continueTarget: start})
	for _, st := range n.Body.Stmts {
		if err := c.compileStmt(st); err != nil {
			return err
		}
	}
	loop := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]

	if err := c.emitLoop(OpLoop, start, line); err != nil {
		return err
	}
	if err := c.patchJump(exitJump); err != nil {
		return err
	}
	c.emit(OpPop, line) // discard the iterator value left on the stack
	c.endScope(line)
	for _, j := range loop.breakJumps {
		if err := c.patchJump(j); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileBreak(n *ast.BreakStmt, line int32) error {
	if len(c.loops) == 0 {
		return errAt(ErrUnimplemented, n.Pos.Start, "break outside of a loop")
	}
	j := c.emitJump(OpJump, line)
	top := len(c.loops) - 1
	c.loops[top].breakJumps = append(c.loops[top].breakJumps, j)
	return nil
}

func (c *Compiler) compileContinue(n *ast.ContinueStmt, line int32) error {
	if len(c.loops) == 0 {
		return errAt(ErrUnimplemented, n.Pos.Start, "continue outside of a loop")
	}
	target := c.loops[len(c.loops)-1].continueTarget
	return c.emitLoop(OpLoop, target, line)
}

// compileImport lowers all three import forms onto OpImportModule /
// OpGetModuleExport; the module itself must already have been compiled
// and run by the driver (the resolver's topological order guarantees
// that) before this chunk runs.
func (c *Compiler) compileImport(n *ast.ImportStmt, line int32) error {
	idIdx := c.constString(n.Path)
	c.emit(OpImportModule, line)
	c.emitU16(uint16(idIdx), line)

	switch n.Kind {
	case ast.ImportPlain:
		localName := lastSegment(n.Path)
		return c.finishImportBinding(n, localName, line)
	case ast.ImportAs:
		return c.finishImportBinding(n, n.Alias, line)
	case ast.ImportFrom:
		for i, name := range n.Names {
			if i < len(n.Names)-1 {
				c.emit(OpDup, line)
			}
			nameIdx := c.constString(name)
			c.emit(OpGetModuleExport, line)
			c.emitU16(uint16(nameIdx), line)
			slot, err := c.declareLocal(n.Pos.Start, name)
			if err != nil {
				return err
			}
			if op, ok := storeLocalShort(slot); ok {
				c.emit(op, line)
			} else {
				c.emit(OpStoreLocalWide, line)
				c.emitU16(uint16(slot), line)
			}
			c.emit(OpPop, line)
		}
		return nil
	default:
		return errAt(ErrUnimplemented, n.Pos.Start, "unsupported import kind")
	}
}

func (c *Compiler) finishImportBinding(n *ast.ImportStmt, localName string, line int32) error {
	slot, err := c.declareLocal(n.Pos.Start, localName)
	if err != nil {
		return err
	}
	if op, ok := storeLocalShort(slot); ok {
		c.emit(op, line)
	} else {
		c.emit(OpStoreLocalWide, line)
		c.emitU16(uint16(slot), line)
	}
	c.emit(OpPop, line)
	return nil
}

func lastSegment(dotted string) string {
	last := dotted
	for i := len(dotted) - 1; i >= 0; i-- {
		if dotted[i] == '.' {
			last = dotted[i+1:]
			break
		}
	}
	return last
}
