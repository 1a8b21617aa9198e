package compiler

import (
	"github.com/kaubo-lang/kaubo/lang/ast"
	"github.com/kaubo-lang/kaubo/lang/value"
)

// compileLambda compiles a lambda body into its own Chunk (wrapped as a
// heap ObjFunction constant) and emits OpClosure to build the runtime
// closure, capturing whichever enclosing locals/upvalues the body
// referenced as upvalues. name is used for diagnostics and for
// `to_string`; it's empty for an anonymous lambda expression.
func (c *Compiler) compileLambda(lam *ast.LambdaExpr, name string) error {
	child := c.child(name, len(lam.Params))
	for _, p := range lam.Params {
		if _, err := child.declareLocal(lam.Pos.Start, p.Name); err != nil {
			return err
		}
	}
	for _, st := range lam.Body.Stmts {
		if err := child.compileStmt(st); err != nil {
			return err
		}
	}
	endLine := child.lineOf(lam.Body.End)
	child.emit(OpNull, endLine)
	child.emit(OpReturn, endLine)

	upvalueInfo := make([]value.UpvalueDesc, len(child.upvalues))
	for i, uv := range child.upvalues {
		upvalueInfo[i] = value.UpvalueDesc{FromParentLocal: uv.isLocal, Index: uv.index}
	}
	fn := &value.ObjFunction{
		Name:        name,
		Arity:       len(lam.Params),
		Code:        child.chunk.Code,
		Constants:   child.chunk.Constants,
		Lines:       child.chunk.Lines,
		UpvalueInfo: upvalueInfo,
		IsGenerator: child.chunk.IsGenerator,
	}
	fnVal := c.heap.NewFunction(fn)
	idx := c.chunk.addConstant(fnVal)
	line := c.lineOf(lam.Pos.Start)
	if err := func() error {
		if idx > 0xFFFF {
			return errAt(ErrTooManyConstants, lam.Pos.Start, "constant pool exceeded 65536 entries")
		}
		return nil
	}(); err != nil {
		return err
	}
	c.emit(OpClosure, line)
	c.emitU16(uint16(idx), line)
	if len(child.upvalues) > 0xFF {
		return errAt(ErrUnimplemented, lam.Pos.Start, "closure captures too many upvalues")
	}
	c.emitU8(uint8(len(child.upvalues)), line)
	for _, uv := range child.upvalues {
		var isLocalByte uint8
		if uv.isLocal {
			isLocalByte = 1
		}
		c.emitU8(isLocalByte, line)
		c.emitU16(uint16(uv.index), line)
	}
	return nil
}
