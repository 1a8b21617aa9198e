package compiler

import (
	"github.com/kaubo-lang/kaubo/lang/ast"
	"github.com/kaubo-lang/kaubo/lang/value"
)

// collectStructs pre-registers every struct name at this scope so a
// struct literal or impl block can reference a struct defined later in
// the same block, mirroring the advisory type checker's pre-pass.
func (c *Compiler) collectStructs(stmts []ast.Stmt) {
	for _, s := range stmts {
		if sd, ok := s.(*ast.StructDef); ok {
			fields := make([]string, len(sd.Fields))
			for i, f := range sd.Fields {
				fields[i] = f.Name
			}
			c.structs[sd.Name] = &structInfo{name: sd.Name, fields: fields}
		}
	}
}

// compileStructDef builds the struct's ObjShape as a compile-time
// constant (field layout is static) and binds it to a local so
// `StructName { ... }` literals and `impl StructName { ... }` blocks can
// look it up like any other name.
func (c *Compiler) compileStructDef(n *ast.StructDef, line int32) error {
	info, ok := c.structs[n.Name]
	if !ok {
		fields := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = f.Name
		}
		info = &structInfo{name: n.Name, fields: fields}
		c.structs[n.Name] = info
	}
	shape := c.heap.NewShape(&value.ObjShape{
		Name:   info.name,
		Fields: append([]string(nil), info.fields...),
	})
	idx := c.chunk.addConstant(shape)
	if err := c.emitLoadConst(idx, line); err != nil {
		return err
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
	c.emit(OpPop, line)
	return nil
}

// compileImplBlock compiles every method as its own closure-producing
// function, then emits OpDefineMethod/OpDefineOperator to register it on
// the struct's shape at runtime. An "operator X" method name (already
// prefixed by the parser, see parseMethodName) is routed to
// OpDefineOperator instead of OpDefineMethod.
func (c *Compiler) compileImplBlock(n *ast.ImplBlock, line int32) error {
	for i := range n.Methods {
		m := n.Methods[i]
		if err := c.emitLoadName(n.Pos.Start, n.Struct, line); err != nil {
			return err
		}
		if err := c.compileLambda(m.Lambda, m.Name); err != nil {
			return err
		}
		nameIdx := c.constString(m.Name)
		if isOperatorMethodName(m.Name) {
			c.emit(OpDefineOperator, line)
		} else {
			c.emit(OpDefineMethod, line)
		}
		c.emitU16(uint16(nameIdx), line)
	}
	return nil
}

func isOperatorMethodName(name string) bool {
	return len(name) > len("operator ") && name[:len("operator ")] == "operator "
}
