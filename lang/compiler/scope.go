package compiler

import (
	"golang.org/x/exp/slices"

	"github.com/kaubo-lang/kaubo/lang/token"
)

func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope pops every local declared in the scope being left, emitting
// OpCloseUpvalue for any local a nested lambda captured (so the upvalue
// cell survives past this function's stack frame) and OpPop otherwise.
func (c *Compiler) endScope(line int32) {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		last := c.locals[len(c.locals)-1]
		if last.isCaptured {
			c.emit(OpCloseUpvalue, line)
		} else {
			c.emit(OpPop, line)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *Compiler) declareLocal(pos token.Pos, name string) (int, error) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].depth < c.scopeDepth {
			break
		}
		if c.locals[i].name == name {
			return 0, errAt(ErrVarAlreadyExists, pos, "%q is already declared in this scope", name)
		}
	}
	if len(c.locals) >= maxLocals {
		return 0, errAt(ErrTooManyLocals, pos, "too many local variables in one function")
	}
	c.locals = append(c.locals, local{name: name, depth: c.scopeDepth})
	return len(c.locals) - 1, nil
}

// resolveLocal returns the slot index of name in c's own locals, or -1.
func (c *Compiler) resolveLocal(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return i
		}
	}
	return -1
}

// resolveUpvalue resolves name as a captured variable from an enclosing
// function, recursively threading the capture through every
// intermediate function so a doubly-nested lambda still reaches it.
func (c *Compiler) resolveUpvalue(name string) int {
	if c.enclosing == nil {
		return -1
	}
	if slot := c.enclosing.resolveLocal(name); slot != -1 {
		c.enclosing.locals[slot].isCaptured = true
		return c.addUpvalue(slot, true)
	}
	if up := c.enclosing.resolveUpvalue(name); up != -1 {
		return c.addUpvalue(up, false)
	}
	return -1
}

func (c *Compiler) addUpvalue(index int, isLocal bool) int {
	if i := slices.IndexFunc(c.upvalues, func(uv upvalueRef) bool {
		return uv.index == index && uv.isLocal == isLocal
	}); i != -1 {
		return i
	}
	c.upvalues = append(c.upvalues, upvalueRef{index: index, isLocal: isLocal})
	return len(c.upvalues) - 1
}

// emitLoadName resolves name as a local, then an upvalue, and emits the
// matching load instruction. It never falls back to a global table:
// Kaubo's top-level bindings are just the outermost function's locals.
func (c *Compiler) emitLoadName(pos token.Pos, name string, line int32) error {
	if slot := c.resolveLocal(name); slot != -1 {
		if op, ok := loadLocalShort(slot); ok {
			c.emit(op, line)
		} else {
			c.emit(OpLoadLocalWide, line)
			c.emitU16(uint16(slot), line)
		}
		return nil
	}
	if up := c.resolveUpvalue(name); up != -1 {
		c.emit(OpGetUpvalue, line)
		c.emitU16(uint16(up), line)
		return nil
	}
	return errAt(ErrUnresolvedName, pos, "undefined name %q", name)
}

func (c *Compiler) emitStoreName(pos token.Pos, name string, line int32) error {
	if slot := c.resolveLocal(name); slot != -1 {
		if op, ok := storeLocalShort(slot); ok {
			c.emit(op, line)
		} else {
			c.emit(OpStoreLocalWide, line)
			c.emitU16(uint16(slot), line)
		}
		return nil
	}
	if up := c.resolveUpvalue(name); up != -1 {
		c.emit(OpSetUpvalue, line)
		c.emitU16(uint16(up), line)
		return nil
	}
	return errAt(ErrUnresolvedName, pos, "undefined name %q", name)
}
