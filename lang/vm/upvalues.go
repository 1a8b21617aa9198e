package vm

import (
	"github.com/kaubo-lang/kaubo/lang/value"
)

// captureUpvalue returns the open upvalue for stack slot absoluteIndex,
// creating and caching one if this is the first closure to capture it.
// Sibling closures that capture the same enclosing local share the same
// ObjUpvalue, so writes through one are visible through the other until
// the slot is closed.
func (v *VM) captureUpvalue(absoluteIndex int) *value.ObjUpvalue {
	if existing, ok := v.openUpvalues[absoluteIndex]; ok {
		return existing
	}
	uv := v.heap.NewUpvalueRef(absoluteIndex)
	v.openUpvalues[absoluteIndex] = uv
	return uv
}

// closeUpvaluesFrom closes every open upvalue at or above stack index
// from, copying the live stack value into the upvalue cell itself before
// the frame that owns that stack region is popped.
func (v *VM) closeUpvaluesFrom(from int) {
	for idx, uv := range v.openUpvalues {
		if idx >= from {
			uv.Value = v.stack[idx]
			uv.Closed = true
			delete(v.openUpvalues, idx)
		}
	}
}

func (v *VM) readUpvalue(closure *value.ObjClosure, idx int) value.Value {
	uv := closure.Upvalues[idx]
	if uv.Closed {
		return uv.Value
	}
	return v.stack[uv.StackIndex]
}

func (v *VM) setUpvalue(closure *value.ObjClosure, idx int, val value.Value) {
	uv := closure.Upvalues[idx]
	if uv.Closed {
		uv.Value = val
		return
	}
	v.stack[uv.StackIndex] = val
}
