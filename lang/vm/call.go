package vm

import (
	"github.com/kaubo-lang/kaubo/lang/value"
)

// call dispatches OpCall's callee to whatever kind of callable it is:
// a plain closure, a bound struct method (which prepends its receiver as
// self), a native Go function, or a native that additionally needs the
// VM itself.
func (v *VM) call(callee value.Value, args []value.Value, line int32) (value.Value, error) {
	if !callee.IsHeap() {
		return value.Null(), v.runtimeErr(line, "%s is not callable", callee.TypeName())
	}
	switch callee.TagOf() {
	case value.TagClosure:
		closure := v.heap.Closure(callee)
		return v.callClosure(closure, args)
	case value.TagBoundMethod:
		bm := v.heap.BoundMethod(callee)
		closure := v.heap.Closure(bm.Method)
		full := make([]value.Value, 0, len(args)+1)
		full = append(full, bm.Receiver)
		full = append(full, args...)
		return v.callClosure(closure, full)
	case value.TagNative:
		n := v.heap.Native(callee)
		if n.Arity >= 0 && len(args) != n.Arity {
			return value.Null(), v.runtimeErr(line, "%s expects %d arguments, got %d", n.Name, n.Arity, len(args))
		}
		return n.Fn(v, args)
	case value.TagNativeVM:
		n := v.heap.NativeVM(callee)
		return n.Fn(v, args)
	default:
		return value.Null(), v.runtimeErr(line, "%s is not callable", callee.TypeName())
	}
}
