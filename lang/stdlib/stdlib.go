// Package stdlib builds the `std` module the VM registers before running
// an entry chunk: the small set of native functions and constants every
// Kaubo program can reach via `from std import ...` without a VFS file
// backing them, mirroring how mna-nenuphar's universe.go seeds the
// interpreter with built-ins that aren't themselves written in the
// language.
package stdlib

import (
	"math"

	"github.com/kaubo-lang/kaubo/lang/value"
	"github.com/kaubo-lang/kaubo/lang/vm"
)

// New builds the `std` ObjModule value. Callers register it with
// v.RegisterModule("std", stdlib.New(v)) before running any chunk that
// might import it.
func New(v value.NativeVM) value.Value {
	h := v.Heap()
	exports := map[string]value.Value{
		"print":     native(h, "print", 1, printFn),
		"assert":    native(h, "assert", -1, assertFn),
		"type":      native(h, "type", 1, typeFn),
		"to_string": native(h, "to_string", 1, toStringFn),

		"sqrt":  native(h, "sqrt", 1, sqrtFn),
		"sin":   native(h, "sin", 1, sinFn),
		"cos":   native(h, "cos", 1, cosFn),
		"floor": native(h, "floor", 1, floorFn),
		"ceil":  native(h, "ceil", 1, ceilFn),
		"PI":    value.Float(math.Pi),
		"E":     value.Float(math.E),

		"create_coroutine": nativeVM(h, "create_coroutine", vm.CreateCoroutine),
		"resume":           nativeVM(h, "resume", vm.Resume),
		"coroutine_status": nativeVM(h, "coroutine_status", vm.CoroutineStatusName),
	}
	return h.NewModule(&value.ObjModule{Name: "std", Exports: exports})
}

func native(h *value.Heap, name string, arity int, fn value.NativeFunc) value.Value {
	return h.NewNative(&value.ObjNative{Name: name, Fn: fn, Arity: arity})
}

// nativeVM registers a native that needs the concrete *VM rather than just
// the NativeVM capability surface: the coroutine primitives drive another
// closure's execution directly and need the VM's call machinery to do it.
func nativeVM(h *value.Heap, name string, fn func(vm any, args []value.Value) (value.Value, error)) value.Value {
	return h.NewNativeVM(&value.ObjNativeVM{Name: name, Fn: fn})
}
