package stdlib

import (
	"fmt"
	"math"

	"github.com/kaubo-lang/kaubo/lang/value"
)

func printFn(v value.NativeVM, args []value.Value) (value.Value, error) {
	fmt.Fprintln(v.Stdout(), value.ToDisplayString(v.Heap(), args[0]))
	return value.Null(), nil
}

func assertFn(v value.NativeVM, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Null(), fmt.Errorf("assert: expects at least one argument")
	}
	if args[0].Truthy() {
		return value.Null(), nil
	}
	msg := "assertion failed"
	if len(args) > 1 {
		msg = value.ToDisplayString(v.Heap(), args[1])
	}
	return value.Null(), fmt.Errorf("%s", msg)
}

func typeFn(v value.NativeVM, args []value.Value) (value.Value, error) {
	return v.Heap().NewString(args[0].TypeName()), nil
}

func toStringFn(v value.NativeVM, args []value.Value) (value.Value, error) {
	return v.Heap().NewString(value.ToDisplayString(v.Heap(), args[0])), nil
}

func asFloatArg(v value.Value) (float64, bool) {
	switch {
	case v.IsFloat():
		return v.AsFloat(), true
	case v.IsInt():
		return float64(v.AsInt()), true
	default:
		return 0, false
	}
}

func mathFn(name string, fn func(float64) float64) value.NativeFunc {
	return func(v value.NativeVM, args []value.Value) (value.Value, error) {
		f, ok := asFloatArg(args[0])
		if !ok {
			return value.Null(), fmt.Errorf("%s: expects a number, got %s", name, args[0].TypeName())
		}
		return value.Float(fn(f)), nil
	}
}

var (
	sqrtFn  = mathFn("sqrt", math.Sqrt)
	sinFn   = mathFn("sin", math.Sin)
	cosFn   = mathFn("cos", math.Cos)
	floorFn = mathFn("floor", math.Floor)
	ceilFn  = mathFn("ceil", math.Ceil)
)
