package vm

import (
	"math"

	"github.com/kaubo-lang/kaubo/lang/compiler"
	"github.com/kaubo-lang/kaubo/lang/value"
)

var arithOperatorNames = map[compiler.Opcode]string{
	compiler.OpAdd: "operator +",
	compiler.OpSub: "operator -",
	compiler.OpMul: "operator *",
	compiler.OpDiv: "operator /",
	compiler.OpMod: "operator %",
}

var compareOperatorNames = map[compiler.Opcode]string{
	compiler.OpLt: "operator <",
	compiler.OpGt: "operator >",
	compiler.OpLe: "operator <=",
	compiler.OpGe: "operator >=",
}

// shapeOperator returns the overload closure registered on v's shape for
// name, if v is a struct with one.
func (v *VM) shapeOperator(val value.Value, name string) (value.Value, bool) {
	if !val.IsHeap() || val.TagOf() != value.TagStruct {
		return value.Null(), false
	}
	s := v.heap.Struct(val)
	fn, ok := s.Shape.Operators.Get(name)
	return fn, ok
}

func (v *VM) arith(op compiler.Opcode, line int32) error {
	b := v.pop()
	a := v.pop()

	if op == compiler.OpAdd && isString(a) && isString(b) {
		v.push(v.heap.NewString(v.heap.String(a).S + v.heap.String(b).S))
		return nil
	}

	if fn, ok := v.shapeOperator(a, arithOperatorNames[op]); ok {
		result, err := v.call(fn, []value.Value{a, b}, line)
		if err != nil {
			return err
		}
		v.push(result)
		return nil
	}

	if !isNumeric(a) || !isNumeric(b) {
		return v.runtimeErr(line, "cannot apply %s to %s and %s", op, a.TypeName(), b.TypeName())
	}
	if a.IsInt() && b.IsInt() {
		x, y := a.AsInt(), b.AsInt()
		switch op {
		case compiler.OpAdd:
			v.push(value.Int(x + y))
		case compiler.OpSub:
			v.push(value.Int(x - y))
		case compiler.OpMul:
			v.push(value.Int(x * y))
		case compiler.OpDiv:
			if y == 0 {
				return v.runtimeErr(line, "division by zero")
			}
			v.push(value.Int(x / y))
		case compiler.OpMod:
			if y == 0 {
				return v.runtimeErr(line, "division by zero")
			}
			v.push(value.Int(x % y))
		}
		return nil
	}
	x, y := asFloat(a), asFloat(b)
	switch op {
	case compiler.OpAdd:
		v.push(value.Float(x + y))
	case compiler.OpSub:
		v.push(value.Float(x - y))
	case compiler.OpMul:
		v.push(value.Float(x * y))
	case compiler.OpDiv:
		v.push(value.Float(x / y))
	case compiler.OpMod:
		v.push(value.Float(math.Mod(x, y)))
	}
	return nil
}

func (v *VM) compare(op compiler.Opcode, line int32) error {
	b := v.pop()
	a := v.pop()

	if fn, ok := v.shapeOperator(a, compareOperatorNames[op]); ok {
		result, err := v.call(fn, []value.Value{a, b}, line)
		if err != nil {
			return err
		}
		v.push(result)
		return nil
	}

	result, ok := value.Compare(v.heap, a, b)
	if !ok {
		return v.runtimeErr(line, "cannot compare %s and %s", a.TypeName(), b.TypeName())
	}
	var out bool
	switch op {
	case compiler.OpLt:
		out = result < 0
	case compiler.OpGt:
		out = result > 0
	case compiler.OpLe:
		out = result <= 0
	case compiler.OpGe:
		out = result >= 0
	}
	v.push(value.Bool(out))
	return nil
}

func isString(v value.Value) bool  { return v.IsHeap() && v.TagOf() == value.TagString }
func isNumeric(v value.Value) bool { return v.IsInt() || v.IsFloat() }

func asFloat(v value.Value) float64 {
	if v.IsFloat() {
		return v.AsFloat()
	}
	return float64(v.AsInt())
}
