package vm

import (
	"fmt"

	"github.com/kaubo-lang/kaubo/lang/compiler"
	"github.com/kaubo-lang/kaubo/lang/value"
)

// callClosure pushes a fresh frame for closure, binds args to its
// parameter slots (slot 0 is reserved, matching the compiler's
// convention), and runs it to completion.
const maxCallDepth = 4096

func (v *VM) callClosure(closure *value.ObjClosure, args []value.Value) (value.Value, error) {
	if len(v.frames) >= maxCallDepth {
		return value.Null(), v.runtimeErr(0, "stack overflow: call depth exceeded %d", maxCallDepth)
	}
	base := len(v.stack)
	v.push(value.Null()) // slot 0: reserved
	for _, a := range args {
		v.push(a)
	}
	for len(v.stack)-base-1 < closure.Fn.Arity {
		v.push(value.Null())
	}
	v.frames = append(v.frames, value.Frame{Closure: closure, Base: base})
	result, err := v.run(closure, base)
	v.frames = v.frames[:len(v.frames)-1]
	return result, err
}

// run executes closure's bytecode starting at ip 0, with its locals
// based at stack index base, until it returns a value. Recursive Kaubo
// calls recurse through this Go function directly; coroutines get their
// own goroutine (see coroutine.go) so a yield deep in a call chain can
// suspend without unwinding this Go stack.
func (v *VM) run(closure *value.ObjClosure, base int) (value.Value, error) {
	fn := closure.Fn
	code := fn.Code
	consts := fn.Constants
	lines := fn.Lines
	ip := 0

	readU16 := func() uint16 {
		lo, hi := code[ip], code[ip+1]
		ip += 2
		return uint16(lo) | uint16(hi)<<8
	}
	readU8 := func() uint8 {
		b := code[ip]
		ip++
		return b
	}

	for {
		op := compiler.Opcode(code[ip])
		line := lines[ip]
		ip++
		switch op {
		case compiler.OpNop:
		case compiler.OpPop:
			v.pop()
		case compiler.OpDup:
			v.push(v.peek(0))
		case compiler.OpNull:
			v.push(value.Null())
		case compiler.OpTrue:
			v.push(value.True())
		case compiler.OpFalse:
			v.push(value.False())

		case compiler.OpLoadConstWide:
			v.push(consts[readU16()])
		case compiler.OpLoadLocalWide:
			v.push(v.stack[base+int(readU16())])
		case compiler.OpStoreLocalWide:
			v.stack[base+int(readU16())] = v.peek(0)

		case compiler.OpGetUpvalue:
			idx := readU16()
			v.push(v.readUpvalue(closure, int(idx)))
		case compiler.OpSetUpvalue:
			idx := readU16()
			v.setUpvalue(closure, int(idx), v.peek(0))

		case compiler.OpAdd, compiler.OpSub, compiler.OpMul, compiler.OpDiv, compiler.OpMod:
			if err := v.arith(op, line); err != nil {
				return value.Null(), err
			}
		case compiler.OpEq, compiler.OpNeq:
			b, a := v.pop(), v.pop()
			var eq bool
			if fn, ok := v.shapeOperator(a, "operator =="); ok {
				res, err := v.call(fn, []value.Value{a, b}, line)
				if err != nil {
					return value.Null(), err
				}
				eq = res.Truthy()
			} else {
				eq = value.StructuralEquals(v.heap, a, b)
			}
			if op == compiler.OpNeq {
				eq = !eq
			}
			v.push(value.Bool(eq))
		case compiler.OpLt, compiler.OpGt, compiler.OpLe, compiler.OpGe:
			if err := v.compare(op, line); err != nil {
				return value.Null(), err
			}
		case compiler.OpNot:
			v.push(value.Bool(!v.pop().Truthy()))
		case compiler.OpNeg:
			x := v.pop()
			switch {
			case x.IsInt():
				v.push(value.Int(-x.AsInt()))
			case x.IsFloat():
				v.push(value.Float(-x.AsFloat()))
			default:
				return value.Null(), v.runtimeErr(line, "cannot negate a %s", x.TypeName())
			}

		case compiler.OpBuildList:
			n := int(readU16())
			items := append([]value.Value(nil), v.stack[len(v.stack)-n:]...)
			v.stack = v.stack[:len(v.stack)-n]
			v.push(v.heap.NewList(items))
		case compiler.OpIndexGet:
			if err := v.indexGet(line); err != nil {
				return value.Null(), err
			}
		case compiler.OpIndexSet:
			if err := v.indexSet(line); err != nil {
				return value.Null(), err
			}
		case compiler.OpBuildJSON:
			n := int(readU16())
			j := &value.ObjJSON{Values: make(map[string]value.Value, n)}
			entries := v.stack[len(v.stack)-2*n:]
			for i := 0; i < n; i++ {
				key := v.heap.String(entries[2*i]).S
				val := entries[2*i+1]
				j.Keys = append(j.Keys, key)
				j.Values[key] = val
			}
			v.stack = v.stack[:len(v.stack)-2*n]
			v.push(v.heap.NewJSON(j))
		case compiler.OpGetMember:
			name := v.heap.String(consts[readU16()]).S
			if err := v.getMember(name, line); err != nil {
				return value.Null(), err
			}
		case compiler.OpSetMember:
			name := v.heap.String(consts[readU16()]).S
			val := v.pop()
			target := v.pop()
			if err := v.setMember(target, name, val, line); err != nil {
				return value.Null(), err
			}
			v.push(val)

		case compiler.OpBuildStruct:
			nameIdx := readU16()
			fieldCount := int(readU16())
			_ = nameIdx
			fields := append([]value.Value(nil), v.stack[len(v.stack)-fieldCount:]...)
			v.stack = v.stack[:len(v.stack)-fieldCount]
			shapeVal := v.pop()
			shape := v.heap.Shape(shapeVal)
			v.push(v.heap.NewStruct(&value.ObjStruct{Shape: shape, Fields: fields}))
		case compiler.OpDefineShape:
			// shapes are built directly by the compiler as constants; this
			// opcode is reserved for a future dynamically-defined shape and
			// is not currently emitted.
			return value.Null(), v.runtimeErr(line, "define_shape is not implemented")
		case compiler.OpDefineMethod:
			name := v.heap.String(consts[readU16()]).S
			closureVal := v.pop()
			shapeVal := v.pop()
			v.heap.Shape(shapeVal).Methods.Put(name, closureVal)
		case compiler.OpDefineOperator:
			name := v.heap.String(consts[readU16()]).S
			closureVal := v.pop()
			shapeVal := v.pop()
			v.heap.Shape(shapeVal).Operators.Put(name, closureVal)

		case compiler.OpJump:
			ip = int(readU16())
		case compiler.OpJumpIfFalse:
			target := int(readU16())
			if !v.peek(0).Truthy() {
				ip = target
			}
		case compiler.OpLoop:
			ip = int(readU16())

		case compiler.OpCall:
			argc := int(readU8())
			args := append([]value.Value(nil), v.stack[len(v.stack)-argc:]...)
			v.stack = v.stack[:len(v.stack)-argc]
			callee := v.pop()
			result, err := v.call(callee, args, line)
			if err != nil {
				return value.Null(), err
			}
			v.push(result)
		case compiler.OpReturn:
			result := v.pop()
			v.closeUpvaluesFrom(base)
			v.stack = v.stack[:base]
			return result, nil
		case compiler.OpPrint:
			fmt.Fprintln(v.stdout, value.ToDisplayString(v.heap, v.pop()))

		case compiler.OpClosure:
			fnIdx := readU16()
			upCount := int(readU8())
			fnVal := consts[fnIdx]
			newFn := v.heap.Function(fnVal)
			nc := &value.ObjClosure{Fn: newFn}
			for i := 0; i < upCount; i++ {
				isLocal := readU8() == 1
				idx := int(readU16())
				if isLocal {
					nc.Upvalues = append(nc.Upvalues, v.captureUpvalue(base+idx))
				} else {
					nc.Upvalues = append(nc.Upvalues, closure.Upvalues[idx])
				}
			}
			v.push(v.heap.NewClosure(nc))
		case compiler.OpCloseUpvalue:
			v.closeUpvaluesFrom(len(v.stack) - 1)
			v.pop()

		case compiler.OpGetIter:
			if err := v.getIter(line); err != nil {
				return value.Null(), err
			}
		case compiler.OpIterNext:
			target := int(readU16())
			hasNext, err := v.iterNext(line)
			if err != nil {
				return value.Null(), err
			}
			if !hasNext {
				ip = target
			}
		case compiler.OpYield:
			val := v.pop()
			resumeArg, err := v.yield(val)
			if err != nil {
				return value.Null(), err
			}
			v.push(resumeArg)

		case compiler.OpImportModule:
			id := v.heap.String(consts[readU16()]).S
			mod, ok := v.modules[id]
			if !ok {
				return value.Null(), v.runtimeErr(line, "module %q has not been loaded", id)
			}
			v.push(mod)
		case compiler.OpGetModuleExport:
			name := v.heap.String(consts[readU16()]).S
			modVal := v.pop()
			mod := v.heap.Module(modVal)
			val, ok := mod.Exports[name]
			if !ok {
				return value.Null(), v.runtimeErr(line, "module %q has no export %q", mod.Name, name)
			}
			v.push(val)
		case compiler.OpBuildModule:
			n := int(readU16())
			pairs := v.stack[len(v.stack)-2*n:]
			mod := &value.ObjModule{Name: fn.Name, Exports: make(map[string]value.Value, n)}
			for i := 0; i < n; i++ {
				name := v.heap.String(pairs[2*i]).S
				mod.Exports[name] = pairs[2*i+1]
			}
			v.stack = v.stack[:len(v.stack)-2*n]
			v.push(v.heap.NewModule(mod))

		default:
			switch {
			case op >= compiler.OpLoadConst0 && op <= compiler.OpLoadConst15:
				v.push(consts[int(op-compiler.OpLoadConst0)])
			case op >= compiler.OpLoadLocal0 && op <= compiler.OpLoadLocal7:
				v.push(v.stack[base+int(op-compiler.OpLoadLocal0)])
			case op >= compiler.OpStoreLocal0 && op <= compiler.OpStoreLocal7:
				v.stack[base+int(op-compiler.OpStoreLocal0)] = v.peek(0)
			default:
				return value.Null(), v.runtimeErr(line, "unimplemented opcode %s", op)
			}
		}
	}
}
