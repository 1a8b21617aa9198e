package vm

import (
	"github.com/kaubo-lang/kaubo/lang/value"
)

// getMember implements OpGetMember: struct field access, struct method
// lookup (returned as an ObjBoundMethod carrying the receiver, so calling
// it passes the struct as self), module export access, and JSON object
// field access.
func (v *VM) getMember(name string, line int32) error {
	target := v.pop()
	switch {
	case target.IsHeap() && target.TagOf() == value.TagStruct:
		s := v.heap.Struct(target)
		for i, f := range s.Shape.Fields {
			if f == name {
				v.push(s.Fields[i])
				return nil
			}
		}
		if m, ok := s.Shape.Methods.Get(name); ok {
			v.push(v.heap.NewBoundMethod(&value.ObjBoundMethod{Receiver: target, Method: m}))
			return nil
		}
		return v.runtimeErr(line, "%s has no field or method %q", s.Shape.Name, name)
	case target.IsHeap() && target.TagOf() == value.TagModule:
		mod := v.heap.Module(target)
		val, ok := mod.Exports[name]
		if !ok {
			return v.runtimeErr(line, "module %q has no export %q", mod.Name, name)
		}
		v.push(val)
		return nil
	case target.IsHeap() && target.TagOf() == value.TagJSON:
		j := v.heap.JSON(target)
		val, ok := j.Values[name]
		if !ok {
			v.push(value.Null())
			return nil
		}
		v.push(val)
		return nil
	default:
		return v.runtimeErr(line, "cannot access member %q of a %s", name, target.TypeName())
	}
}

func (v *VM) setMember(target value.Value, name string, val value.Value, line int32) error {
	if !target.IsHeap() {
		return v.runtimeErr(line, "cannot set member %q of a %s", name, target.TypeName())
	}
	switch target.TagOf() {
	case value.TagStruct:
		s := v.heap.Struct(target)
		for i, f := range s.Shape.Fields {
			if f == name {
				s.Fields[i] = val
				return nil
			}
		}
		return v.runtimeErr(line, "%s has no field %q", s.Shape.Name, name)
	case value.TagJSON:
		j := v.heap.JSON(target)
		if _, exists := j.Values[name]; !exists {
			j.Keys = append(j.Keys, name)
		}
		j.Values[name] = val
		return nil
	default:
		return v.runtimeErr(line, "cannot set member %q of a %s", name, target.TypeName())
	}
}

func (v *VM) indexGet(line int32) error {
	idx := v.pop()
	target := v.pop()
	if !target.IsHeap() {
		return v.runtimeErr(line, "cannot index a %s", target.TypeName())
	}
	switch target.TagOf() {
	case value.TagList:
		l := v.heap.List(target)
		i, ok := asIndex(idx, len(l.Items))
		if !ok {
			return v.runtimeErr(line, "list index out of range")
		}
		v.push(l.Items[i])
		return nil
	case value.TagString:
		s := v.heap.String(target)
		runes := []rune(s.S)
		i, ok := asIndex(idx, len(runes))
		if !ok {
			return v.runtimeErr(line, "string index out of range")
		}
		v.push(v.heap.NewString(string(runes[i])))
		return nil
	case value.TagJSON:
		j := v.heap.JSON(target)
		if !idx.IsHeap() || idx.TagOf() != value.TagString {
			return v.runtimeErr(line, "json index must be a string key")
		}
		key := v.heap.String(idx).S
		val, ok := j.Values[key]
		if !ok {
			v.push(value.Null())
			return nil
		}
		v.push(val)
		return nil
	default:
		return v.runtimeErr(line, "cannot index a %s", target.TypeName())
	}
}

func (v *VM) indexSet(line int32) error {
	val := v.pop()
	idx := v.pop()
	target := v.pop()
	if !target.IsHeap() {
		return v.runtimeErr(line, "cannot index-assign a %s", target.TypeName())
	}
	switch target.TagOf() {
	case value.TagList:
		l := v.heap.List(target)
		i, ok := asIndex(idx, len(l.Items))
		if !ok {
			return v.runtimeErr(line, "list index out of range")
		}
		l.Items[i] = val
	case value.TagJSON:
		j := v.heap.JSON(target)
		if !idx.IsHeap() || idx.TagOf() != value.TagString {
			return v.runtimeErr(line, "json index must be a string key")
		}
		key := v.heap.String(idx).S
		if _, exists := j.Values[key]; !exists {
			j.Keys = append(j.Keys, key)
		}
		j.Values[key] = val
	default:
		return v.runtimeErr(line, "cannot index-assign a %s", target.TypeName())
	}
	v.push(val)
	return nil
}

func asIndex(v value.Value, length int) (int, bool) {
	if !v.IsInt() {
		return 0, false
	}
	i := int(v.AsInt())
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, false
	}
	return i, true
}
