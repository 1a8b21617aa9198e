package value

import (
	"strconv"
	"strings"
)

// ToDisplayString renders v the way `print` and the `to_string` native
// do. Struct instances with a registered "operator to_string" are left to
// the VM's operator dispatch; this function covers every value kind that
// doesn't need closure invocation to stringify.
func ToDisplayString(h *Heap, v Value) string {
	switch {
	case v.IsFloat():
		return strconv.FormatFloat(v.AsFloat(), 'g', -1, 64)
	case v.IsInt():
		return strconv.FormatInt(v.AsInt(), 10)
	case v.IsNull():
		return "null"
	case v.IsBool():
		return strconv.FormatBool(v.AsBool())
	}
	switch v.TagOf() {
	case TagString:
		return h.String(v).S
	case TagList:
		items := h.List(v).Items
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = ToDisplayString(h, it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TagFunction:
		return "<function " + h.Function(v).Name + ">"
	case TagClosure:
		return "<function " + h.Closure(v).Fn.Name + ">"
	case TagCoroutine:
		return "<coroutine>"
	case TagResult:
		r := h.Result(v)
		if r.IsOk {
			return "Ok(" + ToDisplayString(h, r.Value) + ")"
		}
		return "Err(" + ToDisplayString(h, r.Value) + ")"
	case TagOption:
		o := h.Option(v)
		if o.HasValue {
			return "Some(" + ToDisplayString(h, o.Value) + ")"
		}
		return "None"
	case TagJSON:
		j := h.JSON(v)
		parts := make([]string, len(j.Keys))
		for i, k := range j.Keys {
			parts[i] = strconv.Quote(k) + ": " + ToDisplayString(h, j.Values[k])
		}
		return "json{" + strings.Join(parts, ", ") + "}"
	case TagModule:
		return "<module " + h.Module(v).Name + ">"
	case TagNative:
		return "<native " + h.Native(v).Name + ">"
	case TagBoundMethod:
		bm := h.BoundMethod(v)
		return "<function " + h.Closure(bm.Method).Fn.Name + ">"
	case TagShape:
		return "<shape " + h.Shape(v).Name + ">"
	case TagStruct:
		s := h.Struct(v)
		parts := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			parts[i] = s.Shape.Fields[i] + ": " + ToDisplayString(h, f)
		}
		return s.Shape.Name + " { " + strings.Join(parts, ", ") + " }"
	default:
		return "<unknown>"
	}
}
