package value

// StructuralEquals implements `==` for every value kind that doesn't
// require calling a user-defined "operator ==" overload: numbers compare
// by value across int/float, strings and lists compare structurally,
// structs compare by identity (the VM checks for an operator overload
// before falling back here).
func StructuralEquals(h *Heap, a, b Value) bool {
	an, bn := numeric(a), numeric(b)
	if an && bn {
		return asF64(a) == asF64(b)
	}
	if a.IsNull() && b.IsNull() {
		return true
	}
	if a.IsBool() && b.IsBool() {
		return a.AsBool() == b.AsBool()
	}
	if a.isBoxed() && b.isBoxed() && a.tag() == b.tag() {
		switch a.tag() {
		case TagString:
			return h.String(a).S == h.String(b).S
		case TagList:
			la, lb := h.List(a).Items, h.List(b).Items
			if len(la) != len(lb) {
				return false
			}
			for i := range la {
				if !StructuralEquals(h, la[i], lb[i]) {
					return false
				}
			}
			return true
		default:
			return a.Handle() == b.Handle()
		}
	}
	return false
}

func numeric(v Value) bool { return v.IsFloat() || v.IsInt() }

func asF64(v Value) float64 {
	if v.IsFloat() {
		return v.AsFloat()
	}
	return float64(v.AsInt())
}

// Compare implements `<, >, <=, >=` for numbers and strings, returning
// negative/zero/positive the way sort.Interface expects. ok is false for
// any pair the VM should instead try an "operator <" overload for.
func Compare(h *Heap, a, b Value) (result int, ok bool) {
	if numeric(a) && numeric(b) {
		fa, fb := asF64(a), asF64(b)
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}
	if a.isBoxed() && b.isBoxed() && a.tag() == TagString && b.tag() == TagString {
		sa, sb := h.String(a).S, h.String(b).S
		switch {
		case sa < sb:
			return -1, true
		case sa > sb:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}
