// Package types implements the advisory, non-gating structural type
// checker. It infers a best-effort Type for every
// expression, flags mismatches as Warnings, and never stops compilation:
// a Kaubo program with type warnings still compiles and runs. The
// enumerated-kind Type representation mirrors mna-nenuphar/lang/types'
// value-kind modeling, adapted from a runtime
// value descriptor into a static (pre-execution) type descriptor.
package types

// Kind is the nominal category of a Type.
type Kind string

const (
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindString Kind = "string"
	KindNull   Kind = "null"
	KindList   Kind = "list"
	KindFunc   Kind = "func"
	KindStruct Kind = "struct"
	// KindAny is assigned whenever inference can't determine a precise
	// type (e.g. a member access on an unknown shape); it is compatible
	// with everything so it never itself produces a mismatch warning.
	KindAny Kind = "any"
)

// Type is a structural type descriptor.
type Type struct {
	Kind   Kind
	Elem   *Type    // element type, set when Kind == KindList
	Func   *FuncSig // signature, set when Kind == KindFunc
	Struct string   // struct name, set when Kind == KindStruct
}

// FuncSig is a function's parameter and return types.
type FuncSig struct {
	Params []*Type
	Return *Type // nil means untyped/unknown return
}

func (t *Type) String() string {
	if t == nil {
		return string(KindAny)
	}
	switch t.Kind {
	case KindList:
		return "[" + t.Elem.String() + "]"
	case KindFunc:
		return "func"
	case KindStruct:
		return t.Struct
	default:
		return string(t.Kind)
	}
}

// Any, Int, Float, Bool, Str and Null are the shared singleton primitive
// types; they're safe to share since Type is never mutated after creation.
var (
	Any   = &Type{Kind: KindAny}
	Int   = &Type{Kind: KindInt}
	Float = &Type{Kind: KindFloat}
	Bool  = &Type{Kind: KindBool}
	Str   = &Type{Kind: KindString}
	Null  = &Type{Kind: KindNull}
)

// Equal reports whether two types are structurally identical. KindAny is
// NOT treated as a wildcard here; use compatible for assignment-style
// comparisons.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindList:
		return Equal(a.Elem, b.Elem)
	case KindStruct:
		return a.Struct == b.Struct
	default:
		return true
	}
}

// compatible reports whether a value of type b may be used where a is
// expected, treating KindAny as a universal match in either position.
func compatible(a, b *Type) bool {
	if a == nil || b == nil {
		return true
	}
	if a.Kind == KindAny || b.Kind == KindAny {
		return true
	}
	return Equal(a, b)
}

// isNumeric reports whether t is int or float.
func isNumeric(t *Type) bool {
	return t != nil && (t.Kind == KindInt || t.Kind == KindFloat)
}

// scope is a single lexical scope of variable types, chained to its parent.
type scope struct {
	vars   map[string]*Type
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]*Type), parent: parent}
}

func (s *scope) define(name string, t *Type) {
	s.vars[name] = t
}

func (s *scope) lookup(name string) (*Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// fromAnnotationName converts the name of a parsed ast.Type annotation
// into a types.Type.
// structs is consulted so a named annotation resolves to KindStruct when
// it matches a known struct, and KindAny otherwise (forward references and
// unknown names are advisory only, never an error).
func fromAnnotationName(name string, structs map[string]bool) *Type {
	switch name {
	case "int":
		return Int
	case "float":
		return Float
	case "bool":
		return Bool
	case "string":
		return Str
	case "null":
		return Null
	case "any", "":
		return Any
	default:
		if structs[name] {
			return &Type{Kind: KindStruct, Struct: name}
		}
		return Any
	}
}
