// Package value implements a NaN-boxed runtime value representation:
// every Value is a single uint64. A quiet NaN payload with bit 51
// set distinguishes a boxed non-float from an IEEE-754 double; a 7-bit
// tag in the payload then distinguishes which kind of non-float it is,
// and the low 44 bits carry either an inline immediate (a small int,
// true/false/null) or a pointer into the heap-object table.
package value

import "math"

// Value is a NaN-boxed 64-bit runtime value.
type Value uint64

const (
	signBit     = uint64(1) << 63
	expMask     = uint64(0x7FF) << 52
	quietBit    = uint64(1) << 51
	tagShift    = 44
	tagMask     = uint64(0x7F) << tagShift
	payloadLen  = 44
	payloadMask = (uint64(1) << payloadLen) - 1

	// qnan is the canonical bit pattern for a boxed (non-float) value,
	// before the tag and payload are OR'd in: all exponent bits set plus
	// the quiet-NaN marker bit.
	qnan = expMask | quietBit
)

// Tag identifies which kind of boxed value a Value holds when it is not
// an ordinary float64.
type Tag uint8

const (
	TagNull Tag = iota
	TagTrue
	TagFalse
	TagSMI // small integer that fits the 44-bit payload (sign-extended)
	// heap-allocated object tags
	TagString
	TagFunction
	TagList
	TagIterator
	TagClosure
	TagCoroutine
	TagResult
	TagOption
	TagJSON
	TagModule
	TagNative
	TagNativeVM
	TagShape
	TagStruct
	TagBoundMethod
)

func box(tag Tag, payload uint64) Value {
	return Value(qnan | (uint64(tag) << tagShift) | (payload & payloadMask))
}

func (v Value) isBoxed() bool {
	return uint64(v)&expMask == expMask && uint64(v)&quietBit != 0
}

func (v Value) tag() Tag {
	return Tag((uint64(v) & tagMask) >> tagShift)
}

func (v Value) payload() uint64 {
	return uint64(v) & payloadMask
}

// Float constructs a Value wrapping a float64. NaN payloads that would
// collide with the boxed-value encoding are canonicalized to a single NaN
// with the quiet bit clear (all exponent bits set, mantissa 1), which
// isBoxed does not claim, so it decodes back as a plain float NaN.
func Float(f float64) Value {
	bits := math.Float64bits(f)
	if bits&expMask == expMask && bits&((uint64(1)<<52)-1) != 0 {
		return Value(expMask | 1)
	}
	return Value(bits)
}

// Int constructs a Value wrapping an integer, boxed as a small-int
// immediate in the payload (sign-extended over 44 bits).
func Int(i int64) Value {
	return box(TagSMI, uint64(i)&payloadMask)
}

// Null, True and False are the singleton immediate values.
func Null() Value  { return box(TagNull, 0) }
func True() Value  { return box(TagTrue, 0) }
func False() Value { return box(TagFalse, 0) }

// Bool constructs True or False.
func Bool(b bool) Value {
	if b {
		return True()
	}
	return False()
}

// heapRef boxes a handle index into one of the heap tables.
func heapRef(tag Tag, handle uint32) Value {
	return box(tag, uint64(handle))
}

// IsFloat reports whether v holds an unboxed IEEE-754 double.
func (v Value) IsFloat() bool { return !v.isBoxed() }

// IsInt reports whether v holds a small integer immediate.
func (v Value) IsInt() bool { return v.isBoxed() && v.tag() == TagSMI }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.isBoxed() && v.tag() == TagNull }

// IsBool reports whether v is true or false.
func (v Value) IsBool() bool {
	return v.isBoxed() && (v.tag() == TagTrue || v.tag() == TagFalse)
}

// IsHeap reports whether v references a heap object.
func (v Value) IsHeap() bool {
	return v.isBoxed() && v.tag() >= TagString
}

// AsFloat returns the float64 held by v. Callers must check IsFloat first.
func (v Value) AsFloat() float64 { return math.Float64frombits(uint64(v)) }

// AsInt returns the sign-extended small integer held by v. Callers must
// check IsInt first.
func (v Value) AsInt() int64 {
	p := v.payload()
	// sign-extend from bit 43
	if p&(uint64(1)<<(payloadLen-1)) != 0 {
		p |= ^payloadMask
	}
	return int64(p)
}

// AsBool returns the boolean held by v. Callers must check IsBool first.
func (v Value) AsBool() bool { return v.tag() == TagTrue }

// Handle returns the heap-table index held by v. Callers must check
// IsHeap first.
func (v Value) Handle() uint32 { return uint32(v.payload()) }

// Tag returns the Tag of a boxed value. Only meaningful if isBoxed; for
// floats it returns a meaningless value and should not be called.
func (v Value) TagOf() Tag { return v.tag() }

// Truthy implements Kaubo's truthiness rule: null and false are falsy,
// everything else (including 0 and "") is truthy.
func (v Value) Truthy() bool {
	if v.IsNull() {
		return false
	}
	if v.IsBool() {
		return v.AsBool()
	}
	return true
}

// TypeName returns the dynamic type name used in error messages and the
// `type()` native.
func (v Value) TypeName() string {
	if v.IsFloat() {
		return "float"
	}
	switch v.tag() {
	case TagNull:
		return "null"
	case TagTrue, TagFalse:
		return "bool"
	case TagSMI:
		return "int"
	case TagString:
		return "string"
	case TagFunction:
		return "function"
	case TagList:
		return "list"
	case TagIterator:
		return "iterator"
	case TagClosure:
		return "closure"
	case TagCoroutine:
		return "coroutine"
	case TagResult:
		return "result"
	case TagOption:
		return "option"
	case TagJSON:
		return "json"
	case TagModule:
		return "module"
	case TagNative:
		return "native"
	case TagNativeVM:
		return "native_vm"
	case TagShape:
		return "shape"
	case TagStruct:
		return "struct"
	case TagBoundMethod:
		return "function"
	default:
		return "unknown"
	}
}
