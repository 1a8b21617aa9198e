package value_test

import (
	"testing"

	"github.com/kaubo-lang/kaubo/lang/value"
	"github.com/stretchr/testify/assert"
)

func TestIntRoundTripsIncludingNegative(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 7, -8, 1000, -1000} {
		v := value.Int(n)
		assert.True(t, v.IsInt())
		assert.Equal(t, n, v.AsInt())
	}
}

func TestFloatRoundTrips(t *testing.T) {
	v := value.Float(3.5)
	assert.True(t, v.IsFloat())
	assert.Equal(t, 3.5, v.AsFloat())
}

func TestSingletons(t *testing.T) {
	assert.True(t, value.Null().IsNull())
	assert.True(t, value.True().IsBool())
	assert.True(t, value.True().AsBool())
	assert.False(t, value.False().AsBool())
}

func TestTruthiness(t *testing.T) {
	assert.False(t, value.Null().Truthy())
	assert.False(t, value.False().Truthy())
	assert.True(t, value.True().Truthy())
	assert.True(t, value.Int(0).Truthy())
	assert.True(t, value.Float(0).Truthy())
}

func TestHeapStringAndList(t *testing.T) {
	h := value.NewHeap()
	s := h.NewString("hi")
	assert.True(t, s.IsHeap())
	assert.Equal(t, "hi", h.String(s).S)

	l := h.NewList([]value.Value{value.Int(1), value.Int(2)})
	assert.True(t, l.IsHeap())
	assert.Len(t, h.List(l).Items, 2)
}

func TestStructuralEqualsNumericCrossType(t *testing.T) {
	h := value.NewHeap()
	assert.True(t, value.StructuralEquals(h, value.Int(2), value.Float(2.0)))
	assert.False(t, value.StructuralEquals(h, value.Int(2), value.Float(2.1)))
}

func TestStructuralEqualsStrings(t *testing.T) {
	h := value.NewHeap()
	a := h.NewString("x")
	b := h.NewString("x")
	assert.True(t, value.StructuralEquals(h, a, b))
}

func TestTypeNames(t *testing.T) {
	h := value.NewHeap()
	assert.Equal(t, "int", value.Int(1).TypeName())
	assert.Equal(t, "float", value.Float(1).TypeName())
	assert.Equal(t, "bool", value.True().TypeName())
	assert.Equal(t, "null", value.Null().TypeName())
	assert.Equal(t, "string", h.NewString("x").TypeName())
}
