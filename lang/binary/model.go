package binary

import (
	"github.com/kaubo-lang/kaubo/lang/compiler"
	"github.com/kaubo-lang/kaubo/lang/value"
)

// constKind tags how one function-pool constant slot is encoded on disk.
type constKind uint8

const (
	constNull constKind = iota
	constTrue
	constFalse
	constInt
	constFloat
	constString // payload: string pool index
	constFunc   // payload: function pool index
	constShape  // payload: shape table index
)

// constEntry is one decoded/to-be-encoded constant pool slot.
type constEntry struct {
	Kind  constKind
	Int   int64
	Float float64
	Ref   uint32 // string/function/shape pool index, by Kind
}

// funcEntry is one function pool entry: a flattened compiler.Chunk.
type funcEntry struct {
	NameIdx     uint32
	Arity       int32
	IsGenerator bool
	Code        []byte
	Lines       []int32 // decoded in-memory form; encoded via encodeLines on write
	Constants   []constEntry
	Upvalues    []value.UpvalueDesc
}

// shapeEntry is one shape table entry.
type shapeEntry struct {
	NameIdx      uint32
	FieldIndices []uint32
}

// exportEntry is one module export: a name plus the top-level local slot
// that held its value when the entry chunk returned.
type exportEntry struct {
	NameIdx uint32
	Slot    int32
}

// collector flattens a compiled module's constant graph (functions and
// shapes transitively reachable from the entry chunk) into pool form,
// deduplicating strings, functions and shapes by heap handle so a value
// shared across constant slots is written once.
type collector struct {
	heap *value.Heap

	strings   []string
	stringIdx map[string]uint32

	functions   []funcEntry
	funcHandles map[uint32]uint32 // value.Value.Handle() -> function pool index

	shapes       []shapeEntry
	shapeHandles map[uint32]uint32
}

func newCollector(heap *value.Heap) *collector {
	return &collector{
		heap:         heap,
		stringIdx:    make(map[string]uint32),
		funcHandles:  make(map[uint32]uint32),
		shapeHandles: make(map[uint32]uint32),
	}
}

func (c *collector) internString(s string) uint32 {
	if idx, ok := c.stringIdx[s]; ok {
		return idx
	}
	idx := uint32(len(c.strings))
	c.strings = append(c.strings, s)
	c.stringIdx[s] = idx
	return idx
}

func (c *collector) internShape(v value.Value) uint32 {
	h := v.Handle()
	if idx, ok := c.shapeHandles[h]; ok {
		return idx
	}
	shape := c.heap.Shape(v)
	idx := uint32(len(c.shapes))
	c.shapeHandles[h] = idx
	c.shapes = append(c.shapes, shapeEntry{}) // reserve slot before recursing
	entry := shapeEntry{NameIdx: c.internString(shape.Name)}
	for _, f := range shape.Fields {
		entry.FieldIndices = append(entry.FieldIndices, c.internString(f))
	}
	c.shapes[idx] = entry
	return idx
}

// internFunction flattens chunk (a compiler.Chunk or a nested
// value.ObjFunction presented through the same shape) into the function
// pool, recursively interning every function/shape/string constant it
// references, and returns its pool index.
func (c *collector) internChunk(name string, arity int, isGenerator bool, code []byte, lines []int32, constants []value.Value, upvalues []value.UpvalueDesc) uint32 {
	idx := uint32(len(c.functions))
	c.functions = append(c.functions, funcEntry{}) // reserve slot before recursing
	entry := funcEntry{
		NameIdx:     c.internString(name),
		Arity:       int32(arity),
		IsGenerator: isGenerator,
		Code:        code,
		Lines:       lines,
		Upvalues:    upvalues,
	}
	for _, cv := range constants {
		entry.Constants = append(entry.Constants, c.internConst(cv))
	}
	c.functions[idx] = entry
	return idx
}

func (c *collector) internConst(v value.Value) constEntry {
	switch {
	case v.IsNull():
		return constEntry{Kind: constNull}
	case v.IsBool():
		if v.AsBool() {
			return constEntry{Kind: constTrue}
		}
		return constEntry{Kind: constFalse}
	case v.IsInt():
		return constEntry{Kind: constInt, Int: v.AsInt()}
	case v.IsFloat():
		return constEntry{Kind: constFloat, Float: v.AsFloat()}
	case v.IsHeap() && v.TagOf() == value.TagString:
		return constEntry{Kind: constString, Ref: c.internString(c.heap.String(v).S)}
	case v.IsHeap() && v.TagOf() == value.TagFunction:
		h := v.Handle()
		if idx, ok := c.funcHandles[h]; ok {
			return constEntry{Kind: constFunc, Ref: idx}
		}
		fn := c.heap.Function(v)
		idx := c.internChunk(fn.Name, fn.Arity, fn.IsGenerator, fn.Code, fn.Lines, fn.Constants, fn.UpvalueInfo)
		c.funcHandles[h] = idx
		return constEntry{Kind: constFunc, Ref: idx}
	case v.IsHeap() && v.TagOf() == value.TagShape:
		return constEntry{Kind: constShape, Ref: c.internShape(v)}
	default:
		panic("binary: unsupported constant kind " + v.TypeName())
	}
}

// collectModule builds the pool tables for one compiled entry chunk.
func collectModule(heap *value.Heap, chunk *compiler.Chunk) (*collector, uint32) {
	c := newCollector(heap)
	entryIdx := c.internChunk(chunk.Name, chunk.Arity, chunk.IsGenerator, chunk.Code, chunk.Lines, chunk.Constants, chunk.Upvalues)
	return c, entryIdx
}
