package binary_test

import (
	"bytes"
	"testing"

	"github.com/kaubo-lang/kaubo/lang/binary"
	"github.com/kaubo-lang/kaubo/lang/compiler"
	"github.com/kaubo-lang/kaubo/lang/parser"
	"github.com/kaubo-lang/kaubo/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileForRoundTrip(t *testing.T, heap *value.Heap, src string) (*compiler.Chunk, []compiler.ExportSlot) {
	t.Helper()
	ast, err := parser.Parse("roundtrip.kaubo", []byte(src))
	require.NoError(t, err)
	chunk, exports, err := compiler.Compile(heap, "roundtrip", ast)
	require.NoError(t, err)
	return chunk, exports
}

func TestRoundTripSimpleModule(t *testing.T) {
	heap := value.NewHeap()
	chunk, exports := compileForRoundTrip(t, heap, `pub var answer = 1 + 2 * 3;`)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, heap, "roundtrip", chunk, exports, nil))

	readHeap := value.NewHeap()
	mod, err := binary.Read(bytes.NewReader(buf.Bytes()), readHeap)
	require.NoError(t, err)

	assert.Equal(t, "roundtrip", mod.Name)
	assert.Equal(t, chunk.Code, mod.Entry.Code)
	assert.Equal(t, chunk.Lines, mod.Entry.Lines)
	require.Len(t, mod.Exports, len(exports))
	for i, e := range exports {
		assert.Equal(t, e.Name, mod.Exports[i].Name)
		assert.Equal(t, e.Slot, mod.Exports[i].Slot)
	}
}

func TestRoundTripNestedFunctionAndStruct(t *testing.T) {
	heap := value.NewHeap()
	src := `
struct Point { x: int, y: int }

var make_adder = |n: int| -> int { return |x: int| -> int { return x + n; }; };
var add5 = make_adder(5);
var p = Point { x: 1, y: 2 };
`
	chunk, exports := compileForRoundTrip(t, heap, src)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, heap, "nested", chunk, exports, []string{"std"}))

	readHeap := value.NewHeap()
	mod, err := binary.Read(bytes.NewReader(buf.Bytes()), readHeap)
	require.NoError(t, err)

	assert.Equal(t, "nested", mod.Name)
	assert.Equal(t, chunk.Code, mod.Entry.Code)
	assert.Equal(t, []string{"std"}, mod.Imports)

	var sawFunc, sawShape bool
	for _, c := range mod.Entry.Constants {
		switch {
		case c.IsHeap() && c.TagOf() == value.TagFunction:
			sawFunc = true
			fn := readHeap.Function(c)
			assert.NotEmpty(t, fn.Code)
		case c.IsHeap() && c.TagOf() == value.TagShape:
			sawShape = true
			shape := readHeap.Shape(c)
			assert.Equal(t, "Point", shape.Name)
			assert.Equal(t, []string{"x", "y"}, shape.Fields)
		}
	}
	assert.True(t, sawFunc, "expected a nested function constant to round-trip")
	assert.True(t, sawShape, "expected the struct shape to round-trip")
}

func TestReadRejectsBadMagic(t *testing.T) {
	heap := value.NewHeap()
	chunk, exports := compileForRoundTrip(t, heap, `var x = 1;`)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, heap, "bad", chunk, exports, nil))
	corrupted := buf.Bytes()
	corrupted[0] = 'X'

	_, err := binary.Read(bytes.NewReader(corrupted), value.NewHeap())
	require.Error(t, err)
	var berr *binary.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, binary.ErrInvalidMagic, berr.Kind)
}

func TestReadRejectsChecksumMismatch(t *testing.T) {
	heap := value.NewHeap()
	chunk, exports := compileForRoundTrip(t, heap, `var x = 1;`)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, heap, "bad", chunk, exports, nil))
	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xFF

	_, err := binary.Read(bytes.NewReader(corrupted), value.NewHeap())
	require.Error(t, err)
	var berr *binary.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, binary.ErrChecksumMismatch, berr.Kind)
}
