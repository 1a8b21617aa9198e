package compiler_test

import (
	"testing"

	"github.com/kaubo-lang/kaubo/lang/compiler"
	"github.com/kaubo-lang/kaubo/lang/parser"
	"github.com/kaubo-lang/kaubo/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileSrc(t *testing.T, src string) (*compiler.Chunk, []compiler.ExportSlot) {
	t.Helper()
	chunk, err := parser.Parse("test.kaubo", []byte(src))
	require.NoError(t, err)
	heap := value.NewHeap()
	out, exports, err := compiler.Compile(heap, "test", chunk)
	require.NoError(t, err)
	return out, exports
}

func TestCompileSimpleArithmetic(t *testing.T) {
	out, _ := compileSrc(t, `var x = 1 + 2 * 3;`)
	assert.NotEmpty(t, out.Code)
	assert.Contains(t, out.Code, byte(compiler.OpAdd))
	assert.Contains(t, out.Code, byte(compiler.OpMul))
}

func TestCompileUndefinedNameErrors(t *testing.T) {
	ast, err := parser.Parse("test.kaubo", []byte(`var x = y;`))
	require.NoError(t, err)
	_, _, err = compiler.Compile(value.NewHeap(), "test", ast)
	require.Error(t, err)
	var cerr *compiler.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, compiler.ErrUnresolvedName, cerr.Kind)
}

func TestCompilePubVarProducesExport(t *testing.T) {
	_, exports := compileSrc(t, `pub var answer = 42;`)
	require.Len(t, exports, 1)
	assert.Equal(t, "answer", exports[0].Name)
}

func TestCompileLambdaCapturesUpvalue(t *testing.T) {
	out, _ := compileSrc(t, `
var x = 10;
var addX = |y: int| -> int { return x + y; };
`)
	assert.Contains(t, out.Code, byte(compiler.OpClosure))
}

func TestCompileForInUsesIteratorProtocol(t *testing.T) {
	out, _ := compileSrc(t, `for var i in [1, 2, 3] { print i; }`)
	assert.Contains(t, out.Code, byte(compiler.OpGetIter))
	assert.Contains(t, out.Code, byte(compiler.OpIterNext))
}

func TestCompileStructAndImpl(t *testing.T) {
	out, _ := compileSrc(t, `
struct Point { x: int, y: int }
impl Point {
  sum = |self| { return self.x + self.y; };
}
var p = Point { x: 1, y: 2 };
`)
	assert.Contains(t, out.Code, byte(compiler.OpDefineMethod))
	assert.Contains(t, out.Code, byte(compiler.OpBuildStruct))
}
