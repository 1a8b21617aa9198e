package parser_test

import (
	"testing"

	"github.com/kaubo-lang/kaubo/lang/ast"
	"github.com/kaubo-lang/kaubo/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVarDecl(t *testing.T) {
	chunk, err := parser.Parse("test.kaubo", []byte(`var x: int = 42;`))
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 1)
	decl, ok := chunk.Block.Stmts[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	assert.Equal(t, "int", decl.Type.Name)
	lit, ok := decl.Init.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(42), lit.Val)
}

func TestParseForIn(t *testing.T) {
	chunk, err := parser.Parse("test.kaubo", []byte(`for var i in [1, 2, 3] { print i; }`))
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 1)
	loop, ok := chunk.Block.Stmts[0].(*ast.ForInStmt)
	require.True(t, ok)
	assert.Equal(t, "i", loop.Name)
	list, ok := loop.Iterable.(*ast.ListLit)
	require.True(t, ok)
	assert.Len(t, list.Items, 3)
}

func TestParseLambdaAndClosureCall(t *testing.T) {
	src := `var add5 = |x: int| -> int { return x + 5; };`
	chunk, err := parser.Parse("test.kaubo", []byte(src))
	require.NoError(t, err)
	decl := chunk.Block.Stmts[0].(*ast.VarDecl)
	lam, ok := decl.Init.(*ast.LambdaExpr)
	require.True(t, ok)
	require.Len(t, lam.Params, 1)
	assert.Equal(t, "x", lam.Params[0].Name)
	assert.Equal(t, "int", lam.Return.Name)
}

func TestMissingRightParenIsStructuredError(t *testing.T) {
	_, err := parser.Parse("test.kaubo", []byte(`var x = (1 + 2;`))
	require.Error(t, err)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parser.MissingRightParen, perr.Kind)
}

func TestPrinterRoundTripsSimpleProgram(t *testing.T) {
	src := `var x = 1;`
	chunk, err := parser.Parse("a.kaubo", []byte(src))
	require.NoError(t, err)
	printed := ast.Print(chunk)
	reparsed, err := parser.Parse("a.kaubo", []byte(printed))
	require.NoError(t, err)
	assert.Equal(t, ast.Print(chunk), ast.Print(reparsed))
}

func TestStructAndImpl(t *testing.T) {
	src := `
struct Point { x: int, y: int }
impl Point {
  sum = |self| { return self.x + self.y; };
}
`
	chunk, err := parser.Parse("test.kaubo", []byte(src))
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 2)
	sd := chunk.Block.Stmts[0].(*ast.StructDef)
	assert.Equal(t, "Point", sd.Name)
	assert.Len(t, sd.Fields, 2)
	impl := chunk.Block.Stmts[1].(*ast.ImplBlock)
	assert.Equal(t, "Point", impl.Struct)
	require.Len(t, impl.Methods, 1)
	assert.Equal(t, "sum", impl.Methods[0].Name)
}
