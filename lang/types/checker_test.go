package types_test

import (
	"testing"

	"github.com/kaubo-lang/kaubo/lang/parser"
	"github.com/kaubo-lang/kaubo/lang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func check(t *testing.T, src string) []types.Warning {
	t.Helper()
	chunk, err := parser.Parse("test.kaubo", []byte(src))
	require.NoError(t, err)
	return types.Check(chunk)
}

func TestNoWarningsForWellTypedProgram(t *testing.T) {
	warns := check(t, `var x: int = 1; var y: int = x + 2;`)
	assert.Empty(t, warns)
}

func TestMismatchOnDeclaredVsInitType(t *testing.T) {
	warns := check(t, `var x: int = "hi";`)
	require.Len(t, warns, 1)
	assert.Equal(t, types.WarnMismatch, warns[0].Kind)
}

func TestArithmeticPromotesToFloat(t *testing.T) {
	warns := check(t, `var x: float = 1 + 2.5;`)
	assert.Empty(t, warns)
}

func TestUndefinedNameWarns(t *testing.T) {
	warns := check(t, `var x = y + 1;`)
	require.NotEmpty(t, warns)
	assert.Equal(t, types.WarnUndefinedName, warns[0].Kind)
}

func TestConditionMustBeBoolIsAdvisoryNotFatal(t *testing.T) {
	warns := check(t, `if 1 { print 1; }`)
	require.Len(t, warns, 1)
	assert.Equal(t, types.WarnMismatch, warns[0].Kind)
}

func TestStructFieldMismatchWarns(t *testing.T) {
	warns := check(t, `
struct Point { x: int, y: int }
var p = Point { x: 1, y: "bad" };
`)
	require.Len(t, warns, 1)
	assert.Equal(t, types.WarnMismatch, warns[0].Kind)
}

func TestUnknownStructMemberWarns(t *testing.T) {
	warns := check(t, `
struct Point { x: int, y: int }
var p = Point { x: 1, y: 2 };
var z = p.missing;
`)
	require.Len(t, warns, 1)
	assert.Equal(t, types.WarnUnknownMember, warns[0].Kind)
}

func TestListElementTypeFlowsToForIn(t *testing.T) {
	warns := check(t, `
for var n in [1, 2, 3] {
  var doubled: int = n * 2;
}
`)
	assert.Empty(t, warns)
}
