package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaubo-lang/kaubo/lang/compiler"
	"github.com/kaubo-lang/kaubo/lang/parser"
	"github.com/kaubo-lang/kaubo/lang/stdlib"
	"github.com/kaubo-lang/kaubo/lang/value"
	"github.com/kaubo-lang/kaubo/lang/vm"
)

func compileModule(t *testing.T, heap *value.Heap, moduleID, src string) *compiler.Chunk {
	t.Helper()
	chunk, err := parser.Parse(moduleID+".kaubo", []byte(src))
	require.NoError(t, err)
	out, _, err := compiler.Compile(heap, moduleID, chunk)
	require.NoError(t, err)
	return out
}

func newVMWithStdlib(stdout *bytes.Buffer) (*vm.VM, *value.Heap) {
	heap := value.NewHeap()
	machine := vm.New(heap, vm.WithStdout(stdout))
	machine.RegisterModule("std", stdlib.New(machine))
	return machine, heap
}

func TestRunArithmeticAndPrint(t *testing.T) {
	var stdout bytes.Buffer
	machine, heap := newVMWithStdlib(&stdout)
	chunk := compileModule(t, heap, "main", `var x = 1 + 2 * 3; print x;`)

	_, err := machine.RunModule("main", chunk)
	require.NoError(t, err)
	assert.Equal(t, "7\n", stdout.String())
}

func TestRunClosureCapturesUpvalue(t *testing.T) {
	var stdout bytes.Buffer
	machine, heap := newVMWithStdlib(&stdout)
	chunk := compileModule(t, heap, "main", `
var x = 10;
var addX = |y: int| -> int { return x + y; };
print addX(5);
`)

	_, err := machine.RunModule("main", chunk)
	require.NoError(t, err)
	assert.Equal(t, "15\n", stdout.String())
}

func TestRunStructMethodDispatch(t *testing.T) {
	var stdout bytes.Buffer
	machine, heap := newVMWithStdlib(&stdout)
	chunk := compileModule(t, heap, "main", `
struct Point { x: int, y: int }
impl Point {
  sum = |self| { return self.x + self.y; };
}
var p = Point { x: 1, y: 2 };
print p.sum();
`)

	_, err := machine.RunModule("main", chunk)
	require.NoError(t, err)
	assert.Equal(t, "3\n", stdout.String())
}

func TestRunStructOperatorOverload(t *testing.T) {
	var stdout bytes.Buffer
	machine, heap := newVMWithStdlib(&stdout)
	chunk := compileModule(t, heap, "main", `
struct Point { x: int, y: int }
impl Point {
  operator + = |self, other| { return Point { x: self.x + other.x, y: self.y + other.y }; };
  sum = |self| { return self.x + self.y; };
}
var a = Point { x: 1, y: 2 };
var b = Point { x: 3, y: 4 };
var c = a + b;
print c.sum();
`)

	_, err := machine.RunModule("main", chunk)
	require.NoError(t, err)
	assert.Equal(t, "10\n", stdout.String())
}

func TestRunForInIteratesList(t *testing.T) {
	var stdout bytes.Buffer
	machine, heap := newVMWithStdlib(&stdout)
	chunk := compileModule(t, heap, "main", `
var total = 0;
for var i in [1, 2, 3] { total = total + i; }
print total;
`)

	_, err := machine.RunModule("main", chunk)
	require.NoError(t, err)
	assert.Equal(t, "6\n", stdout.String())
}

func TestRunModuleExportsAreReadable(t *testing.T) {
	machine, heap := newVMWithStdlib(&bytes.Buffer{})
	chunk := compileModule(t, heap, "main", `pub var answer = 42;`)

	result, err := machine.RunModule("main", chunk)
	require.NoError(t, err)

	mod := heap.Module(result)
	require.Contains(t, mod.Exports, "answer")
	assert.Equal(t, value.Int(42), mod.Exports["answer"])
}

func TestRunImportedModuleExportIsUsable(t *testing.T) {
	var stdout bytes.Buffer
	machine, heap := newVMWithStdlib(&stdout)

	mathChunk := compileModule(t, heap, "math", `pub var pi = 3;`)
	_, err := machine.RunModule("math", mathChunk)
	require.NoError(t, err)

	mainChunk := compileModule(t, heap, "main", `
from math import pi;
print pi;
`)
	_, err = machine.RunModule("main", mainChunk)
	require.NoError(t, err)
	assert.Equal(t, "3\n", stdout.String())
}

func TestRunDivisionByZeroIsRuntimeError(t *testing.T) {
	machine, heap := newVMWithStdlib(&bytes.Buffer{})
	chunk := compileModule(t, heap, "main", `var x = 1 / 0;`)

	_, err := machine.RunModule("main", chunk)
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestRunCoroutineYieldsThenCompletes(t *testing.T) {
	var stdout bytes.Buffer
	machine, heap := newVMWithStdlib(&stdout)
	chunk := compileModule(t, heap, "main", `
from std import create_coroutine, resume, coroutine_status;
var gen = || -> int {
  yield 1;
  yield 2;
  return 3;
};
var co = create_coroutine(gen);
print resume(co);
print resume(co);
print resume(co);
print coroutine_status(co);
`)

	_, err := machine.RunModule("main", chunk)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\ndead\n", stdout.String())
}
