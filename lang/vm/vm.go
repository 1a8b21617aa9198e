// Package vm implements the stack-based bytecode interpreter described
// a call-frame stack, open/closed upvalues shared by sibling
// closures, cooperative single-threaded coroutines that context-switch
// only at yield/resume, and shape-driven operator-overload dispatch. The
// dispatch-loop shape (a frame stack, an instruction pointer per frame,
// a big switch over opcodes) follows mna-nenuphar/lang/machine/machine.go's
// structure, adapted to Kaubo's own
// opcode set and NaN-boxed values.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/kaubo-lang/kaubo/internal/logging"
	"github.com/kaubo-lang/kaubo/lang/compiler"
	"github.com/kaubo-lang/kaubo/lang/value"
)

// VM is one running instance of the interpreter: its value stack, call
// frames, heap, and loaded modules.
type VM struct {
	heap   *value.Heap
	stack  []value.Value
	frames []value.Frame

	openUpvalues map[int]*value.ObjUpvalue

	modules map[string]value.Value // moduleID -> ObjModule, populated as modules run

	coroStack []coroutineFrame // which coroutine (if any) this goroutine is driving

	stdout io.Writer
	log    logging.Logger
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithStdout overrides the writer `print` statements write to (default os.Stdout).
func WithStdout(w io.Writer) Option { return func(v *VM) { v.stdout = w } }

// WithLogger overrides the VM's diagnostic logger (default a no-op logger).
func WithLogger(l logging.Logger) Option { return func(v *VM) { v.log = l } }

// New creates a VM around a heap that the caller's compiler already used
// to intern constants, so constant Values in compiled chunks resolve
// against the same heap tables at run time.
func New(heap *value.Heap, opts ...Option) *VM {
	v := &VM{
		heap:         heap,
		openUpvalues: make(map[int]*value.ObjUpvalue),
		modules:      make(map[string]value.Value),
		stdout:       os.Stdout,
		log:          logging.New(logging.Warn, nil),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Heap implements value.NativeVM so native functions can allocate heap
// objects without importing this package.
func (v *VM) Heap() *value.Heap { return v.heap }

// Stdout implements value.NativeVM so natives like `print` can write to
// the same sink OpPrint does, without importing this package.
func (v *VM) Stdout() io.Writer { return v.stdout }

// RegisterModule makes a pre-built module (e.g. `std`) resolvable under
// moduleID by import statements, without needing Kaubo source for it.
func (v *VM) RegisterModule(moduleID string, mod value.Value) {
	v.modules[moduleID] = mod
}

// RuntimeError is a failure raised while executing bytecode (as opposed
// to a compile-time structural error).
type RuntimeError struct {
	Message string
	Line    int32
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func (v *VM) push(val value.Value) { v.stack = append(v.stack, val) }

func (v *VM) pop() value.Value {
	last := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
	return last
}

func (v *VM) peek(distanceFromTop int) value.Value {
	return v.stack[len(v.stack)-1-distanceFromTop]
}

func (v *VM) runtimeErr(line int32, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	v.log.Debug("runtime error", logging.F("line", line), logging.F("message", msg))
	return &RuntimeError{Message: msg, Line: line}
}

// RunModule executes a compiled module chunk to completion and returns
// the ObjModule value it built (its final stack value, by construction
// of the compiler's trailing OpBuildModule). It also registers the
// result under moduleID so later imports resolve without re-running it.
func (v *VM) RunModule(moduleID string, chunk *compiler.Chunk) (value.Value, error) {
	if cached, ok := v.modules[moduleID]; ok {
		return cached, nil
	}
	v.log.Info("running module", logging.F("module", moduleID))
	fn := &value.ObjFunction{
		Name:      moduleID,
		Code:      chunk.Code,
		Constants: chunk.Constants,
		Lines:     chunk.Lines,
	}
	closure := &value.ObjClosure{Fn: fn}
	result, err := v.callClosure(closure, nil)
	if err != nil {
		return value.Null(), err
	}
	v.modules[moduleID] = result
	return result, nil
}

// RunEntry executes the entry chunk by delegating to RunModule: it
// returns the same ObjModule value and registers it under moduleID in
// the same way.
func (v *VM) RunEntry(moduleID string, chunk *compiler.Chunk) (value.Value, error) {
	return v.RunModule(moduleID, chunk)
}
