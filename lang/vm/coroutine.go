package vm

import (
	"github.com/kaubo-lang/kaubo/lang/value"
)

// coroutineFrame records which coroutine the currently running Go
// goroutine is executing on behalf of, so OpYield knows which channels
// to use. VM.coroStack holds them as a stack because a coroutine's body
// can itself resume another coroutine.
type coroutineFrame struct {
	coro *value.ObjCoroutine
}

// yield implements OpYield from inside a coroutine's own goroutine: it
// hands val to whoever resumed it and blocks until resumed again,
// returning the next resume argument.
func (v *VM) yield(val value.Value) (value.Value, error) {
	if len(v.coroStack) == 0 {
		return value.Null(), v.runtimeErr(0, "yield outside of a coroutine")
	}
	coro := v.coroStack[len(v.coroStack)-1].coro
	coro.YieldCh <- value.CoroutineMsg{Value: val}
	msg := <-coro.ResumeCh
	return msg.Value, msg.Err
}

// CreateCoroutine is the `create_coroutine` native: it wraps closure in
// a suspended ObjCoroutine without starting its goroutine yet (Kaubo
// generators are lazy: nothing runs until the first resume).
func CreateCoroutine(vmArg any, args []value.Value) (value.Value, error) {
	v := vmArg.(*VM)
	if len(args) != 1 || !args[0].IsHeap() || args[0].TagOf() != value.TagClosure {
		return value.Null(), v.runtimeErr(0, "create_coroutine expects a single function argument")
	}
	closure := v.heap.Closure(args[0])
	return v.heap.NewCoroutineObj(closure), nil
}

// Resume is the `resume` native: it starts (or continues) the
// coroutine's goroutine and blocks until it yields, returns, or errors.
func Resume(vmArg any, args []value.Value) (value.Value, error) {
	v := vmArg.(*VM)
	if len(args) < 1 || !args[0].IsHeap() || args[0].TagOf() != value.TagCoroutine {
		return value.Null(), v.runtimeErr(0, "resume expects a coroutine argument")
	}
	coro := v.heap.Coroutine(args[0])
	resumeArg := value.Null()
	if len(args) > 1 {
		resumeArg = args[1]
	}
	val, _, err := v.resumeCoroutine(coro, resumeArg)
	return val, err
}

// resumeCoroutine drives coro one step: starting its goroutine if this is
// its first resume, or handing resumeArg to an already-suspended one. It
// blocks until the coroutine yields, returns, or errors, reporting done as
// true once the coroutine's body has returned (the coroutine is now dead).
// Both Resume and the GetIter coroutine-as-iterator path share this.
func (v *VM) resumeCoroutine(coro *value.ObjCoroutine, resumeArg value.Value) (val value.Value, done bool, err error) {
	switch coro.Status {
	case value.CoroutineDead:
		return value.Null(), true, v.runtimeErr(0, "cannot resume a dead coroutine")
	case value.CoroutineRunning:
		return value.Null(), false, v.runtimeErr(0, "coroutine is already running")
	case value.CoroutineSuspendedStart:
		coro.Status = value.CoroutineRunning
		sub := v.spawnCoroutineVM()
		go sub.runCoroutineBody(coro, resumeArg)
	case value.CoroutineSuspendedYield:
		coro.Status = value.CoroutineRunning
		coro.ResumeCh <- value.CoroutineMsg{Value: resumeArg}
	}

	msg := <-coro.YieldCh
	if msg.Done {
		coro.Status = value.CoroutineDead
	} else {
		coro.Status = value.CoroutineSuspendedYield
	}
	if msg.Err != nil {
		return value.Null(), msg.Done, msg.Err
	}
	return msg.Value, msg.Done, nil
}

// CoroutineStatusName is the `coroutine_status` native.
func CoroutineStatusName(vmArg any, args []value.Value) (value.Value, error) {
	v := vmArg.(*VM)
	if len(args) != 1 || !args[0].IsHeap() || args[0].TagOf() != value.TagCoroutine {
		return value.Null(), v.runtimeErr(0, "coroutine_status expects a coroutine argument")
	}
	coro := v.heap.Coroutine(args[0])
	var name string
	switch coro.Status {
	case value.CoroutineSuspendedStart, value.CoroutineSuspendedYield:
		name = "suspended"
	case value.CoroutineRunning:
		name = "running"
	case value.CoroutineDead:
		name = "dead"
	}
	return v.heap.NewString(name), nil
}

// spawnCoroutineVM creates a VM that shares the heap, registered
// modules and output sink with v, but has its own value/frame stacks
// and coroutine-nesting stack — it is a fully independent Go-level
// execution context for the goroutine that drives one coroutine body.
func (v *VM) spawnCoroutineVM() *VM {
	return &VM{
		heap:         v.heap,
		openUpvalues: make(map[int]*value.ObjUpvalue),
		modules:      v.modules,
		stdout:       v.stdout,
		log:          v.log,
	}
}

// runCoroutineBody is the entry point for a coroutine's dedicated
// goroutine: it runs the closure's body with the first resume argument
// as its argument, to completion (or until it never returns, if the body loops
// forever yielding), and reports the outcome on YieldCh.
func (v *VM) runCoroutineBody(coro *value.ObjCoroutine, firstArg value.Value) {
	v.coroStack = append(v.coroStack, coroutineFrame{coro: coro})
	result, err := v.callClosure(coro.Closure, []value.Value{firstArg})
	if err != nil {
		coro.YieldCh <- value.CoroutineMsg{Err: err, Done: true}
		return
	}
	coro.YieldCh <- value.CoroutineMsg{Value: result, Done: true}
}
