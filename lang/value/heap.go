package value

import (
	"io"

	"github.com/dolthub/swiss"
)

// Heap owns every heap-allocated object a running program can reference.
// Each Tag has its own append-only table; a Value's 44-bit payload is an
// index into the table for its tag. Kaubo has no tracing garbage
// collector: the heap only grows for the lifetime of
// a VM instance, which is acceptable for the short-lived script
// execution this runtime targets.
type Heap struct {
	strings      []*ObjString
	lists        []*ObjList
	functions    []*ObjFunction
	upvalues     []*ObjUpvalue
	closures     []*ObjClosure
	coroutines   []*ObjCoroutine
	results      []*ObjResult
	options      []*ObjOption
	jsons        []*ObjJSON
	modules      []*ObjModule
	natives      []*ObjNative
	nativeVMs    []*ObjNativeVM
	shapes       []*ObjShape
	structs      []*ObjStruct
	iterators    []*ObjIterator
	boundMethods []*ObjBoundMethod
}

// NewHeap creates an empty heap.
func NewHeap() *Heap { return &Heap{} }

// ObjString is a boxed, immutable string.
type ObjString struct {
	S string
}

func (h *Heap) NewString(s string) Value {
	h.strings = append(h.strings, &ObjString{S: s})
	return heapRef(TagString, uint32(len(h.strings)-1))
}

func (h *Heap) String(v Value) *ObjString { return h.strings[v.Handle()] }

// ObjList is a boxed, growable list of Values.
type ObjList struct {
	Items []Value
}

func (h *Heap) NewList(items []Value) Value {
	h.lists = append(h.lists, &ObjList{Items: items})
	return heapRef(TagList, uint32(len(h.lists)-1))
}

func (h *Heap) List(v Value) *ObjList { return h.lists[v.Handle()] }

// ObjFunction is a compiled function prototype: its bytecode, constant
// pool slice index, and static metadata. It is not itself callable — a
// Closure wraps a Function with its captured upvalues.
type ObjFunction struct {
	Name        string
	Arity       int
	Code        []byte
	Constants   []Value
	Lines       []int32
	UpvalueInfo []UpvalueDesc
	IsGenerator bool
}

// UpvalueDesc describes how a closure should capture one upvalue slot:
// either from the enclosing function's local stack slot, or from the
// enclosing function's own upvalue list (for nested closures).
type UpvalueDesc struct {
	FromParentLocal bool
	Index           int
}

func (h *Heap) NewFunction(fn *ObjFunction) Value {
	h.functions = append(h.functions, fn)
	return heapRef(TagFunction, uint32(len(h.functions)-1))
}

func (h *Heap) Function(v Value) *ObjFunction { return h.functions[v.Handle()] }

// ObjUpvalue is a reference cell shared between a closure and the stack
// slot it closes over, until that slot goes out of scope (closed) and
// the value is copied into the cell itself.
type ObjUpvalue struct {
	StackIndex int // valid while Closed == false
	Closed     bool
	Value      Value
}

// Upvalues are referenced internally by the VM via raw *ObjUpvalue
// pointers — they're never exposed as first-class Kaubo values, so they
// don't need their own Value tag or heap table entry of their own kind.
func (h *Heap) NewUpvalueRef(stackIndex int) *ObjUpvalue {
	uv := &ObjUpvalue{StackIndex: stackIndex}
	h.upvalues = append(h.upvalues, uv)
	return uv
}

// ObjClosure pairs a function prototype with its captured upvalues.
type ObjClosure struct {
	Fn       *ObjFunction
	Upvalues []*ObjUpvalue
}

func (h *Heap) NewClosure(c *ObjClosure) Value {
	h.closures = append(h.closures, c)
	return heapRef(TagClosure, uint32(len(h.closures)-1))
}

func (h *Heap) Closure(v Value) *ObjClosure { return h.closures[v.Handle()] }

// CoroutineStatus enumerates the cooperative-scheduling states of a generator.
type CoroutineStatus uint8

const (
	CoroutineSuspendedStart CoroutineStatus = iota
	CoroutineSuspendedYield
	CoroutineRunning
	CoroutineDead
)

// ObjCoroutine is a suspended or running generator. Its body runs on its
// own goroutine so a yield arbitrarily deep in a call chain can suspend
// without unwinding the resumer's Go call stack; ResumeCh/YieldCh
// synchronize the handoff so only one of the two goroutines ever runs at
// a time, preserving Kaubo's single-threaded cooperative semantics.
type ObjCoroutine struct {
	Closure  *ObjClosure
	Status   CoroutineStatus
	ResumeCh chan CoroutineMsg // caller -> coroutine goroutine
	YieldCh  chan CoroutineMsg // coroutine goroutine -> caller
}

// CoroutineMsg is the envelope passed across ResumeCh/YieldCh: a value
// (a resume argument, or a yielded/returned value) plus a Done flag that
// distinguishes a yield (the coroutine is still alive) from a return or
// an error (the coroutine is now dead).
type CoroutineMsg struct {
	Value Value
	Err   error
	Done  bool
}

// NewCoroutineObj allocates a coroutine's handoff channels; the vm package
// spawns the goroutine that actually runs closure's body.
func (h *Heap) NewCoroutineObj(closure *ObjClosure) Value {
	c := &ObjCoroutine{
		Closure:  closure,
		Status:   CoroutineSuspendedStart,
		ResumeCh: make(chan CoroutineMsg),
		YieldCh:  make(chan CoroutineMsg),
	}
	return h.NewCoroutine(c)
}

// Frame is a single call-frame: its closure, the instruction pointer
// into the closure's function code, and the base stack slot the frame's
// locals start at.
type Frame struct {
	Closure *ObjClosure
	IP      int
	Base    int
}

func (h *Heap) NewCoroutine(c *ObjCoroutine) Value {
	h.coroutines = append(h.coroutines, c)
	return heapRef(TagCoroutine, uint32(len(h.coroutines)-1))
}

func (h *Heap) Coroutine(v Value) *ObjCoroutine { return h.coroutines[v.Handle()] }

// ObjResult is the boxed form of a `result` value: either Ok(value) or
// Err(value).
type ObjResult struct {
	IsOk  bool
	Value Value
}

func (h *Heap) NewResult(r *ObjResult) Value {
	h.results = append(h.results, r)
	return heapRef(TagResult, uint32(len(h.results)-1))
}

func (h *Heap) Result(v Value) *ObjResult { return h.results[v.Handle()] }

// ObjOption is the boxed form of an `option` value: Some(value) or None.
type ObjOption struct {
	HasValue bool
	Value    Value
}

func (h *Heap) NewOption(o *ObjOption) Value {
	h.options = append(h.options, o)
	return heapRef(TagOption, uint32(len(h.options)-1))
}

func (h *Heap) Option(v Value) *ObjOption { return h.options[v.Handle()] }

// ObjJSON is a dynamically-typed JSON document value: an ordered map of
// string keys to Values, preserving literal field order.
type ObjJSON struct {
	Keys   []string
	Values map[string]Value
}

func (h *Heap) NewJSON(j *ObjJSON) Value {
	h.jsons = append(h.jsons, j)
	return heapRef(TagJSON, uint32(len(h.jsons)-1))
}

func (h *Heap) JSON(v Value) *ObjJSON { return h.jsons[v.Handle()] }

// ObjModule is a resolved module's runtime namespace: its exported
// bindings by name.
type ObjModule struct {
	Name    string
	Exports map[string]Value
}

func (h *Heap) NewModule(m *ObjModule) Value {
	h.modules = append(h.modules, m)
	return heapRef(TagModule, uint32(len(h.modules)-1))
}

func (h *Heap) Module(v Value) *ObjModule { return h.modules[v.Handle()] }

// NativeFunc is a Go-implemented builtin callable from Kaubo code.
type NativeFunc func(vm NativeVM, args []Value) (Value, error)

// NativeVM is the minimal surface a NativeFunc needs from the running
// VM (e.g. to allocate heap objects without importing the vm package,
// which would create an import cycle).
type NativeVM interface {
	Heap() *Heap
	Stdout() io.Writer
}

// ObjNative wraps a NativeFunc as a callable Value.
type ObjNative struct {
	Name  string
	Fn    NativeFunc
	Arity int // -1 means variadic
}

func (h *Heap) NewNative(n *ObjNative) Value {
	h.natives = append(h.natives, n)
	return heapRef(TagNative, uint32(len(h.natives)-1))
}

func (h *Heap) Native(v Value) *ObjNative { return h.natives[v.Handle()] }

// ObjNativeVM wraps a native function that additionally needs direct
// access to the VM's call machinery (e.g. coroutine primitives that must
// drive another closure). It's distinguished from ObjNative so the VM's
// call dispatch can give it the full VM rather than just the heap.
type ObjNativeVM struct {
	Name string
	Fn   func(vm any, args []Value) (Value, error)
}

func (h *Heap) NewNativeVM(n *ObjNativeVM) Value {
	h.nativeVMs = append(h.nativeVMs, n)
	return heapRef(TagNativeVM, uint32(len(h.nativeVMs)-1))
}

func (h *Heap) NativeVM(v Value) *ObjNativeVM { return h.nativeVMs[v.Handle()] }

// ObjShape describes a struct type: its field order and its method and
// operator-overload tables, each mapping a name to a closure Value. The
// tables use swiss.Map rather than a plain Go map: method/operator
// dispatch is on the hot path of every struct method call and binary
// operation, and swiss's open-addressing layout beats Go's bucketed map
// for the small, lookup-heavy tables a shape builds once and reads many
// times.
type ObjShape struct {
	Name      string
	Fields    []string
	Methods   *swiss.Map[string, Value]
	Operators *swiss.Map[string, Value] // keyed by "operator +", "operator ==", etc.
}

func (h *Heap) NewShape(s *ObjShape) Value {
	if s.Methods == nil {
		s.Methods = swiss.NewMap[string, Value](4)
	}
	if s.Operators == nil {
		s.Operators = swiss.NewMap[string, Value](4)
	}
	h.shapes = append(h.shapes, s)
	return heapRef(TagShape, uint32(len(h.shapes)-1))
}

func (h *Heap) Shape(v Value) *ObjShape { return h.shapes[v.Handle()] }

// ObjStruct is a struct instance: a reference to its shape plus its
// field values in shape field order.
type ObjStruct struct {
	Shape  *ObjShape
	Fields []Value
}

func (h *Heap) NewStruct(s *ObjStruct) Value {
	h.structs = append(h.structs, s)
	return heapRef(TagStruct, uint32(len(h.structs)-1))
}

func (h *Heap) Struct(v Value) *ObjStruct { return h.structs[v.Handle()] }

// IterKind distinguishes what an ObjIterator walks.
type IterKind uint8

const (
	IterList IterKind = iota
	IterJSON
	IterCoroutine
)

// ObjIterator is the runtime state of a for-in loop's iterator: a
// position into a list or a JSON object's key order, or a coroutine
// driven by repeated resumes. String and range iteration both lower to a
// materialized list at the point GetIter runs.
type ObjIterator struct {
	Kind  IterKind
	List  *ObjList
	JSON  *ObjJSON
	Coro  *ObjCoroutine
	Index int
}

func (h *Heap) NewIterator(it *ObjIterator) Value {
	h.iterators = append(h.iterators, it)
	return heapRef(TagIterator, uint32(len(h.iterators)-1))
}

func (h *Heap) Iterator(v Value) *ObjIterator { return h.iterators[v.Handle()] }

// ObjBoundMethod pairs a method closure with the receiver GetMember
// looked it up on, so calling it applies self implicitly (struct method
// dispatch, mirrored here as a runtime value rather than a compile-time
// call-site rewrite since `obj.name` is the same syntax whether name
// resolves to a struct method, a module export, or a plain field).
type ObjBoundMethod struct {
	Receiver Value
	Method   Value // ObjClosure
}

func (h *Heap) NewBoundMethod(b *ObjBoundMethod) Value {
	h.boundMethods = append(h.boundMethods, b)
	return heapRef(TagBoundMethod, uint32(len(h.boundMethods)-1))
}

func (h *Heap) BoundMethod(v Value) *ObjBoundMethod { return h.boundMethods[v.Handle()] }
