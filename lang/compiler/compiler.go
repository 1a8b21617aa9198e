package compiler

import (
	"github.com/kaubo-lang/kaubo/lang/ast"
	"github.com/kaubo-lang/kaubo/lang/token"
	"github.com/kaubo-lang/kaubo/lang/value"
)

// maxLocals bounds the number of local slots a single function body may
// declare: local indices are addressed by the wide-form opcode's u16
// operand, but the short forms only cover the first 8 slots, and a
// function with more locals than this is almost certainly a generated or
// pathological program rather than a user mistake worth silently
// truncating.
const maxLocals = 1 << 16

// ExportSlot records where a `pub` top-level binding lives, for module
// export construction once the top-level chunk finishes running.
type ExportSlot struct {
	Name string
	Slot int
}

type local struct {
	name       string
	depth      int
	isCaptured bool
}

type upvalueRef struct {
	index   int
	isLocal bool // true: parent's local slot; false: parent's own upvalue
}

type loopCtx struct {
	continueTarget int
	breakJumps     []int // patch sites (operand offsets) to fill with loop end
}

// structInfo is the compile-time record of a struct's field layout.
type structInfo struct {
	name   string
	fields []string
}

// Compiler holds the state needed to compile a single function body
// (including the implicit top-level "script" function of a module). It
// links to its enclosing Compiler to resolve upvalues across nested
// lambdas, the way mna-nenuphar's fcomp/pcomp pair splits per-function and
// per-program state, simplified here into a single linked struct since
// Kaubo has no separate top-level Program wrapper.
type Compiler struct {
	enclosing *Compiler
	heap      *value.Heap
	chunk     *Chunk

	locals     []local
	scopeDepth int
	upvalues   []upvalueRef

	loops []loopCtx

	// shared across the whole compile (struct registry); the same map is
	// passed down to every nested Compiler.
	structs        map[string]*structInfo
	moduleID       string
	exports        []ExportSlot
	isModuleScript bool
}

// New creates a top-level Compiler for one compile unit. heap is shared
// with the VM that will run the resulting chunk, since string and shape
// constants are heap-allocated at compile time.
func New(heap *value.Heap, moduleID string) *Compiler {
	c := &Compiler{
		heap:           heap,
		chunk:          &Chunk{Name: moduleID},
		scopeDepth:     0,
		structs:        make(map[string]*structInfo),
		moduleID:       moduleID,
		isModuleScript: true,
	}
	// slot 0 is reserved for the running closure itself, mirroring the
	// call convention every nested function also uses.
	c.locals = append(c.locals, local{name: "", depth: 0})
	return c
}

func (c *Compiler) child(name string, arity int) *Compiler {
	nc := &Compiler{
		enclosing: c,
		heap:      c.heap,
		chunk:     &Chunk{Name: name, Arity: arity},
		structs:   c.structs,
		moduleID:  c.moduleID,
	}
	nc.locals = append(nc.locals, local{name: "", depth: 0})
	return nc
}

// Compile compiles a full chunk (module top level) to bytecode. On
// success it also returns the list of `pub` export slots collected along
// the way, which the VM uses to assemble the module's export map once
// the top-level code finishes running.
func Compile(heap *value.Heap, moduleID string, file *ast.Chunk) (*Chunk, []ExportSlot, error) {
	c := New(heap, moduleID)
	if file.Block != nil {
		c.collectStructs(file.Block.Stmts)
		for _, stmt := range file.Block.Stmts {
			if err := c.compileStmt(stmt); err != nil {
				return nil, nil, err
			}
		}
	}
	for _, exp := range c.exports {
		nameIdx := c.constString(exp.Name)
		if err := c.emitLoadConst(nameIdx, 0); err != nil {
			return nil, nil, err
		}
		if op, ok := loadLocalShort(exp.Slot); ok {
			c.emit(op, 0)
		} else {
			c.emit(OpLoadLocalWide, 0)
			c.emitU16(uint16(exp.Slot), 0)
		}
	}
	if len(c.exports) > 0xFFFF {
		return nil, nil, errAt(ErrUnimplemented, token.Pos{}, "module has too many exports")
	}
	c.emit(OpBuildModule, 0)
	c.emitU16(uint16(len(c.exports)), 0)
	c.emit(OpReturn, 0)
	return c.chunk, c.exports, nil
}

func (c *Compiler) emit(op Opcode, line int32)   { c.chunk.emit(op, line) }
func (c *Compiler) emitU16(v uint16, line int32) { c.chunk.emitU16(v, line) }
func (c *Compiler) emitU8(v uint8, line int32)   { c.chunk.emitU8(v, line) }

func (c *Compiler) lineOf(pos token.Pos) int32 { return int32(pos.Line) }

// constString interns s as a heap string constant and returns its pool
// index, reusing an existing entry by value if present.
func (c *Compiler) constString(s string) int {
	return c.chunk.addConstant(c.heap.NewString(s))
}

// emitLoadConst emits the short or wide form to push constants[idx].
func (c *Compiler) emitLoadConst(idx int, line int32) error {
	if idx > 0xFFFF {
		return errAt(ErrTooManyConstants, token.Pos{}, "constant pool exceeded 65536 entries")
	}
	if op, ok := loadConstShort(idx); ok {
		c.emit(op, line)
		return nil
	}
	c.emit(OpLoadConstWide, line)
	c.emitU16(uint16(idx), line)
	return nil
}
