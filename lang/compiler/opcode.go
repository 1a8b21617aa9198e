// Package compiler turns a parsed AST into the bytecode chunks the VM
// executes: it resolves locals, upvalues and closures, selects
// the most compact opcode form for common operations, and backpatches
// forward jumps once a block's extent is known. The opcode table and
// "stack picture" comment convention follow mna-nenuphar/lang/compiler/opcode.go;
// the concrete instruction set is
// Kaubo's own.
package compiler

import "fmt"

// Opcode is a single bytecode instruction.
type Opcode uint8

//nolint:revive
const (
	OpNop Opcode = iota

	// stack shuffling
	OpPop //     x OpPop    -
	OpDup //     x OpDup    x x

	// immediates
	OpNull  // - OpNull  null
	OpTrue  // - OpTrue  true
	OpFalse // - OpFalse false

	// constants: short forms for the first 16 pool entries, a wide form
	// for the rest (operand is a little-endian uint16 constant index).
	OpLoadConst0
	OpLoadConst1
	OpLoadConst2
	OpLoadConst3
	OpLoadConst4
	OpLoadConst5
	OpLoadConst6
	OpLoadConst7
	OpLoadConst8
	OpLoadConst9
	OpLoadConst10
	OpLoadConst11
	OpLoadConst12
	OpLoadConst13
	OpLoadConst14
	OpLoadConst15
	OpLoadConstWide // u16 constant index

	// locals: short forms for the first 8 slots, a wide form beyond that.
	OpLoadLocal0
	OpLoadLocal1
	OpLoadLocal2
	OpLoadLocal3
	OpLoadLocal4
	OpLoadLocal5
	OpLoadLocal6
	OpLoadLocal7
	OpLoadLocalWide // u16 slot index

	OpStoreLocal0
	OpStoreLocal1
	OpStoreLocal2
	OpStoreLocal3
	OpStoreLocal4
	OpStoreLocal5
	OpStoreLocal6
	OpStoreLocal7
	OpStoreLocalWide // u16 slot index

	OpGetUpvalue // u16 upvalue index
	OpSetUpvalue // u16 upvalue index

	// arithmetic/comparison (the compiler maps operator tokens to these
	// through a lookup table in expr.go, not by offset arithmetic)
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLe
	OpGe
	OpNot
	OpNeg
	// and/or are not opcodes: they short-circuit via OpJumpIfFalse/OpJump,
	// see compileLogical.

	// collections
	OpBuildList // u16 element count
	OpIndexGet
	OpIndexSet
	OpBuildJSON // u16 entry count
	OpGetMember // u16 constant index (name)
	OpSetMember // u16 constant index (name)

	// structs
	OpBuildStruct    // u16 constant index (struct name), u16 field count
	OpDefineShape    // u16 constant index (struct name), u16 field count
	OpDefineMethod   // u16 constant index (method name)
	OpDefineOperator // u16 constant index (operator name, e.g. "operator +")

	// control flow
	OpJump        // u16 absolute offset
	OpJumpIfFalse // u16 absolute offset, does not pop
	OpLoop        // u16 absolute offset (backward jump)
	OpCall        // u8 arg count
	OpReturn
	OpPrint

	// closures and iteration
	OpClosure // u16 constant index (function proto) + upvalue descriptor list
	OpCloseUpvalue
	OpGetIter
	OpIterNext // jumps past the loop body when the iterator is exhausted
	OpYield

	// modules
	OpImportModule    // u16 constant index (module id)
	OpGetModuleExport // u16 constant index (export name)
	OpBuildModule     // u16 export count

	OpcodeMax = OpBuildModule
)

var opcodeNames = [...]string{
	OpNop:             "nop",
	OpPop:             "pop",
	OpDup:             "dup",
	OpNull:            "null",
	OpTrue:            "true",
	OpFalse:           "false",
	OpLoadConst0:      "load_const_0",
	OpLoadConst1:      "load_const_1",
	OpLoadConst2:      "load_const_2",
	OpLoadConst3:      "load_const_3",
	OpLoadConst4:      "load_const_4",
	OpLoadConst5:      "load_const_5",
	OpLoadConst6:      "load_const_6",
	OpLoadConst7:      "load_const_7",
	OpLoadConst8:      "load_const_8",
	OpLoadConst9:      "load_const_9",
	OpLoadConst10:     "load_const_10",
	OpLoadConst11:     "load_const_11",
	OpLoadConst12:     "load_const_12",
	OpLoadConst13:     "load_const_13",
	OpLoadConst14:     "load_const_14",
	OpLoadConst15:     "load_const_15",
	OpLoadConstWide:   "load_const_wide",
	OpLoadLocal0:      "load_local_0",
	OpLoadLocal1:      "load_local_1",
	OpLoadLocal2:      "load_local_2",
	OpLoadLocal3:      "load_local_3",
	OpLoadLocal4:      "load_local_4",
	OpLoadLocal5:      "load_local_5",
	OpLoadLocal6:      "load_local_6",
	OpLoadLocal7:      "load_local_7",
	OpLoadLocalWide:   "load_local_wide",
	OpStoreLocal0:     "store_local_0",
	OpStoreLocal1:     "store_local_1",
	OpStoreLocal2:     "store_local_2",
	OpStoreLocal3:     "store_local_3",
	OpStoreLocal4:     "store_local_4",
	OpStoreLocal5:     "store_local_5",
	OpStoreLocal6:     "store_local_6",
	OpStoreLocal7:     "store_local_7",
	OpStoreLocalWide:  "store_local_wide",
	OpGetUpvalue:      "get_upvalue",
	OpSetUpvalue:      "set_upvalue",
	OpAdd:             "add",
	OpSub:             "sub",
	OpMul:             "mul",
	OpDiv:             "div",
	OpMod:             "mod",
	OpEq:              "eq",
	OpNeq:             "neq",
	OpLt:              "lt",
	OpGt:              "gt",
	OpLe:              "le",
	OpGe:              "ge",
	OpNot:             "not",
	OpNeg:             "neg",
	OpBuildList:       "build_list",
	OpIndexGet:        "index_get",
	OpIndexSet:        "index_set",
	OpBuildJSON:       "build_json",
	OpGetMember:       "get_member",
	OpSetMember:       "set_member",
	OpBuildStruct:     "build_struct",
	OpDefineShape:     "define_shape",
	OpDefineMethod:    "define_method",
	OpDefineOperator:  "define_operator",
	OpJump:            "jump",
	OpJumpIfFalse:     "jump_if_false",
	OpLoop:            "loop",
	OpCall:            "call",
	OpReturn:          "return",
	OpPrint:           "print",
	OpClosure:         "closure",
	OpCloseUpvalue:    "close_upvalue",
	OpGetIter:         "get_iter",
	OpIterNext:        "iter_next",
	OpYield:           "yield",
	OpImportModule:    "import_module",
	OpGetModuleExport: "get_module_export",
	OpBuildModule:     "build_module",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("illegal opcode (%d)", op)
}

// loadConstShort maps constant indices 0-15 to their dedicated opcode, or
// reports ok=false if the index needs the wide form.
func loadConstShort(idx int) (Opcode, bool) {
	if idx < 0 || idx > 15 {
		return 0, false
	}
	return OpLoadConst0 + Opcode(idx), true
}

func loadLocalShort(slot int) (Opcode, bool) {
	if slot < 0 || slot > 7 {
		return 0, false
	}
	return OpLoadLocal0 + Opcode(slot), true
}

func storeLocalShort(slot int) (Opcode, bool) {
	if slot < 0 || slot > 7 {
		return 0, false
	}
	return OpStoreLocal0 + Opcode(slot), true
}
