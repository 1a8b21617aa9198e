package maincmd

import (
	"fmt"
	"io"

	"github.com/mna/mainer"

	"github.com/kaubo-lang/kaubo/lang/compiler"
)

// dumpUnits prints every compiled unit's bytecode, one instruction per
// line, to stdio.Stdout.
func dumpUnits(stdio mainer.Stdio, units []*CompiledUnit) {
	for _, u := range units {
		fmt.Fprintf(stdio.Stdout, "== %s ==\n", u.ModuleID)
		disassemble(stdio.Stdout, u.Chunk)
	}
}

// disassemble decodes chunk's bytecode instruction by instruction. The
// operand widths mirror lang/vm/interp.go's decode loop exactly: this
// only prints, it never executes, so a width mismatch here cannot affect
// program behavior, only the debug dump's readability.
func disassemble(w io.Writer, chunk *compiler.Chunk) {
	code := chunk.Code
	for ip := 0; ip < len(code); {
		start := ip
		op := compiler.Opcode(code[ip])
		ip++

		fmt.Fprintf(w, "%04d  %-20s", start, op)

		switch op {
		case compiler.OpLoadConstWide, compiler.OpLoadLocalWide, compiler.OpStoreLocalWide,
			compiler.OpGetUpvalue, compiler.OpSetUpvalue, compiler.OpBuildList,
			compiler.OpBuildJSON, compiler.OpGetMember, compiler.OpSetMember,
			compiler.OpJump, compiler.OpJumpIfFalse, compiler.OpLoop, compiler.OpIterNext,
			compiler.OpImportModule, compiler.OpGetModuleExport, compiler.OpBuildModule:
			fmt.Fprintf(w, " %d", u16At(code, ip))
			ip += 2

		case compiler.OpBuildStruct, compiler.OpDefineShape:
			fmt.Fprintf(w, " %d %d", u16At(code, ip), u16At(code, ip+2))
			ip += 4

		case compiler.OpDefineMethod, compiler.OpDefineOperator:
			fmt.Fprintf(w, " %d", u16At(code, ip))
			ip += 2

		case compiler.OpCall:
			fmt.Fprintf(w, " %d", code[ip])
			ip++

		case compiler.OpClosure:
			fnIdx := u16At(code, ip)
			ip += 2
			upCount := int(code[ip])
			ip++
			fmt.Fprintf(w, " fn=%d upvalues=%d", fnIdx, upCount)
			for i := 0; i < upCount; i++ {
				isLocal := code[ip]
				ip++
				idx := u16At(code, ip)
				ip += 2
				fmt.Fprintf(w, " (local=%d idx=%d)", isLocal, idx)
			}
		}
		fmt.Fprintln(w)
	}
}

func u16At(code []byte, i int) uint16 {
	return uint16(code[i]) | uint16(code[i+1])<<8
}
