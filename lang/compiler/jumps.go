package compiler

import "github.com/kaubo-lang/kaubo/lang/token"

// emitJump emits a forward jump with a placeholder u16 operand and
// returns the byte offset of that operand, to be filled in later by
// patchJump once the jump target is known.
func (c *Compiler) emitJump(op Opcode, line int32) int {
	c.emit(op, line)
	at := len(c.chunk.Code)
	c.emitU16(0xFFFF, line)
	return at
}

// patchJump backpatches the jump operand at 'at' to the current end of
// the chunk (i.e. "jump to right here").
func (c *Compiler) patchJump(at int) error {
	target := len(c.chunk.Code)
	if target > 0xFFFF {
		return errAt(ErrJumpTooFar, token.Pos{}, "jump target exceeds 65536 bytes")
	}
	c.chunk.patchU16(at, uint16(target))
	return nil
}

// emitLoop emits a backward jump to target (a byte offset obtained
// earlier via loopStart()).
func (c *Compiler) emitLoop(op Opcode, target int, line int32) error {
	c.emit(op, line)
	if target > 0xFFFF {
		return errAt(ErrJumpTooFar, token.Pos{}, "loop target exceeds 65536 bytes")
	}
	c.emitU16(uint16(target), line)
	return nil
}

func (c *Compiler) loopStart() int { return len(c.chunk.Code) }
