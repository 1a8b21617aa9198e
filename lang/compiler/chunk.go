package compiler

import "github.com/kaubo-lang/kaubo/lang/value"

// Chunk is a compiled function body: its bytecode, its constant pool,
// and a parallel per-byte line table used for runtime error locations.
type Chunk struct {
	Name        string
	Arity       int
	Code        []byte
	Constants   []value.Value
	Lines       []int32
	Upvalues    []value.UpvalueDesc
	IsGenerator bool
}

func (c *Chunk) addConstant(v value.Value) int {
	for i, existing := range c.Constants {
		if existing == v {
			return i
		}
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

func (c *Chunk) emit(op Opcode, line int32) {
	c.Code = append(c.Code, byte(op))
	c.Lines = append(c.Lines, line)
}

func (c *Chunk) emitU16(v uint16, line int32) {
	c.Code = append(c.Code, byte(v), byte(v>>8))
	c.Lines = append(c.Lines, line, line)
}

func (c *Chunk) emitU8(v uint8, line int32) {
	c.Code = append(c.Code, v)
	c.Lines = append(c.Lines, line)
}

// patchU16 overwrites the u16 operand at byte offset at (little-endian).
func (c *Chunk) patchU16(at int, v uint16) {
	c.Code[at] = byte(v)
	c.Code[at+1] = byte(v >> 8)
}
