package cpu

import (
	"github.com/hexaflex/i8080/arch"
)

// Instruction defines decoded instruction data.
type Instruction struct {
	IP      uint16  // Instruction address.
	Opcode  byte    // Instruction opcode.
	Operand [2]byte // Immediate bytes, as stored after the opcode.
	Size    int     // Instruction size in bytes, opcode included.
}

// Decode decodes the instruction at ip from the given memory bank.
// Operand bytes beyond the end of memory raise a FaultAddress panic.
func (i *Instruction) Decode(m Memory, ip uint16) {
	i.IP = ip
	i.Opcode = m.U8(int(ip))
	i.Size = arch.Size(i.Opcode)
	i.Operand = [2]byte{}

	for j := 1; j < i.Size; j++ {
		i.Operand[j-1] = m.U8(int(ip) + j)
	}
}

// D8 returns the 8-bit immediate operand.
func (i *Instruction) D8() byte {
	return i.Operand[0]
}

// D16 returns the little-endian 16-bit immediate operand.
func (i *Instruction) D16() uint16 {
	return uint16(i.Operand[1])<<8 | uint16(i.Operand[0])
}

// String returns the disassembled instruction.
func (i *Instruction) String() string {
	var code [3]byte
	code[0] = i.Opcode
	copy(code[1:], i.Operand[:])
	text, _ := arch.Disassemble(code[:i.Size])
	return text
}
