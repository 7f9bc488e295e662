// Package arch defines the 8080 instruction set along with
// some related helper functions.
package arch

import "strings"

// Selected opcodes referenced by name elsewhere.
const (
	NOP  = 0x00
	DAA  = 0x27
	HLT  = 0x76
	OUT  = 0xd3
	IN   = 0xdb
	DI   = 0xf3
	EI   = 0xfb
	JMP  = 0xc3
	CALL = 0xcd
	RET  = 0xc9
)

// Info describes a single opcode.
type Info struct {
	Name    string  // Mnemonic. Undocumented duplicates are prefixed with '*'.
	Args    string  // Register operands, e.g. "B" or "A,M".
	Operand Operand // Immediate data kind.
	Cycles  int     // Fixed cycle cost.
}

// Size returns the total instruction size in bytes.
func (i *Info) Size() int {
	return 1 + i.Operand.Size()
}

// Register pair and register-to-register opcodes are filled in by init.
// Conditional branches, calls and returns are charged the same cost
// regardless of whether their condition holds.
var table = [256]Info{
	0x00: {"NOP", "", None, 4},
	0x02: {"STAX", "B", None, 7},
	0x04: {"INR", "B", None, 5},
	0x05: {"DCR", "B", None, 5},
	0x06: {"MVI", "B", Data8, 7},
	0x07: {"RLC", "", None, 4},
	0x08: {"*NOP", "", None, 4},
	0x0a: {"LDAX", "B", None, 7},
	0x0c: {"INR", "C", None, 5},
	0x0d: {"DCR", "C", None, 5},
	0x0e: {"MVI", "C", Data8, 7},
	0x0f: {"RRC", "", None, 4},

	0x10: {"*NOP", "", None, 4},
	0x12: {"STAX", "D", None, 7},
	0x14: {"INR", "D", None, 5},
	0x15: {"DCR", "D", None, 5},
	0x16: {"MVI", "D", Data8, 7},
	0x17: {"RAL", "", None, 4},
	0x18: {"*NOP", "", None, 4},
	0x1a: {"LDAX", "D", None, 7},
	0x1c: {"INR", "E", None, 5},
	0x1d: {"DCR", "E", None, 5},
	0x1e: {"MVI", "E", Data8, 7},
	0x1f: {"RAR", "", None, 4},

	0x20: {"*NOP", "", None, 4},
	0x22: {"SHLD", "", Address, 16},
	0x24: {"INR", "H", None, 5},
	0x25: {"DCR", "H", None, 5},
	0x26: {"MVI", "H", Data8, 7},
	0x27: {"DAA", "", None, 4},
	0x28: {"*NOP", "", None, 4},
	0x2a: {"LHLD", "", Address, 16},
	0x2c: {"INR", "L", None, 5},
	0x2d: {"DCR", "L", None, 5},
	0x2e: {"MVI", "L", Data8, 7},
	0x2f: {"CMA", "", None, 4},

	0x30: {"*NOP", "", None, 4},
	0x32: {"STA", "", Address, 13},
	0x34: {"INR", "M", None, 10},
	0x35: {"DCR", "M", None, 10},
	0x36: {"MVI", "M", Data8, 10},
	0x37: {"STC", "", None, 4},
	0x38: {"*NOP", "", None, 4},
	0x3a: {"LDA", "", Address, 13},
	0x3c: {"INR", "A", None, 5},
	0x3d: {"DCR", "A", None, 5},
	0x3e: {"MVI", "A", Data8, 7},
	0x3f: {"CMC", "", None, 4},

	// 0x40-0xbf are filled in by init.

	0xc0: {"RNZ", "", None, 11},
	0xc2: {"JNZ", "", Address, 10},
	0xc3: {"JMP", "", Address, 10},
	0xc4: {"CNZ", "", Address, 17},
	0xc6: {"ADI", "", Data8, 7},
	0xc7: {"RST", "0", None, 11},
	0xc8: {"RZ", "", None, 11},
	0xc9: {"RET", "", None, 10},
	0xca: {"JZ", "", Address, 10},
	0xcb: {"*NOP", "", None, 10},
	0xcc: {"CZ", "", Address, 17},
	0xcd: {"CALL", "", Address, 17},
	0xce: {"ACI", "", Data8, 7},
	0xcf: {"RST", "1", None, 11},

	0xd0: {"RNC", "", None, 11},
	0xd2: {"JNC", "", Address, 10},
	0xd3: {"OUT", "", Port, 10},
	0xd4: {"CNC", "", Address, 17},
	0xd6: {"SUI", "", Data8, 7},
	0xd7: {"RST", "2", None, 11},
	0xd8: {"RC", "", None, 11},
	0xd9: {"*NOP", "", None, 10},
	0xda: {"JC", "", Address, 10},
	0xdb: {"IN", "", Port, 10},
	0xdc: {"CC", "", Address, 17},
	0xdd: {"*NOP", "", None, 17},
	0xde: {"SBI", "", Data8, 7},
	0xdf: {"RST", "3", None, 11},

	0xe0: {"RPO", "", None, 11},
	0xe2: {"JPO", "", Address, 10},
	0xe3: {"XTHL", "", None, 18},
	0xe4: {"CPO", "", Address, 17},
	0xe6: {"ANI", "", Data8, 7},
	0xe7: {"RST", "4", None, 11},
	0xe8: {"RPE", "", None, 11},
	0xe9: {"PCHL", "", None, 5},
	0xea: {"JPE", "", Address, 10},
	0xeb: {"XCHG", "", None, 5},
	0xec: {"CPE", "", Address, 17},
	0xed: {"*NOP", "", None, 17},
	0xee: {"XRI", "", Data8, 7},
	0xef: {"RST", "5", None, 11},

	0xf0: {"RP", "", None, 11},
	0xf2: {"JP", "", Address, 10},
	0xf3: {"DI", "", None, 4},
	0xf4: {"CP", "", Address, 17},
	0xf6: {"ORI", "", Data8, 7},
	0xf7: {"RST", "6", None, 11},
	0xf8: {"RM", "", None, 11},
	0xf9: {"SPHL", "", None, 5},
	0xfa: {"JM", "", Address, 10},
	0xfb: {"EI", "", None, 4},
	0xfc: {"CM", "", Address, 17},
	0xfd: {"*NOP", "", None, 17},
	0xfe: {"CPI", "", Data8, 7},
	0xff: {"RST", "7", None, 11},
}

// aluNames lists the accumulator operations in opcode order (0x80-0xbf).
var aluNames = [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}

func init() {
	for rp := 0; rp < 4; rp++ {
		pair, stack := PairName(rp, false), PairName(rp, true)
		table[0x01|rp<<4] = Info{"LXI", pair, Data16, 10}
		table[0x03|rp<<4] = Info{"INX", pair, None, 5}
		table[0x09|rp<<4] = Info{"DAD", pair, None, 10}
		table[0x0b|rp<<4] = Info{"DCX", pair, None, 5}
		table[0xc1|rp<<4] = Info{"POP", stack, None, 10}
		table[0xc5|rp<<4] = Info{"PUSH", stack, None, 11}
	}

	for op := 0x40; op < 0x80; op++ {
		dst, src := (op>>3)&7, op&7
		cycles := 5
		if dst == RegM || src == RegM {
			cycles = 7
		}
		table[op] = Info{"MOV", RegisterName(dst) + "," + RegisterName(src), None, cycles}
	}

	table[HLT] = Info{"HLT", "", None, 7}

	for op := 0x80; op < 0xc0; op++ {
		src := op & 7
		cycles := 4
		if src == RegM {
			cycles = 7
		}
		table[op] = Info{aluNames[(op>>3)&7], RegisterName(src), None, cycles}
	}
}

// Lookup returns the description of the given opcode.
func Lookup(opcode byte) *Info {
	return &table[opcode]
}

// Size returns the number of bytes the given instruction occupies,
// including its immediate operand.
func Size(opcode byte) int {
	return table[opcode].Size()
}

// Cycles returns the fixed cycle cost of the given opcode.
func Cycles(opcode byte) int {
	return table[opcode].Cycles
}

// IsDuplicate returns true if the opcode is one of the undocumented
// encodings executed as a no-op.
func IsDuplicate(opcode byte) bool {
	return strings.HasPrefix(table[opcode].Name, "*")
}
