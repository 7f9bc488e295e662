package arch

// Operand describes the immediate data following an opcode.
type Operand int

// Known operand kinds.
const (
	None    Operand = iota // No immediate data.
	Data8                  // 8-bit immediate value.
	Data16                 // 16-bit little-endian immediate value.
	Address                // 16-bit little-endian memory address.
	Port                   // 8-bit I/O port number.
)

// Size returns the number of immediate bytes used by the operand kind.
func (o Operand) Size() int {
	switch o {
	case Data8, Port:
		return 1
	case Data16, Address:
		return 2
	}
	return 0
}

// String returns the name of the operand kind.
func (o Operand) String() string {
	switch o {
	case Data8:
		return "D8"
	case Data16:
		return "D16"
	case Address:
		return "adr"
	case Port:
		return "port"
	}
	return ""
}
