package arch

// Register codes as encoded in the low three bits (source) or bits 3-5
// (destination) of register-addressed opcodes.
const (
	RegB = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegM // Memory at H:L.
	RegA
)

// Register pair codes as encoded in bits 4-5 of pair-addressed opcodes.
const (
	PairB  = iota // B:C
	PairD         // D:E
	PairH         // H:L
	PairSP        // SP, or PSW for PUSH/POP.
)

var registerNames = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}

// RegisterName returns the name associated with the given register code.
// Returns "" if the code is not recognized.
func RegisterName(n int) string {
	if n < 0 || n >= len(registerNames) {
		return ""
	}
	return registerNames[n]
}

// PairName returns the name of the given register pair code.
// psw selects the PUSH/POP naming, where code 3 means the accumulator
// and flags rather than the stack pointer.
func PairName(n int, psw bool) string {
	switch n {
	case PairB:
		return "B"
	case PairD:
		return "D"
	case PairH:
		return "H"
	case PairSP:
		if psw {
			return "PSW"
		}
		return "SP"
	}
	return ""
}
