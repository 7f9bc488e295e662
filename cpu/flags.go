package cpu

// Flag bits in the packed status byte pushed by PUSH PSW.
const (
	flagCY  = 1 << 0
	flagOne = 1 << 1 // Always set on the 8080.
	flagP   = 1 << 2
	flagAC  = 1 << 4
	flagZ   = 1 << 6
	flagS   = 1 << 7
)

// Flags holds the condition codes.
type Flags struct {
	Z  bool // Zero.
	S  bool // Sign.
	P  bool // Parity; set when the result has an even number of one bits.
	CY bool // Carry, or borrow for subtraction.
	AC bool // Auxiliary carry out of bit 3.
}

// carryMode selects how an ALU result derives CY and AC.
type carryMode int

const (
	carryAdd carryMode = iota
	carrySub
	carryAnd
	carryLogic
)

var parityTable [256]bool

func init() {
	for i := range parityTable {
		n := 0
		for v := i; v > 0; v >>= 1 {
			n += v & 1
		}
		parityTable[i] = n%2 == 0
	}
}

// Byte packs the flags into the 8080 status byte layout: S Z 0 AC 0 P 1 CY.
func (fl *Flags) Byte() byte {
	b := byte(flagOne)
	if fl.CY {
		b |= flagCY
	}
	if fl.P {
		b |= flagP
	}
	if fl.AC {
		b |= flagAC
	}
	if fl.Z {
		b |= flagZ
	}
	if fl.S {
		b |= flagS
	}
	return b
}

// SetByte restores the flags from a packed status byte.
func (fl *Flags) SetByte(b byte) {
	fl.CY = b&flagCY != 0
	fl.P = b&flagP != 0
	fl.AC = b&flagAC != 0
	fl.Z = b&flagZ != 0
	fl.S = b&flagS != 0
}

// String returns the flags as the letters SZAPC, with '.' in place of
// each clear flag.
func (fl *Flags) String() string {
	b := []byte(".....")
	for i, v := range [...]bool{fl.S, fl.Z, fl.AC, fl.P, fl.CY} {
		if v {
			b[i] = "SZAPC"[i]
		}
	}
	return string(b)
}

// setZSP updates zero, sign and parity from the low byte of a result.
func (fl *Flags) setZSP(v byte) {
	fl.Z = v == 0
	fl.S = v&0x80 != 0
	fl.P = parityTable[v]
}

// apply updates all five flags for an accumulator operation a op b
// with the widened result. cin is the carry consumed by ADC/SBB.
// It returns the low byte of the result.
func (fl *Flags) apply(mode carryMode, a, b, cin byte, result uint16) byte {
	v := byte(result)
	fl.setZSP(v)

	switch mode {
	case carryAdd:
		fl.CY = result > 0xff
		fl.AC = (a&0x0f)+(b&0x0f)+cin > 0x0f
	case carrySub:
		fl.CY = uint16(a) < uint16(b)+uint16(cin)
		fl.AC = int(a&0x0f)-int(b&0x0f)-int(cin) >= 0
	case carryAnd:
		fl.CY = false
		fl.AC = (a|b)&0x08 != 0
	case carryLogic:
		fl.CY = false
		fl.AC = false
	}

	return v
}

// condition evaluates the condition code encoded in bits 3-5 of
// conditional jump, call and return opcodes.
func (fl *Flags) condition(code byte) bool {
	switch code & 7 {
	case 0:
		return !fl.Z // NZ
	case 1:
		return fl.Z // Z
	case 2:
		return !fl.CY // NC
	case 3:
		return fl.CY // C
	case 4:
		return !fl.P // PO
	case 5:
		return fl.P // PE
	case 6:
		return !fl.S // P
	default:
		return fl.S // M
	}
}
