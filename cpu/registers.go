package cpu

import "github.com/hexaflex/i8080/arch"

// Registers defines the register file.
type Registers struct {
	A, B, C, D, E, H, L byte
	SP                  uint16 // Stack pointer.
	PC                  uint16 // Program counter.
}

// BC returns the B:C pair with B as the high byte.
func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }

// DE returns the D:E pair with D as the high byte.
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }

// HL returns the H:L pair with H as the high byte.
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

// SetBC sets the B:C pair.
func (r *Registers) SetBC(v uint16) { r.B, r.C = byte(v>>8), byte(v) }

// SetDE sets the D:E pair.
func (r *Registers) SetDE(v uint16) { r.D, r.E = byte(v>>8), byte(v) }

// SetHL sets the H:L pair.
func (r *Registers) SetHL(v uint16) { r.H, r.L = byte(v>>8), byte(v) }

// Pair returns the register pair for the given pair code (arch.PairB,
// arch.PairD, arch.PairH or arch.PairSP).
func (r *Registers) Pair(code int) uint16 {
	switch code {
	case arch.PairB:
		return r.BC()
	case arch.PairD:
		return r.DE()
	case arch.PairH:
		return r.HL()
	}
	return r.SP
}

// SetPair sets the register pair for the given pair code.
func (r *Registers) SetPair(code int, v uint16) {
	switch code {
	case arch.PairB:
		r.SetBC(v)
	case arch.PairD:
		r.SetDE(v)
	case arch.PairH:
		r.SetHL(v)
	default:
		r.SP = v
	}
}

// reg returns a pointer to the 8-bit register with the given code.
// Returns nil for arch.RegM, which is not a register.
func (r *Registers) reg(code int) *byte {
	switch code {
	case arch.RegB:
		return &r.B
	case arch.RegC:
		return &r.C
	case arch.RegD:
		return &r.D
	case arch.RegE:
		return &r.E
	case arch.RegH:
		return &r.H
	case arch.RegL:
		return &r.L
	case arch.RegA:
		return &r.A
	}
	return nil
}
