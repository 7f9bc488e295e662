package machine

import (
	"io"

	"github.com/pkg/errors"

	"github.com/hexaflex/i8080/cpu"
	"github.com/hexaflex/i8080/snapshot"
)

// Snapshot captures the machine state between two frames.
func (m *Machine) Snapshot() *snapshot.Snapshot {
	c := m.CPU
	shift, offset := m.Shifter.State()

	mem := make([]byte, len(c.Memory))
	copy(mem, c.Memory)

	return &snapshot.Snapshot{
		A: c.A, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		SP:                c.SP,
		PC:                c.PC,
		Flags:             c.Flags.Byte(),
		InterruptsEnabled: c.InterruptsEnabled,
		Halted:            c.Halted(),
		Cycles:            c.Cycles(),
		CycleDebt:         int64(m.debt),
		Frame:             m.frame,
		Shift:             shift,
		ShiftOffset:       offset,
		Memory:            mem,
	}
}

// Restore replaces the machine state with the given snapshot.
func (m *Machine) Restore(s *snapshot.Snapshot) error {
	if len(s.Memory) != cpu.MemoryCapacity {
		return errors.Wrapf(snapshot.ErrFormat, "memory size %d", len(s.Memory))
	}

	c := m.CPU
	c.Registers = cpu.Registers{
		A: s.A, B: s.B, C: s.C, D: s.D, E: s.E, H: s.H, L: s.L,
		SP: s.SP,
		PC: s.PC,
	}
	c.Flags.SetByte(s.Flags)
	c.InterruptsEnabled = s.InterruptsEnabled
	c.Restore(s.Halted, s.Cycles)
	copy(c.Memory, s.Memory)

	m.Shifter.SetState(s.Shift, s.ShiftOffset)
	m.debt = int(s.CycleDebt)
	m.frame = s.Frame
	return nil
}

// SaveState writes the machine state to w.
func (m *Machine) SaveState(w io.Writer) error {
	return m.Snapshot().Save(w)
}

// LoadState reads machine state from r.
func (m *Machine) LoadState(r io.Reader) error {
	var s snapshot.Snapshot
	if err := s.Load(r); err != nil {
		return err
	}
	return m.Restore(&s)
}
