// Package snapshot defines the machine save state, as well as an encoder
// and decoder for its file format.
//
// A state file is a gzip stream holding the magic string, a fixed-size
// little-endian header and the memory bank.
package snapshot

import (
	"compress/gzip"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	magic   = "i8080sav"
	version = 1
)

// maxMemory bounds the memory block; nothing larger than the address
// space is ever written.
const maxMemory = 0x10000

// ErrFormat is returned when the stream is not a save state this package
// can read.
var ErrFormat = errors.New("snapshot: invalid format")

// Snapshot holds the complete machine state between two frames.
type Snapshot struct {
	A, B, C, D, E, H, L byte
	SP, PC              uint16
	Flags               byte // Packed status byte, as pushed by PUSH PSW.
	InterruptsEnabled   bool
	Halted              bool
	Cycles              uint64 // Processor cycle counter.
	CycleDebt           int64  // Cycles run past the last frame boundary.
	Frame               uint64 // Frames completed.
	Shift               uint16 // Shift register contents.
	ShiftOffset         byte   // Shift register offset.
	Memory              []byte // Complete memory bank.
}

// header is the on-disk layout following the magic string.
type header struct {
	Version             uint8
	A, B, C, D, E, H, L uint8
	SP, PC              uint16
	Flags               uint8
	InterruptsEnabled   bool
	Halted              bool
	Cycles              uint64
	CycleDebt           int64
	Frame               uint64
	Shift               uint16
	ShiftOffset         uint8
	MemorySize          uint32
}

// Load reads a snapshot from the given stream.
func (s *Snapshot) Load(r io.Reader) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return errors.Wrapf(ErrFormat, "%v", err)
	}
	defer gz.Close()

	var head [len(magic)]byte
	if _, err := io.ReadFull(gz, head[:]); err != nil || string(head[:]) != magic {
		return ErrFormat
	}

	var h header
	if err := binary.Read(gz, binary.LittleEndian, &h); err != nil {
		return errors.Wrapf(err, "snapshot")
	}

	if h.Version != version {
		return errors.Wrapf(ErrFormat, "unsupported version %d", h.Version)
	}

	if h.MemorySize > maxMemory {
		return errors.Wrapf(ErrFormat, "memory size %d", h.MemorySize)
	}

	mem := make([]byte, h.MemorySize)
	if _, err := io.ReadFull(gz, mem); err != nil {
		return errors.Wrapf(err, "snapshot")
	}

	*s = Snapshot{
		A: h.A, B: h.B, C: h.C, D: h.D, E: h.E, H: h.H, L: h.L,
		SP:                h.SP,
		PC:                h.PC,
		Flags:             h.Flags,
		InterruptsEnabled: h.InterruptsEnabled,
		Halted:            h.Halted,
		Cycles:            h.Cycles,
		CycleDebt:         h.CycleDebt,
		Frame:             h.Frame,
		Shift:             h.Shift,
		ShiftOffset:       h.ShiftOffset,
		Memory:            mem,
	}
	return nil
}

// Save writes the snapshot to the given stream.
func (s *Snapshot) Save(w io.Writer) error {
	if len(s.Memory) > maxMemory {
		return errors.Wrapf(ErrFormat, "memory size %d", len(s.Memory))
	}

	h := header{
		A: s.A, B: s.B, C: s.C, D: s.D, E: s.E, H: s.H, L: s.L,
		Version:           version,
		SP:                s.SP,
		PC:                s.PC,
		Flags:             s.Flags,
		InterruptsEnabled: s.InterruptsEnabled,
		Halted:            s.Halted,
		Cycles:            s.Cycles,
		CycleDebt:         s.CycleDebt,
		Frame:             s.Frame,
		Shift:             s.Shift,
		ShiftOffset:       s.ShiftOffset,
		MemorySize:        uint32(len(s.Memory)),
	}

	gz := gzip.NewWriter(w)

	err := write(gz, []byte(magic), &h, s.Memory)
	if cerr := gz.Close(); err == nil {
		err = cerr
	}
	return errors.Wrapf(err, "snapshot")
}

// write encodes each value in order, stopping at the first error.
func write(w io.Writer, values ...interface{}) error {
	for _, v := range values {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}
