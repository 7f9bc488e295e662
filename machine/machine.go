// Package machine wires an 8080 processor to the Midway Space Invaders
// board: ROM images, the shift register, the cabinet controls and the
// video interrupts. It drives the processor one frame at a time.
//
// A Machine is not safe for concurrent use. Callers alternate between
// Frame and reading VideoRAM on one goroutine. Only the controls may be
// changed from elsewhere.
package machine

import (
	"io/fs"
	"log"

	"github.com/pkg/errors"

	"github.com/hexaflex/i8080/cpu"
	"github.com/hexaflex/i8080/devices"
	"github.com/hexaflex/i8080/devices/controls"
	"github.com/hexaflex/i8080/devices/shifter"
	"github.com/hexaflex/i8080/rom"
	"github.com/hexaflex/i8080/translate"
)

var f = translate.From

// Video memory bounds on the board.
const (
	VideoStart = 0x2400
	VideoEnd   = 0x4000
)

var _ cpu.Ports = devices.Map(nil)

// Options configures a new machine.
type Options struct {
	Trace   cpu.TraceFunc // Optional instruction trace.
	Verbose bool          // Log dropped ROM writes.
}

// Machine defines the complete board.
type Machine struct {
	CPU      *cpu.CPU
	Controls *controls.Device
	Shifter  *shifter.Device

	devices devices.Map
	profile Profile
	boot    cpu.Memory // Memory contents right after loading the ROMs.
	debt    int        // Cycles run into the current frame.
	frame   uint64     // Frames completed.
}

// New creates a machine for the given profile and loads its ROM images
// from fsys.
func New(p Profile, fsys fs.FS, opts Options) (*Machine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m := &Machine{
		Controls: controls.New(p.DIP),
		Shifter:  shifter.New(),
		profile:  p,
	}

	m.devices.Connect(m.Controls)
	m.devices.Connect(m.Shifter)

	m.CPU = cpu.New(m.devices, opts.Trace, cpu.Options{
		ProtectedSize: p.ProtectedSize,
		DecimalAdjust: p.DecimalAdjust,
		Verbose:       opts.Verbose,
	})

	if err := rom.Load(m.CPU.Memory, fsys, p.Layout); err != nil {
		return nil, err
	}

	if end := p.Layout.End(rom.ImageSize); end > p.ProtectedSize {
		log.Printf("machine: %s: roms extend to %04x, past the protected region at %04x", p.Name, end, p.ProtectedSize)
	}

	m.boot = make(cpu.Memory, len(m.CPU.Memory))
	copy(m.boot, m.CPU.Memory)

	if err := m.devices.Startup(); err != nil {
		return nil, err
	}

	return m, nil
}

// Close shuts the board's devices down.
func (m *Machine) Close() error {
	return m.devices.Shutdown()
}

// Profile returns the machine description.
func (m *Machine) Profile() Profile {
	return m.profile
}

// FrameCount returns the number of completed frames.
func (m *Machine) FrameCount() uint64 {
	return m.frame
}

// Reset zeroes the processor and memory, reloads the ROM images and
// clears the shift register. Held buttons stay held.
func (m *Machine) Reset() {
	m.CPU.Reset()
	copy(m.CPU.Memory, m.boot)
	m.Shifter.Reset()
	m.debt = 0
	m.frame = 0
}

// VideoRAM returns the video region of memory. The slice aliases memory
// and is only valid to read between calls to Frame.
func (m *Machine) VideoRAM() []byte {
	return m.CPU.Memory[VideoStart:VideoEnd]
}

// Frame runs the processor for one frame. The mid-frame interrupt is
// raised after half the frame's cycles and the end-of-frame interrupt
// after all of them. Cycles spent past a frame boundary count against
// the next frame.
//
// A processor halted with interrupts enabled idles until the next
// interrupt. Halted with interrupts disabled it can never resume, and
// Frame returns cpu.ErrHalted. Faults are returned as-is, wrapped.
func (m *Machine) Frame() error {
	per := m.profile.CyclesPerFrame()

	if err := m.run(per / 2); err != nil {
		return err
	}
	m.interrupt(m.profile.Interrupts[0])

	if err := m.run(per); err != nil {
		return err
	}
	m.interrupt(m.profile.Interrupts[1])

	m.debt -= per
	m.frame++
	return nil
}

// run steps the processor until the frame's cycle count reaches target.
func (m *Machine) run(target int) error {
	for m.debt < target {
		cycles, err := m.CPU.Step()
		m.debt += cycles

		if err == nil {
			continue
		}

		if err != cpu.ErrHalted {
			return errors.Wrapf(err, "frame %d", m.frame)
		}

		if !m.CPU.InterruptsEnabled {
			return errors.Wrapf(err, "frame %d", m.frame)
		}

		m.debt = target
	}
	return nil
}

// interrupt raises the given vector if the processor accepts interrupts.
// Accepting one disables further interrupts until the program runs EI.
func (m *Machine) interrupt(vector int) {
	if !m.CPU.InterruptsEnabled {
		return
	}

	m.CPU.InterruptsEnabled = false
	m.CPU.RequestInterrupt(vector)
}
