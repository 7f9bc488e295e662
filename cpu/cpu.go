// Package cpu implements an Intel 8080 processor core.
//
// A CPU owns its registers, flags and memory bank. It is driven by an
// external scheduler which calls Step repeatedly and injects interrupts
// through RequestInterrupt. The core never blocks, never spawns goroutines
// and does no locking; callers sharing memory with another goroutine must
// synchronize around Step themselves.
package cpu

import (
	"log"

	"github.com/hexaflex/i8080/arch"
)

// TraceFunc represents a callback handler for debug trace output.
// It receives each decoded instruction before it executes.
type TraceFunc func(*Instruction)

// WatchFunc is called after an accepted memory write inside a watched range.
type WatchFunc func(addr int, value byte)

// Options configures the processor.
type Options struct {
	// ProtectedSize is the size of the low ROM region. Writes below it are
	// dropped silently.
	ProtectedSize int

	// DecimalAdjust enables the DAA instruction. Without it, DAA faults
	// with FaultUnsupported.
	DecimalAdjust bool

	// Verbose logs every dropped write to the protected region.
	Verbose bool
}

// DefaultOptions returns the default processor configuration.
func DefaultOptions() Options {
	return Options{ProtectedSize: ProtectedSize}
}

type watch struct {
	lo, hi int
	f      WatchFunc
}

// CPU implements the runtime.
type CPU struct {
	Registers
	Flags             Flags
	InterruptsEnabled bool   // Set by EI, cleared by DI.
	Memory            Memory // System memory.

	ports           Ports       // Device layer behind IN/OUT.
	trace           TraceFunc   // Handler for debug trace output.
	opts            Options     // Processor configuration.
	instr           Instruction // Decoded instruction data.
	watches         []watch     // Write observers.
	halted          bool        // Set by HLT, cleared by an interrupt.
	cycles          uint64      // Total cycles executed.
	protectedWrites uint64      // Writes dropped by the ROM guard.
}

// New creates a new, zeroed CPU. ports may be nil, in which case IN reads
// zero and OUT is ignored. trace may be nil.
func New(ports Ports, trace TraceFunc, opts Options) *CPU {
	if ports == nil {
		ports = nopPorts{}
	}

	if trace == nil {
		trace = func(*Instruction) { /* nop */ }
	}

	return &CPU{
		Memory: NewMemory(),
		ports:  ports,
		trace:  trace,
		opts:   opts,
	}
}

// Options returns the processor configuration.
func (c *CPU) Options() Options {
	return c.opts
}

// SetTrace replaces the trace handler. A nil handler disables tracing.
func (c *CPU) SetTrace(trace TraceFunc) {
	if trace == nil {
		trace = func(*Instruction) { /* nop */ }
	}
	c.trace = trace
}

// Reset zeroes registers, flags and memory and clears the halted state.
// Watches and options are kept.
func (c *CPU) Reset() {
	c.Registers = Registers{}
	c.Flags = Flags{}
	c.InterruptsEnabled = false
	c.halted = false
	c.cycles = 0
	c.protectedWrites = 0
	c.Memory.Clear()
}

// Halted returns true if the processor executed HLT and has not yet
// accepted an interrupt.
func (c *CPU) Halted() bool {
	return c.halted
}

// Cycles returns the total number of cycles executed since the last reset.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Restore sets the halted state and the cycle counter. Used when loading
// saved state.
func (c *CPU) Restore(halted bool, cycles uint64) {
	c.halted = halted
	c.cycles = cycles
}

// ProtectedWrites returns the number of writes dropped by the ROM guard.
func (c *CPU) ProtectedWrites() uint64 {
	return c.protectedWrites
}

// Watch registers f to be called for every accepted write to an address
// in [lo, hi).
func (c *CPU) Watch(lo, hi int, f WatchFunc) {
	c.watches = append(c.watches, watch{lo: lo, hi: hi, f: f})
}

// Step executes a single instruction and returns its cycle cost.
//
// It returns ErrHalted after executing HLT and on every call while halted.
// Unsupported opcodes and out-of-range memory accesses return a *Fault.
// Protected writes are not errors.
func (c *CPU) Step() (cycles int, err error) {
	if c.halted {
		return 0, ErrHalted
	}

	instr := &c.instr
	defer recoverOnFault(instr, &err)

	instr.Decode(c.Memory, c.PC)
	c.trace(instr)

	exec := handlers[instr.Opcode]
	if exec == nil || (instr.Opcode == arch.DAA && !c.opts.DecimalAdjust) {
		return 0, &Fault{Kind: FaultUnsupported, IP: instr.IP, Opcode: instr.Opcode}
	}

	// Point PC at the next instruction. Jumps, calls and returns replace it.
	c.PC = instr.IP + uint16(instr.Size)
	exec(c, instr)

	cycles = arch.Cycles(instr.Opcode)
	c.cycles += uint64(cycles)

	if instr.Opcode == arch.HLT {
		c.halted = true
		return cycles, ErrHalted
	}

	return cycles, nil
}

// read returns the byte at the given address.
func (c *CPU) read(addr int) byte {
	return c.Memory.U8(addr)
}

// write stores a byte, dropping writes to the protected region.
func (c *CPU) write(addr int, value byte) {
	c.Memory.check(addr)

	if addr < c.opts.ProtectedSize {
		c.protectedWrites++
		if c.opts.Verbose {
			log.Printf("%04x: write to rom at %04x dropped", c.instr.IP, addr)
		}
		return
	}

	c.Memory[addr] = value

	for i := range c.watches {
		w := &c.watches[i]
		if addr >= w.lo && addr < w.hi {
			w.f(addr, value)
		}
	}
}

// read16 returns the little-endian word at the given address.
func (c *CPU) read16(addr int) uint16 {
	return c.Memory.U16(addr)
}

// write16 stores a little-endian word. Both addresses are checked before
// either byte is written.
func (c *CPU) write16(addr int, value uint16) {
	c.Memory.check(addr + 1)
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
}

// getReg returns the register with the given code, or memory at H:L for
// arch.RegM.
func (c *CPU) getReg(code int) byte {
	if code == arch.RegM {
		return c.read(int(c.HL()))
	}
	return *c.reg(code)
}

// setReg sets the register with the given code, or memory at H:L for
// arch.RegM.
func (c *CPU) setReg(code int, value byte) {
	if code == arch.RegM {
		c.write(int(c.HL()), value)
		return
	}
	*c.reg(code) = value
}
