package cpu

import (
	"github.com/pkg/errors"

	"github.com/hexaflex/i8080/translate"
)

var f = translate.From

// ErrHalted is returned by Step once the processor executed HLT.
// It marks a controlled stop, not a failure.
var ErrHalted = errors.New(f("cpu halted"))

// FaultKind classifies fatal execution errors.
type FaultKind int

// Known fault kinds.
const (
	FaultUnsupported FaultKind = iota + 1 // Opcode the engine declines to execute.
	FaultAddress                          // Memory access at or beyond the address space bound.
)

func (k FaultKind) String() string {
	switch k {
	case FaultUnsupported:
		return f("unsupported instruction")
	case FaultAddress:
		return f("address out of range")
	}
	return f("unknown fault")
}

// Fault defines a fatal runtime error. Execution must not continue
// past a fault without resetting the processor.
type Fault struct {
	Kind   FaultKind
	IP     uint16 // Address of the faulting instruction.
	Opcode byte   // Faulting opcode.
	Addr   int    // Offending memory address, for FaultAddress.
}

func (e *Fault) Error() string {
	if e.Kind == FaultAddress {
		return f("%04x: %s: %05x", e.IP, e.Kind, e.Addr)
	}
	return f("%04x: %s: %02x", e.IP, e.Kind, e.Opcode)
}

// IsFault returns the fault kind of err, if err is or wraps a *Fault.
func IsFault(err error) (FaultKind, bool) {
	var fault *Fault
	if errors.As(err, &fault) {
		return fault.Kind, true
	}
	return 0, false
}

// recoverOnFault turns a *Fault panic raised by a memory accessor or
// handler into an error for the given instruction. Other panics propagate.
func recoverOnFault(instr *Instruction, err *error) {
	x := recover()
	if x == nil {
		return
	}

	fault, ok := x.(*Fault)
	if !ok {
		panic(x)
	}

	fault.IP = instr.IP
	fault.Opcode = instr.Opcode
	*err = fault
}
