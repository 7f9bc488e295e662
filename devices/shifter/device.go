// Package shifter implements the Midway 8080 board's bitmap shift register.
//
// The game writes two bytes in turn to the data port; the register keeps
// the last two as a 16-bit word. Reading the result port yields eight bits
// of that word, selected by the offset port.
package shifter

import (
	"github.com/hexaflex/i8080/devices"
)

// Port assignments.
const (
	PortOffset = 2 // OUT: shift amount, low three bits.
	PortResult = 3 // IN: shifted result.
	PortData   = 4 // OUT: data byte, shifted into the high half.
)

// Device defines the shift register state.
type Device struct {
	reg    uint16
	offset byte
}

var (
	_ devices.Device     = &Device{}
	_ devices.PortReader = &Device{}
	_ devices.PortWriter = &Device{}
)

// New creates a new device.
func New() *Device {
	return &Device{}
}

// ID returns the device identifier.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Midway, 0x0002)
}

// Startup initializes device resources.
func (d *Device) Startup() error {
	d.Reset()
	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	return nil
}

// Reset clears the register and the offset.
func (d *Device) Reset() {
	d.reg = 0
	d.offset = 0
}

// ReadPort returns the shifted result.
func (d *Device) ReadPort(port byte) (byte, bool) {
	if port != PortResult {
		return 0, false
	}
	return byte(d.reg >> (8 - d.offset)), true
}

// WritePort updates the offset or shifts a data byte in.
func (d *Device) WritePort(port, value byte) bool {
	switch port {
	case PortOffset:
		d.offset = value & 7
	case PortData:
		d.reg = uint16(value)<<8 | d.reg>>8
	default:
		return false
	}
	return true
}

// State returns the register and offset, for snapshots.
func (d *Device) State() (reg uint16, offset byte) {
	return d.reg, d.offset
}

// SetState restores the register and offset.
func (d *Device) SetState(reg uint16, offset byte) {
	d.reg = reg
	d.offset = offset & 7
}
