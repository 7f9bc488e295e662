// Package controls implements the cabinet's input ports: coin slot,
// start buttons, both players' fire and movement controls, tilt switch
// and DIP switches.
//
// Press and Release may be called from any goroutine while the processor
// reads the ports.
package controls

import (
	"sync/atomic"

	"github.com/hexaflex/i8080/devices"
)

// Button identifies a single cabinet switch.
type Button uint

// Known buttons.
const (
	Coin Button = iota
	P1Start
	P2Start
	P1Fire
	P1Left
	P1Right
	P2Fire
	P2Left
	P2Right
	Tilt
	buttonCount
)

var buttonNames = [buttonCount]string{
	"coin", "p1-start", "p2-start", "p1-fire", "p1-left", "p1-right",
	"p2-fire", "p2-left", "p2-right", "tilt",
}

func (b Button) String() string {
	if b < buttonCount {
		return buttonNames[b]
	}
	return "unknown"
}

// Port assignments.
const (
	Port0 = 0
	Port1 = 1
	Port2 = 2
)

// DIP defines the cabinet's DIP switch settings.
type DIP struct {
	Lives           int  // Ships per game, 3 to 6.
	BonusLifeAt1000 bool // Extra ship at 1000 points instead of 1500.
	CoinInfo        bool // Show coin information in the attract screen.
}

// DefaultDIP returns the factory switch settings.
func DefaultDIP() DIP {
	return DIP{Lives: 3, BonusLifeAt1000: false, CoinInfo: true}
}

// Device defines the input port state.
type Device struct {
	buttons atomic.Uint32
	dip     DIP
}

var (
	_ devices.Device     = &Device{}
	_ devices.PortReader = &Device{}
)

// New creates a new device with the given switch settings.
func New(dip DIP) *Device {
	return &Device{dip: dip}
}

// ID returns the device identifier.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Midway, 0x0001)
}

// Startup initializes device resources.
func (d *Device) Startup() error {
	d.buttons.Store(0)
	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	return nil
}

// DIP returns the switch settings.
func (d *Device) DIP() DIP {
	return d.dip
}

// Press marks the button as held down.
func (d *Device) Press(b Button) {
	d.buttons.Or(1 << b)
}

// Release marks the button as released.
func (d *Device) Release(b Button) {
	d.buttons.And(^uint32(1 << b))
}

// Set presses or releases the button.
func (d *Device) Set(b Button, down bool) {
	if down {
		d.Press(b)
	} else {
		d.Release(b)
	}
}

// Pressed returns true if the button is held down.
func (d *Device) Pressed(b Button) bool {
	return d.buttons.Load()&(1<<b) != 0
}

// ReadPort returns the state of input ports 0, 1 and 2.
func (d *Device) ReadPort(port byte) (byte, bool) {
	state := d.buttons.Load()
	bit := func(b Button, pos uint) byte {
		return byte(state>>b&1) << pos
	}

	switch port {
	case Port0:
		return 0x0e, true

	case Port1:
		return bit(Coin, 0) |
			bit(P2Start, 1) |
			bit(P1Start, 2) |
			1<<3 |
			bit(P1Fire, 4) |
			bit(P1Left, 5) |
			bit(P1Right, 6), true

	case Port2:
		v := d.lives() |
			bit(Tilt, 2) |
			bit(P2Fire, 4) |
			bit(P2Left, 5) |
			bit(P2Right, 6)
		if d.dip.BonusLifeAt1000 {
			v |= 1 << 3
		}
		if !d.dip.CoinInfo {
			v |= 1 << 7
		}
		return v, true
	}

	return 0, false
}

// lives encodes the lives DIP setting in bits 0-1.
func (d *Device) lives() byte {
	n := d.dip.Lives - 3
	if n < 0 {
		n = 0
	}
	if n > 3 {
		n = 3
	}
	return byte(n)
}
