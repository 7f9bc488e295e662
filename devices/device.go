package devices

import (
	"log"

	"github.com/pkg/errors"
)

// Device represents a peripheral on the board's port bus.
type Device interface {
	ID() ID
	Startup() error
	Shutdown() error
}

// PortReader is implemented by devices which answer IN instructions.
// It returns false if the device does not claim the port.
type PortReader interface {
	ReadPort(port byte) (byte, bool)
}

// PortWriter is implemented by devices which accept OUT instructions.
// It returns false if the device does not claim the port.
type PortWriter interface {
	WritePort(port, value byte) bool
}

// Map contains a list of registered peripherals. It serves as the
// processor's port hook: IN and OUT go to the first device claiming the port.
type Map []Device

// Connect appends a device. It returns false, leaving the map unchanged,
// if a device with the same ID is already connected.
func (dm *Map) Connect(dev Device) bool {
	if (*dm).Find(dev.ID()) > -1 {
		return false
	}

	*dm = append(*dm, dev)
	return true
}

// In reads from the given port. Unclaimed ports read as zero.
func (dm Map) In(port byte) byte {
	for _, dev := range dm {
		if r, ok := dev.(PortReader); ok {
			if v, ok := r.ReadPort(port); ok {
				return v
			}
		}
	}
	return 0
}

// Out writes to the given port. Writes to unclaimed ports are ignored.
func (dm Map) Out(port, value byte) {
	for _, dev := range dm {
		if w, ok := dev.(PortWriter); ok {
			if w.WritePort(port, value) {
				return
			}
		}
	}
}

// Startup starts every device in connection order. All devices are
// attempted; failures are collected into an ErrorSet.
func (dm Map) Startup() error {
	return dm.each("startup", Device.Startup)
}

// Shutdown stops every device in connection order, collecting failures
// like Startup.
func (dm Map) Shutdown() error {
	return dm.each("shutdown", Device.Shutdown)
}

func (dm Map) each(action string, fn func(Device) error) error {
	var errs ErrorSet
	for _, dev := range dm {
		log.Println(dev.ID(), action)
		errs.Append(errors.Wrapf(fn(dev), "%s %s", dev.ID(), action))
	}

	if errs.Len() == 0 {
		return nil
	}
	return errs
}

// Find returns the index of the device with the given id, or -1.
func (dm Map) Find(id ID) int {
	for i, dev := range dm {
		if dev.ID() == id {
			return i
		}
	}
	return -1
}
