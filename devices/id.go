package devices

import "fmt"

// Vendor codes used in device ids.
const (
	Midway = 0x8080 // Devices on the arcade board.
	Host   = 0xfffe // Devices implemented by the host: display output, input.
)

// ID names a device as a vendor code in the high half and a serial number
// in the low half. Two devices on one Map never share an ID.
type ID uint32

// NewID packs a vendor code and serial number. Both are truncated to 16 bits.
func NewID(vendor, serial int) ID {
	return ID(vendor&0xffff)<<16 | ID(serial&0xffff)
}

// Manufacturer returns the vendor code.
func (id ID) Manufacturer() int { return int(id >> 16) }

// Serial returns the serial number.
func (id ID) Serial() int { return int(id & 0xffff) }

// String renders the id as vendor:serial in hex, e.g. 8080:0002.
func (id ID) String() string {
	return fmt.Sprintf("%04x:%04x", id.Manufacturer(), id.Serial())
}
