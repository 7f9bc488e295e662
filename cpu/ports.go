package cpu

// Ports is the device layer invoked by the IN and OUT instructions.
// port is the instruction's immediate operand.
type Ports interface {
	In(port byte) byte
	Out(port, value byte)
}

type nopPorts struct{}

func (nopPorts) In(byte) byte   { return 0 }
func (nopPorts) Out(byte, byte) {}
