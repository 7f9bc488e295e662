package cpu

import "fmt"

// RequestInterrupt injects a vectored interrupt as if RST vector had been
// executed: the current PC is pushed and PC becomes 8*vector.
//
// It does not consult or change InterruptsEnabled. The caller decides
// whether the interrupt is accepted and clears the enable flag itself.
// A halted processor resumes at the vector.
func (c *CPU) RequestInterrupt(vector int) {
	if vector < 0 || vector > 7 {
		panic(fmt.Sprintf("cpu: invalid interrupt vector %d", vector))
	}

	c.push(c.PC)
	c.PC = uint16(vector * 8)
	c.halted = false
}
