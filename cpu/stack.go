package cpu

// push stores value at SP-1 (high byte) and SP-2 (low byte) and moves SP
// down by two. SP wraps around the address space.
func (c *CPU) push(value uint16) {
	c.SP--
	c.write(int(c.SP), byte(value>>8))
	c.SP--
	c.write(int(c.SP), byte(value))
}

// pop reads the word at SP and moves SP up by two.
func (c *CPU) pop() uint16 {
	lo := c.read(int(c.SP))
	c.SP++
	hi := c.read(int(c.SP))
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// call pushes the current PC, which already points past the calling
// instruction, and transfers control to addr.
func (c *CPU) call(addr uint16) {
	c.push(c.PC)
	c.PC = addr
}

// ret pops the return address into PC.
func (c *CPU) ret() {
	c.PC = c.pop()
}
