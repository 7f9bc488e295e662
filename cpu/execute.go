package cpu

import "github.com/hexaflex/i8080/arch"

// handler executes one opcode. PC already points at the next instruction
// when it runs.
type handler func(c *CPU, i *Instruction)

// Accumulator operations in opcode order, as encoded in bits 3-5.
const (
	aluADD = iota
	aluADC
	aluSUB
	aluSBB
	aluANA
	aluXRA
	aluORA
	aluCMP
)

var handlers [256]handler

func init() {
	for op := 0; op < 256; op++ {
		if arch.IsDuplicate(byte(op)) {
			handlers[op] = nop
		}
	}

	handlers[arch.NOP] = nop

	for rp := 0; rp < 4; rp++ {
		handlers[0x01|rp<<4] = lxi(rp)
		handlers[0x03|rp<<4] = inx(rp)
		handlers[0x09|rp<<4] = dad(rp)
		handlers[0x0b|rp<<4] = dcx(rp)
		handlers[0xc1|rp<<4] = pop(rp)
		handlers[0xc5|rp<<4] = push(rp)
	}

	handlers[0x02] = stax(arch.PairB)
	handlers[0x12] = stax(arch.PairD)
	handlers[0x0a] = ldax(arch.PairB)
	handlers[0x1a] = ldax(arch.PairD)
	handlers[0x22] = shld
	handlers[0x2a] = lhld
	handlers[0x32] = sta
	handlers[0x3a] = lda

	for r := 0; r < 8; r++ {
		handlers[0x04|r<<3] = inr(r)
		handlers[0x05|r<<3] = dcr(r)
		handlers[0x06|r<<3] = mvi(r)
	}

	handlers[0x07] = rlc
	handlers[0x0f] = rrc
	handlers[0x17] = ral
	handlers[0x1f] = rar
	handlers[arch.DAA] = daa
	handlers[0x2f] = cma
	handlers[0x37] = stc
	handlers[0x3f] = cmc

	for dst := 0; dst < 8; dst++ {
		for src := 0; src < 8; src++ {
			handlers[0x40|dst<<3|src] = mov(dst, src)
		}
	}

	handlers[arch.HLT] = nop

	for op := 0; op < 8; op++ {
		for src := 0; src < 8; src++ {
			handlers[0x80|op<<3|src] = aluReg(op, src)
		}
		handlers[0xc6|op<<3] = aluImm(op)
	}

	for cc := byte(0); cc < 8; cc++ {
		handlers[0xc0|cc<<3] = retIf(cc)
		handlers[0xc2|cc<<3] = jmpIf(cc)
		handlers[0xc4|cc<<3] = callIf(cc)
		handlers[0xc7|cc<<3] = rst(uint16(cc) * 8)
	}

	handlers[arch.JMP] = jmp
	handlers[arch.CALL] = call
	handlers[arch.RET] = ret
	handlers[arch.OUT] = out
	handlers[arch.IN] = in
	handlers[0xe3] = xthl
	handlers[0xe9] = pchl
	handlers[0xeb] = xchg
	handlers[0xf9] = sphl
	handlers[arch.DI] = di
	handlers[arch.EI] = ei
}

func nop(*CPU, *Instruction) {}

// Data transfer.

func mov(dst, src int) handler {
	return func(c *CPU, _ *Instruction) {
		c.setReg(dst, c.getReg(src))
	}
}

func mvi(dst int) handler {
	return func(c *CPU, i *Instruction) {
		c.setReg(dst, i.D8())
	}
}

func lxi(rp int) handler {
	return func(c *CPU, i *Instruction) {
		c.SetPair(rp, i.D16())
	}
}

func stax(rp int) handler {
	return func(c *CPU, _ *Instruction) {
		c.write(int(c.Pair(rp)), c.A)
	}
}

func ldax(rp int) handler {
	return func(c *CPU, _ *Instruction) {
		c.A = c.read(int(c.Pair(rp)))
	}
}

func sta(c *CPU, i *Instruction)  { c.write(int(i.D16()), c.A) }
func lda(c *CPU, i *Instruction)  { c.A = c.read(int(i.D16())) }
func shld(c *CPU, i *Instruction) { c.write16(int(i.D16()), c.HL()) }
func lhld(c *CPU, i *Instruction) { c.SetHL(c.read16(int(i.D16()))) }

func xchg(c *CPU, _ *Instruction) {
	c.H, c.D = c.D, c.H
	c.L, c.E = c.E, c.L
}

// Register pair arithmetic. Pairs wrap modulo 0x10000.

func inx(rp int) handler {
	return func(c *CPU, _ *Instruction) {
		c.SetPair(rp, c.Pair(rp)+1)
	}
}

func dcx(rp int) handler {
	return func(c *CPU, _ *Instruction) {
		c.SetPair(rp, c.Pair(rp)-1)
	}
}

func dad(rp int) handler {
	return func(c *CPU, _ *Instruction) {
		sum := uint32(c.HL()) + uint32(c.Pair(rp))
		c.Flags.CY = sum > 0xffff
		c.SetHL(uint16(sum))
	}
}

// Increment and decrement leave CY untouched.

func inr(r int) handler {
	return func(c *CPU, _ *Instruction) {
		v := c.getReg(r)
		c.Flags.AC = v&0x0f == 0x0f
		v++
		c.Flags.setZSP(v)
		c.setReg(r, v)
	}
}

func dcr(r int) handler {
	return func(c *CPU, _ *Instruction) {
		v := c.getReg(r)
		c.Flags.AC = v&0x0f != 0
		v--
		c.Flags.setZSP(v)
		c.setReg(r, v)
	}
}

// Accumulator arithmetic and logic.

func aluReg(op, src int) handler {
	return func(c *CPU, _ *Instruction) {
		c.alu(op, c.getReg(src))
	}
}

func aluImm(op int) handler {
	return func(c *CPU, i *Instruction) {
		c.alu(op, i.D8())
	}
}

// alu performs accumulator operation op with operand b. All flag updates
// go through Flags.apply.
func (c *CPU) alu(op int, b byte) {
	a := c.A
	fl := &c.Flags

	switch op {
	case aluADD:
		c.A = fl.apply(carryAdd, a, b, 0, uint16(a)+uint16(b))
	case aluADC:
		cin := carryIn(fl)
		c.A = fl.apply(carryAdd, a, b, cin, uint16(a)+uint16(b)+uint16(cin))
	case aluSUB:
		c.A = fl.apply(carrySub, a, b, 0, uint16(a)-uint16(b))
	case aluSBB:
		cin := carryIn(fl)
		c.A = fl.apply(carrySub, a, b, cin, uint16(a)-uint16(b)-uint16(cin))
	case aluANA:
		c.A = fl.apply(carryAnd, a, b, 0, uint16(a&b))
	case aluXRA:
		c.A = fl.apply(carryLogic, a, b, 0, uint16(a^b))
	case aluORA:
		c.A = fl.apply(carryLogic, a, b, 0, uint16(a|b))
	case aluCMP:
		fl.apply(carrySub, a, b, 0, uint16(a)-uint16(b))
	}
}

func carryIn(fl *Flags) byte {
	if fl.CY {
		return 1
	}
	return 0
}

// Rotates only change CY.

func rlc(c *CPU, _ *Instruction) {
	c.Flags.CY = c.A&0x80 != 0
	c.A = c.A<<1 | c.A>>7
}

func rrc(c *CPU, _ *Instruction) {
	c.Flags.CY = c.A&1 != 0
	c.A = c.A>>1 | c.A<<7
}

func ral(c *CPU, _ *Instruction) {
	cin := carryIn(&c.Flags)
	c.Flags.CY = c.A&0x80 != 0
	c.A = c.A<<1 | cin
}

func rar(c *CPU, _ *Instruction) {
	cin := carryIn(&c.Flags)
	c.Flags.CY = c.A&1 != 0
	c.A = c.A>>1 | cin<<7
}

func daa(c *CPU, _ *Instruction) {
	a := c.A
	cy := c.Flags.CY

	var adj byte
	if a&0x0f > 9 || c.Flags.AC {
		adj |= 0x06
	}
	if a>>4 > 9 || cy || (a>>4 >= 9 && a&0x0f > 9) {
		adj |= 0x60
		cy = true
	}

	c.Flags.AC = (a&0x0f)+(adj&0x0f) > 0x0f
	c.A = a + adj
	c.Flags.setZSP(c.A)
	c.Flags.CY = cy
}

func cma(c *CPU, _ *Instruction) { c.A = ^c.A }
func stc(c *CPU, _ *Instruction) { c.Flags.CY = true }
func cmc(c *CPU, _ *Instruction) { c.Flags.CY = !c.Flags.CY }

// Control transfer.

func jmp(c *CPU, i *Instruction)  { c.PC = i.D16() }
func call(c *CPU, i *Instruction) { c.call(i.D16()) }
func ret(c *CPU, _ *Instruction)  { c.ret() }
func pchl(c *CPU, _ *Instruction) { c.PC = c.HL() }

func jmpIf(cc byte) handler {
	return func(c *CPU, i *Instruction) {
		if c.Flags.condition(cc) {
			c.PC = i.D16()
		}
	}
}

func callIf(cc byte) handler {
	return func(c *CPU, i *Instruction) {
		if c.Flags.condition(cc) {
			c.call(i.D16())
		}
	}
}

func retIf(cc byte) handler {
	return func(c *CPU, _ *Instruction) {
		if c.Flags.condition(cc) {
			c.ret()
		}
	}
}

func rst(addr uint16) handler {
	return func(c *CPU, _ *Instruction) {
		c.call(addr)
	}
}

// Stack.

func push(rp int) handler {
	if rp == arch.PairSP {
		return func(c *CPU, _ *Instruction) {
			c.push(uint16(c.A)<<8 | uint16(c.Flags.Byte()))
		}
	}
	return func(c *CPU, _ *Instruction) {
		c.push(c.Pair(rp))
	}
}

func pop(rp int) handler {
	if rp == arch.PairSP {
		return func(c *CPU, _ *Instruction) {
			v := c.pop()
			c.A = byte(v >> 8)
			c.Flags.SetByte(byte(v))
		}
	}
	return func(c *CPU, _ *Instruction) {
		c.SetPair(rp, c.pop())
	}
}

func xthl(c *CPU, _ *Instruction) {
	lo := int(c.SP)
	hi := int(c.SP + 1)
	l, h := c.read(lo), c.read(hi)
	c.write(lo, c.L)
	c.write(hi, c.H)
	c.L, c.H = l, h
}

func sphl(c *CPU, _ *Instruction) { c.SP = c.HL() }

// Input/output and interrupt control.

func in(c *CPU, i *Instruction)  { c.A = c.ports.In(i.D8()) }
func out(c *CPU, i *Instruction) { c.ports.Out(i.D8(), c.A) }
func ei(c *CPU, _ *Instruction)  { c.InterruptsEnabled = true }
func di(c *CPU, _ *Instruction)  { c.InterruptsEnabled = false }
