package cpu

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexaflex/i8080/arch"
)

const testStack = 0x4000

func TestNOP(t *testing.T) {
	assert := assert.New(t)

	c := New(nil, nil, DefaultOptions())
	c.SP = testStack
	before := *c

	const n = 100
	for i := 0; i < n; i++ {
		cycles, err := c.Step()
		assert.NoError(err)
		assert.Equal(4, cycles)
	}

	assert.Equal(uint16(n), c.PC)
	assert.Equal(before.Flags, c.Flags)

	before.Registers.PC = n
	assert.Equal(before.Registers, c.Registers)
	assert.Equal(uint64(4*n), c.Cycles())
}

func TestDuplicateNOP(t *testing.T) {
	for _, op := range []byte{0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38, 0xcb, 0xd9, 0xdd, 0xed, 0xfd} {
		c := New(nil, nil, DefaultOptions())
		c.SP = testStack
		c.Memory[0] = op

		cycles, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, arch.Cycles(op), cycles, "opcode %02x", op)
		assert.Equal(t, uint16(1), c.PC, "opcode %02x", op)
		assert.Equal(t, uint16(testStack), c.SP, "opcode %02x", op)
	}
}

func TestMVIMOV(t *testing.T) {
	//   MVI B, $12
	//   MOV A, B
	//   MOV C, A
	//   HLT

	ct := newCodeTest()
	ct.emit(0x06, 0x12)
	ct.emit(0x78)
	ct.emit(0x4f)
	ct.emit(arch.HLT)

	c := runTest(t, ct)
	assert.Equal(t, byte(0x12), c.A)
	assert.Equal(t, byte(0x12), c.B)
	assert.Equal(t, byte(0x12), c.C)
	assert.Equal(t, uint16(5), c.PC)
}

func TestMemoryOperand(t *testing.T) {
	//   LXI H, $2400
	//   MVI M, $aa
	//   MOV D, M
	//   HLT

	ct := newCodeTest()
	ct.emit16(0x21, 0x2400)
	ct.emit(0x36, 0xaa)
	ct.emit(0x56)
	ct.emit(arch.HLT)

	c := runTest(t, ct)
	assert.Equal(t, byte(0xaa), c.Memory[0x2400])
	assert.Equal(t, byte(0xaa), c.D)
}

func TestLXIByteOrder(t *testing.T) {
	//   LXI B, $1234
	//   LXI D, $5678
	//   LXI SP, $9abc
	//   HLT

	ct := newCodeTest()
	ct.emit16(0x01, 0x1234)
	ct.emit16(0x11, 0x5678)
	ct.emit16(0x31, 0x9abc)
	ct.emit(arch.HLT)

	assert.Equal(t, []byte{0x01, 0x34, 0x12}, ct.program.Bytes()[:3])

	c := runTest(t, ct)
	assert.Equal(t, byte(0x12), c.B)
	assert.Equal(t, byte(0x34), c.C)
	assert.Equal(t, uint16(0x5678), c.DE())
	assert.Equal(t, uint16(0x9abc), c.SP)
}

func TestSTALDA(t *testing.T) {
	//   MVI A, $42
	//   STA $2345
	//   MVI A, 0
	//   LDA $2345
	//   HLT

	ct := newCodeTest()
	ct.emit(0x3e, 0x42)
	ct.emit16(0x32, 0x2345)
	ct.emit(0x3e, 0)
	ct.emit16(0x3a, 0x2345)
	ct.emit(arch.HLT)

	c := runTest(t, ct)
	assert.Equal(t, byte(0x42), c.Memory[0x2345])
	assert.Equal(t, byte(0x42), c.A)
}

func TestSHLDLHLD(t *testing.T) {
	//   LXI H, $beef
	//   SHLD $2400
	//   LXI H, 0
	//   LHLD $2400
	//   HLT

	ct := newCodeTest()
	ct.emit16(0x21, 0xbeef)
	ct.emit16(0x22, 0x2400)
	ct.emit16(0x21, 0)
	ct.emit16(0x2a, 0x2400)
	ct.emit(arch.HLT)

	c := runTest(t, ct)
	assert.Equal(t, byte(0xef), c.Memory[0x2400], "low byte first")
	assert.Equal(t, byte(0xbe), c.Memory[0x2401])
	assert.Equal(t, uint16(0xbeef), c.HL())
}

func TestSTAXLDAX(t *testing.T) {
	//   LXI B, $2400
	//   LXI D, $2401
	//   MVI A, $11
	//   STAX B
	//   MVI A, $22
	//   STAX D
	//   LDAX B
	//   HLT

	ct := newCodeTest()
	ct.emit16(0x01, 0x2400)
	ct.emit16(0x11, 0x2401)
	ct.emit(0x3e, 0x11)
	ct.emit(0x02)
	ct.emit(0x3e, 0x22)
	ct.emit(0x12)
	ct.emit(0x0a)
	ct.emit(arch.HLT)

	c := runTest(t, ct)
	assert.Equal(t, byte(0x11), c.Memory[0x2400])
	assert.Equal(t, byte(0x22), c.Memory[0x2401])
	assert.Equal(t, byte(0x11), c.A)
}

func TestPairWrap(t *testing.T) {
	//   LXI H, $ffff
	//   INX H
	//   LXI B, 0
	//   DCX B
	//   HLT

	ct := newCodeTest()
	ct.emit16(0x21, 0xffff)
	ct.emit(0x23)
	ct.emit16(0x01, 0)
	ct.emit(0x0b)
	ct.emit(arch.HLT)

	c := runTest(t, ct)
	assert.Equal(t, uint16(0x0000), c.HL())
	assert.Equal(t, uint16(0xffff), c.BC())
}

func TestSPWrap(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.SP = 0xffff
	c.Memory[0] = 0x33 // INX SP
	c.Memory[1] = 0x3b // DCX SP

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0), c.SP)

	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xffff), c.SP)
}

func TestPUSHPOP(t *testing.T) {
	for rp, name := range []string{"B", "D", "H", "PSW"} {
		t.Run(name, func(t *testing.T) {
			push := opcodeOf(t, "PUSH", name)
			pop := opcodeOf(t, "POP", name)

			c := New(nil, nil, DefaultOptions())
			c.SP = testStack
			c.A, c.B, c.C, c.D, c.E, c.H, c.L = 0xa1, 0xb2, 0xc3, 0xd4, 0xe5, 0x46, 0x17
			c.Flags = Flags{Z: true, P: true, CY: true}
			c.Memory[0] = push
			c.Memory[1] = pop

			regs, flags := c.Registers, c.Flags

			_, err := c.Step()
			require.NoError(t, err)
			assert.Equal(t, uint16(testStack-2), c.SP)

			if rp == arch.PairSP {
				assert.Equal(t, byte(0xa1), c.Memory[testStack-1])
				assert.Equal(t, byte(0x47), c.Memory[testStack-2])
			} else {
				assert.Equal(t, c.Pair(rp), c.read16(testStack-2))
			}

			// Clobber everything the pop should restore.
			c.A, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0
			c.Flags = Flags{}

			_, err = c.Step()
			require.NoError(t, err)

			switch rp {
			case arch.PairB:
				assert.Equal(t, regs.BC(), c.BC())
			case arch.PairD:
				assert.Equal(t, regs.DE(), c.DE())
			case arch.PairH:
				assert.Equal(t, regs.HL(), c.HL())
			case arch.PairSP:
				assert.Equal(t, regs.A, c.A)
				assert.Equal(t, flags, c.Flags)
			}

			assert.Equal(t, uint16(testStack), c.SP)
			assert.Equal(t, uint16(2), c.PC)
		})
	}
}

func TestPSWLayout(t *testing.T) {
	var fl Flags
	fl.SetByte(0xff)
	assert.Equal(t, Flags{Z: true, S: true, P: true, CY: true, AC: true}, fl)
	assert.Equal(t, byte(0xd7), fl.Byte())

	fl = Flags{}
	assert.Equal(t, byte(0x02), fl.Byte())
	assert.Equal(t, ".....", fl.String())

	fl = Flags{Z: true, CY: true}
	assert.Equal(t, ".Z..C", fl.String())
}

func TestJMP(t *testing.T) {
	//   JMP $0010
	//   ...
	// $0010:
	//   HLT

	ct := newCodeTest()
	ct.emit16(arch.JMP, 0x0010)
	ct.org(0x0010)
	ct.emit(arch.HLT)

	c := New(nil, nil, DefaultOptions())
	c.Memory.Write(0, ct.program.Bytes())

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, 10, cycles)
	assert.Equal(t, uint16(0x0010), c.PC, "jump must not also apply the generic advance")

	_, err = c.Step()
	assert.True(t, errors.Is(err, ErrHalted))
	assert.Equal(t, uint16(0x0011), c.PC)
}

func TestConditionalJump(t *testing.T) {
	for _, v := range []struct {
		op    string
		flags Flags
		taken bool
	}{
		{"JNZ", Flags{}, true},
		{"JNZ", Flags{Z: true}, false},
		{"JZ", Flags{Z: true}, true},
		{"JNC", Flags{CY: true}, false},
		{"JC", Flags{CY: true}, true},
		{"JPO", Flags{}, true},
		{"JPE", Flags{P: true}, true},
		{"JP", Flags{S: true}, false},
		{"JM", Flags{S: true}, true},
		{"JM", Flags{}, false},
	} {
		op := opcodeOf(t, v.op, "")

		c := New(nil, nil, DefaultOptions())
		c.PC = 0x0100
		c.Flags = v.flags
		c.Memory.Write(0x0100, []byte{op, 0x34, 0x12})

		cycles, err := c.Step()
		require.NoError(t, err)
		assert.Equal(t, 10, cycles, v.op)

		if v.taken {
			assert.Equal(t, uint16(0x1234), c.PC, "%s %+v", v.op, v.flags)
		} else {
			assert.Equal(t, uint16(0x0103), c.PC, "%s %+v", v.op, v.flags)
		}
	}
}

func TestCALLRET(t *testing.T) {
	//   CALL sub
	//   HLT
	// sub:
	//   MVI A, $55
	//   RET

	ct := newCodeTest()
	ct.emit16(arch.CALL, 0x0004)
	ct.emit(arch.HLT)
	ct.emit(0x3e, 0x55)
	ct.emit(arch.RET)

	c := New(nil, nil, DefaultOptions())
	c.SP = testStack
	c.Memory.Write(0, ct.program.Bytes())

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, 17, cycles)
	assert.Equal(t, uint16(0x0004), c.PC)
	assert.Equal(t, uint16(testStack-2), c.SP)
	assert.Equal(t, byte(0x03), c.Memory[testStack-2])
	assert.Equal(t, byte(0x00), c.Memory[testStack-1])

	_, err = c.Step()
	require.NoError(t, err)
	_, err = c.Step()
	require.NoError(t, err)

	assert.Equal(t, uint16(0x0003), c.PC, "return to the instruction after CALL")
	assert.Equal(t, uint16(testStack), c.SP)

	_, err = c.Step()
	assert.Equal(t, ErrHalted, err)
	assert.Equal(t, byte(0x55), c.A)
}

func TestConditionalCallReturn(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.SP = testStack
	c.PC = 0x0100

	// CZ with Z clear falls through without touching the stack.
	c.Memory.Write(0x0100, []byte{0xcc, 0x00, 0x02})
	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, 17, cycles)
	assert.Equal(t, uint16(0x0103), c.PC)
	assert.Equal(t, uint16(testStack), c.SP)

	// CNZ with Z clear calls.
	c.Memory.Write(0x0103, []byte{0xc4, 0x00, 0x02})
	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0200), c.PC)
	assert.Equal(t, uint16(testStack-2), c.SP)

	// RC with CY clear does not return.
	c.Memory[0x0200] = 0xd8
	cycles, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, 11, cycles)
	assert.Equal(t, uint16(0x0201), c.PC)

	// RNC returns.
	c.Memory[0x0201] = 0xd0
	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0106), c.PC)
	assert.Equal(t, uint16(testStack), c.SP)
}

func TestRST(t *testing.T) {
	for n := 0; n < 8; n++ {
		c := New(nil, nil, DefaultOptions())
		c.SP = testStack
		c.PC = 0x0200
		c.Memory[0x0200] = byte(0xc7 | n<<3)

		cycles, err := c.Step()
		require.NoError(t, err)
		assert.Equal(t, 11, cycles)
		assert.Equal(t, uint16(n*8), c.PC)
		assert.Equal(t, uint16(testStack-2), c.SP)
		assert.Equal(t, uint16(0x0201), c.read16(testStack-2))
	}
}

func TestPCHLSPHLXCHGXTHL(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.SP = testStack
	c.SetHL(0x1234)
	c.SetDE(0xabcd)
	c.Memory.SetU16(testStack, 0x5678)

	//   XCHG
	//   XTHL
	//   SPHL
	//   PCHL
	c.Memory.Write(0, []byte{0xeb, 0xe3, 0xf9, 0xe9})

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xabcd), c.HL())
	assert.Equal(t, uint16(0x1234), c.DE())

	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x5678), c.HL())
	assert.Equal(t, uint16(0xabcd), c.Memory.U16(testStack))

	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x5678), c.SP)

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, 5, cycles)
	assert.Equal(t, uint16(0x5678), c.PC)
}

func TestALU(t *testing.T) {
	for _, v := range []struct {
		name  string
		op    string
		a, b  byte
		cin   bool
		want  byte
		flags Flags
	}{
		{"add carry", "ADI", 0x80, 0x80, false, 0x00, Flags{Z: true, P: true, CY: true}},
		{"add half carry", "ADI", 0x0f, 0x01, false, 0x10, Flags{AC: true}},
		{"adc", "ACI", 0x0f, 0x00, true, 0x10, Flags{AC: true}},
		{"adc wrap", "ACI", 0xff, 0x00, true, 0x00, Flags{Z: true, P: true, CY: true, AC: true}},
		{"sub borrow", "SUI", 0x01, 0x02, false, 0xff, Flags{S: true, P: true, CY: true}},
		{"sub equal", "SUI", 0x05, 0x05, false, 0x00, Flags{Z: true, P: true, AC: true}},
		{"sub no borrow", "SUI", 0x80, 0x01, false, 0x7f, Flags{AC: false}},
		{"sbb", "SBI", 0x10, 0x0f, true, 0x00, Flags{Z: true, P: true}},
		{"sbb borrow", "SBI", 0x00, 0x00, true, 0xff, Flags{S: true, P: true, CY: true}},
		{"ana", "ANI", 0xf0, 0x0f, true, 0x00, Flags{Z: true, P: true, AC: true}},
		{"xra", "XRI", 0x5a, 0x5a, true, 0x00, Flags{Z: true, P: true}},
		{"ora", "ORI", 0x01, 0x02, true, 0x03, Flags{P: true}},
		{"cmp less", "CPI", 0x02, 0x03, false, 0x02, Flags{S: true, P: true, CY: true}},
		{"cmp equal", "CPI", 0x42, 0x42, false, 0x42, Flags{Z: true, P: true, AC: true}},
		{"cmp greater", "CPI", 0x43, 0x42, false, 0x43, Flags{AC: true}},
	} {
		t.Run(v.name, func(t *testing.T) {
			op := opcodeOf(t, v.op, "")

			c := New(nil, nil, DefaultOptions())
			c.A = v.a
			c.Flags.CY = v.cin
			c.Memory.Write(0, []byte{op, v.b})

			cycles, err := c.Step()
			require.NoError(t, err)
			assert.Equal(t, 7, cycles)
			assert.Equal(t, v.want, c.A)
			assert.Equal(t, v.flags, c.Flags)
			assert.Equal(t, uint16(2), c.PC)
		})
	}
}

// TestALUResultFlags checks Z, S and P against the low byte of the result
// for every register-form accumulator opcode and a spread of operands.
func TestALUResultFlags(t *testing.T) {
	for op := 0x80; op < 0xc0; op++ {
		if op&7 == arch.RegM || op&7 == arch.RegA {
			continue
		}

		for _, a := range []byte{0x00, 0x01, 0x0f, 0x7f, 0x80, 0xaa, 0xff} {
			for _, b := range []byte{0x00, 0x01, 0x10, 0x55, 0x80, 0xff} {
				c := New(nil, nil, DefaultOptions())
				c.A = a
				*c.reg(op & 7) = b
				c.Memory[0] = byte(op)

				_, err := c.Step()
				require.NoError(t, err)

				result := c.A
				if (op>>3)&7 == aluCMP {
					result = a - b
				}

				msg := fmt.Sprintf("op %02x a %02x b %02x", op, a, b)
				assert.Equal(t, result == 0, c.Flags.Z, msg)
				assert.Equal(t, result&0x80 != 0, c.Flags.S, msg)
				assert.Equal(t, evenParity(result), c.Flags.P, msg)
			}
		}
	}
}

func TestALUMemoryOperand(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.A = 0x10
	c.SetHL(0x2400)
	c.Memory[0x2400] = 0x22
	c.Memory[0] = 0x86 // ADD M

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, 7, cycles)
	assert.Equal(t, byte(0x32), c.A)
}

func TestINRDCR(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.B = 0xff
	c.C = 0x00
	c.Flags.CY = true

	//   INR B
	//   DCR C
	c.Memory.Write(0, []byte{0x04, 0x0d})

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, byte(0), c.B)
	assert.Equal(t, Flags{Z: true, P: true, AC: true, CY: true}, c.Flags, "INR leaves CY alone")

	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, byte(0xff), c.C)
	assert.Equal(t, Flags{S: true, P: true, CY: true}, c.Flags)
}

func TestINRMemory(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.SetHL(0x3000)
	c.Memory[0x3000] = 0x7f
	c.Memory[0] = 0x34 // INR M

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, 10, cycles)
	assert.Equal(t, byte(0x80), c.Memory[0x3000])
	assert.True(t, c.Flags.S)
	assert.True(t, c.Flags.AC)
}

func TestDAD(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.SetHL(0xffff)
	c.SetBC(0x0001)
	c.Flags.Z = true
	c.Memory.Write(0, []byte{0x09, 0x29})

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0), c.HL())
	assert.Equal(t, Flags{Z: true, CY: true}, c.Flags, "DAD only changes CY")

	c.SetHL(0x1234)
	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x2468), c.HL())
	assert.False(t, c.Flags.CY)
}

func TestRotates(t *testing.T) {
	for _, v := range []struct {
		op       byte
		a        byte
		cin      bool
		want     byte
		wantCarr bool
	}{
		{0x07, 0x81, false, 0x03, true},  // RLC
		{0x0f, 0x81, false, 0xc0, true},  // RRC
		{0x17, 0x81, false, 0x02, true},  // RAL
		{0x17, 0x01, true, 0x03, false},  // RAL
		{0x1f, 0x02, true, 0x81, false},  // RAR
		{0x1f, 0x81, false, 0x40, true},  // RAR
		{0x2f, 0x0f, false, 0xf0, false}, // CMA
		{0x37, 0x00, false, 0x00, true},  // STC
		{0x3f, 0x00, true, 0x00, false},  // CMC
	} {
		c := New(nil, nil, DefaultOptions())
		c.A = v.a
		c.Flags.CY = v.cin
		c.Flags.Z = true
		c.Memory[0] = v.op

		_, err := c.Step()
		require.NoError(t, err)
		assert.Equal(t, v.want, c.A, "opcode %02x", v.op)
		assert.Equal(t, v.wantCarr, c.Flags.CY, "opcode %02x", v.op)
		assert.True(t, c.Flags.Z, "opcode %02x must leave Z alone", v.op)
	}
}

func TestDAAUnsupported(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.PC = 0x0040
	c.Memory[0x0040] = arch.DAA

	cycles, err := c.Step()
	require.Error(t, err)
	assert.Equal(t, 0, cycles)

	kind, ok := IsFault(err)
	assert.True(t, ok)
	assert.Equal(t, FaultUnsupported, kind)
	assert.Equal(t, uint16(0x0040), c.PC)
	assert.Contains(t, err.Error(), "0040")
}

func TestDAA(t *testing.T) {
	//   MVI A, $09
	//   ADI $08
	//   DAA
	//   HLT

	ct := newCodeTest()
	ct.emit(0x3e, 0x09)
	ct.emit(0xc6, 0x08)
	ct.emit(arch.DAA)
	ct.emit(arch.HLT)

	c := runTest(t, ct, func(o *Options) { o.DecimalAdjust = true })
	assert.Equal(t, byte(0x17), c.A)
	assert.False(t, c.Flags.CY)

	c = New(nil, nil, Options{DecimalAdjust: true})
	c.A = 0x99
	c.Memory.Write(0, []byte{0xc6, 0x01, arch.DAA})
	_, err := c.Step()
	require.NoError(t, err)
	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), c.A)
	assert.True(t, c.Flags.CY)
	assert.True(t, c.Flags.Z)
}

func TestHLT(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.SP = testStack
	c.Memory[0] = arch.HLT

	cycles, err := c.Step()
	assert.Equal(t, ErrHalted, err)
	assert.Equal(t, 7, cycles)
	assert.True(t, c.Halted())
	assert.Equal(t, uint16(1), c.PC)

	cycles, err = c.Step()
	assert.Equal(t, ErrHalted, err)
	assert.Equal(t, 0, cycles)
	_, isFault := IsFault(err)
	assert.False(t, isFault, "halt is not a fault")

	c.RequestInterrupt(1)
	assert.False(t, c.Halted())
	assert.Equal(t, uint16(8), c.PC)

	_, err = c.Step()
	assert.NoError(t, err)
}

func TestProtectedWrite(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.A = 0x99
	c.Memory.Write(0, []byte{0x32, 0x00, 0x01}) // STA $0100

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, 13, cycles)
	assert.Equal(t, byte(0), c.Memory[0x0100])
	assert.Equal(t, uint64(1), c.ProtectedWrites())
	assert.Equal(t, uint16(3), c.PC)

	c.Memory.Write(3, []byte{0x32, 0x00, 0x20}) // STA $2000
	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, byte(0x99), c.Memory[0x2000])
	assert.Equal(t, uint64(1), c.ProtectedWrites())
}

func TestAddressFault(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.Memory.Write(0, []byte{0x2a, 0xff, 0xff}) // LHLD $ffff

	_, err := c.Step()
	kind, ok := IsFault(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, FaultAddress, kind)

	var fault *Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, 0x10000, fault.Addr)
	assert.Equal(t, byte(0x2a), fault.Opcode)

	c = New(nil, nil, DefaultOptions())
	c.Memory.Write(0, []byte{0x22, 0xff, 0xff}) // SHLD $ffff
	c.SetHL(0x1234)
	_, err = c.Step()
	kind, _ = IsFault(err)
	assert.Equal(t, FaultAddress, kind)
	assert.Equal(t, byte(0), c.Memory[0xffff], "no partial write")
}

func TestFetchFault(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.PC = 0xfffe
	c.Memory[0xfffe] = arch.JMP

	_, err := c.Step()
	kind, ok := IsFault(err)
	require.True(t, ok)
	assert.Equal(t, FaultAddress, kind)
	assert.Equal(t, uint16(0xfffe), err.(*Fault).IP)
}

func TestRequestInterrupt(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.PC = 0x1234
	c.SP = 0x2400
	c.InterruptsEnabled = true

	c.RequestInterrupt(1)

	assert.Equal(t, uint16(0x0008), c.PC)
	assert.Equal(t, byte(0x34), c.Memory[0x23fe])
	assert.Equal(t, byte(0x12), c.Memory[0x23ff])
	assert.Equal(t, uint16(0x23fe), c.SP)
	assert.True(t, c.InterruptsEnabled, "enable flag belongs to the caller")

	assert.Panics(t, func() { c.RequestInterrupt(8) })
}

func TestInterruptReturn(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.PC = 0x0100
	c.SP = testStack
	c.Memory[0x0010] = arch.RET

	c.RequestInterrupt(2)
	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0100), c.PC)
	assert.Equal(t, uint16(testStack), c.SP)
}

func TestEIDI(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.Memory.Write(0, []byte{arch.EI, arch.DI})

	_, err := c.Step()
	require.NoError(t, err)
	assert.True(t, c.InterruptsEnabled)

	_, err = c.Step()
	require.NoError(t, err)
	assert.False(t, c.InterruptsEnabled)
}

func TestINOUT(t *testing.T) {
	ports := &testPorts{in: map[byte]byte{1: 0x5a}}

	//   IN 1
	//   OUT 4
	ct := newCodeTest()
	ct.emit(arch.IN, 1)
	ct.emit(arch.OUT, 4)
	ct.emit(arch.HLT)

	c := New(ports, nil, DefaultOptions())
	c.Memory.Write(0, ct.program.Bytes())

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, 10, cycles)
	assert.Equal(t, byte(0x5a), c.A)

	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, [][2]byte{{4, 0x5a}}, ports.out)
}

func TestWatchAndTrace(t *testing.T) {
	var traced []string
	var written [][2]int

	c := New(nil, func(i *Instruction) { traced = append(traced, i.String()) }, DefaultOptions())
	c.Watch(0x2400, 0x4000, func(addr int, v byte) { written = append(written, [2]int{addr, int(v)}) })

	//   MVI A, 7
	//   STA $2400
	//   STA $4000
	//   STA $0100
	c.Memory.Write(0, []byte{0x3e, 7, 0x32, 0x00, 0x24, 0x32, 0x00, 0x40, 0x32, 0x00, 0x01})
	for i := 0; i < 4; i++ {
		_, err := c.Step()
		require.NoError(t, err)
	}

	assert.Equal(t, [][2]int{{0x2400, 7}}, written)
	assert.Equal(t, []string{"MVI   A,#$07", "STA   $2400", "STA   $4000", "STA   $0100"}, traced)
}

func TestReset(t *testing.T) {
	c := New(nil, nil, DefaultOptions())
	c.A, c.PC, c.SP = 1, 2, 3
	c.Flags.Z = true
	c.InterruptsEnabled = true
	c.Memory[0x3000] = 9
	c.Memory[0] = arch.HLT
	c.PC = 0
	c.Step()

	c.Reset()
	assert.Equal(t, Registers{}, c.Registers)
	assert.Equal(t, Flags{}, c.Flags)
	assert.False(t, c.InterruptsEnabled)
	assert.False(t, c.Halted())
	assert.Equal(t, byte(0), c.Memory[0x3000])
	assert.Equal(t, uint64(0), c.Cycles())
}

// opcodeOf returns the documented opcode with the given mnemonic and
// register arguments.
func opcodeOf(t *testing.T, name, args string) byte {
	t.Helper()
	for op := 0; op < 256; op++ {
		if info := arch.Lookup(byte(op)); info.Name == name && info.Args == args {
			return byte(op)
		}
	}
	t.Fatalf("no opcode %s %s", name, args)
	return 0
}

func evenParity(v byte) bool {
	n := 0
	for ; v > 0; v >>= 1 {
		n += int(v & 1)
	}
	return n%2 == 0
}

// runTest loads the program at address 0 and steps until HLT.
func runTest(t *testing.T, ct *codeTest, opts ...func(*Options)) *CPU {
	t.Helper()

	o := DefaultOptions()
	for _, f := range opts {
		f(&o)
	}

	c := New(nil, nil, o)
	c.SP = testStack
	c.Memory.Write(0, ct.program.Bytes())

	for i := 0; i < MemoryCapacity; i++ {
		if _, err := c.Step(); err != nil {
			if err == ErrHalted {
				return c
			}
			t.Fatalf("Step failure: %v", err)
		}
	}

	t.Fatalf("program did not halt")
	return nil
}

type codeTest struct {
	program bytes.Buffer
}

func newCodeTest() *codeTest {
	return &codeTest{}
}

func (ct *codeTest) emit(opcode byte, operand ...byte) {
	ct.program.WriteByte(opcode)
	ct.program.Write(operand)
}

// emit16 emits an instruction with a little-endian 16-bit operand.
func (ct *codeTest) emit16(opcode byte, v uint16) {
	ct.emit(opcode, byte(v), byte(v>>8))
}

// org pads the program with NOPs up to the given address.
func (ct *codeTest) org(addr int) {
	for ct.program.Len() < addr {
		ct.program.WriteByte(arch.NOP)
	}
}

type testPorts struct {
	in  map[byte]byte
	out [][2]byte
}

func (p *testPorts) In(port byte) byte { return p.in[port] }
func (p *testPorts) Out(port, value byte) {
	p.out = append(p.out, [2]byte{port, value})
}
