package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hexaflex/i8080/cpu"
)

func TestVideoChains(t *testing.T) {
	assert := assert.New(t)

	a := NewVideo(4)
	b := NewVideo(4)
	assert.Equal(a.Hash(), b.Hash())

	a.NewFrame([]byte{1, 2, 3, 4})
	b.NewFrame([]byte{1, 2, 3, 4})
	assert.Equal(a.Hash(), b.Hash())

	first := a.Hash()
	a.NewFrame([]byte{1, 2, 3, 4})
	assert.NotEqual(first, a.Hash(), "identical frames still advance the chain")
	assert.Equal(2, a.Frames())

	b.NewFrame([]byte{1, 2, 3, 5})
	assert.NotEqual(a.Hash(), b.Hash())

	a.ResetDigest()
	assert.Equal(0, a.Frames())
	assert.Equal(NewVideo(4).Hash(), a.Hash())
}

func TestVideoPadding(t *testing.T) {
	a := NewVideo(4)
	b := NewVideo(4)
	a.NewFrame([]byte{1, 2})
	b.NewFrame([]byte{1, 2, 0, 0})
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestWriteTrace(t *testing.T) {
	assert := assert.New(t)

	c := cpu.New(nil, nil, cpu.DefaultOptions())
	wt := NewWriteTrace(8)
	c.Watch(0x2400, 0x4000, wt.Record)

	//   LXI H, $2400
	//   MVI M, $ff
	//   INX H
	//   MVI M, $0f
	//   MVI A, 1
	//   STA $1000
	//   HLT
	c.Memory.Write(0, []byte{
		0x21, 0x00, 0x24,
		0x36, 0xff,
		0x23,
		0x36, 0x0f,
		0x3e, 0x01,
		0x32, 0x00, 0x10,
		0x76,
	})

	for {
		if _, err := c.Step(); err != nil {
			assert.Equal(cpu.ErrHalted, err)
			break
		}
	}

	assert.Equal(2, wt.Len())
	assert.Equal([]Write{{0x2400, 0xff}, {0x2401, 0x0f}}, wt.Writes())

	other := NewWriteTrace(0)
	other.Record(0x2400, 0xff)
	other.Record(0x2401, 0x0f)
	assert.Equal(wt.Hash(), other.Hash())
	assert.Empty(other.Writes())

	other.ResetDigest()
	assert.Equal(NewWriteTrace(0).Hash(), other.Hash())
}

func TestWriteTraceGolden(t *testing.T) {
	assert := assert.New(t)

	c := cpu.New(nil, nil, cpu.DefaultOptions())
	wt := NewWriteTrace(0)
	c.Watch(0x2400, 0x4000, wt.Record)

	//   LXI H, $2400
	//   MVI B, 0
	// loop:
	//   MOV M, B
	//   INX H
	//   INR B
	//   JNZ loop
	//   HLT
	c.Memory.Write(0, []byte{
		0x21, 0x00, 0x24,
		0x06, 0x00,
		0x70,
		0x23,
		0x04,
		0xc2, 0x05, 0x00,
		0x76,
	})

	for {
		if _, err := c.Step(); err != nil {
			assert.Equal(cpu.ErrHalted, err)
			break
		}
	}

	assert.Equal(256, wt.Len())
	assert.Equal("d8778b5575c3e303f257a6cdab8fed74777e6273", wt.Hash())

	short := NewWriteTrace(0)
	short.Record(0x2400, 0xff)
	short.Record(0x2401, 0x0f)
	assert.Equal("1821ad57d71c572c62f0a99122170488be7541ba", short.Hash())
}
