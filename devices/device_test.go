package devices

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type testDevice struct {
	id       ID
	port     byte
	value    byte
	written  []byte
	startErr error
	started  bool
}

func (d *testDevice) ID() ID { return d.id }

func (d *testDevice) Startup() error {
	d.started = true
	return d.startErr
}

func (d *testDevice) Shutdown() error { return nil }

func (d *testDevice) ReadPort(port byte) (byte, bool) {
	return d.value, port == d.port
}

func (d *testDevice) WritePort(port, value byte) bool {
	if port != d.port {
		return false
	}
	d.written = append(d.written, value)
	return true
}

func TestConnect(t *testing.T) {
	assert := assert.New(t)

	var dm Map
	assert.True(dm.Connect(&testDevice{id: NewID(Midway, 1)}))
	assert.True(dm.Connect(&testDevice{id: NewID(Midway, 2)}))
	assert.False(dm.Connect(&testDevice{id: NewID(Midway, 1)}))
	assert.Len(dm, 2)
	assert.Equal(1, dm.Find(NewID(Midway, 2)))
	assert.Equal(-1, dm.Find(NewID(Midway, 3)))
}

func TestPortDispatch(t *testing.T) {
	assert := assert.New(t)

	a := &testDevice{id: NewID(Midway, 1), port: 1, value: 0x11}
	b := &testDevice{id: NewID(Midway, 2), port: 2, value: 0x22}
	dm := Map{a, b}

	assert.Equal(byte(0x11), dm.In(1))
	assert.Equal(byte(0x22), dm.In(2))
	assert.Equal(byte(0), dm.In(7), "unclaimed ports read zero")

	dm.Out(2, 0x99)
	dm.Out(7, 0x42)
	assert.Empty(a.written)
	assert.Equal([]byte{0x99}, b.written)
}

func TestStartupErrors(t *testing.T) {
	assert := assert.New(t)

	fail := errors.New("no such file")
	a := &testDevice{id: NewID(Midway, 1), startErr: fail}
	b := &testDevice{id: NewID(Midway, 2)}
	dm := Map{a, b}

	err := dm.Startup()
	assert.Error(err)
	assert.True(b.started, "startup continues past a failing device")

	set, ok := err.(ErrorSet)
	assert.True(ok)
	assert.Equal(1, set.Len())
	assert.True(errors.Is(set[0], fail))
	assert.Contains(err.Error(), "8080:0001")

	assert.NoError(dm.Shutdown())
}

func TestID(t *testing.T) {
	id := NewID(0x8080, 0x0004)
	assert.Equal(t, 0x8080, id.Manufacturer())
	assert.Equal(t, 4, id.Serial())
	assert.Equal(t, "8080:0004", id.String())
}
