//go:build !statsview

package statsview

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnavailable(t *testing.T) {
	var buf bytes.Buffer
	Launch(&buf)
	assert.False(t, Available())
	assert.Empty(t, buf.String())
}
