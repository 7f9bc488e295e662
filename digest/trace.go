package digest

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"hash"
)

// Write is a single recorded memory write.
type Write struct {
	Addr  int
	Value byte
}

// WriteTrace records every accepted write into a memory range, in order.
// Attach Record to a cpu.CPU with Watch.
type WriteTrace struct {
	h     hash.Hash
	keep  int
	log   []Write
	count int
}

var _ Digest = &WriteTrace{}

// NewWriteTrace creates a trace. The first keep writes are retained for
// inspection with Writes; all writes go into the hash.
func NewWriteTrace(keep int) *WriteTrace {
	return &WriteTrace{h: sha1.New(), keep: keep}
}

// Record adds a write to the trace.
func (wt *WriteTrace) Record(addr int, value byte) {
	var rec [3]byte
	binary.LittleEndian.PutUint16(rec[:], uint16(addr))
	rec[2] = value
	wt.h.Write(rec[:])

	if len(wt.log) < wt.keep {
		wt.log = append(wt.log, Write{Addr: addr, Value: value})
	}
	wt.count++
}

// Writes returns the retained writes.
func (wt *WriteTrace) Writes() []Write {
	return wt.log
}

// Len returns the number of writes recorded.
func (wt *WriteTrace) Len() int {
	return wt.count
}

// Hash implements the Digest interface.
func (wt *WriteTrace) Hash() string {
	return fmt.Sprintf("%x", wt.h.Sum(nil))
}

// ResetDigest implements the Digest interface.
func (wt *WriteTrace) ResetDigest() {
	wt.h.Reset()
	wt.log = wt.log[:0]
	wt.count = 0
}
