package cpu

const (
	MemoryCapacity = 0x10000 // Size of the address space.
	ProtectedSize  = 0x2000  // Default size of the write-protected ROM region.
)

// Memory defines the system's memory bank.
//
// Accessors panic with a *Fault when an address falls outside the bank.
// Step recovers these and returns them as errors.
type Memory []byte

// NewMemory returns a zeroed memory bank covering the whole address space.
func NewMemory() Memory {
	return make(Memory, MemoryCapacity)
}

// U8 returns the 8-bit value at the given address.
func (m Memory) U8(addr int) byte {
	m.check(addr)
	return m[addr]
}

// SetU8 sets the 8-bit value at the given address.
func (m Memory) SetU8(addr int, value byte) {
	m.check(addr)
	m[addr] = value
}

// U16 returns the little-endian 16-bit value at the given address.
func (m Memory) U16(addr int) uint16 {
	return uint16(m.U8(addr)) | uint16(m.U8(addr+1))<<8
}

// SetU16 sets the 16-bit value at the given address in little-endian order.
func (m Memory) SetU16(addr int, value uint16) {
	m.check(addr + 1)
	m.SetU8(addr, byte(value))
	m.SetU8(addr+1, byte(value>>8))
}

// Write writes len(p) bytes from p into memory, starting at the given address.
func (m Memory) Write(address int, p []byte) {
	m.check(address)
	copy(m[address:], p)
}

// Read reads len(p) bytes from memory into p, starting at the given address.
func (m Memory) Read(address int, p []byte) {
	m.check(address)
	copy(p, m[address:])
}

// Clear zeroes the whole bank.
func (m Memory) Clear() {
	for i := range m {
		m[i] = 0
	}
}

func (m Memory) check(addr int) {
	if addr < 0 || addr >= len(m) {
		panic(&Fault{Kind: FaultAddress, Addr: addr})
	}
}
