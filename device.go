package plic

// Device is a 32-bit memory-mapped register window. Every access is a
// full-width, ordered load or store; implementations must not cache,
// combine, or reorder accesses relative to program order.
type Device interface {
	// Read32 reads the 32-bit register at byte offset off.
	Read32(off uint64) uint32
	// Write32 writes the 32-bit register at byte offset off.
	Write32(off uint64, value uint32)
	// Size returns the size of the register window in bytes.
	Size() uint64
}

// RegisterFile is a Device backed by ordinary memory. It stands in for the
// controller's register window in tests and host-side tooling. Reads of
// offsets past the end return 0 and writes to them are dropped, like
// accesses to unbacked controller address space.
type RegisterFile struct {
	words []uint32
}

// NewRegisterFile creates a register file covering size bytes, rounded up
// to a whole word.
func NewRegisterFile(size uint64) *RegisterFile {
	return &RegisterFile{words: make([]uint32, (size+3)/4)}
}

// Read32 implements Device.
func (r *RegisterFile) Read32(off uint64) uint32 {
	word := off / 4
	if word >= uint64(len(r.words)) {
		return 0
	}
	return r.words[word]
}

// Write32 implements Device.
func (r *RegisterFile) Write32(off uint64, value uint32) {
	word := off / 4
	if word >= uint64(len(r.words)) {
		return
	}
	r.words[word] = value
}

// Size implements Device.
func (r *RegisterFile) Size() uint64 {
	return uint64(len(r.words)) * 4
}

var _ Device = (*RegisterFile)(nil)
