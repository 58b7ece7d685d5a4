package core

// I/O window layout: 16 byte-addressable registers immediately above
// base+0xF0, one cell per address.
const (
	ioWindowOffset uint32 = 0xF0
	ioWindowSize   uint32 = 16
)

// DefaultMemoryWords is the RAM size used when none is configured. It
// fills the address space below the I/O window exactly.
const DefaultMemoryWords = int(ioWindowOffset) / 4

// DataStore models the memory-mapped data memory: a word-addressed RAM
// window and a small byte-addressable I/O register bank sharing one
// 32-bit address space, partitioned by fixed address ranges.
//
// Reads are combinational: they return the currently committed contents.
// Writes latch and take effect at the next Tick, so a read of an address
// with a same-tick pending write observes the pre-write value.
type DataStore struct {
	base  uint32
	words []uint32
	io    [ioWindowSize]uint8

	pendingWrite bool
	pendingAddr  uint32
	pendingValue uint32
}

// NewDataStore creates a data store with a RAM window of the given number
// of words starting at base. The I/O window sits at base+0xF0..base+0xFF
// regardless of the RAM size.
func NewDataStore(base uint32, memoryWords int) *DataStore {
	if memoryWords <= 0 {
		memoryWords = DefaultMemoryWords
	}
	return &DataStore{
		base:  base,
		words: make([]uint32, memoryWords),
	}
}

// Base returns the start of the RAM window.
func (d *DataStore) Base() uint32 {
	return d.base
}

// IOBase returns the first address of the I/O window.
func (d *DataStore) IOBase() uint32 {
	return d.base + ioWindowOffset
}

func (d *DataStore) inIO(addr uint32) bool {
	return addr >= d.base+ioWindowOffset && addr < d.base+ioWindowOffset+ioWindowSize
}

func (d *DataStore) inRAM(addr uint32) bool {
	return addr >= d.base && addr < d.base+uint32(len(d.words))*4
}

// Read returns the word the store currently presents for addr. RAM reads
// return the full word containing addr; I/O reads present the addressed
// register in its byte lane, so sub-word extraction at addr&3 sees it.
// Addresses outside both windows read as 0.
func (d *DataStore) Read(addr uint32) uint32 {
	if d.inIO(addr) {
		return uint32(d.io[addr-(d.base+ioWindowOffset)]) << (8 * (addr & 3))
	}
	if d.inRAM(addr) {
		return d.words[(addr-d.base)/4]
	}
	return 0
}

// Write latches a write that commits at the next Tick. Writes with enable
// deasserted, and writes outside both windows, are dropped.
func (d *DataStore) Write(addr uint32, value uint32, enable bool) {
	if !enable {
		return
	}
	d.pendingWrite = true
	d.pendingAddr = addr
	d.pendingValue = value
}

// Tick commits the latched write, routing it to RAM or I/O by the same
// window test the read path uses.
func (d *DataStore) Tick() {
	if !d.pendingWrite {
		return
	}
	d.pendingWrite = false

	addr, value := d.pendingAddr, d.pendingValue
	switch {
	case d.inIO(addr):
		// The register takes its byte lane of the written word, matching
		// the lane the read path presents it in.
		d.io[addr-(d.base+ioWindowOffset)] = uint8(value >> (8 * (addr & 3)))
	case d.inRAM(addr):
		d.words[(addr-d.base)/4] = value
	}
	// Out-of-window writes go nowhere.
}

// LoadImage preloads RAM with a little-endian byte image starting at
// addr. Bytes falling outside the RAM window are ignored. Intended for
// startup only; it bypasses the write latch.
func (d *DataStore) LoadImage(addr uint32, data []byte) {
	for i, b := range data {
		a := addr + uint32(i)
		if !d.inRAM(a) {
			continue
		}
		idx := (a - d.base) / 4
		shift := (a & 3) * 8
		d.words[idx] = d.words[idx]&^(0xFF<<shift) | uint32(b)<<shift
	}
}
