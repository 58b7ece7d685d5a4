package core

// RegFile represents the RV32 general-purpose register file and the
// program counter. Both are owned by the surrounding system; the
// execution engine only sees their values as per-cycle inputs and drives
// write-back through the control signal bundle.
type RegFile struct {
	// X holds registers x0-x31. x0 is hardwired to zero.
	X [32]uint32

	// PC is the program counter.
	PC uint32
}

// Read reads a register value. Register 0 always reads as 0.
func (r *RegFile) Read(reg uint8) uint32 {
	if reg == 0 || reg >= 32 {
		return 0
	}
	return r.X[reg]
}

// Write writes a value to a register. Writes to register 0 are ignored.
func (r *RegFile) Write(reg uint8, value uint32) {
	if reg == 0 || reg >= 32 {
		return
	}
	r.X[reg] = value
}
