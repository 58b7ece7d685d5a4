// Package core implements the instruction-execution engine of the
// ApexCore RV32 processor: the ALU, the execution sequencer, the CSR and
// trap unit, and the memory-mapped data store.
package core

// AluOp selects one of the sixteen ALU operations.
type AluOp uint8

// ALU operation codes.
const (
	AluAdd AluOp = iota
	AluSub
	AluXor
	AluOr
	AluAnd
	AluSll
	AluSrl
	AluSra
	AluSlt
	AluSltu
	AluMul
	AluDivu
	AluRemu
	AluPass
	AluMaxu
	AluMinu
)

// Signals is the control bundle the sequencer produces. It is recomputed
// from scratch every cycle: signal groups not selected by the current
// major opcode stay zero, so no output can carry a stale "active" value
// from a previous, differently-typed instruction.
type Signals struct {
	// ALU operand pair and operation, as driven for this cycle.
	AluOp  AluOp
	AluIn1 uint32
	AluIn2 uint32

	// Data store interface.
	MemAddr      uint32
	MemWriteData uint32
	MemWrite     bool

	// Register file interface.
	RegWrite     bool
	RegWriteData uint32

	// Control-flow redirect.
	JumpEnable bool
	JumpTarget uint32

	// CSR interface.
	CSRAddr      uint16
	CSRRead      bool
	CSRWrite     bool
	CSRWriteData uint32
}
