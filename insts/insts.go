// Package insts provides RV32 instruction definitions and decoding.
package insts

// Op identifies one instruction variant. Exactly one Op matches a decoded
// instruction word, so dispatch over Op replaces the one-hot selector
// vector a hardware decoder would produce: an instruction is never
// unmatched or multiply matched.
type Op uint16

// RV32IMA + Zicsr instruction variants.
const (
	OpUnknown Op = iota

	// Register-register arithmetic (opcode 0110011), including RV32M.
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU

	// Register-immediate arithmetic (opcode 0010011).
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI

	// Loads (opcode 0000011).
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU

	// Stores (opcode 0100011).
	OpSB
	OpSH
	OpSW

	// Conditional branches (opcode 1100011).
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU

	// Jumps and upper-immediate formation.
	OpJAL
	OpJALR
	OpLUI
	OpAUIPC

	// Word atomics (opcode 0101111).
	OpAMOSWAPW
	OpAMOADDW
	OpAMOXORW
	OpAMOANDW
	OpAMOORW
	OpAMOMAXUW
	OpAMOMINUW

	// System (opcode 1110011).
	OpCSRRW
	OpCSRRS
	OpCSRRC
	OpCSRRWI
	OpCSRRSI
	OpCSRRCI
	OpECALL
	OpEBREAK
	OpMRET

	// Memory ordering (opcode 0001111).
	OpFENCE
)

// Major opcodes (instruction word bits [6:0]).
const (
	OpcodeOpReg  uint8 = 0b0110011
	OpcodeOpImm  uint8 = 0b0010011
	OpcodeLoad   uint8 = 0b0000011
	OpcodeStore  uint8 = 0b0100011
	OpcodeBranch uint8 = 0b1100011
	OpcodeJAL    uint8 = 0b1101111
	OpcodeJALR   uint8 = 0b1100111
	OpcodeLUI    uint8 = 0b0110111
	OpcodeAUIPC  uint8 = 0b0010111
	OpcodeAMO    uint8 = 0b0101111
	OpcodeSystem uint8 = 0b1110011
	OpcodeFence  uint8 = 0b0001111
)

// Instruction represents a decoded RV32 instruction. It is produced once
// per instruction word and is immutable for the instruction's lifetime.
type Instruction struct {
	Op     Op    // Instruction variant
	Opcode uint8 // Major opcode, bits [6:0]

	Rd  uint8 // Destination register
	Rs1 uint8 // First source register
	Rs2 uint8 // Second source register

	// Imm is the immediate, sign-extended per encoding format. U-type
	// immediates already carry the <<12 placement.
	Imm int32

	// CSR is the control/status register address (system instructions).
	CSR uint16

	// Zimm is the zero-extended rs1 field used by the CSR immediate forms.
	Zimm uint32
}

// IsCSR reports whether the instruction is one of the six CSR access
// variants (as opposed to ECALL/EBREAK/MRET on the same opcode).
func (i *Instruction) IsCSR() bool {
	switch i.Op {
	case OpCSRRW, OpCSRRS, OpCSRRC, OpCSRRWI, OpCSRRSI, OpCSRRCI:
		return true
	}
	return false
}
