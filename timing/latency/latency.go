// Package latency provides per-instruction cycle costs for the ApexCore
// timing estimate. The functional engine is untouched by these values;
// they only feed the advisory timing report.
package latency

import (
	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a latency table with the default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a latency table with a custom configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution cost in cycles for the instruction.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch inst.Op {
	case insts.OpMUL, insts.OpMULH, insts.OpMULHSU, insts.OpMULHU:
		return t.config.MultiplyLatency

	case insts.OpDIV, insts.OpDIVU, insts.OpREM, insts.OpREMU:
		return t.config.DivideLatency

	case insts.OpLB, insts.OpLH, insts.OpLW, insts.OpLBU, insts.OpLHU:
		return t.config.LoadLatency

	case insts.OpSB, insts.OpSH, insts.OpSW:
		return t.config.StoreLatency

	case insts.OpBEQ, insts.OpBNE, insts.OpBLT, insts.OpBGE,
		insts.OpBLTU, insts.OpBGEU, insts.OpJAL, insts.OpJALR:
		return t.config.BranchLatency

	case insts.OpAMOSWAPW, insts.OpAMOADDW, insts.OpAMOXORW,
		insts.OpAMOANDW, insts.OpAMOORW, insts.OpAMOMAXUW, insts.OpAMOMINUW:
		return t.config.AtomicLatency

	case insts.OpCSRRW, insts.OpCSRRS, insts.OpCSRRC,
		insts.OpCSRRWI, insts.OpCSRRSI, insts.OpCSRRCI,
		insts.OpECALL, insts.OpEBREAK, insts.OpMRET:
		return t.config.CSRLatency

	case insts.OpFENCE:
		return t.config.FenceLatency

	default:
		return t.config.ALULatency
	}
}

// TakenPenalty returns the extra cycles charged for a taken redirect.
func (t *Table) TakenPenalty() uint64 {
	return t.config.BranchTakenPenalty
}

// IsMemoryOp returns true if the instruction accesses data memory.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Opcode {
	case insts.OpcodeLoad, insts.OpcodeStore, insts.OpcodeAMO:
		return true
	default:
		return false
	}
}

// IsLoadOp returns true if the instruction reads data memory.
func (t *Table) IsLoadOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Opcode == insts.OpcodeLoad || inst.Opcode == insts.OpcodeAMO
}

// IsStoreOp returns true if the instruction writes data memory.
func (t *Table) IsStoreOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Opcode == insts.OpcodeStore || inst.Opcode == insts.OpcodeAMO
}

// IsBranchOp returns true if the instruction may redirect control flow.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Opcode {
	case insts.OpcodeBranch, insts.OpcodeJAL, insts.OpcodeJALR:
		return true
	default:
		return false
	}
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
