package core

import (
	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/insts"
)

// Input carries the live values the sequencer consumes each tick. All
// fields are sampled from the previous tick's committed state; the
// sequencer never reads architectural state directly.
type Input struct {
	// Inst is the decoded instruction, immutable for its lifetime.
	Inst *insts.Instruction

	// RS1 and RS2 are the source register values.
	RS1 uint32
	RS2 uint32

	// PC is the program counter of the instruction.
	PC uint32

	// MemWord is the word the data store currently presents at the
	// address this instruction drives (combinational read sample).
	MemWord uint32

	// CSRWord is the CSR value presented at the instruction's CSR address.
	CSRWord uint32
}

// Sequencer is the execution control unit. It is a decision table keyed
// first on the major opcode, then on the instruction variant within that
// class. The only state it retains across cycles is the explicit
// sequencing state below; every output signal is recomputed per cycle.
type Sequencer struct {
	memBusy      bool
	memPhase     uint8
	fencePending bool
}

// NewSequencer creates a sequencer with cleared sequencing state.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// MemBusy reports whether a load/store completed this cycle. It is a
// status bit only; nothing in this single-issue design stalls on it.
func (s *Sequencer) MemBusy() bool {
	return s.memBusy
}

// MemPhase returns the byte offset within the word of the most recent
// memory access (0-3).
func (s *Sequencer) MemPhase() uint8 {
	return s.memPhase
}

// FencePending reports whether a fence has been issued. Advisory only:
// no reordering exists in this model for a fence to order.
func (s *Sequencer) FencePending() bool {
	return s.fencePending
}

// Reset clears the sequencing state.
func (s *Sequencer) Reset() {
	s.memBusy = false
	s.memPhase = 0
	s.fencePending = false
}

// Cycle computes the control signal bundle for one instruction. The
// bundle starts from all-zero every call, so an opcode/variant pair that
// matches nothing deterministically produces the all-zero bundle.
func (s *Sequencer) Cycle(in Input) Signals {
	var sig Signals

	switch in.Inst.Opcode {
	case insts.OpcodeOpReg, insts.OpcodeOpImm:
		s.cycleArith(in, &sig)
	case insts.OpcodeLoad:
		s.cycleLoad(in, &sig)
	case insts.OpcodeStore:
		s.cycleStore(in, &sig)
	case insts.OpcodeBranch:
		s.cycleBranch(in, &sig)
	case insts.OpcodeJAL:
		sig.JumpEnable = true
		sig.JumpTarget = in.PC + uint32(in.Inst.Imm)
		sig.RegWrite = true
		sig.RegWriteData = in.PC + 4
	case insts.OpcodeJALR:
		sig.JumpEnable = true
		sig.JumpTarget = (in.RS1 + uint32(in.Inst.Imm)) &^ 1
		sig.RegWrite = true
		sig.RegWriteData = in.PC + 4
	case insts.OpcodeLUI:
		sig.RegWrite = true
		sig.RegWriteData = uint32(in.Inst.Imm)
	case insts.OpcodeAUIPC:
		sig.RegWrite = true
		sig.RegWriteData = in.PC + uint32(in.Inst.Imm)
	case insts.OpcodeAMO:
		s.cycleAtomic(in, &sig)
	case insts.OpcodeSystem:
		s.cycleCSR(in, &sig)
	case insts.OpcodeFence:
		if in.Inst.Op == insts.OpFENCE {
			s.fencePending = true
		}
	}

	return sig
}

// arithAluOp maps an arithmetic instruction variant to its ALU code.
// Boolean results report whether the variant matched and whether it
// belongs to the multiply/divide class needing sign treatment.
func arithAluOp(op insts.Op) (aluOp AluOp, ok bool) {
	switch op {
	case insts.OpADD, insts.OpADDI:
		return AluAdd, true
	case insts.OpSUB:
		return AluSub, true
	case insts.OpXOR, insts.OpXORI:
		return AluXor, true
	case insts.OpOR, insts.OpORI:
		return AluOr, true
	case insts.OpAND, insts.OpANDI:
		return AluAnd, true
	case insts.OpSLL, insts.OpSLLI:
		return AluSll, true
	case insts.OpSRL, insts.OpSRLI:
		return AluSrl, true
	case insts.OpSRA, insts.OpSRAI:
		return AluSra, true
	case insts.OpSLT, insts.OpSLTI:
		return AluSlt, true
	case insts.OpSLTU, insts.OpSLTIU:
		return AluSltu, true
	case insts.OpMUL, insts.OpMULH, insts.OpMULHSU, insts.OpMULHU:
		return AluMul, true
	case insts.OpDIV, insts.OpDIVU:
		return AluDivu, true
	case insts.OpREM, insts.OpREMU:
		return AluRemu, true
	}
	return 0, false
}

// cycleArith handles the two arithmetic opcode classes. Operand 2 is rs2
// for the register-register class and the immediate for the
// register-immediate class; the op logic is shared.
func (s *Sequencer) cycleArith(in Input, sig *Signals) {
	op := in.Inst.Op

	aluOp, ok := arithAluOp(op)
	if !ok {
		return
	}

	in1 := in.RS1
	in2 := in.RS2
	if in.Inst.Opcode == insts.OpcodeOpImm {
		in2 = uint32(in.Inst.Imm)
	}

	// Signed multiply-high / divide / remainder are computed on
	// magnitudes: each signed operand with its sign bit set is negated
	// before the ALU, and the result is negated back iff exactly one
	// signed operand was negative. Negating twice is the identity, so
	// op(-a,-b) == op(a,b).
	negate := false
	switch op {
	case insts.OpMULH, insts.OpDIV, insts.OpREM:
		n1 := int32(in1) < 0
		n2 := int32(in2) < 0
		if n1 {
			in1 = ^in1 + 1
		}
		if n2 {
			in2 = ^in2 + 1
		}
		negate = n1 != n2
	case insts.OpMULHSU:
		// Only operand 1 is signed.
		if int32(in1) < 0 {
			in1 = ^in1 + 1
			negate = true
		}
	}

	sig.AluOp = aluOp
	sig.AluIn1 = in1
	sig.AluIn2 = in2

	result := Compute(aluOp, in1, in2)

	var data uint32
	switch op {
	case insts.OpMULH, insts.OpMULHSU, insts.OpMULHU:
		if negate {
			result = ^result + 1
		}
		data = uint32(result >> 32)
	case insts.OpDIV, insts.OpDIVU, insts.OpREM, insts.OpREMU:
		data = uint32(result)
		if negate {
			data = ^data + 1
		}
	default:
		data = uint32(result)
	}

	// Register write-back is always enabled for the arithmetic classes.
	sig.RegWrite = true
	sig.RegWriteData = data
}

func (s *Sequencer) cycleLoad(in Input, sig *Signals) {
	addr := in.RS1 + uint32(in.Inst.Imm)
	offset := addr & 3

	word := in.MemWord
	var data uint32
	switch in.Inst.Op {
	case insts.OpLB:
		data = uint32(int32(int8(word >> (8 * offset))))
	case insts.OpLBU:
		data = uint32(uint8(word >> (8 * offset)))
	case insts.OpLH:
		// Halfword loads are defined for offsets 0 and 2 only; odd
		// offsets yield 0.
		if offset == 0 || offset == 2 {
			data = uint32(int32(int16(word >> (8 * offset))))
		}
	case insts.OpLHU:
		if offset == 0 || offset == 2 {
			data = uint32(uint16(word >> (8 * offset)))
		}
	case insts.OpLW:
		data = word
	default:
		return
	}

	sig.MemAddr = addr
	sig.RegWrite = true
	sig.RegWriteData = data

	// Completion is signaled within the same cycle; no stall follows.
	s.memBusy = true
	s.memPhase = uint8(offset)
}

func (s *Sequencer) cycleStore(in Input, sig *Signals) {
	addr := in.RS1 + uint32(in.Inst.Imm)
	offset := addr & 3

	old := in.MemWord
	var data uint32
	switch in.Inst.Op {
	case insts.OpSB:
		shift := 8 * offset
		data = old&^(0xFF<<shift) | (in.RS2&0xFF)<<shift
	case insts.OpSH:
		// Halfword stores merge at even offsets only.
		if offset != 0 && offset != 2 {
			data = old
			break
		}
		shift := 8 * offset
		data = old&^(0xFFFF<<shift) | (in.RS2&0xFFFF)<<shift
	case insts.OpSW:
		data = in.RS2
	default:
		return
	}

	sig.MemAddr = addr
	sig.MemWriteData = data
	sig.MemWrite = true

	s.memBusy = true
	s.memPhase = uint8(offset)
}

func (s *Sequencer) cycleBranch(in Input, sig *Signals) {
	var taken bool
	switch in.Inst.Op {
	case insts.OpBEQ:
		taken = in.RS1 == in.RS2
	case insts.OpBNE:
		taken = in.RS1 != in.RS2
	case insts.OpBLT:
		taken = int32(in.RS1) < int32(in.RS2)
	case insts.OpBGE:
		taken = int32(in.RS1) >= int32(in.RS2)
	case insts.OpBLTU:
		taken = in.RS1 < in.RS2
	case insts.OpBGEU:
		taken = in.RS1 >= in.RS2
	default:
		return
	}

	if taken {
		sig.JumpEnable = true
		sig.JumpTarget = in.PC + uint32(in.Inst.Imm)
	}
}

// cycleAtomic implements the word atomics: the sampled memory word and
// rs2 are combined by the ALU, the result is written back to memory at
// rs1, and the original word becomes the register write-back value. The
// surrounding system commits the write in the same tick, so no other
// access to the address can intervene.
func (s *Sequencer) cycleAtomic(in Input, sig *Signals) {
	var aluOp AluOp
	switch in.Inst.Op {
	case insts.OpAMOSWAPW:
		aluOp = AluPass
	case insts.OpAMOADDW:
		aluOp = AluAdd
	case insts.OpAMOXORW:
		aluOp = AluXor
	case insts.OpAMOANDW:
		aluOp = AluAnd
	case insts.OpAMOORW:
		aluOp = AluOr
	case insts.OpAMOMAXUW:
		aluOp = AluMaxu
	case insts.OpAMOMINUW:
		aluOp = AluMinu
	default:
		return
	}

	sig.AluOp = aluOp
	sig.AluIn1 = in.MemWord
	sig.AluIn2 = in.RS2

	sig.MemAddr = in.RS1
	sig.MemWriteData = uint32(Compute(aluOp, in.MemWord, in.RS2))
	sig.MemWrite = true

	sig.RegWrite = true
	sig.RegWriteData = in.MemWord
}

// cycleCSR handles the six CSR access variants. The register write-back
// always receives the CSR's prior value; address 0 is a no-op CSR, so
// writes to it are never enabled. ECALL, EBREAK and MRET produce no
// data-path signals here; their trap sequencing lives in the CSR unit.
func (s *Sequencer) cycleCSR(in Input, sig *Signals) {
	operand := in.RS1
	switch in.Inst.Op {
	case insts.OpCSRRWI, insts.OpCSRRSI, insts.OpCSRRCI:
		operand = in.Inst.Zimm
	}

	var next uint32
	switch in.Inst.Op {
	case insts.OpCSRRW, insts.OpCSRRWI:
		next = operand
	case insts.OpCSRRS, insts.OpCSRRSI:
		next = in.CSRWord | operand
	case insts.OpCSRRC, insts.OpCSRRCI:
		next = in.CSRWord &^ operand
	default:
		return
	}

	sig.CSRAddr = in.Inst.CSR
	sig.CSRRead = true
	sig.CSRWrite = in.Inst.CSR != 0
	sig.CSRWriteData = next

	sig.RegWrite = true
	sig.RegWriteData = in.CSRWord
}
