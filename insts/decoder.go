// Package insts provides RV32 instruction definitions and decoding.
package insts

// Decoder decodes RV32 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit RV32 instruction word. Unsupported encodings
// yield an Instruction with Op == OpUnknown; the execution engine treats
// those as a defined no-op rather than an error.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Opcode: uint8(word & 0x7F),
		Rd:     uint8((word >> 7) & 0x1F),
		Rs1:    uint8((word >> 15) & 0x1F),
		Rs2:    uint8((word >> 20) & 0x1F),
	}

	switch inst.Opcode {
	case OpcodeOpReg:
		d.decodeOpReg(word, inst)
	case OpcodeOpImm:
		d.decodeOpImm(word, inst)
	case OpcodeLoad:
		d.decodeLoad(word, inst)
	case OpcodeStore:
		d.decodeStore(word, inst)
	case OpcodeBranch:
		d.decodeBranch(word, inst)
	case OpcodeJAL:
		inst.Op = OpJAL
		inst.Imm = immJ(word)
	case OpcodeJALR:
		if funct3(word) == 0b000 {
			inst.Op = OpJALR
			inst.Imm = immI(word)
		}
	case OpcodeLUI:
		inst.Op = OpLUI
		inst.Imm = immU(word)
	case OpcodeAUIPC:
		inst.Op = OpAUIPC
		inst.Imm = immU(word)
	case OpcodeAMO:
		d.decodeAMO(word, inst)
	case OpcodeSystem:
		d.decodeSystem(word, inst)
	case OpcodeFence:
		if funct3(word) == 0b000 {
			inst.Op = OpFENCE
		}
	}

	return inst
}

func funct3(word uint32) uint32 { return (word >> 12) & 0x7 }
func funct7(word uint32) uint32 { return (word >> 25) & 0x7F }

// immI extracts the sign-extended I-type immediate (bits [31:20]).
func immI(word uint32) int32 {
	return int32(word) >> 20
}

// immS extracts the sign-extended S-type immediate (bits [31:25|11:7]).
func immS(word uint32) int32 {
	return (int32(word)>>25)<<5 | int32((word>>7)&0x1F)
}

// immB extracts the sign-extended B-type branch offset.
func immB(word uint32) int32 {
	imm := (int32(word)>>31)<<12 |
		int32((word>>7)&0x1)<<11 |
		int32((word>>25)&0x3F)<<5 |
		int32((word>>8)&0xF)<<1
	return imm
}

// immU extracts the U-type immediate with its <<12 placement applied.
func immU(word uint32) int32 {
	return int32(word & 0xFFFFF000)
}

// immJ extracts the sign-extended J-type jump offset.
func immJ(word uint32) int32 {
	imm := (int32(word)>>31)<<20 |
		int32((word>>12)&0xFF)<<12 |
		int32((word>>20)&0x1)<<11 |
		int32((word>>21)&0x3FF)<<1
	return imm
}

func (d *Decoder) decodeOpReg(word uint32, inst *Instruction) {
	f3 := funct3(word)
	f7 := funct7(word)

	switch f7 {
	case 0b0000000:
		switch f3 {
		case 0b000:
			inst.Op = OpADD
		case 0b001:
			inst.Op = OpSLL
		case 0b010:
			inst.Op = OpSLT
		case 0b011:
			inst.Op = OpSLTU
		case 0b100:
			inst.Op = OpXOR
		case 0b101:
			inst.Op = OpSRL
		case 0b110:
			inst.Op = OpOR
		case 0b111:
			inst.Op = OpAND
		}
	case 0b0100000:
		switch f3 {
		case 0b000:
			inst.Op = OpSUB
		case 0b101:
			inst.Op = OpSRA
		}
	case 0b0000001:
		switch f3 {
		case 0b000:
			inst.Op = OpMUL
		case 0b001:
			inst.Op = OpMULH
		case 0b010:
			inst.Op = OpMULHSU
		case 0b011:
			inst.Op = OpMULHU
		case 0b100:
			inst.Op = OpDIV
		case 0b101:
			inst.Op = OpDIVU
		case 0b110:
			inst.Op = OpREM
		case 0b111:
			inst.Op = OpREMU
		}
	}
}

func (d *Decoder) decodeOpImm(word uint32, inst *Instruction) {
	inst.Imm = immI(word)

	switch funct3(word) {
	case 0b000:
		inst.Op = OpADDI
	case 0b010:
		inst.Op = OpSLTI
	case 0b011:
		inst.Op = OpSLTIU
	case 0b100:
		inst.Op = OpXORI
	case 0b110:
		inst.Op = OpORI
	case 0b111:
		inst.Op = OpANDI
	case 0b001:
		if funct7(word) == 0b0000000 {
			inst.Op = OpSLLI
			inst.Imm = int32(inst.Rs2) // shamt
		}
	case 0b101:
		switch funct7(word) {
		case 0b0000000:
			inst.Op = OpSRLI
			inst.Imm = int32(inst.Rs2)
		case 0b0100000:
			inst.Op = OpSRAI
			inst.Imm = int32(inst.Rs2)
		}
	}
}

func (d *Decoder) decodeLoad(word uint32, inst *Instruction) {
	inst.Imm = immI(word)

	switch funct3(word) {
	case 0b000:
		inst.Op = OpLB
	case 0b001:
		inst.Op = OpLH
	case 0b010:
		inst.Op = OpLW
	case 0b100:
		inst.Op = OpLBU
	case 0b101:
		inst.Op = OpLHU
	}
}

func (d *Decoder) decodeStore(word uint32, inst *Instruction) {
	inst.Imm = immS(word)

	switch funct3(word) {
	case 0b000:
		inst.Op = OpSB
	case 0b001:
		inst.Op = OpSH
	case 0b010:
		inst.Op = OpSW
	}
}

func (d *Decoder) decodeBranch(word uint32, inst *Instruction) {
	inst.Imm = immB(word)

	switch funct3(word) {
	case 0b000:
		inst.Op = OpBEQ
	case 0b001:
		inst.Op = OpBNE
	case 0b100:
		inst.Op = OpBLT
	case 0b101:
		inst.Op = OpBGE
	case 0b110:
		inst.Op = OpBLTU
	case 0b111:
		inst.Op = OpBGEU
	}
}

func (d *Decoder) decodeAMO(word uint32, inst *Instruction) {
	if funct3(word) != 0b010 {
		return // only word-width atomics
	}

	// funct5 selects the atomic variant; aq/rl bits are advisory in this
	// single-issue model and are ignored.
	switch (word >> 27) & 0x1F {
	case 0b00001:
		inst.Op = OpAMOSWAPW
	case 0b00000:
		inst.Op = OpAMOADDW
	case 0b00100:
		inst.Op = OpAMOXORW
	case 0b01100:
		inst.Op = OpAMOANDW
	case 0b01000:
		inst.Op = OpAMOORW
	case 0b11100:
		inst.Op = OpAMOMAXUW
	case 0b11000:
		inst.Op = OpAMOMINUW
	}
}

func (d *Decoder) decodeSystem(word uint32, inst *Instruction) {
	inst.CSR = uint16((word >> 20) & 0xFFF)
	inst.Zimm = uint32(inst.Rs1)

	switch funct3(word) {
	case 0b000:
		switch word >> 20 {
		case 0x000:
			if inst.Rs1 == 0 && inst.Rd == 0 {
				inst.Op = OpECALL
			}
		case 0x001:
			if inst.Rs1 == 0 && inst.Rd == 0 {
				inst.Op = OpEBREAK
			}
		case 0x302:
			if inst.Rs1 == 0 && inst.Rd == 0 {
				inst.Op = OpMRET
			}
		}
	case 0b001:
		inst.Op = OpCSRRW
	case 0b010:
		inst.Op = OpCSRRS
	case 0b011:
		inst.Op = OpCSRRC
	case 0b101:
		inst.Op = OpCSRRWI
	case 0b110:
		inst.Op = OpCSRRSI
	case 0b111:
		inst.Op = OpCSRRCI
	}
}
