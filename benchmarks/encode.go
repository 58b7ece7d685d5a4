package benchmarks

// RV32 instruction encoders for building benchmark programs in code.
// Offsets for branches and jumps are in bytes, relative to the
// instruction's own address.

func encodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeI(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return uint32(imm)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeS(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	uimm := uint32(imm)
	return ((uimm>>5)&0x7F)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (uimm&0x1F)<<7 | opcode
}

func encodeB(opcode, funct3, rs1, rs2 uint32, offset int32) uint32 {
	uoff := uint32(offset)
	return ((uoff>>12)&0x1)<<31 |
		((uoff>>5)&0x3F)<<25 |
		rs2<<20 | rs1<<15 | funct3<<12 |
		((uoff>>1)&0xF)<<8 |
		((uoff>>11)&0x1)<<7 |
		opcode
}

// EncodeADDI encodes ADDI rd, rs1, imm.
func EncodeADDI(rd, rs1 uint32, imm int32) uint32 {
	return encodeI(0b0010011, rd, 0b000, rs1, imm)
}

// EncodeADD encodes ADD rd, rs1, rs2.
func EncodeADD(rd, rs1, rs2 uint32) uint32 {
	return encodeR(0b0110011, rd, 0b000, rs1, rs2, 0)
}

// EncodeMUL encodes MUL rd, rs1, rs2.
func EncodeMUL(rd, rs1, rs2 uint32) uint32 {
	return encodeR(0b0110011, rd, 0b000, rs1, rs2, 1)
}

// EncodeDIVU encodes DIVU rd, rs1, rs2.
func EncodeDIVU(rd, rs1, rs2 uint32) uint32 {
	return encodeR(0b0110011, rd, 0b101, rs1, rs2, 1)
}

// EncodeLW encodes LW rd, imm(rs1).
func EncodeLW(rd, rs1 uint32, imm int32) uint32 {
	return encodeI(0b0000011, rd, 0b010, rs1, imm)
}

// EncodeSW encodes SW rs2, imm(rs1).
func EncodeSW(rs2, rs1 uint32, imm int32) uint32 {
	return encodeS(0b0100011, 0b010, rs1, rs2, imm)
}

// EncodeBNE encodes BNE rs1, rs2, offset.
func EncodeBNE(rs1, rs2 uint32, offset int32) uint32 {
	return encodeB(0b1100011, 0b001, rs1, rs2, offset)
}

// EncodeJAL encodes JAL rd, offset.
func EncodeJAL(rd uint32, offset int32) uint32 {
	uoff := uint32(offset)
	return ((uoff>>20)&0x1)<<31 |
		((uoff>>1)&0x3FF)<<21 |
		((uoff>>11)&0x1)<<20 |
		((uoff>>12)&0xFF)<<12 |
		rd<<7 | 0b1101111
}

// EncodeJALR encodes JALR rd, rs1, imm.
func EncodeJALR(rd, rs1 uint32, imm int32) uint32 {
	return encodeI(0b1100111, rd, 0b000, rs1, imm)
}

// EncodeAMOADDW encodes AMOADD.W rd, rs2, (rs1).
func EncodeAMOADDW(rd, rs1, rs2 uint32) uint32 {
	return encodeR(0b0101111, rd, 0b010, rs1, rs2, 0)
}

// EncodeECALL encodes ECALL.
func EncodeECALL() uint32 {
	return 0x00000073
}

// BuildProgram packs instruction words into a little-endian byte image.
func BuildProgram(words ...uint32) []byte {
	img := make([]byte, len(words)*4)
	for i, w := range words {
		img[i*4] = byte(w)
		img[i*4+1] = byte(w >> 8)
		img[i*4+2] = byte(w >> 16)
		img[i*4+3] = byte(w >> 24)
	}
	return img
}

// exitSequence sets up the exit convention: a0 takes the value of reg,
// a7 takes the exit code 93, then ECALL terminates the run.
func exitSequence(reg uint32) []uint32 {
	return []uint32{
		EncodeADDI(10, reg, 0),
		EncodeADDI(17, 0, 93),
		EncodeECALL(),
	}
}
