package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/core"
	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/insts"
)

var _ = Describe("Sequencer", func() {
	var (
		seq     *core.Sequencer
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		seq = core.NewSequencer()
		decoder = insts.NewDecoder()
	})

	Describe("arithmetic class", func() {
		// ADD x3, x1, x2 -> 0x002081B3
		It("should drive the ALU and enable write-back for ADD", func() {
			sig := seq.Cycle(core.Input{
				Inst: decoder.Decode(0x002081B3),
				RS1:  30,
				RS2:  12,
			})

			Expect(sig.AluOp).To(Equal(core.AluAdd))
			Expect(sig.AluIn1).To(Equal(uint32(30)))
			Expect(sig.AluIn2).To(Equal(uint32(12)))
			Expect(sig.RegWrite).To(BeTrue())
			Expect(sig.RegWriteData).To(Equal(uint32(42)))
			Expect(sig.MemWrite).To(BeFalse())
			Expect(sig.JumpEnable).To(BeFalse())
		})

		// ADDI x1, x2, -5 -> 0xFFB10093
		It("should use the immediate as operand 2 for ADDI", func() {
			sig := seq.Cycle(core.Input{
				Inst: decoder.Decode(0xFFB10093),
				RS1:  10,
				RS2:  0xDEAD, // must be ignored
			})

			Expect(sig.RegWriteData).To(Equal(uint32(5)))
		})

		// MULH x1, x2, x3 -> 0x023110B3
		It("should compute signed multiply-high via magnitudes", func() {
			inst := decoder.Decode(0x023110B3)
			Expect(inst.Op).To(Equal(insts.OpMULH))

			sig := seq.Cycle(core.Input{
				Inst: inst,
				RS1:  uint32(0xFFFFFFFE), // -2
				RS2:  3,
			})

			// -6 = 0xFFFFFFFF_FFFFFFFA; high word all ones.
			Expect(sig.RegWriteData).To(Equal(uint32(0xFFFFFFFF)))
			// The ALU itself saw magnitudes.
			Expect(sig.AluIn1).To(Equal(uint32(2)))
			Expect(sig.AluIn2).To(Equal(uint32(3)))
		})

		// DIV x10, x11, x12 -> 0x02C5C533
		It("should give signed divide sign-symmetry", func() {
			inst := decoder.Decode(0x02C5C533)

			negBoth := seq.Cycle(core.Input{
				Inst: inst,
				RS1:  0xFFFFFF9C, // -100
				RS2:  0xFFFFFFF9, // -7
			})
			posBoth := seq.Cycle(core.Input{
				Inst: inst,
				RS1:  100,
				RS2:  7,
			})
			mixed := seq.Cycle(core.Input{
				Inst: inst,
				RS1:  0xFFFFFF9C, // -100
				RS2:  7,
			})

			Expect(negBoth.RegWriteData).To(Equal(posBoth.RegWriteData))
			Expect(posBoth.RegWriteData).To(Equal(uint32(14)))
			Expect(int32(mixed.RegWriteData)).To(Equal(int32(-14)))
		})

		// REM x10, x11, x12 -> funct3=110 -> 0x02C5E533
		It("should sign the remainder by the dividend", func() {
			inst := decoder.Decode(0x02C5E533)
			Expect(inst.Op).To(Equal(insts.OpREM))

			sig := seq.Cycle(core.Input{
				Inst: inst,
				RS1:  0xFFFFFF9C, // -100
				RS2:  7,
			})

			Expect(int32(sig.RegWriteData)).To(Equal(int32(-2)))
		})
	})

	Describe("branch class", func() {
		// BEQ x1, x2, +8 -> 0x00208463
		It("should redirect to PC+imm when equal", func() {
			sig := seq.Cycle(core.Input{
				Inst: decoder.Decode(0x00208463),
				RS1:  5,
				RS2:  5,
				PC:   0x1000,
			})

			Expect(sig.JumpEnable).To(BeTrue())
			Expect(sig.JumpTarget).To(Equal(uint32(0x1008)))
			Expect(sig.RegWrite).To(BeFalse())
		})

		It("should not redirect when the condition fails", func() {
			sig := seq.Cycle(core.Input{
				Inst: decoder.Decode(0x00208463),
				RS1:  5,
				RS2:  6,
				PC:   0x1000,
			})

			Expect(sig.JumpEnable).To(BeFalse())
			Expect(sig.JumpTarget).To(Equal(uint32(0)))
		})

		// BLT x1, x2, +8 -> funct3=100 -> 0x0020C463
		It("should compare signed for BLT", func() {
			sig := seq.Cycle(core.Input{
				Inst: decoder.Decode(0x0020C463),
				RS1:  0xFFFFFFFF, // -1
				RS2:  0,
				PC:   0x1000,
			})

			Expect(sig.JumpEnable).To(BeTrue())
		})

		// BLTU x1, x2, +8 -> funct3=110 -> 0x0020E463
		It("should compare unsigned for BLTU", func() {
			sig := seq.Cycle(core.Input{
				Inst: decoder.Decode(0x0020E463),
				RS1:  0xFFFFFFFF, // largest unsigned
				RS2:  0,
				PC:   0x1000,
			})

			Expect(sig.JumpEnable).To(BeFalse())
		})
	})

	Describe("jump class", func() {
		// JAL x1, +16 -> 0x010000EF
		It("should link PC+4 and redirect for JAL", func() {
			sig := seq.Cycle(core.Input{
				Inst: decoder.Decode(0x010000EF),
				PC:   0x1000,
			})

			Expect(sig.JumpEnable).To(BeTrue())
			Expect(sig.JumpTarget).To(Equal(uint32(0x1010)))
			Expect(sig.RegWrite).To(BeTrue())
			Expect(sig.RegWriteData).To(Equal(uint32(0x1004)))
		})

		// JALR x0, x1, 0 -> 0x00008067
		It("should clear bit 0 of the JALR target", func() {
			sig := seq.Cycle(core.Input{
				Inst: decoder.Decode(0x00008067),
				RS1:  0x2001,
				PC:   0x1000,
			})

			Expect(sig.JumpTarget).To(Equal(uint32(0x2000)))
		})
	})

	Describe("load class", func() {
		// LW x6, 8(x2) -> 0x00812303
		It("should pass the sampled word through for LW", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x00812303),
				RS1:     0x100,
				MemWord: 0xCAFEBABE,
			})

			Expect(sig.MemAddr).To(Equal(uint32(0x108)))
			Expect(sig.RegWrite).To(BeTrue())
			Expect(sig.RegWriteData).To(Equal(uint32(0xCAFEBABE)))
			Expect(seq.MemBusy()).To(BeTrue())
			Expect(seq.MemPhase()).To(Equal(uint8(0)))
		})

		// LB x6, 1(x2) -> imm=1 funct3=000 -> 0x00110303
		It("should sign-extend the selected byte for LB", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x00110303),
				RS1:     0x100,
				MemWord: 0x0000F000, // byte 1 = 0xF0
			})

			Expect(sig.RegWriteData).To(Equal(uint32(0xFFFFFFF0)))
			Expect(seq.MemPhase()).To(Equal(uint8(1)))
		})

		// LHU x6, 2(x2) -> imm=2 funct3=101 -> 0x00215303
		It("should zero-extend the upper halfword for LHU", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x00215303),
				RS1:     0x100,
				MemWord: 0x8001FFFF,
			})

			Expect(sig.RegWriteData).To(Equal(uint32(0x8001)))
		})

		// LH x6, 1(x2) -> imm=1 funct3=001 -> 0x00111303
		It("should yield 0 for a halfword load at an odd offset", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x00111303),
				RS1:     0x100,
				MemWord: 0xFFFFFFFF,
			})

			Expect(sig.RegWrite).To(BeTrue())
			Expect(sig.RegWriteData).To(Equal(uint32(0)))
		})
	})

	Describe("store class", func() {
		// SW x5, 12(x2) -> 0x00512623
		It("should write rs2 through for SW", func() {
			sig := seq.Cycle(core.Input{
				Inst: decoder.Decode(0x00512623),
				RS1:  0x100,
				RS2:  0x11223344,
			})

			Expect(sig.MemWrite).To(BeTrue())
			Expect(sig.MemAddr).To(Equal(uint32(0x10C)))
			Expect(sig.MemWriteData).To(Equal(uint32(0x11223344)))
		})

		// SB x5, 1(x2) -> imm=1 funct3=000 -> 0x005100A3
		It("should merge a byte into the sampled word", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x005100A3),
				RS1:     0x100,
				RS2:     0xAB,
				MemWord: 0x11223344,
			})

			Expect(sig.MemWriteData).To(Equal(uint32(0x1122AB44)))
		})

		// SH x5, 1(x2) -> imm=1 funct3=001 -> 0x005110A3
		It("should leave the word unchanged for a halfword store at an odd offset", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x005110A3),
				RS1:     0x100,
				RS2:     0xBEEF,
				MemWord: 0x11223344,
			})

			Expect(sig.MemWrite).To(BeTrue())
			Expect(sig.MemWriteData).To(Equal(uint32(0x11223344)))
		})
	})

	Describe("atomic class", func() {
		// AMOADD.W x5, x6, (x7) -> 0x0063A2AF
		It("should write old+rs2 to memory and old to the register", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x0063A2AF),
				RS1:     0x200,
				RS2:     32,
				MemWord: 10,
			})

			Expect(sig.MemWrite).To(BeTrue())
			Expect(sig.MemAddr).To(Equal(uint32(0x200)))
			Expect(sig.MemWriteData).To(Equal(uint32(42)))
			Expect(sig.RegWrite).To(BeTrue())
			Expect(sig.RegWriteData).To(Equal(uint32(10)))
		})

		// AMOSWAP.W x10, x11, (x12) -> 0x08B6252F
		It("should pass rs2 through for AMOSWAP.W", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x08B6252F),
				RS1:     0x200,
				RS2:     7,
				MemWord: 99,
			})

			Expect(sig.MemWriteData).To(Equal(uint32(7)))
			Expect(sig.RegWriteData).To(Equal(uint32(99)))
		})
	})

	Describe("CSR class", func() {
		// CSRRW x5, mstatus, x6 -> 0x300312F3
		It("should write rs1 and return the prior value for CSRRW", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x300312F3),
				RS1:     0x8,
				CSRWord: 0x88,
			})

			Expect(sig.CSRAddr).To(Equal(uint16(0x300)))
			Expect(sig.CSRRead).To(BeTrue())
			Expect(sig.CSRWrite).To(BeTrue())
			Expect(sig.CSRWriteData).To(Equal(uint32(0x8)))
			Expect(sig.RegWrite).To(BeTrue())
			Expect(sig.RegWriteData).To(Equal(uint32(0x88)))
		})

		// CSRRSI x7, mie, 5 -> 0x3042E3F3
		It("should OR the immediate into the CSR for CSRRSI", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x3042E3F3),
				RS1:     0xDEAD, // immediate form ignores rs1
				CSRWord: 0x80,
			})

			Expect(sig.CSRWriteData).To(Equal(uint32(0x85)))
			Expect(sig.RegWriteData).To(Equal(uint32(0x80)))
		})

		// CSRRC x1, mie, x2 -> funct3=011, csr=0x304 -> 0x304130F3
		It("should clear bits for CSRRC", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x304130F3),
				RS1:     0x0F,
				CSRWord: 0xFF,
			})

			Expect(sig.CSRWriteData).To(Equal(uint32(0xF0)))
		})

		// CSRRS x1, 0x000, x2 -> 0x000120F3
		It("should never enable a write to CSR address 0", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x000120F3),
				RS1:     0xFF,
				CSRWord: 0,
			})

			Expect(sig.CSRWrite).To(BeFalse())
			Expect(sig.RegWrite).To(BeTrue())
		})
	})

	Describe("defaults", func() {
		It("should produce the all-zero bundle for an unmatched word", func() {
			sig := seq.Cycle(core.Input{
				Inst: decoder.Decode(0xFFFFFFFF),
				RS1:  1,
				RS2:  2,
			})

			Expect(sig).To(Equal(core.Signals{}))
		})

		// Load opcode with funct3=011 matches no variant.
		It("should produce the all-zero bundle for an unmatched load variant", func() {
			sig := seq.Cycle(core.Input{
				Inst:    decoder.Decode(0x04003003),
				RS1:     0x100,
				MemWord: 0xFFFFFFFF,
			})

			Expect(sig).To(Equal(core.Signals{}))
		})

		It("should produce the all-zero bundle for ECALL", func() {
			sig := seq.Cycle(core.Input{
				Inst: decoder.Decode(0x00000073),
			})

			Expect(sig).To(Equal(core.Signals{}))
		})

		It("should not let one instruction's signals leak into the next", func() {
			_ = seq.Cycle(core.Input{
				Inst: decoder.Decode(0x00512623), // SW
				RS1:  0x100,
				RS2:  1,
			})
			sig := seq.Cycle(core.Input{
				Inst: decoder.Decode(0x002081B3), // ADD
				RS1:  1,
				RS2:  2,
			})

			Expect(sig.MemWrite).To(BeFalse())
			Expect(sig.MemAddr).To(Equal(uint32(0)))
		})
	})

	Describe("fence", func() {
		It("should latch the fence status bit", func() {
			Expect(seq.FencePending()).To(BeFalse())

			_ = seq.Cycle(core.Input{
				Inst: decoder.Decode(0x0FF0000F),
			})

			Expect(seq.FencePending()).To(BeTrue())

			seq.Reset()
			Expect(seq.FencePending()).To(BeFalse())
		})
	})
})
