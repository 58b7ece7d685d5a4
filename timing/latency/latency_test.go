package latency_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/insts"
	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/timing/latency"
)

var _ = Describe("Latency", func() {
	var (
		table   *latency.Table
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		table = latency.NewTable()
		decoder = insts.NewDecoder()
	})

	Describe("Default Timing Values", func() {
		It("should have correct ALU latency", func() {
			Expect(table.Config().ALULatency).To(Equal(uint64(1)))
		})

		It("should have correct load latency", func() {
			Expect(table.Config().LoadLatency).To(Equal(uint64(2)))
		})

		It("should have correct divide latency", func() {
			Expect(table.Config().DivideLatency).To(Equal(uint64(34)))
		})

		It("should have correct taken-redirect penalty", func() {
			Expect(table.TakenPenalty()).To(Equal(uint64(1)))
		})
	})

	Describe("Instruction Latencies", func() {
		// ADD x3, x1, x2 -> 0x002081B3
		It("should return the ALU cost for ADD", func() {
			inst := decoder.Decode(0x002081B3)
			Expect(table.GetLatency(inst)).To(Equal(uint64(1)))
		})

		// MUL x10, x11, x12 -> 0x02C58533
		It("should return the multiply cost for MUL", func() {
			inst := decoder.Decode(0x02C58533)
			Expect(table.GetLatency(inst)).To(Equal(uint64(4)))
		})

		// DIV x10, x11, x12 -> 0x02C5C533
		It("should return the divide cost for DIV", func() {
			inst := decoder.Decode(0x02C5C533)
			Expect(table.GetLatency(inst)).To(Equal(uint64(34)))
		})

		// LW x6, 8(x2) -> 0x00812303
		It("should return the load cost for LW", func() {
			inst := decoder.Decode(0x00812303)
			Expect(table.GetLatency(inst)).To(Equal(uint64(2)))
		})

		// SW x5, 12(x2) -> 0x00512623
		It("should return the store cost for SW", func() {
			inst := decoder.Decode(0x00512623)
			Expect(table.GetLatency(inst)).To(Equal(uint64(1)))
		})

		// AMOADD.W x5, x6, (x7) -> 0x0063A2AF
		It("should return the atomic cost for AMOADD.W", func() {
			inst := decoder.Decode(0x0063A2AF)
			Expect(table.GetLatency(inst)).To(Equal(uint64(3)))
		})

		// CSRRW x5, mstatus, x6 -> 0x300312F3
		It("should return the CSR cost for CSRRW", func() {
			inst := decoder.Decode(0x300312F3)
			Expect(table.GetLatency(inst)).To(Equal(uint64(2)))
		})

		It("should return 1 cycle for a nil instruction", func() {
			Expect(table.GetLatency(nil)).To(Equal(uint64(1)))
		})
	})

	Describe("Instruction Classification", func() {
		It("should classify loads and atomics as memory reads", func() {
			lw := decoder.Decode(0x00812303)  // LW
			amo := decoder.Decode(0x0063A2AF) // AMOADD.W
			add := decoder.Decode(0x002081B3) // ADD

			Expect(table.IsLoadOp(lw)).To(BeTrue())
			Expect(table.IsLoadOp(amo)).To(BeTrue())
			Expect(table.IsLoadOp(add)).To(BeFalse())
		})

		It("should classify stores and atomics as memory writes", func() {
			sw := decoder.Decode(0x00512623)  // SW
			amo := decoder.Decode(0x0063A2AF) // AMOADD.W

			Expect(table.IsStoreOp(sw)).To(BeTrue())
			Expect(table.IsStoreOp(amo)).To(BeTrue())
			Expect(table.IsMemoryOp(sw)).To(BeTrue())
		})

		It("should classify branches and jumps as redirects", func() {
			beq := decoder.Decode(0x00208463)  // BEQ
			jal := decoder.Decode(0x010000EF)  // JAL
			jalr := decoder.Decode(0x00008067) // JALR
			add := decoder.Decode(0x002081B3)  // ADD

			Expect(table.IsBranchOp(beq)).To(BeTrue())
			Expect(table.IsBranchOp(jal)).To(BeTrue())
			Expect(table.IsBranchOp(jalr)).To(BeTrue())
			Expect(table.IsBranchOp(add)).To(BeFalse())
		})
	})

	Describe("Custom Configuration", func() {
		It("should honor overridden values", func() {
			config := latency.DefaultTimingConfig()
			config.MultiplyLatency = 7
			custom := latency.NewTableWithConfig(config)

			inst := decoder.Decode(0x02C58533) // MUL
			Expect(custom.GetLatency(inst)).To(Equal(uint64(7)))
		})
	})
})
