package core

// Compute evaluates one ALU operation. Both operands are treated as
// unsigned 32-bit values; signed semantics for multiply-high, divide and
// remainder are the caller's responsibility (the sequencer pre-negates
// negative operands and corrects the result sign).
//
// The result occupies the low 32 bits of the return value, except for
// AluMul which produces the full 64-bit unsigned product (low word = MUL,
// high word = the MULH-class result). Division by zero returns all ones
// for AluDivu and the dividend for AluRemu. Unknown op codes yield 0.
func Compute(op AluOp, in1, in2 uint32) uint64 {
	switch op {
	case AluAdd:
		return uint64(in1 + in2)
	case AluSub:
		return uint64(in1 - in2)
	case AluXor:
		return uint64(in1 ^ in2)
	case AluOr:
		return uint64(in1 | in2)
	case AluAnd:
		return uint64(in1 & in2)
	case AluSll:
		return uint64(in1 << (in2 & 0x1F))
	case AluSrl:
		return uint64(in1 >> (in2 & 0x1F))
	case AluSra:
		return uint64(uint32(int32(in1) >> (in2 & 0x1F)))
	case AluSlt:
		if int32(in1) < int32(in2) {
			return 1
		}
		return 0
	case AluSltu:
		if in1 < in2 {
			return 1
		}
		return 0
	case AluMul:
		return uint64(in1) * uint64(in2)
	case AluDivu:
		if in2 == 0 {
			return uint64(^uint32(0))
		}
		return uint64(in1 / in2)
	case AluRemu:
		if in2 == 0 {
			return uint64(in1)
		}
		return uint64(in1 % in2)
	case AluPass:
		return uint64(in2)
	case AluMaxu:
		if in1 > in2 {
			return uint64(in1)
		}
		return uint64(in2)
	case AluMinu:
		if in1 < in2 {
			return uint64(in1)
		}
		return uint64(in2)
	default:
		return 0
	}
}
