// Package benchmarks provides timing benchmark infrastructure for
// ApexCore calibration.
package benchmarks

// Benchmark is one self-checking workload: an encoded program plus the
// exit code a correct run must produce.
type Benchmark struct {
	Name         string
	Description  string
	Program      []byte
	ExpectedExit int64
}

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each
// one targets a specific characteristic of the core.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memorySequential(),
		branchTaken(),
		multiplyDivide(),
		atomicIncrement(),
	}
}

// 1. Arithmetic Sequential - independent ADDIs across registers.
func arithmeticSequential() Benchmark {
	words := make([]uint32, 0, 23)
	for round := 0; round < 5; round++ {
		for reg := uint32(1); reg <= 4; reg++ {
			words = append(words, EncodeADDI(reg, reg, 1))
		}
	}
	words = append(words, exitSequence(1)...)

	return Benchmark{
		Name:         "arithmetic_sequential",
		Description:  "20 independent ADDI operations across four registers",
		Program:      BuildProgram(words...),
		ExpectedExit: 5,
	}
}

// 2. Dependency Chain - every ADDI reads the previous result.
func dependencyChain() Benchmark {
	words := make([]uint32, 0, 23)
	for i := 0; i < 20; i++ {
		words = append(words, EncodeADDI(1, 1, 1))
	}
	words = append(words, exitSequence(1)...)

	return Benchmark{
		Name:         "dependency_chain",
		Description:  "20 chained ADDI operations on one register",
		Program:      BuildProgram(words...),
		ExpectedExit: 20,
	}
}

// 3. Memory Sequential - store/load pairs over consecutive words.
func memorySequential() Benchmark {
	words := []uint32{
		EncodeADDI(5, 0, 0x40), // base
		EncodeADDI(6, 0, 7),
	}
	for i := int32(0); i < 4; i++ {
		words = append(words,
			EncodeSW(6, 5, i*4),
			EncodeLW(7, 5, i*4),
			EncodeADD(8, 8, 7),
		)
	}
	words = append(words, exitSequence(8)...)

	return Benchmark{
		Name:         "memory_sequential",
		Description:  "store/load pairs over four consecutive words",
		Program:      BuildProgram(words...),
		ExpectedExit: 28,
	}
}

// 4. Branch Taken - a countdown loop with a taken backward branch.
func branchTaken() Benchmark {
	words := []uint32{
		EncodeADDI(5, 0, 8),
		EncodeADDI(6, 0, 0),
		EncodeADDI(6, 6, 1), // loop
		EncodeADDI(5, 5, -1),
		EncodeBNE(5, 0, -8),
	}
	words = append(words, exitSequence(6)...)

	return Benchmark{
		Name:         "branch_taken",
		Description:  "countdown loop, eight taken backward branches",
		Program:      BuildProgram(words...),
		ExpectedExit: 8,
	}
}

// 5. Multiply/Divide - exercises the long-latency arithmetic classes.
func multiplyDivide() Benchmark {
	words := []uint32{
		EncodeADDI(1, 0, 6),
		EncodeADDI(2, 0, 7),
		EncodeMUL(3, 1, 2), // 42
		EncodeADDI(4, 0, 2),
		EncodeDIVU(5, 3, 4), // 21
	}
	words = append(words, exitSequence(5)...)

	return Benchmark{
		Name:         "multiply_divide",
		Description:  "multiply followed by unsigned divide",
		Program:      BuildProgram(words...),
		ExpectedExit: 21,
	}
}

// 6. Atomic Increment - amoadd.w in a loop against one word.
func atomicIncrement() Benchmark {
	words := []uint32{
		EncodeADDI(5, 0, 0x40), // counter address
		EncodeADDI(6, 0, 1),
		EncodeADDI(7, 0, 10),
		EncodeAMOADDW(8, 5, 6), // loop
		EncodeADDI(7, 7, -1),
		EncodeBNE(7, 0, -8),
		EncodeLW(9, 5, 0),
	}
	words = append(words, exitSequence(9)...)

	return Benchmark{
		Name:         "atomic_increment",
		Description:  "ten atomic adds against a single counter word",
		Program:      BuildProgram(words...),
		ExpectedExit: 10,
	}
}
