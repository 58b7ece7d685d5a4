package core

import (
	"fmt"
	"io"
	"os"

	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/insts"
)

// StepResult reports the outcome of executing a single instruction.
type StepResult struct {
	// Exited is true if the program terminated (via the exit ecall).
	Exited bool

	// ExitCode is the exit status if Exited is true.
	ExitCode int64

	// Err is set if execution cannot continue.
	Err error

	// Inst is the instruction that executed, for tracing and timing.
	Inst *insts.Instruction

	// MemRead/MemWrite report a data memory access this step, at MemAddr.
	MemRead  bool
	MemWrite bool
	MemAddr  uint32
}

// exitSyscall is the a7 value that terminates a run (Linux exit
// convention, kept for test programs and the CLI).
const exitSyscall = 93

// Machine wires the execution engine to the collaborators the
// specification leaves external: instruction memory, the register file,
// the program counter update policy, and trap redirection. One Step is
// one logical clock tick; all state commits at the tick boundary.
type Machine struct {
	regFile   *RegFile
	dataStore *DataStore
	csr       *CSRUnit
	seq       *Sequencer
	decoder   *insts.Decoder

	imem     []uint32
	imemBase uint32

	stdout io.Writer
	stderr io.Writer

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// MachineOption is a functional option for configuring the Machine.
type MachineOption func(*Machine)

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) MachineOption {
	return func(m *Machine) {
		m.stdout = w
	}
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) MachineOption {
	return func(m *Machine) {
		m.stderr = w
	}
}

// WithDataStore replaces the default data store.
func WithDataStore(ds *DataStore) MachineOption {
	return func(m *Machine) {
		m.dataStore = ds
	}
}

// WithMaxInstructions caps the number of instructions executed.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) MachineOption {
	return func(m *Machine) {
		m.maxInstructions = max
	}
}

// NewMachine creates a machine with a default-sized data store.
func NewMachine(opts ...MachineOption) *Machine {
	m := &Machine{
		regFile:   &RegFile{},
		dataStore: NewDataStore(0, DefaultMemoryWords),
		csr:       NewCSRUnit(),
		seq:       NewSequencer(),
		decoder:   insts.NewDecoder(),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegFile returns the machine's register file.
func (m *Machine) RegFile() *RegFile {
	return m.regFile
}

// DataStore returns the machine's data store.
func (m *Machine) DataStore() *DataStore {
	return m.dataStore
}

// CSR returns the machine's CSR and trap unit.
func (m *Machine) CSR() *CSRUnit {
	return m.csr
}

// Sequencer returns the machine's execution sequencer.
func (m *Machine) Sequencer() *Sequencer {
	return m.seq
}

// InstructionCount returns the number of instructions executed.
func (m *Machine) InstructionCount() uint64 {
	return m.instructionCount
}

// LoadProgram loads little-endian instruction words into instruction
// memory at base and points the PC there.
func (m *Machine) LoadProgram(base uint32, program []byte) {
	m.imemBase = base
	m.imem = make([]uint32, (len(program)+3)/4)
	for i, b := range program {
		m.imem[i/4] |= uint32(b) << ((i % 4) * 8)
	}
	m.regFile.PC = base
}

// Reset restores the machine to its initial state. Instruction memory is
// retained; architectural and sequencing state is cleared.
func (m *Machine) Reset() {
	m.regFile = &RegFile{PC: m.imemBase}
	m.dataStore = NewDataStore(m.dataStore.Base(), len(m.dataStore.words))
	m.csr = NewCSRUnit()
	m.seq.Reset()
	m.instructionCount = 0
}

// Step executes a single instruction: fetch, decode, sample the
// combinational reads, run the sequencer, apply side effects and commit
// all state for this tick.
func (m *Machine) Step() StepResult {
	if m.maxInstructions > 0 && m.instructionCount >= m.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("max instructions reached"),
		}
	}

	pc := m.regFile.PC
	idx := (pc - m.imemBase) / 4
	if pc < m.imemBase || idx >= uint32(len(m.imem)) {
		return StepResult{
			Err: fmt.Errorf("instruction fetch outside program memory at PC=0x%X", pc),
		}
	}

	inst := m.decoder.Decode(m.imem[idx])
	m.instructionCount++

	in := Input{
		Inst: inst,
		RS1:  m.regFile.Read(inst.Rs1),
		RS2:  m.regFile.Read(inst.Rs2),
		PC:   pc,
	}

	// Sample the combinational reads the instruction will consume. The
	// data store presents the word at the address the instruction
	// drives; the CSR file presents the addressed cell when the class
	// enables reads.
	result := StepResult{Inst: inst}
	switch inst.Opcode {
	case insts.OpcodeLoad:
		in.MemWord = m.dataStore.Read(in.RS1 + uint32(inst.Imm))
		result.MemRead = true
		result.MemAddr = in.RS1 + uint32(inst.Imm)
	case insts.OpcodeStore:
		in.MemWord = m.dataStore.Read(in.RS1 + uint32(inst.Imm))
		result.MemWrite = true
		result.MemAddr = in.RS1 + uint32(inst.Imm)
	case insts.OpcodeAMO:
		in.MemWord = m.dataStore.Read(in.RS1)
		result.MemRead = true
		result.MemWrite = true
		result.MemAddr = in.RS1
	case insts.OpcodeSystem:
		if inst.IsCSR() {
			m.csr.SetReadEnable(true)
			in.CSRWord = m.csr.Read(inst.CSR)
		}
	}

	sig := m.seq.Cycle(in)

	// Apply side effects. The data store write and the CSR write both
	// latch here and commit at the tick boundary below, so the atomic
	// read-modify-write of an AMO is indivisible within the tick.
	m.dataStore.Write(sig.MemAddr, sig.MemWriteData, sig.MemWrite)
	m.csr.Write(sig.CSRAddr, sig.CSRWriteData, sig.CSRWrite)
	if sig.RegWrite {
		m.regFile.Write(inst.Rd, sig.RegWriteData)
	}

	// Resolve the next PC: trap sequencing first, then redirects.
	switch inst.Op {
	case insts.OpECALL:
		if m.regFile.Read(17) == exitSyscall {
			m.commit()
			return StepResult{
				Exited:   true,
				ExitCode: int64(m.regFile.Read(10)),
				Inst:     inst,
			}
		}
		taken := m.csr.RequestTrap(CauseECall, pc)
		m.commit()
		m.redirectToHandler(pc, taken)
		return result
	case insts.OpEBREAK:
		taken := m.csr.RequestTrap(CauseBreakpoint, pc)
		m.commit()
		m.redirectToHandler(pc, taken)
		return result
	case insts.OpMRET:
		m.csr.TrapReturn()
		m.commit()
		m.regFile.PC = m.csr.ExceptionPC()
		return result
	}

	if sig.JumpEnable {
		m.regFile.PC = sig.JumpTarget
	} else {
		m.regFile.PC = pc + 4
	}
	m.commit()

	return result
}

// commit advances all synchronous state to the next tick.
func (m *Machine) commit() {
	m.dataStore.Tick()
	m.csr.Tick()
	m.csr.SetReadEnable(false)
}

// redirectToHandler points the PC at the trap vector when this
// instruction's trap request was accepted. A rejected request (a trap was
// already active) falls through to the next instruction, leaving the
// outer trap's mepc and mcause intact.
func (m *Machine) redirectToHandler(pc uint32, taken bool) {
	if taken {
		m.regFile.PC = m.csr.TrapVector()
	} else {
		m.regFile.PC = pc + 4
	}
}

// Run executes instructions until the program exits or an error occurs.
// Returns the exit code (-1 if error).
func (m *Machine) Run() int64 {
	for {
		result := m.Step()
		if result.Exited {
			return result.ExitCode
		}
		if result.Err != nil {
			_, _ = fmt.Fprintf(m.stderr, "Execution error: %v\n", result.Err)
			return -1
		}
	}
}
