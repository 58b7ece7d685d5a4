// Package main provides the entry point for ApexCore.
// ApexCore is an RV32IMA+Zicsr processor core simulator.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/core"
	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/loader"
	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/timing/cache"
	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/timing/latency"
)

var (
	timing     = flag.Bool("timing", false, "Enable the timing estimate")
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	verbose    = flag.Bool("v", false, "Verbose output")
	flat       = flag.Bool("flat", false, "Treat the program as a raw flat image instead of ELF")
	flatBase   = flag.Uint("base", 0x1000, "Load address for flat images")
	memBase    = flag.Uint("membase", 0x8000, "Data store base address")
	memWords   = flag.Uint("memwords", uint(core.DefaultMemoryWords), "Data store size in 32-bit words")
	maxInsts   = flag.Uint64("max", 0, "Maximum instructions to execute (0 = unlimited)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: apexcore [options] <program.elf>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	var prog *loader.Program
	var err error
	if *flat {
		prog, err = loader.LoadImage(programPath, uint32(*flatBase))
	} else {
		prog, err = loader.Load(programPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	machine := buildMachine(prog)

	if *timing {
		os.Exit(int(runTiming(machine, programPath)))
	} else {
		os.Exit(int(runFunctional(machine, programPath)))
	}
}

// buildMachine assembles a machine and places the program segments:
// executable segments go to instruction memory, the rest into the data
// store window.
func buildMachine(prog *loader.Program) *core.Machine {
	ds := core.NewDataStore(uint32(*memBase), int(*memWords))
	machine := core.NewMachine(
		core.WithDataStore(ds),
		core.WithMaxInstructions(*maxInsts),
	)

	for _, seg := range prog.Segments {
		if seg.Flags&loader.SegmentFlagExecute != 0 {
			machine.LoadProgram(seg.VirtAddr, seg.Data)
			continue
		}
		data := seg.Data
		if uint32(len(data)) < seg.MemSize {
			padded := make([]byte, seg.MemSize)
			copy(padded, data)
			data = padded
		}
		ds.LoadImage(seg.VirtAddr, data)
	}

	machine.RegFile().PC = prog.EntryPoint
	return machine
}

// runFunctional runs the program on the execution engine alone.
func runFunctional(machine *core.Machine, programPath string) int64 {
	exitCode := machine.Run()

	if *verbose {
		fmt.Printf("\nProgram: %s\n", programPath)
		fmt.Printf("Exit code: %d\n", exitCode)
		fmt.Printf("Instructions executed: %d\n", machine.InstructionCount())
	}

	return exitCode
}

// runTiming runs the program while accumulating the cycle estimate from
// the latency table and the L1D model.
func runTiming(machine *core.Machine, programPath string) int64 {
	var timingConfig *latency.TimingConfig
	if *configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		if err := timingConfig.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid timing config: %v\n", err)
			os.Exit(1)
		}
	} else {
		timingConfig = latency.DefaultTimingConfig()
	}

	table := latency.NewTableWithConfig(timingConfig)
	l1d := cache.New(cache.DefaultL1DConfig(), cache.NewDataStoreBacking(machine.DataStore()))

	var (
		cycles        uint64
		execCycles    uint64
		memStalls     uint64
		redirectStall uint64
		exitCode      int64
	)

	for {
		pcBefore := machine.RegFile().PC
		result := machine.Step()
		if result.Exited {
			base := table.GetLatency(result.Inst)
			cycles += base
			execCycles += base
			exitCode = result.ExitCode
			break
		}
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "Execution error: %v\n", result.Err)
			exitCode = -1
			break
		}

		base := table.GetLatency(result.Inst)
		cycles += base
		execCycles += base

		if result.MemRead || result.MemWrite {
			var access cache.AccessResult
			if result.MemWrite {
				access = l1d.Write(result.MemAddr)
			} else {
				access = l1d.Read(result.MemAddr)
			}
			if !access.Hit {
				stall := access.Latency - l1d.Config().HitLatency
				cycles += stall
				memStalls += stall
			}
		}

		if machine.RegFile().PC != pcBefore+4 {
			cycles += table.TakenPenalty()
			redirectStall += table.TakenPenalty()
		}
	}

	insts := machine.InstructionCount()
	totalCycles := cycles
	if totalCycles == 0 {
		totalCycles = 1
	}

	stats := l1d.Stats()

	fmt.Printf("\n")
	fmt.Printf("Program: %s\n", programPath)
	fmt.Printf("Exit code: %d\n", exitCode)
	fmt.Printf("Total Instructions: %d\n", insts)
	fmt.Printf("Total Cycles: %d\n", cycles)
	if insts > 0 {
		fmt.Printf("CPI: %.2f\n", float64(cycles)/float64(insts))
	}
	fmt.Printf("\n")
	fmt.Printf("Breakdown:\n")
	fmt.Printf("  Execute:         %6d cycles (%5.1f%%)\n",
		execCycles, 100.0*float64(execCycles)/float64(totalCycles))
	fmt.Printf("  Memory stalls:   %6d cycles (%5.1f%%)\n",
		memStalls, 100.0*float64(memStalls)/float64(totalCycles))
	fmt.Printf("  Redirect stalls: %6d cycles (%5.1f%%)\n",
		redirectStall, 100.0*float64(redirectStall)/float64(totalCycles))
	fmt.Printf("\n")
	fmt.Printf("L1D:\n")
	fmt.Printf("  Accesses:   %d\n", stats.Reads+stats.Writes)
	fmt.Printf("  Hits:       %d\n", stats.Hits)
	fmt.Printf("  Misses:     %d\n", stats.Misses)
	fmt.Printf("  Evictions:  %d\n", stats.Evictions)
	fmt.Printf("  Writebacks: %d\n", stats.Writebacks)

	return exitCode
}
