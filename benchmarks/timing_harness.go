package benchmarks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/core"
	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/timing/cache"
	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/timing/latency"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark.
	Name string `json:"name"`

	// Description explains what the benchmark measures.
	Description string `json:"description"`

	// Passed reports whether the run produced the expected exit code.
	Passed bool `json:"passed"`

	// ExitCode is the run's actual exit code.
	ExitCode int64 `json:"exit_code"`

	// InstructionsRetired is the number of completed instructions.
	InstructionsRetired uint64 `json:"instructions_retired"`

	// SimulatedCycles is the total cycle estimate.
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// CPI is cycles per instruction.
	CPI float64 `json:"cpi"`

	// MemStalls is the cycle count attributed to cache misses.
	MemStalls uint64 `json:"mem_stalls"`

	// RedirectStalls is the cycle count attributed to taken redirects.
	RedirectStalls uint64 `json:"redirect_stalls"`

	// DCacheHits and DCacheMisses are the data cache counters.
	DCacheHits   uint64 `json:"dcache_hits"`
	DCacheMisses uint64 `json:"dcache_misses"`
}

// Harness runs benchmarks against one timing configuration.
type Harness struct {
	table *latency.Table
}

// NewHarness creates a harness with the default timing configuration.
func NewHarness() *Harness {
	return &Harness{table: latency.NewTable()}
}

// NewHarnessWithConfig creates a harness with a custom configuration.
func NewHarnessWithConfig(config *latency.TimingConfig) *Harness {
	return &Harness{table: latency.NewTableWithConfig(config)}
}

// Run executes one benchmark to completion and returns its result.
func (h *Harness) Run(b Benchmark) BenchmarkResult {
	machine := core.NewMachine(
		core.WithStdout(&bytes.Buffer{}),
		core.WithStderr(&bytes.Buffer{}),
	)
	machine.LoadProgram(0, b.Program)

	l1d := cache.New(cache.DefaultL1DConfig(), cache.NewDataStoreBacking(machine.DataStore()))

	result := BenchmarkResult{
		Name:        b.Name,
		Description: b.Description,
	}

	for {
		pcBefore := machine.RegFile().PC
		step := machine.Step()
		if step.Exited {
			// The exiting instruction retired too; charge it.
			result.SimulatedCycles += h.table.GetLatency(step.Inst)
			result.ExitCode = step.ExitCode
			break
		}
		if step.Err != nil {
			result.ExitCode = -1
			break
		}

		result.SimulatedCycles += h.table.GetLatency(step.Inst)

		if step.MemRead || step.MemWrite {
			var access cache.AccessResult
			if step.MemWrite {
				access = l1d.Write(step.MemAddr)
			} else {
				access = l1d.Read(step.MemAddr)
			}
			if !access.Hit {
				stall := access.Latency - l1d.Config().HitLatency
				result.SimulatedCycles += stall
				result.MemStalls += stall
			}
		}

		if machine.RegFile().PC != pcBefore+4 {
			result.SimulatedCycles += h.table.TakenPenalty()
			result.RedirectStalls += h.table.TakenPenalty()
		}
	}

	result.Passed = result.ExitCode == b.ExpectedExit
	result.InstructionsRetired = machine.InstructionCount()
	if result.InstructionsRetired > 0 {
		result.CPI = float64(result.SimulatedCycles) / float64(result.InstructionsRetired)
	}

	stats := l1d.Stats()
	result.DCacheHits = stats.Hits
	result.DCacheMisses = stats.Misses

	return result
}

// RunAll executes every benchmark in order.
func (h *Harness) RunAll(benches []Benchmark) []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(benches))
	for _, b := range benches {
		results = append(results, h.Run(b))
	}
	return results
}

// PrintResults writes a human-readable report.
func PrintResults(w io.Writer, results []BenchmarkResult) {
	fmt.Fprintf(w, "%-24s %6s %8s %8s %6s %s\n",
		"Benchmark", "Insts", "Cycles", "CPI", "Pass", "Description")
	for _, r := range results {
		pass := "ok"
		if !r.Passed {
			pass = "FAIL"
		}
		fmt.Fprintf(w, "%-24s %6d %8d %8.2f %6s %s\n",
			r.Name, r.InstructionsRetired, r.SimulatedCycles, r.CPI, pass, r.Description)
	}
}

// WriteJSON writes the results as indented JSON.
func WriteJSON(w io.Writer, results []BenchmarkResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
