// Package main runs the ApexCore microbenchmark suite and reports the
// timing estimate for each workload.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/benchmarks"
	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/timing/latency"
)

var (
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	jsonOut    = flag.Bool("json", false, "Emit results as JSON")
)

func main() {
	flag.Parse()

	var harness *benchmarks.Harness
	if *configPath != "" {
		config, err := latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		harness = benchmarks.NewHarnessWithConfig(config)
	} else {
		harness = benchmarks.NewHarness()
	}

	results := harness.RunAll(benchmarks.GetMicrobenchmarks())

	if *jsonOut {
		if err := benchmarks.WriteJSON(os.Stdout, results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
			os.Exit(1)
		}
	} else {
		benchmarks.PrintResults(os.Stdout, results)
	}

	for _, r := range results {
		if !r.Passed {
			os.Exit(1)
		}
	}
}
