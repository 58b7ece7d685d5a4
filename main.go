// Package main provides the entry point for ApexCore.
// ApexCore is an RV32IMA+Zicsr processor core simulator.
//
// For the full CLI, use: go run ./cmd/apexcore
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("ApexCore - RV32IMA+Zicsr Processor Core Simulator")
	fmt.Println("")
	fmt.Println("Usage: apexcore [options] <program.elf>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -timing    Enable the timing estimate")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -flat      Treat the program as a raw flat image")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/apexcore' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/apexcore' instead.")
	}
}
