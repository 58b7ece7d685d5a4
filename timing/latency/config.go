package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds per-class cycle costs for the ApexCore timing
// estimate. Values model a small in-order embedded core.
type TimingConfig struct {
	// ALULatency is the cost of basic integer operations
	// (add/sub/logic/shift/compare). Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// BranchLatency is the base cost of a conditional branch or jump.
	// Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// BranchTakenPenalty is the extra cost of a taken redirect (the
	// fetch restart). Default: 1 cycle.
	BranchTakenPenalty uint64 `json:"branch_taken_penalty"`

	// LoadLatency is the cost of a load assuming a cache hit.
	// Default: 2 cycles.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the cost of a store. Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`

	// MultiplyLatency is the cost of the multiply class. Default: 4.
	MultiplyLatency uint64 `json:"multiply_latency"`

	// DivideLatency is the cost of the divide/remainder class.
	// Default: 34 cycles (bit-serial divider).
	DivideLatency uint64 `json:"divide_latency"`

	// AtomicLatency is the cost of a word atomic (read-modify-write in
	// one occupancy). Default: 3 cycles.
	AtomicLatency uint64 `json:"atomic_latency"`

	// CSRLatency is the cost of a CSR access or trap-entry instruction.
	// Default: 2 cycles.
	CSRLatency uint64 `json:"csr_latency"`

	// FenceLatency is the cost of a fence. Default: 1 cycle.
	FenceLatency uint64 `json:"fence_latency"`
}

// DefaultTimingConfig returns a TimingConfig with the default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:         1,
		BranchLatency:      1,
		BranchTakenPenalty: 1,
		LoadLatency:        2,
		StoreLatency:       1,
		MultiplyLatency:    4,
		DivideLatency:      34,
		AtomicLatency:      3,
		CSRLatency:         2,
		FenceLatency:       1,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from
// the file keep their defaults.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
func (c *TimingConfig) Validate() error {
	if c.ALULatency == 0 {
		return fmt.Errorf("alu_latency must be > 0")
	}
	if c.BranchLatency == 0 {
		return fmt.Errorf("branch_latency must be > 0")
	}
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	if c.MultiplyLatency == 0 {
		return fmt.Errorf("multiply_latency must be > 0")
	}
	if c.DivideLatency == 0 {
		return fmt.Errorf("divide_latency must be > 0")
	}
	if c.AtomicLatency == 0 {
		return fmt.Errorf("atomic_latency must be > 0")
	}
	if c.CSRLatency == 0 {
		return fmt.Errorf("csr_latency must be > 0")
	}
	if c.FenceLatency == 0 {
		return fmt.Errorf("fence_latency must be > 0")
	}
	return nil
}

// Clone returns a copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
