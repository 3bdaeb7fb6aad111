package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/foundry/core/evaluator"
	"github.com/kilianp07/foundry/core/pruning"
	"github.com/kilianp07/foundry/core/search"
)

// DefaultHorizon is the number of ticks searched when none is configured.
const DefaultHorizon = 24

// SearchConfig controls the search engine and the evaluation request.
type SearchConfig struct {
	Horizon int    `json:"horizon"`
	Mode    string `json:"mode"`
	// Subset keeps the first N instances. Zero keeps all.
	Subset int `json:"subset"`
	// Instances lists explicit instance IDs and overrides Subset.
	Instances      []int `json:"instances"`
	Workers        int   `json:"workers"`
	MaxNodes       int   `json:"max_nodes"`
	TimeoutSeconds int   `json:"timeout_seconds"`
	Dedup          bool  `json:"dedup"`
	GreedyCommit   bool  `json:"greedy_commit"`
}

// SetDefaults applies sane defaults. Workers left at zero means one per CPU.
func (c *SearchConfig) SetDefaults() {
	if c.Horizon == 0 {
		c.Horizon = DefaultHorizon
	}
	if c.Mode == "" {
		c.Mode = string(evaluator.ModeWeightedSum)
	}
}

// Validate checks ranges and the aggregation mode.
func (c SearchConfig) Validate() error {
	if c.Horizon < 0 {
		return fmt.Errorf("horizon must not be negative, got %d", c.Horizon)
	}
	if _, err := evaluator.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Subset < 0 {
		return fmt.Errorf("subset must not be negative, got %d", c.Subset)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.MaxNodes < 0 {
		return fmt.Errorf("max_nodes must not be negative, got %d", c.MaxNodes)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", c.TimeoutSeconds)
	}
	return nil
}

// Policy returns the pruning policy selected by the dedup and greedy flags.
func (c SearchConfig) Policy() pruning.Policy {
	p := pruning.Default()
	p.Dedup = c.Dedup
	if !c.GreedyCommit {
		p.Commit = pruning.NoCommit{}
	}
	return p
}

// Budget returns the per-instance search budget.
func (c SearchConfig) Budget() search.Budget {
	return search.Budget{
		MaxNodes: c.MaxNodes,
		Timeout:  time.Duration(c.TimeoutSeconds) * time.Second,
	}
}

// Request returns the evaluation request. The mode must have passed Validate.
func (c SearchConfig) Request() evaluator.Request {
	mode, _ := evaluator.ParseMode(c.Mode)
	return evaluator.Request{Mode: mode, First: c.Subset, IDs: c.Instances}
}
