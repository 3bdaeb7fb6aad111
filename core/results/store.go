// Package results persists evaluation reports so past runs can be listed
// and compared.
package results

import (
	"errors"
	"time"

	"github.com/kilianp07/foundry/core/evaluator"
)

// ErrNotFound is returned when a run ID is unknown to the store.
var ErrNotFound = errors.New("run not found")

// Run is the stored summary of one evaluation.
type Run struct {
	ID         string
	Mode       string
	Horizon    int
	Instances  int
	Value      int
	Exhaustive bool
	Started    time.Time
	Elapsed    time.Duration
}

// Instance is the stored outcome of one economy within a run.
type Instance struct {
	RunID      string
	Economy    int
	Score      int
	Nodes      int
	Pruned     int
	Duplicates int
	Capped     int
	Exhaustive bool
	Elapsed    time.Duration
}

// Store persists evaluation reports.
type Store interface {
	Save(evaluator.Report) error
	// Runs returns the most recent runs first. A limit <= 0 returns all.
	Runs(limit int) ([]Run, error)
	// Instances returns the instances of a run ordered by economy ID.
	Instances(runID string) ([]Instance, error)
}

// Flatten splits a report into its stored rows.
func Flatten(rep evaluator.Report) (Run, []Instance) {
	run := Run{
		ID:         rep.RunID,
		Mode:       string(rep.Mode),
		Horizon:    rep.Horizon,
		Instances:  len(rep.Instances),
		Value:      rep.Value,
		Exhaustive: rep.Exhaustive,
		Started:    rep.Started.UTC(),
		Elapsed:    rep.Summary.Elapsed,
	}
	instances := make([]Instance, len(rep.Instances))
	for i, ir := range rep.Instances {
		instances[i] = Instance{
			RunID:      rep.RunID,
			Economy:    ir.ID,
			Score:      ir.Result.Score,
			Nodes:      ir.Result.Nodes,
			Pruned:     ir.Result.Pruned,
			Duplicates: ir.Result.Duplicates,
			Capped:     ir.Result.Capped,
			Exhaustive: ir.Result.Exhaustive,
			Elapsed:    ir.Result.Elapsed,
		}
	}
	return run, instances
}
