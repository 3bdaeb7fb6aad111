package metrics

import (
	"time"

	"github.com/kilianp07/foundry/core/search"
)

// SearchRecord describes the outcome of one economy search.
type SearchRecord struct {
	RunID      string
	Economy    int
	Horizon    int
	Score      int
	Nodes      int
	Pruned     int
	Duplicates int
	Capped     int
	Exhaustive bool
	Elapsed    time.Duration
	Time       time.Time
}

// NewSearchRecord flattens a search result.
func NewSearchRecord(runID string, economy, horizon int, res search.Result, at time.Time) SearchRecord {
	return SearchRecord{
		RunID:      runID,
		Economy:    economy,
		Horizon:    horizon,
		Score:      res.Score,
		Nodes:      res.Nodes,
		Pruned:     res.Pruned,
		Duplicates: res.Duplicates,
		Capped:     res.Capped,
		Exhaustive: res.Exhaustive,
		Elapsed:    res.Elapsed,
		Time:       at,
	}
}

// EvaluationRecord describes an aggregated evaluation.
type EvaluationRecord struct {
	RunID      string
	Mode       string
	Horizon    int
	Instances  int
	Value      int
	Exhaustive bool
	Elapsed    time.Duration
	Time       time.Time
}

// Sink records search results for observability purposes.
type Sink interface {
	RecordSearch(rec SearchRecord) error
}

// EvaluationRecorder is implemented by sinks that also record aggregates.
type EvaluationRecorder interface {
	RecordEvaluation(rec EvaluationRecord) error
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close() error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSearch(SearchRecord) error         { return nil }
func (NopSink) RecordEvaluation(EvaluationRecord) error { return nil }
