package events

import "time"

// EvaluationFinished is published after aggregation.
type EvaluationFinished struct {
	RunID      string
	Mode       string
	Horizon    int
	Instances  int
	Value      int
	Exhaustive bool
	Elapsed    time.Duration
	Time       time.Time
}
