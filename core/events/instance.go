package events

import (
	"time"

	"github.com/kilianp07/foundry/core/search"
)

// InstanceStarted is published when a worker starts searching an economy.
type InstanceStarted struct {
	RunID   string
	Economy int
	Horizon int
	Time    time.Time
}

// InstanceFinished is published once per searched economy.
type InstanceFinished struct {
	RunID   string
	Economy int
	Horizon int
	Result  search.Result
	Time    time.Time
}
