package metrics

import (
	"context"

	"github.com/kilianp07/foundry/core/events"
	coremetrics "github.com/kilianp07/foundry/core/metrics"
	"github.com/kilianp07/foundry/infra/logger"
	"github.com/kilianp07/foundry/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// evaluation events. It stops when the context is canceled or the bus is
// closed; the returned channel is closed once it has stopped.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log := logger.New("metrics-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := collect(ev, sink); err != nil {
					log.Errorf("record %T: %v", ev, err)
				}
			}
		}
	}()
	return done
}

func collect(ev eventbus.Event, sink coremetrics.Sink) error {
	switch e := ev.(type) {
	case events.InstanceFinished:
		return sink.RecordSearch(coremetrics.NewSearchRecord(e.RunID, e.Economy, e.Horizon, e.Result, e.Time))
	case events.EvaluationFinished:
		if r, ok := sink.(coremetrics.EvaluationRecorder); ok {
			return r.RecordEvaluation(coremetrics.EvaluationRecord{
				RunID:      e.RunID,
				Mode:       e.Mode,
				Horizon:    e.Horizon,
				Instances:  e.Instances,
				Value:      e.Value,
				Exhaustive: e.Exhaustive,
				Elapsed:    e.Elapsed,
				Time:       e.Time,
			})
		}
	}
	return nil
}
