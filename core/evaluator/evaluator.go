// Package evaluator runs one search per economy instance and combines the
// scores. It holds no search logic of its own.
package evaluator

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/foundry/core/economy"
	"github.com/kilianp07/foundry/core/events"
	"github.com/kilianp07/foundry/core/logger"
	"github.com/kilianp07/foundry/core/monitoring"
	"github.com/kilianp07/foundry/core/search"
	"github.com/kilianp07/foundry/internal/eventbus"
)

// InstanceResult is the outcome of one economy.
type InstanceResult struct {
	ID     int
	Result search.Result
}

// Summary holds descriptive statistics over the instance results.
type Summary struct {
	MeanScore   float64
	StdDevScore float64
	MeanNodes   float64
	TotalNodes  int
	Elapsed     time.Duration
}

// Report is the result of one evaluation.
type Report struct {
	RunID     string
	Mode      Mode
	Horizon   int
	Instances []InstanceResult
	Value     int
	// Exhaustive is false when any instance stopped on its budget, in which
	// case Value is a lower bound.
	Exhaustive bool
	Summary    Summary
	Started    time.Time
}

// Evaluator orchestrates searches across instances.
type Evaluator struct {
	engine  *search.Engine
	workers int
	bus     eventbus.EventBus
	log     logger.Logger
	now     func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithWorkers bounds the number of concurrent searches.
func WithWorkers(n int) Option { return func(e *Evaluator) { e.workers = n } }

// WithBus publishes progress events on bus.
func WithBus(bus eventbus.EventBus) Option { return func(e *Evaluator) { e.bus = bus } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(e *Evaluator) { e.log = logger.OrNop(l) } }

// New creates an Evaluator around engine.
func New(engine *search.Engine, opts ...Option) *Evaluator {
	ev := &Evaluator{
		engine:  engine,
		workers: runtime.NumCPU(),
		log:     logger.Nop{},
		now:     time.Now,
	}
	for _, o := range opts {
		o(ev)
	}
	if ev.workers <= 0 {
		ev.workers = 1
	}
	return ev
}

// Evaluate searches every selected economy and aggregates the scores.
// Configuration problems are returned before any search starts. Searches are
// independent, each worker owning its run state.
func (ev *Evaluator) Evaluate(ctx context.Context, economies []*economy.Economy, req Request) (Report, error) {
	if _, err := Aggregate(req.Mode, nil); err != nil {
		return Report{}, err
	}
	selected, err := Select(economies, req)
	if err != nil {
		return Report{}, err
	}

	rep := Report{
		RunID:   uuid.NewString(),
		Mode:    req.Mode,
		Horizon: ev.engine.Horizon(),
		Started: ev.now(),
	}
	ev.log.Infof("evaluation %s: %d instances, horizon %d, mode %s, %d workers",
		rep.RunID, len(selected), rep.Horizon, req.Mode, ev.workers)

	results := make([]InstanceResult, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ev.workers)
	for i, e := range selected {
		g.Go(func() error {
			defer monitoring.Recover()
			ev.publish(events.InstanceStarted{RunID: rep.RunID, Economy: e.ID(), Horizon: rep.Horizon, Time: ev.now()})
			res, err := ev.engine.Run(gctx, e)
			if err != nil {
				return fmt.Errorf("economy %d: %w", e.ID(), err)
			}
			results[i] = InstanceResult{ID: e.ID(), Result: res}
			ev.publish(events.InstanceFinished{RunID: rep.RunID, Economy: e.ID(), Horizon: rep.Horizon, Result: res, Time: ev.now()})
			ev.log.Infof("economy %d: score %d (%d nodes, %s)", e.ID(), res.Score, res.Nodes, res.Elapsed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	rep.Instances = results
	rep.Value, _ = Aggregate(req.Mode, results)
	rep.Exhaustive = true
	for _, r := range results {
		if !r.Result.Exhaustive {
			rep.Exhaustive = false
		}
	}
	rep.Summary = summarize(results)
	rep.Summary.Elapsed = ev.now().Sub(rep.Started)

	ev.publish(events.EvaluationFinished{
		RunID:      rep.RunID,
		Mode:       string(rep.Mode),
		Horizon:    rep.Horizon,
		Instances:  len(results),
		Value:      rep.Value,
		Exhaustive: rep.Exhaustive,
		Elapsed:    rep.Summary.Elapsed,
		Time:       ev.now(),
	})
	if !rep.Exhaustive {
		ev.log.Warnf("evaluation %s: value %d is a lower bound, some searches hit their budget", rep.RunID, rep.Value)
	}
	return rep, nil
}

func (ev *Evaluator) publish(e eventbus.Event) {
	if ev.bus != nil {
		ev.bus.Publish(e)
	}
}

func summarize(results []InstanceResult) Summary {
	var s Summary
	if len(results) == 0 {
		return s
	}
	scores := make([]float64, len(results))
	nodes := make([]float64, len(results))
	for i, r := range results {
		scores[i] = float64(r.Result.Score)
		nodes[i] = float64(r.Result.Nodes)
		s.TotalNodes += r.Result.Nodes
	}
	s.MeanNodes = stat.Mean(nodes, nil)
	if len(scores) == 1 {
		s.MeanScore = scores[0]
		return s
	}
	s.MeanScore, s.StdDevScore = stat.MeanStdDev(scores, nil)
	return s
}
