package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/foundry/core/economy"
	"github.com/kilianp07/foundry/core/logger"
	"github.com/kilianp07/foundry/core/pruning"
	"github.com/kilianp07/foundry/core/state"
)

// ErrBudgetExceeded marks a run stopped by its node or time budget. The
// score of such a run is a lower bound, not a proven optimum.
var ErrBudgetExceeded = errors.New("search budget exceeded")

// ErrHorizon is returned for a negative horizon.
var ErrHorizon = errors.New("horizon must not be negative")

// checkEvery is how many expansions pass between context checks.
const checkEvery = 1024

// Budget limits a single run. Zero values mean unlimited.
type Budget struct {
	MaxNodes int
	Timeout  time.Duration
}

// Observer is called with every state taken off the frontier.
type Observer func(s state.State)

// Options configure an Engine.
type Options struct {
	Horizon  int
	Policy   pruning.Policy
	Budget   Budget
	Logger   logger.Logger
	Observer Observer
}

// Result summarises one run.
type Result struct {
	Score int
	// Nodes counts states taken off the frontier.
	Nodes int
	// Pruned counts states discarded by the optimistic bound.
	Pruned int
	// Duplicates counts successors discarded by the dedup table.
	Duplicates int
	// Capped counts builds skipped by rate capping.
	Capped int
	// Committed counts greedy commits.
	Committed int
	// Peak is the largest producer count reached per kind.
	Peak       economy.Vector
	Exhaustive bool
	// Stop is set when the run ended early; it wraps ErrBudgetExceeded.
	Stop    error
	Elapsed time.Duration
}

// Engine searches economies with a fixed horizon and policy.
type Engine struct {
	opts Options
	log  logger.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	return &Engine{opts: opts, log: logger.OrNop(opts.Logger)}
}

// Horizon returns the configured horizon.
func (en *Engine) Horizon() int { return en.opts.Horizon }

// Run searches e and returns the best terminal stock reachable within the
// horizon. An unreachable terminal resource is not an error: the score is 0.
// Budget exhaustion and context cancellation end the run early with a
// partial result whose Stop field is set.
func (en *Engine) Run(ctx context.Context, e *economy.Economy) (Result, error) {
	if e == nil {
		return Result{}, fmt.Errorf("search: nil economy")
	}
	if en.opts.Horizon < 0 {
		return Result{}, fmt.Errorf("search economy %d: %w", e.ID(), ErrHorizon)
	}
	if en.opts.Budget.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, en.opts.Budget.Timeout)
		defer cancel()
	}

	start := time.Now()
	r := &run{
		econ:    e,
		horizon: en.opts.Horizon,
		policy:  en.opts.Policy,
		table:   en.opts.Policy.NewTable(),
		commit:  en.opts.Policy.Committer(),
		observe: en.opts.Observer,
	}
	en.log.Debugw("search started", map[string]any{
		"economy": e.ID(),
		"horizon": en.opts.Horizon,
		"dedup":   en.opts.Policy.Dedup,
	})
	r.loop(ctx, en.opts.Budget.MaxNodes)
	r.res.Score = r.best
	r.res.Elapsed = time.Since(start)
	r.res.Exhaustive = r.res.Stop == nil
	if r.res.Stop != nil {
		en.log.Warnf("economy %d: %v after %d nodes, best %d is a lower bound", e.ID(), r.res.Stop, r.res.Nodes, r.best)
	} else {
		en.log.Debugw("search finished", map[string]any{
			"economy": e.ID(),
			"score":   r.best,
			"nodes":   r.res.Nodes,
			"states":  r.table.Len(),
			"elapsed": r.res.Elapsed.String(),
		})
	}
	return r.res, nil
}

// Solve is the pure form of a default run: the best score of e within
// horizon, with every filter enabled and no budget.
func Solve(e *economy.Economy, horizon int) (int, error) {
	res, err := New(Options{Horizon: horizon, Policy: pruning.Default()}).Run(context.Background(), e)
	return res.Score, err
}

type run struct {
	econ    *economy.Economy
	horizon int
	policy  pruning.Policy
	table   pruning.Table
	commit  pruning.Commit
	observe Observer

	best int
	res  Result
}

func (r *run) loop(ctx context.Context, maxNodes int) {
	e := r.econ
	start := state.Initial(e)
	r.table.Record(start, start.Score(e))
	frontier := []state.State{start}
	accepted := make([]state.State, 0, e.Len()+1)

	for len(frontier) > 0 {
		if maxNodes > 0 && r.res.Nodes >= maxNodes {
			r.res.Stop = fmt.Errorf("%w: %d nodes", ErrBudgetExceeded, maxNodes)
			return
		}
		if r.res.Nodes%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				r.res.Stop = fmt.Errorf("%w: %v", ErrBudgetExceeded, err)
				return
			}
		}

		s := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		r.res.Nodes++
		r.track(s)

		score := s.Score(e)
		remaining := s.Remaining(r.horizon)
		if remaining == 0 {
			r.raise(score)
			continue
		}
		g := s.Producers[e.Terminal()]
		if r.policy.Bound && pruning.Bounded(score, pruning.OptimisticBound(remaining, g), r.best) {
			r.res.Pruned++
			continue
		}
		// Idling to the horizon is always legal.
		r.raise(score + g*remaining)

		accepted = accepted[:0]
		for _, t := range preferred(e, state.Successors(e, s, r.horizon)) {
			if r.table.Seen(t.Next) {
				r.res.Duplicates++
				continue
			}
			if r.policy.RateCap && t.Build && pruning.Capped(e, s, t.Built) {
				r.res.Capped++
				continue
			}
			r.table.Record(t.Next, t.Next.Score(e))
			accepted = append(accepted, t.Next)
			if r.commit.Commits(e, t) {
				r.res.Committed++
				break
			}
		}
		// Reverse so the preferred successor is popped next.
		for i := len(accepted) - 1; i >= 0; i-- {
			frontier = append(frontier, accepted[i])
		}
	}
}

func (r *run) raise(score int) {
	if score > r.best {
		r.best = score
	}
}

func (r *run) track(s state.State) {
	for k, n := range s.Producers {
		if n > r.res.Peak[k] {
			r.res.Peak[k] = n
		}
	}
	if r.observe != nil {
		r.observe(s)
	}
}

// preferred orders successors: terminal build, other builds by decreasing
// depth, then idle. Order changes how fast the bound tightens, never the
// final score.
func preferred(e *economy.Economy, ts []state.Transition) []state.Transition {
	rank := func(t state.Transition) int {
		switch {
		case !t.Build:
			return -1
		case t.Built == e.Terminal():
			return economy.MaxKinds + 1
		default:
			return e.Depth(t.Built)
		}
	}
	sort.SliceStable(ts, func(i, j int) bool { return rank(ts[i]) > rank(ts[j]) })
	return ts
}
