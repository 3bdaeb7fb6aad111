package pruning

import (
	"github.com/kilianp07/foundry/core/economy"
	"github.com/kilianp07/foundry/core/state"
)

// OptimisticBound is the most terminal resource r remaining ticks can still
// yield when g terminal producers exist and a new one is built every tick:
// g + (g+1) + ... + (g+r-1).
func OptimisticBound(remaining, g int) int {
	if remaining <= 0 {
		return 0
	}
	return remaining*g + remaining*(remaining-1)/2
}

// Bounded reports whether a state scoring score with the given optimistic
// bound cannot beat best.
func Bounded(score, bound, best int) bool {
	return score+bound <= best
}

// Capped reports whether building another producer of k from s would exceed
// what the economy can consume per tick. The terminal kind is never capped.
func Capped(e *economy.Economy, s state.State, k economy.Kind) bool {
	if k == e.Terminal() {
		return false
	}
	return s.Producers[k] >= e.MaxConsumption(k)
}

// Commit decides whether a successor ends expansion of its siblings.
type Commit interface {
	Commits(e *economy.Economy, t state.Transition) bool
}

// TerminalFirst commits to building a terminal producer whenever one is
// affordable.
type TerminalFirst struct{}

// Commits reports true for the terminal build.
func (TerminalFirst) Commits(e *economy.Economy, t state.Transition) bool {
	return t.Build && t.Built == e.Terminal()
}

// NoCommit always expands every successor.
type NoCommit struct{}

// Commits never reports true.
func (NoCommit) Commits(*economy.Economy, state.Transition) bool { return false }

// Policy bundles the filters applied by one search run.
type Policy struct {
	// Bound enables optimistic-bound pruning.
	Bound bool
	// RateCap enables per-kind producer caps.
	RateCap bool
	// Dedup enables the duplicate-state table.
	Dedup bool
	// Commit is the greedy commit rule. Nil means NoCommit.
	Commit Commit
}

// Default enables every filter including the greedy terminal commit.
func Default() Policy {
	return Policy{Bound: true, RateCap: true, Dedup: true, Commit: TerminalFirst{}}
}

// Exhaustive enables the conservative filters only.
func Exhaustive() Policy {
	return Policy{Bound: true, RateCap: true, Dedup: true, Commit: NoCommit{}}
}

// NewTable returns a fresh dedup table for one run.
func (p Policy) NewTable() Table {
	if p.Dedup {
		return NewMapTable()
	}
	return NopTable{}
}

// Committer returns the commit rule, never nil.
func (p Policy) Committer() Commit {
	if p.Commit == nil {
		return NoCommit{}
	}
	return p.Commit
}
