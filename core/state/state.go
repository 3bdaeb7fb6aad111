// Package state defines the search state of one economy and its pure
// per-tick transition rule.
package state

import (
	"fmt"
	"strings"

	"github.com/kilianp07/foundry/core/economy"
)

// State is a snapshot of the simulation at the start of a tick. It is a
// comparable value: two states are equal iff every field matches, and a State
// can be used directly as a map key.
type State struct {
	Tick      int
	Producers economy.Vector
	Stock     economy.Vector
}

// Initial returns the state at tick 0: one root producer and nothing else.
func Initial(e *economy.Economy) State {
	var s State
	s.Producers[e.Root()] = 1
	return s
}

// Score is the terminal stock accumulated so far.
func (s State) Score(e *economy.Economy) int { return s.Stock[e.Terminal()] }

// Remaining returns the number of ticks left before horizon.
func (s State) Remaining(horizon int) int {
	if s.Tick >= horizon {
		return 0
	}
	return horizon - s.Tick
}

// Idle returns the state after one tick in which nothing is built.
func (s State) Idle() State {
	next := s
	next.Tick++
	for k, n := range s.Producers {
		next.Stock[k] += n
	}
	return next
}

// Build returns the state after one tick in which a producer of k is built.
// The new producer does not yield during this tick. ok is false when the
// stock does not cover the cost or k has no recipe.
func (s State) Build(e *economy.Economy, k economy.Kind) (next State, ok bool) {
	if !e.HasRecipe(k) {
		return s, false
	}
	cost := e.Cost(k)
	if !s.Stock.Covers(cost) {
		return s, false
	}
	next = s.Idle()
	for i, q := range cost {
		next.Stock[i] -= q
	}
	next.Producers[k]++
	return next, true
}

// Format renders the state with the economy's kind names.
func (s State) Format(e *economy.Economy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "t=%d", s.Tick)
	for k := 0; k < e.Len(); k++ {
		fmt.Fprintf(&b, " %s=%d/%d", e.Name(economy.Kind(k)), s.Producers[k], s.Stock[k])
	}
	return b.String()
}
