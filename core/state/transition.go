package state

import "github.com/kilianp07/foundry/core/economy"

// Transition is one legal move out of a state.
type Transition struct {
	// Built is the kind whose producer was built, valid when Build is true.
	Built economy.Kind
	Build bool
	Next  State
}

// Successors lists every legal successor of s: one per affordable producer
// and the idle tick. Nothing is returned once s reaches horizon. s is never
// modified.
func Successors(e *economy.Economy, s State, horizon int) []Transition {
	if s.Tick >= horizon {
		return nil
	}
	out := make([]Transition, 0, e.Len()+1)
	for k := 0; k < e.Len(); k++ {
		if next, ok := s.Build(e, economy.Kind(k)); ok {
			out = append(out, Transition{Built: economy.Kind(k), Build: true, Next: next})
		}
	}
	return append(out, Transition{Next: s.Idle()})
}
