package pruning

import "github.com/kilianp07/foundry/core/state"

// Table remembers states already queued by a search run. A table belongs to
// exactly one run and is not safe for concurrent use.
type Table interface {
	Seen(s state.State) bool
	Record(s state.State, score int)
	Len() int
}

// MapTable is a Table backed by a Go map keyed on the state value.
type MapTable struct {
	scores map[state.State]int
}

// NewMapTable returns an empty MapTable.
func NewMapTable() *MapTable {
	return &MapTable{scores: make(map[state.State]int)}
}

// Seen reports whether s has been recorded.
func (t *MapTable) Seen(s state.State) bool {
	_, ok := t.scores[s]
	return ok
}

// Record stores the best score seen on entry to s.
func (t *MapTable) Record(s state.State, score int) {
	if prev, ok := t.scores[s]; ok && prev >= score {
		return
	}
	t.scores[s] = score
}

// Score returns the recorded score for s.
func (t *MapTable) Score(s state.State) (int, bool) {
	v, ok := t.scores[s]
	return v, ok
}

// Len returns the number of distinct states recorded.
func (t *MapTable) Len() int { return len(t.scores) }

// NopTable disables deduplication.
type NopTable struct{}

func (NopTable) Seen(state.State) bool   { return false }
func (NopTable) Record(state.State, int) {}
func (NopTable) Len() int                { return 0 }
