package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/foundry/core/economy"
)

func twoKind(t *testing.T) *economy.Economy {
	t.Helper()
	e, err := economy.New(1, []string{"ore", "geode"}, map[string]map[string]int{
		"ore":   {"ore": 2},
		"geode": {"ore": 3},
	}, "ore", "geode")
	require.NoError(t, err)
	return e
}

func TestInitial(t *testing.T) {
	e := twoKind(t)
	s := Initial(e)
	assert.Equal(t, 0, s.Tick)
	assert.Equal(t, economy.Vector{1, 0}, s.Producers)
	assert.Equal(t, economy.Vector{}, s.Stock)
	assert.Equal(t, 0, s.Score(e))
}

func TestIdle(t *testing.T) {
	s := State{Tick: 2, Producers: economy.Vector{2, 1}, Stock: economy.Vector{1, 4}}
	next := s.Idle()
	assert.Equal(t, State{Tick: 3, Producers: economy.Vector{2, 1}, Stock: economy.Vector{3, 5}}, next)
	assert.Equal(t, 2, s.Tick, "input must not change")
}

func TestBuildDelaysYield(t *testing.T) {
	e := twoKind(t)
	s := State{Tick: 5, Producers: economy.Vector{1, 0}, Stock: economy.Vector{3, 0}}
	next, ok := s.Build(e, 1)
	require.True(t, ok)
	// 3 - 3 + 1 ore; the new geode producer yields nothing this tick.
	assert.Equal(t, State{Tick: 6, Producers: economy.Vector{1, 1}, Stock: economy.Vector{1, 0}}, next)

	after := next.Idle()
	assert.Equal(t, 1, after.Score(e))
}

func TestBuildUnaffordable(t *testing.T) {
	e := twoKind(t)
	s := State{Producers: economy.Vector{1, 0}, Stock: economy.Vector{2, 0}}
	_, ok := s.Build(e, 1)
	assert.False(t, ok)
}

func TestBuildWithoutRecipe(t *testing.T) {
	e, err := economy.New(1, []string{"ore", "geode"}, map[string]map[string]int{"geode": {"ore": 1}}, "ore", "geode")
	require.NoError(t, err)
	s := State{Producers: economy.Vector{1, 0}, Stock: economy.Vector{10, 0}}
	_, ok := s.Build(e, 0)
	assert.False(t, ok)
}

func TestSuccessors(t *testing.T) {
	e := twoKind(t)
	s := State{Tick: 1, Producers: economy.Vector{1, 0}, Stock: economy.Vector{3, 0}}
	succ := Successors(e, s, 10)
	require.Len(t, succ, 3)
	assert.True(t, succ[0].Build)
	assert.Equal(t, economy.Kind(0), succ[0].Built)
	assert.True(t, succ[1].Build)
	assert.Equal(t, economy.Kind(1), succ[1].Built)
	assert.False(t, succ[2].Build)
	assert.Equal(t, s.Idle(), succ[2].Next)
	for _, tr := range succ {
		assert.Equal(t, 2, tr.Next.Tick)
	}
}

func TestSuccessorsAtHorizon(t *testing.T) {
	e := twoKind(t)
	s := State{Tick: 4, Producers: economy.Vector{1, 0}}
	assert.Empty(t, Successors(e, s, 4))
}

func TestStateIsMapKey(t *testing.T) {
	a := State{Tick: 1, Producers: economy.Vector{1}, Stock: economy.Vector{2}}
	b := State{Tick: 1, Producers: economy.Vector{1}, Stock: economy.Vector{2}}
	seen := map[State]int{a: 4}
	v, ok := seen[b]
	assert.True(t, ok)
	assert.Equal(t, 4, v)
}

func TestFormat(t *testing.T) {
	e := twoKind(t)
	s := State{Tick: 3, Producers: economy.Vector{2, 1}, Stock: economy.Vector{4, 1}}
	assert.Equal(t, "t=3 ore=2/4 geode=1/1", s.Format(e))
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 4, State{Tick: 20}.Remaining(24))
	assert.Equal(t, 0, State{Tick: 24}.Remaining(24))
	assert.Equal(t, 0, State{Tick: 30}.Remaining(24))
}
