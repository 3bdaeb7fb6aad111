package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/foundry/core/economy"
	"github.com/kilianp07/foundry/core/pruning"
	"github.com/kilianp07/foundry/core/state"
)

func mustEconomy(t *testing.T, kinds []string, recipes map[string]map[string]int, root, terminal string) *economy.Economy {
	t.Helper()
	e, err := economy.New(1, kinds, recipes, root, terminal)
	require.NoError(t, err)
	return e
}

func classic(t *testing.T, id, oreOre, clayOre, obsOre, obsClay, geoOre, geoObs int) *economy.Economy {
	t.Helper()
	e, err := economy.New(id, []string{"ore", "clay", "obsidian", "geode"}, map[string]map[string]int{
		"ore":      {"ore": oreOre},
		"clay":     {"ore": clayOre},
		"obsidian": {"ore": obsOre, "clay": obsClay},
		"geode":    {"ore": geoOre, "obsidian": geoObs},
	}, "ore", "geode")
	require.NoError(t, err)
	return e
}

func solveWith(t *testing.T, e *economy.Economy, horizon int, p pruning.Policy) Result {
	t.Helper()
	res, err := New(Options{Horizon: horizon, Policy: p}).Run(context.Background(), e)
	require.NoError(t, err)
	return res
}

func TestSingleTerminalProducerScenario(t *testing.T) {
	e := mustEconomy(t, []string{"ore", "geode"}, map[string]map[string]int{"geode": {"ore": 1}}, "ore", "geode")
	res := solveWith(t, e, 4, pruning.Default())
	assert.Equal(t, 3, res.Score)
	assert.True(t, res.Exhaustive)
	assert.NoError(t, res.Stop)
}

func TestTerminalIsRoot(t *testing.T) {
	e := mustEconomy(t, []string{"geode"}, nil, "geode", "geode")
	for _, h := range []int{0, 1, 5, 24} {
		assert.Equal(t, h, solveWith(t, e, h, pruning.Default()).Score, "horizon %d", h)
	}
}

func TestUnreachableTerminal(t *testing.T) {
	// Nothing ever produces crystal, so geode producers can never be built.
	e := mustEconomy(t, []string{"ore", "crystal", "geode"}, map[string]map[string]int{
		"ore":   {"ore": 2},
		"geode": {"ore": 1, "crystal": 1},
	}, "ore", "geode")
	for _, h := range []int{0, 3, 10, 16} {
		res := solveWith(t, e, h, pruning.Default())
		assert.Equal(t, 0, res.Score, "horizon %d", h)
		assert.True(t, res.Exhaustive)
	}
}

func TestRateCapLimitsProducers(t *testing.T) {
	e := mustEconomy(t, []string{"ore", "clay", "geode"}, map[string]map[string]int{
		"ore":   {"ore": 1},
		"clay":  {"ore": 1},
		"geode": {"ore": 1, "clay": 2},
	}, "ore", "geode")
	clay, _ := e.KindByName("clay")
	require.Equal(t, 2, e.MaxConsumption(clay))

	observed := 0
	res, err := New(Options{
		Horizon: 12,
		Policy:  pruning.Exhaustive(),
		Observer: func(s state.State) {
			observed++
			assert.LessOrEqual(t, s.Producers[clay], 2)
		},
	}).Run(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, res.Nodes, observed)
	assert.LessOrEqual(t, res.Peak[clay], 2)
	assert.Positive(t, res.Capped)
}

func TestMonotonicInHorizon(t *testing.T) {
	e := mustEconomy(t, []string{"ore", "clay", "geode"}, map[string]map[string]int{
		"ore":   {"ore": 2},
		"clay":  {"ore": 2},
		"geode": {"ore": 2, "clay": 3},
	}, "ore", "geode")
	prev := 0
	for h := 0; h <= 16; h++ {
		score := solveWith(t, e, h, pruning.Exhaustive()).Score
		assert.GreaterOrEqual(t, score, prev, "horizon %d", h)
		prev = score
	}
	assert.Positive(t, prev)
}

func TestDeterministic(t *testing.T) {
	e := classic(t, 1, 4, 2, 3, 14, 2, 7)
	first := solveWith(t, e, 18, pruning.Default())
	for i := 0; i < 3; i++ {
		again := solveWith(t, e, 18, pruning.Default())
		assert.Equal(t, first.Score, again.Score)
		assert.Equal(t, first.Nodes, again.Nodes)
	}
}

func TestDedupDoesNotChangeScore(t *testing.T) {
	e := mustEconomy(t, []string{"ore", "clay", "geode"}, map[string]map[string]int{
		"ore":   {"ore": 2},
		"clay":  {"ore": 1},
		"geode": {"ore": 2, "clay": 2},
	}, "ore", "geode")
	for _, h := range []int{6, 8, 10} {
		without := pruning.Exhaustive()
		without.Dedup = false
		a := solveWith(t, e, h, pruning.Exhaustive())
		b := solveWith(t, e, h, without)
		assert.Equal(t, a.Score, b.Score, "horizon %d", h)
		assert.Zero(t, b.Duplicates)
	}
}

func TestFiltersDoNotChangeScore(t *testing.T) {
	e := mustEconomy(t, []string{"ore", "clay", "geode"}, map[string]map[string]int{
		"ore":   {"ore": 3},
		"clay":  {"ore": 2},
		"geode": {"ore": 2, "clay": 4},
	}, "ore", "geode")
	const h = 11
	full := solveWith(t, e, h, pruning.Exhaustive())
	bare := solveWith(t, e, h, pruning.Policy{})
	noBound := pruning.Exhaustive()
	noBound.Bound = false
	noCap := pruning.Exhaustive()
	noCap.RateCap = false

	assert.Equal(t, bare.Score, full.Score)
	assert.Equal(t, bare.Score, solveWith(t, e, h, noBound).Score)
	assert.Equal(t, bare.Score, solveWith(t, e, h, noCap).Score)
	assert.Less(t, full.Nodes, bare.Nodes)
}

func TestGreedyCommitNeverExceedsExhaustive(t *testing.T) {
	e := mustEconomy(t, []string{"ore", "clay", "geode"}, map[string]map[string]int{
		"ore":   {"ore": 2},
		"clay":  {"ore": 2},
		"geode": {"ore": 3, "clay": 2},
	}, "ore", "geode")
	for _, h := range []int{8, 12, 15} {
		greedy := solveWith(t, e, h, pruning.Default())
		full := solveWith(t, e, h, pruning.Exhaustive())
		assert.LessOrEqual(t, greedy.Score, full.Score, "horizon %d", h)
	}

	a := mustEconomy(t, []string{"ore", "geode"}, map[string]map[string]int{"geode": {"ore": 1}}, "ore", "geode")
	assert.Equal(t, solveWith(t, a, 9, pruning.Exhaustive()).Score, solveWith(t, a, 9, pruning.Default()).Score)
}

func TestClassicBlueprints(t *testing.T) {
	if testing.Short() {
		t.Skip("full-horizon search")
	}
	cases := []struct {
		e    *economy.Economy
		want int
	}{
		{classic(t, 1, 4, 2, 3, 14, 2, 7), 9},
		{classic(t, 2, 2, 3, 3, 8, 3, 12), 12},
	}
	for _, c := range cases {
		score, err := Solve(c.e, 24)
		require.NoError(t, err)
		assert.Equal(t, c.want, score, "blueprint %d", c.e.ID())
	}
}

func TestNodeBudget(t *testing.T) {
	e := classic(t, 1, 4, 2, 3, 14, 2, 7)
	res, err := New(Options{Horizon: 24, Policy: pruning.Default(), Budget: Budget{MaxNodes: 50}}).Run(context.Background(), e)
	require.NoError(t, err)
	assert.False(t, res.Exhaustive)
	assert.True(t, errors.Is(res.Stop, ErrBudgetExceeded))
	assert.Equal(t, 50, res.Nodes)
}

func TestCancelledContext(t *testing.T) {
	e := classic(t, 1, 4, 2, 3, 14, 2, 7)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := New(Options{Horizon: 24, Policy: pruning.Default()}).Run(ctx, e)
	require.NoError(t, err)
	assert.False(t, res.Exhaustive)
	assert.True(t, errors.Is(res.Stop, ErrBudgetExceeded))
	assert.Zero(t, res.Score)
}

func TestTimeoutBudget(t *testing.T) {
	e := classic(t, 1, 4, 2, 3, 14, 2, 7)
	res, err := New(Options{
		Horizon: 24,
		Policy:  pruning.Default(),
		Budget:  Budget{Timeout: time.Nanosecond},
	}).Run(context.Background(), e)
	require.NoError(t, err)
	assert.False(t, res.Exhaustive)
}

func TestInvalidInput(t *testing.T) {
	_, err := New(Options{Horizon: 3}).Run(context.Background(), nil)
	assert.Error(t, err)

	e := mustEconomy(t, []string{"geode"}, nil, "geode", "geode")
	_, err = New(Options{Horizon: -1}).Run(context.Background(), e)
	assert.True(t, errors.Is(err, ErrHorizon))
}

func TestPreferredOrder(t *testing.T) {
	e := classic(t, 1, 1, 1, 1, 1, 1, 1)
	ts := []state.Transition{
		{},
		{Build: true, Built: 0},
		{Build: true, Built: 2},
		{Build: true, Built: 3},
		{Build: true, Built: 1},
	}
	got := preferred(e, ts)
	var order []int
	for _, tr := range got {
		if !tr.Build {
			order = append(order, -1)
			continue
		}
		order = append(order, int(tr.Built))
	}
	assert.Equal(t, []int{3, 2, 1, 0, -1}, order)
}
