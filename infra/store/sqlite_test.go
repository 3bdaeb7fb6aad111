package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/foundry/core/evaluator"
	"github.com/kilianp07/foundry/core/results"
	"github.com/kilianp07/foundry/core/search"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func report(id string, started time.Time, scores ...int) evaluator.Report {
	rep := evaluator.Report{RunID: id, Mode: evaluator.ModeProduct, Horizon: 32, Started: started}
	for i, sc := range scores {
		rep.Instances = append(rep.Instances, evaluator.InstanceResult{
			ID:     i + 1,
			Result: search.Result{Score: sc, Nodes: 100, Pruned: 7, Exhaustive: i == 0, Elapsed: time.Millisecond},
		})
	}
	rep.Value, _ = evaluator.Aggregate(rep.Mode, rep.Instances)
	rep.Summary.Elapsed = 3 * time.Millisecond
	return rep
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newStore(t)
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(report("old", t0, 2)))
	require.NoError(t, s.Save(report("new", t0.Add(time.Minute), 56, 62)))

	runs, err := s.Runs(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, 56*62, runs[0].Value)
	assert.Equal(t, "product", runs[0].Mode)
	assert.True(t, t0.Add(time.Minute).Equal(runs[0].Started))
	assert.Equal(t, 3*time.Millisecond, runs[0].Elapsed)

	runs, err = s.Runs(1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	inst, err := s.Instances("new")
	require.NoError(t, err)
	require.Len(t, inst, 2)
	assert.Equal(t, 62, inst[1].Score)
	assert.Equal(t, 7, inst[1].Pruned)
	assert.True(t, inst[0].Exhaustive)
	assert.False(t, inst[1].Exhaustive)
}

func TestSQLiteStoreReplace(t *testing.T) {
	s := newStore(t)
	now := time.Now()
	require.NoError(t, s.Save(report("a", now, 1, 2, 3)))
	require.NoError(t, s.Save(report("a", now, 4)))

	inst, err := s.Instances("a")
	require.NoError(t, err)
	require.Len(t, inst, 1)
	assert.Equal(t, 4, inst[0].Score)
}

func TestSQLiteStoreErrors(t *testing.T) {
	s := newStore(t)
	assert.Error(t, s.Save(evaluator.Report{}))
	_, err := s.Instances("missing")
	assert.ErrorIs(t, err, results.ErrNotFound)
}
