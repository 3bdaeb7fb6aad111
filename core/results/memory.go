package results

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kilianp07/foundry/core/evaluator"
)

// MemoryStore stores reports in memory for testing or lightweight usage.
type MemoryStore struct {
	mu        sync.Mutex
	runs      []Run
	instances map[string][]Instance
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{instances: map[string][]Instance{}}
}

// Save stores the report, replacing any earlier run with the same ID.
func (s *MemoryStore) Save(rep evaluator.Report) error {
	if rep.RunID == "" {
		return fmt.Errorf("save: empty run id")
	}
	run, inst := Flatten(rep)
	sort.Slice(inst, func(i, j int) bool { return inst[i].Economy < inst[j].Economy })

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.runs {
		if r.ID == run.ID {
			s.runs = append(s.runs[:i], s.runs[i+1:]...)
			break
		}
	}
	s.runs = append(s.runs, run)
	s.instances[run.ID] = inst
	return nil
}

// Runs returns stored runs, newest first.
func (s *MemoryStore) Runs(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]Run, len(s.runs))
	copy(res, s.runs)
	sort.SliceStable(res, func(i, j int) bool { return res[i].Started.After(res[j].Started) })
	if limit > 0 && limit < len(res) {
		res = res[:limit]
	}
	return res, nil
}

// Instances returns the instances stored for runID.
func (s *MemoryStore) Instances(runID string) ([]Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return append([]Instance(nil), inst...), nil
}

var _ Store = (*MemoryStore)(nil)
