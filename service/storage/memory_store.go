package storage

import (
	"sort"
	"sync"

	"github.com/elC0mpa/cloud-doctor/model"
)

// MemoryStore keeps run records in process memory. It backs the CLI when no
// data directory is configured and is used in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]model.RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: map[string]model.RunRecord{}}
}

func (s *MemoryStore) SaveRun(r model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = r
	return nil
}

func (s *MemoryStore) GetRun(id string) (*model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) ListRuns(limit int) ([]model.RunRecord, error) {
	s.mu.RLock()
	out := make([]model.RunRecord, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
