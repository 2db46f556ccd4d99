package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"growmind-cloud/internal/rules/application"
)

// RunStore is an in-memory run record store.
type RunStore struct {
	mu   sync.RWMutex
	data map[string]application.RunRecord
}

// NewRunStore constructs an empty store.
func NewRunStore() *RunStore {
	return &RunStore{data: make(map[string]application.RunRecord)}
}

// Insert stores a run record.
func (s *RunStore) Insert(ctx context.Context, record *application.RunRecord) error {
	_ = ctx
	if record == nil {
		return errors.New("memory run store: nil record")
	}
	if record.ID == "" {
		return errors.New("memory run store: empty id")
	}
	s.mu.Lock()
	s.data[record.ID] = *record
	s.mu.Unlock()
	return nil
}

// List returns the most recent records, newest first.
func (s *RunStore) List(ctx context.Context, limit int) ([]application.RunRecord, error) {
	_ = ctx
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	out := make([]application.RunRecord, 0, len(s.data))
	for _, record := range s.data {
		out = append(out, record)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Get fetches a run record by id.
func (s *RunStore) Get(ctx context.Context, id string) (*application.RunRecord, error) {
	_ = ctx
	s.mu.RLock()
	record, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, application.ErrRunNotFound
	}
	out := record
	return &out, nil
}
