package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	rules "growmind-cloud/internal/rules/domain"
)

// RuleStore is an in-memory rule store for tests and database-less runs.
type RuleStore struct {
	mu   sync.RWMutex
	data map[string]rules.Rule
}

// NewRuleStore constructs an empty store.
func NewRuleStore() *RuleStore {
	return &RuleStore{data: make(map[string]rules.Rule)}
}

// List returns all rules ordered by creation time, then id.
func (s *RuleStore) List(ctx context.Context) ([]rules.Rule, error) {
	_ = ctx
	s.mu.RLock()
	out := make([]rules.Rule, 0, len(s.data))
	for _, rule := range s.data {
		out = append(out, rule)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Get fetches a rule by id.
func (s *RuleStore) Get(ctx context.Context, id string) (*rules.Rule, error) {
	_ = ctx
	s.mu.RLock()
	rule, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, rules.ErrNotFound
	}
	out := rule
	return &out, nil
}

// Save upserts a rule.
func (s *RuleStore) Save(ctx context.Context, rule *rules.Rule) error {
	_ = ctx
	if rule == nil {
		return errors.New("memory rule store: nil rule")
	}
	if rule.ID == "" {
		return errors.New("memory rule store: empty id")
	}
	s.mu.Lock()
	s.data[rule.ID] = *rule
	s.mu.Unlock()
	return nil
}

// Delete removes a rule by id.
func (s *RuleStore) Delete(ctx context.Context, id string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return rules.ErrNotFound
	}
	delete(s.data, id)
	return nil
}
