package memory

import (
	"context"
	"sync"
	"time"

	telemetry "growmind-cloud/internal/telemetry/domain"
)

type point struct {
	value float64
	ts    time.Time
}

// Repository is an in-memory telemetry store holding the latest reading
// per role. It doubles as a snapshot source for database-less runs.
type Repository struct {
	mu     sync.RWMutex
	latest map[string]point
}

// NewRepository constructs an empty repository.
func NewRepository() *Repository {
	return &Repository{latest: make(map[string]point)}
}

// InsertMeasurements stores readings, keeping the newest per role.
func (r *Repository) InsertMeasurements(ctx context.Context, measurements []telemetry.Measurement) error {
	_ = ctx
	for _, m := range measurements {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range measurements {
		ts := m.TS
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		current, ok := r.latest[m.Role]
		if ok && current.ts.After(ts) {
			continue
		}
		r.latest[m.Role] = point{value: m.Value, ts: ts.UTC()}
	}
	return nil
}

// Snapshot returns the latest value per role.
func (r *Repository) Snapshot(ctx context.Context) (telemetry.Snapshot, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(telemetry.Snapshot, len(r.latest))
	for role, p := range r.latest {
		snapshot[role] = p.value
	}
	return snapshot, nil
}
