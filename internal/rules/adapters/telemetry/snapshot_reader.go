package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	telemetry "growmind-cloud/internal/telemetry/domain"
)

// SnapshotReader materializes the current role-keyed snapshot from the
// latest persisted telemetry point per role. One snapshot is captured per
// run so all verdicts within a run are mutually consistent.
type SnapshotReader struct {
	db     *sql.DB
	maxAge time.Duration
}

// ReaderOption configures the reader.
type ReaderOption func(*SnapshotReader)

// WithMaxAge excludes points older than the given age from snapshots.
func WithMaxAge(maxAge time.Duration) ReaderOption {
	return func(r *SnapshotReader) {
		if maxAge > 0 {
			r.maxAge = maxAge
		}
	}
}

// NewSnapshotReader constructs a reader.
func NewSnapshotReader(db *sql.DB, opts ...ReaderOption) (*SnapshotReader, error) {
	if db == nil {
		return nil, errors.New("snapshot reader: nil db")
	}
	reader := &SnapshotReader{db: db}
	for _, opt := range opts {
		opt(reader)
	}
	return reader, nil
}

// Snapshot returns the latest value for every role.
func (r *SnapshotReader) Snapshot(ctx context.Context) (telemetry.Snapshot, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("snapshot reader: nil db")
	}

	query := `
SELECT DISTINCT ON (role) role, value
FROM telemetry_points
ORDER BY role ASC, ts DESC`
	args := []any{}
	if r.maxAge > 0 {
		query = `
SELECT DISTINCT ON (role) role, value
FROM telemetry_points
WHERE ts >= $1
ORDER BY role ASC, ts DESC`
		args = append(args, time.Now().UTC().Add(-r.maxAge))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := make(telemetry.Snapshot)
	for rows.Next() {
		var role string
		var value sql.NullFloat64
		if err := rows.Scan(&role, &value); err != nil {
			return nil, err
		}
		if !value.Valid {
			continue
		}
		snapshot[role] = value.Float64
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snapshot, nil
}
