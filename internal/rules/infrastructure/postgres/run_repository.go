package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"growmind-cloud/internal/rules/application"
)

// RunRepository is a Postgres run record store.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository constructs a repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Insert stores a run record. Verdicts and failures are kept as jsonb.
func (r *RunRepository) Insert(ctx context.Context, record *application.RunRecord) error {
	if r == nil || r.db == nil {
		return errors.New("run repo: nil db")
	}
	if record == nil {
		return errors.New("run repo: nil record")
	}
	if record.ID == "" {
		return errors.New("run repo: empty id")
	}
	verdicts, err := json.Marshal(record.Verdicts)
	if err != nil {
		return err
	}
	failures, err := json.Marshal(record.Failures)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO automation_runs (
	id, mode, evaluated, matched, resolved, succeeded, failed,
	verdicts, failures, started_at, finished_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7,
	$8, $9, $10, $11
)`,
		record.ID,
		string(record.Mode),
		record.Evaluated,
		record.Matched,
		record.Resolved,
		record.Succeeded,
		record.Failed,
		verdicts,
		failures,
		record.StartedAt,
		record.FinishedAt,
	)
	return err
}

// List returns the most recent run records, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]application.RunRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("run repo: nil db")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, mode, evaluated, matched, resolved, succeeded, failed,
	verdicts, failures, started_at, finished_at
FROM automation_runs
ORDER BY started_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []application.RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Get fetches a run record by id.
func (r *RunRepository) Get(ctx context.Context, id string) (*application.RunRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("run repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, mode, evaluated, matched, resolved, succeeded, failed,
	verdicts, failures, started_at, finished_at
FROM automation_runs
WHERE id = $1`, id)
	record, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrRunNotFound
		}
		return nil, err
	}
	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*application.RunRecord, error) {
	var record application.RunRecord
	var mode string
	var verdicts, failures []byte
	if err := row.Scan(
		&record.ID,
		&mode,
		&record.Evaluated,
		&record.Matched,
		&record.Resolved,
		&record.Succeeded,
		&record.Failed,
		&verdicts,
		&failures,
		&record.StartedAt,
		&record.FinishedAt,
	); err != nil {
		return nil, err
	}
	record.Mode = application.Mode(mode)
	if len(verdicts) > 0 {
		if err := json.Unmarshal(verdicts, &record.Verdicts); err != nil {
			return nil, err
		}
	}
	if len(failures) > 0 {
		if err := json.Unmarshal(failures, &record.Failures); err != nil {
			return nil, err
		}
	}
	return &record, nil
}
