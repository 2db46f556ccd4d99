package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	rules "growmind-cloud/internal/rules/domain"
)

// RuleRepository is a Postgres rule store.
type RuleRepository struct {
	db *sql.DB
}

// NewRuleRepository constructs a repository.
func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// List returns all rules ordered by creation time.
func (r *RuleRepository) List(ctx context.Context) ([]rules.Rule, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("rule repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, enabled, when_text, then_text, priority, created_at, updated_at
FROM rules
ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []rules.Rule
	for rows.Next() {
		var rule rules.Rule
		if err := rows.Scan(&rule.ID, &rule.Name, &rule.Enabled, &rule.When, &rule.Then, &rule.Priority, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Get fetches a rule by id.
func (r *RuleRepository) Get(ctx context.Context, id string) (*rules.Rule, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("rule repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, enabled, when_text, then_text, priority, created_at, updated_at
FROM rules
WHERE id = $1`, id)
	var rule rules.Rule
	if err := row.Scan(&rule.ID, &rule.Name, &rule.Enabled, &rule.When, &rule.Then, &rule.Priority, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rules.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// Save upserts a rule.
func (r *RuleRepository) Save(ctx context.Context, rule *rules.Rule) error {
	if r == nil || r.db == nil {
		return errors.New("rule repo: nil db")
	}
	if rule == nil {
		return errors.New("rule repo: nil rule")
	}
	if rule.ID == "" {
		return errors.New("rule repo: empty id")
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	if rule.UpdatedAt.IsZero() {
		rule.UpdatedAt = rule.CreatedAt
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO rules (id, name, enabled, when_text, then_text, priority, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id)
DO UPDATE SET
	name = EXCLUDED.name,
	enabled = EXCLUDED.enabled,
	when_text = EXCLUDED.when_text,
	then_text = EXCLUDED.then_text,
	priority = EXCLUDED.priority,
	updated_at = EXCLUDED.updated_at`,
		rule.ID,
		rule.Name,
		rule.Enabled,
		rule.When,
		rule.Then,
		string(rule.Priority),
		rule.CreatedAt,
		rule.UpdatedAt,
	)
	return err
}

// Delete removes a rule by id.
func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("rule repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return rules.ErrNotFound
	}
	return nil
}
