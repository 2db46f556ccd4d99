package rules

import (
	"errors"
	"strings"
	"time"
)

// Priority orders rules for caller-side presentation. The evaluator itself
// ignores it.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid returns true when the priority is a known level.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ErrNotFound is returned by rule stores for unknown rule ids.
var ErrNotFound = errors.New("rules: not found")

// Rule is an operator-written condition/action pair. The engine treats a
// rule as immutable input for the duration of one run.
type Rule struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Enabled   bool      `json:"enabled"`
	When      string    `json:"when"`
	Then      string    `json:"then"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Validate checks rule invariants before persistence. Free-text when/then
// contents are not validated here; unparseable text surfaces as an unknown
// verdict or an unresolved action at run time.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("rules: empty name")
	}
	if strings.TrimSpace(r.When) == "" {
		return errors.New("rules: empty when text")
	}
	if strings.TrimSpace(r.Then) == "" {
		return errors.New("rules: empty then text")
	}
	if !r.Priority.Valid() {
		return errors.New("rules: invalid priority")
	}
	return nil
}
