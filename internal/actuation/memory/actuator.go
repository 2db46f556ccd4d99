package memory

import (
	"context"
	"fmt"
	"sync"

	"growmind-cloud/internal/roles"
	rules "growmind-cloud/internal/rules/domain"
)

// Apply records one actuation call.
type Apply struct {
	Category roles.Category
	Role     string
	Value    rules.Value
}

// Actuator is an in-memory control surface for tests and database-less
// runs. Failures can be injected per role.
type Actuator struct {
	mu        sync.Mutex
	applied   []Apply
	failRoles map[string]bool
}

// NewActuator constructs an in-memory actuator.
func NewActuator() *Actuator {
	return &Actuator{failRoles: make(map[string]bool)}
}

// FailRole makes subsequent applies for a role fail.
func (a *Actuator) FailRole(role string) {
	a.mu.Lock()
	a.failRoles[role] = true
	a.mu.Unlock()
}

// Apply records the call, or fails when the role has an injected failure.
func (a *Actuator) Apply(ctx context.Context, category roles.Category, role string, value rules.Value) error {
	_ = ctx
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failRoles[role] {
		return fmt.Errorf("memory actuator: injected failure for role %s", role)
	}
	a.applied = append(a.applied, Apply{Category: category, Role: role, Value: value})
	return nil
}

// Applied returns a copy of all recorded applies.
func (a *Actuator) Applied() []Apply {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Apply, len(a.applied))
	copy(out, a.applied)
	return out
}
