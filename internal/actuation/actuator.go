package actuation

import (
	"context"

	"growmind-cloud/internal/roles"
	rules "growmind-cloud/internal/rules/domain"
)

// Actuator applies an action value to a role on the external control
// surface. Apply is expected to be idempotent for a given value; the
// engine performs no retries and the control surface owns durability and
// its own latency bounds.
type Actuator interface {
	Apply(ctx context.Context, category roles.Category, role string, value rules.Value) error
}
