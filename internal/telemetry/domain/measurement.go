package telemetry

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Measurement is a single sensor or setpoint reading for a role.
type Measurement struct {
	Role  string    `json:"role"`
	Value float64   `json:"value"`
	TS    time.Time `json:"ts"`
}

// Validate checks measurement invariants.
func (m Measurement) Validate() error {
	if strings.TrimSpace(m.Role) == "" {
		return errors.New("telemetry: empty role")
	}
	if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
		return errors.New("telemetry: non-finite value")
	}
	return nil
}

// Snapshot is a point-in-time mapping from role key to its latest finite
// value. Snapshots are captured once per evaluation run and never merged
// or diffed.
type Snapshot map[string]float64

// Value returns the value for a role and whether it is present. A resolved
// zero is distinct from an absent role.
func (s Snapshot) Value(role string) (float64, bool) {
	v, ok := s[role]
	return v, ok
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
