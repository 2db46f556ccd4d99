package rules

import (
	telemetry "growmind-cloud/internal/telemetry/domain"
)

// Evaluate returns the verdict for one rule against one snapshot. It is a
// pure function: identical inputs always yield identical verdicts, and no
// state is kept between calls. Callers are responsible for excluding
// disabled rules before evaluation.
func Evaluate(rule Rule, snapshot telemetry.Snapshot) Verdict {
	condition, err := ParseCondition(rule.When)
	if err != nil {
		return VerdictUnknown
	}
	value, ok := ResolveMetric(condition.Metric, snapshot)
	if !ok {
		return VerdictUnknown
	}
	if condition.Holds(value) {
		return VerdictMatch
	}
	return VerdictNoMatch
}
