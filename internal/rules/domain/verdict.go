package rules

// Verdict is the tri-state result of evaluating one rule against one
// snapshot. Unknown covers unparseable conditions as well as conditions
// whose metric has no resolvable telemetry value.
type Verdict string

const (
	VerdictMatch   Verdict = "match"
	VerdictNoMatch Verdict = "no_match"
	VerdictUnknown Verdict = "unknown"
)
