package application

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"growmind-cloud/internal/actuation"
	"growmind-cloud/internal/observability/metrics"
	"growmind-cloud/internal/roles"
	rules "growmind-cloud/internal/rules/domain"
	telemetry "growmind-cloud/internal/telemetry/domain"
)

// Mode selects between evaluation-only and full execution.
type Mode string

const (
	ModePreview Mode = "preview"
	ModeExecute Mode = "execute"
)

// Valid returns true when the mode is known.
func (m Mode) Valid() bool {
	return m == ModePreview || m == ModeExecute
}

// FailureKind classifies per-rule execution failures.
type FailureKind string

const (
	FailureActionUnresolved FailureKind = "action_unresolved"
	FailureActuation        FailureKind = "actuation_failure"
)

// Failure records one failed rule in a run.
type Failure struct {
	RuleID   string      `json:"rule_id"`
	RuleName string      `json:"rule_name"`
	Kind     FailureKind `json:"kind"`
	Detail   string      `json:"detail,omitempty"`
}

// RuleVerdict is the evaluation result for one enabled rule.
type RuleVerdict struct {
	RuleID   string         `json:"rule_id"`
	RuleName string         `json:"rule_name"`
	Priority rules.Priority `json:"priority"`
	Verdict  rules.Verdict  `json:"verdict"`
}

// RunSummary aggregates one run over a rule set.
type RunSummary struct {
	Mode       Mode          `json:"mode"`
	Evaluated  int           `json:"evaluated"`
	Matched    int           `json:"matched"`
	Resolved   int           `json:"resolved"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	Verdicts   []RuleVerdict `json:"verdicts"`
	Failures   []Failure     `json:"failures"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Runner executes rule sets against one shared snapshot. Evaluation is
// synchronous; actuation calls for distinct matched rules are dispatched
// concurrently and joined before the summary is built, so the summary
// always reflects every outcome. Two matched rules targeting the same role
// race at the control surface; the engine does not serialize per role.
type Runner struct {
	actuator actuation.Actuator
	logger   *log.Logger
}

// NewRunner constructs a Runner.
func NewRunner(actuator actuation.Actuator, logger *log.Logger) (*Runner, error) {
	if actuator == nil {
		return nil, errors.New("rules runner: nil actuator")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{actuator: actuator, logger: logger}, nil
}

type dispatch struct {
	rule   rules.Rule
	action rules.Action
}

// Run evaluates the rule set against the snapshot and, in execute mode,
// applies the actions of matching rules. Disabled rules are skipped
// entirely. Per-rule failures never abort the run; only structurally
// invalid input errors out.
func (r *Runner) Run(ctx context.Context, ruleSet []rules.Rule, mode Mode, snapshot telemetry.Snapshot, directory *roles.Directory) (RunSummary, error) {
	start := time.Now().UTC()
	if ruleSet == nil {
		metrics.ObserveRun(string(mode), metrics.ResultError, time.Since(start))
		return RunSummary{}, errors.New("rules runner: nil rule set")
	}
	if !mode.Valid() {
		metrics.ObserveRun(string(mode), metrics.ResultError, time.Since(start))
		return RunSummary{}, errors.New("rules runner: invalid mode")
	}
	if mode == ModeExecute && directory == nil {
		metrics.ObserveRun(string(mode), metrics.ResultError, time.Since(start))
		return RunSummary{}, errors.New("rules runner: nil role directory")
	}

	summary := RunSummary{Mode: mode, StartedAt: start}

	var matched []rules.Rule
	for _, rule := range ruleSet {
		if !rule.Enabled {
			continue
		}
		verdict := rules.Evaluate(rule, snapshot)
		metrics.IncVerdict(string(verdict))
		summary.Evaluated++
		summary.Verdicts = append(summary.Verdicts, RuleVerdict{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			Priority: rule.Priority,
			Verdict:  verdict,
		})
		if verdict == rules.VerdictMatch {
			matched = append(matched, rule)
		}
	}
	summary.Matched = len(matched)

	if mode == ModePreview {
		summary.FinishedAt = time.Now().UTC()
		metrics.ObserveRun(string(mode), metrics.ResultSuccess, time.Since(start))
		return summary, nil
	}

	var dispatches []dispatch
	for _, rule := range matched {
		action, err := rules.ParseAction(rule.Then, directory)
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				Kind:     FailureActionUnresolved,
				Detail:   err.Error(),
			})
			metrics.IncActionFailure(string(FailureActionUnresolved))
			continue
		}
		dispatches = append(dispatches, dispatch{rule: rule, action: action})
	}
	summary.Resolved = len(dispatches)

	results := make([]error, len(dispatches))
	var wg sync.WaitGroup
	for i := range dispatches {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := dispatches[i]
			results[i] = r.actuator.Apply(ctx, d.action.Category, d.action.Role, d.action.Value)
		}(i)
	}
	wg.Wait()

	for i, err := range results {
		d := dispatches[i]
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				RuleID:   d.rule.ID,
				RuleName: d.rule.Name,
				Kind:     FailureActuation,
				Detail:   err.Error(),
			})
			metrics.IncActionFailure(string(FailureActuation))
			r.logger.Printf("rules runner: actuation failed: rule=%s role=%s err=%v", d.rule.ID, d.action.Role, err)
			continue
		}
		summary.Succeeded++
	}

	summary.FinishedAt = time.Now().UTC()
	metrics.ObserveRun(string(mode), metrics.ResultSuccess, time.Since(start))
	return summary, nil
}
