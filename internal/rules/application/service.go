package application

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"growmind-cloud/internal/roles"
	rules "growmind-cloud/internal/rules/domain"
	telemetry "growmind-cloud/internal/telemetry/domain"
)

// RuleStore persists rules.
type RuleStore interface {
	List(ctx context.Context) ([]rules.Rule, error)
	Get(ctx context.Context, id string) (*rules.Rule, error)
	Save(ctx context.Context, rule *rules.Rule) error
	Delete(ctx context.Context, id string) error
}

// SnapshotSource captures the current telemetry snapshot.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (telemetry.Snapshot, error)
}

// RunRecord is a persisted run summary.
type RunRecord struct {
	ID         string        `json:"id"`
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

// ErrRunNotFound is returned by run stores for unknown run ids.
var ErrRunNotFound = errors.New("rules: run not found")

// RunStore persists run records.
type RunStore interface {
	Insert(ctx context.Context, record *RunRecord) error
	List(ctx context.Context, limit int) ([]RunRecord, error)
	Get(ctx context.Context, id string) (*RunRecord, error)
}

// Service orchestrates the rule store, telemetry source, role directory and
// runner. The engine itself holds no state between calls; every preview or
// execute captures a fresh snapshot.
type Service struct {
	store     RuleStore
	source    SnapshotSource
	directory *roles.Directory
	runner    *Runner
	runs      RunStore
	logger    *log.Logger
}

// NewService constructs a Service. The run store may be nil, in which case
// execute runs are not recorded.
func NewService(store RuleStore, source SnapshotSource, directory *roles.Directory, runner *Runner, runs RunStore, logger *log.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("rules service: nil store")
	}
	if source == nil {
		return nil, errors.New("rules service: nil snapshot source")
	}
	if directory == nil {
		return nil, errors.New("rules service: nil role directory")
	}
	if runner == nil {
		return nil, errors.New("rules service: nil runner")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:     store,
		source:    source,
		directory: directory,
		runner:    runner,
		runs:      runs,
		logger:    logger,
	}, nil
}

// ListRules returns all persisted rules.
func (s *Service) ListRules(ctx context.Context) ([]rules.Rule, error) {
	return s.store.List(ctx)
}

// SaveRule validates and upserts a rule, assigning an id when empty.
func (s *Service) SaveRule(ctx context.Context, rule *rules.Rule) error {
	if rule == nil {
		return errors.New("rules service: nil rule")
	}
	if err := rule.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if rule.ID == "" {
		rule.ID = uuid.NewString()
		rule.CreatedAt = now
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now
	return s.store.Save(ctx, rule)
}

// DeleteRule removes a rule by id.
func (s *Service) DeleteRule(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("rules service: empty id")
	}
	return s.store.Delete(ctx, id)
}

// Preview evaluates all enabled rules against a fresh snapshot without
// actuating anything.
func (s *Service) Preview(ctx context.Context) (RunSummary, error) {
	return s.run(ctx, ModePreview)
}

// Execute evaluates all enabled rules against a fresh snapshot and applies
// the actions of matching rules. The resulting summary is persisted when a
// run store is configured.
func (s *Service) Execute(ctx context.Context) (RunSummary, error) {
	return s.run(ctx, ModeExecute)
}

func (s *Service) run(ctx context.Context, mode Mode) (RunSummary, error) {
	ruleSet, err := s.store.List(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	if ruleSet == nil {
		ruleSet = []rules.Rule{}
	}
	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	summary, err := s.runner.Run(ctx, ruleSet, mode, snapshot, s.directory)
	if err != nil {
		return RunSummary{}, err
	}
	if mode == ModeExecute && s.runs != nil {
		record := recordFromSummary(summary)
		if err := s.runs.Insert(ctx, record); err != nil {
			// The run already happened; losing the record must not fail it.
			s.logger.Printf("rules service: run record insert failed: %v", err)
		}
	}
	return summary, nil
}

func recordFromSummary(summary RunSummary) *RunRecord {
	return &RunRecord{
		ID:         uuid.NewString(),
		Mode:       summary.Mode,
		Evaluated:  summary.Evaluated,
		Matched:    summary.Matched,
		Resolved:   summary.Resolved,
		Succeeded:  summary.Succeeded,
		Failed:     summary.Failed,
		Verdicts:   summary.Verdicts,
		Failures:   summary.Failures,
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
	}
}
