package application_test

import (
	"context"
	"errors"
	"testing"

	actuationmem "growmind-cloud/internal/actuation/memory"
	"growmind-cloud/internal/roles"
	"growmind-cloud/internal/rules/application"
	rules "growmind-cloud/internal/rules/domain"
	rulesmem "growmind-cloud/internal/rules/infrastructure/memory"
	telemetry "growmind-cloud/internal/telemetry/domain"
	telemetrymem "growmind-cloud/internal/telemetry/infrastructure/memory"
)

type serviceFixture struct {
	service   *application.Service
	store     *rulesmem.RuleStore
	runs      *rulesmem.RunStore
	telemetry *telemetrymem.Repository
	actuator  *actuationmem.Actuator
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	store := rulesmem.NewRuleStore()
	runs := rulesmem.NewRunStore()
	telemetryStore := telemetrymem.NewRepository()
	actuator := actuationmem.NewActuator()
	runner, err := application.NewRunner(actuator, nil)
	if err != nil {
		t.Fatalf("runner: %v", err)
	}
	service, err := application.NewService(store, telemetryStore, roles.DefaultDirectory(), runner, runs, nil)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return &serviceFixture{
		service:   service,
		store:     store,
		runs:      runs,
		telemetry: telemetryStore,
		actuator:  actuator,
	}
}

func (f *serviceFixture) ingest(t *testing.T, role string, value float64) {
	t.Helper()
	err := f.telemetry.InsertMeasurements(context.Background(), []telemetry.Measurement{
		{Role: role, Value: value},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
}

func TestSaveRuleAssignsID(t *testing.T) {
	f := newServiceFixture(t)
	rule := rules.Rule{
		Name:     "high vpd",
		Enabled:  true,
		When:     "vpd > 1.6",
		Then:     "Schalte air_circulation an",
		Priority: rules.PriorityHigh,
	}
	if err := f.service.SaveRule(context.Background(), &rule); err != nil {
		t.Fatalf("save: %v", err)
	}
	if rule.ID == "" {
		t.Fatal("id not assigned")
	}
	if rule.CreatedAt.IsZero() || rule.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", rule)
	}
	items, err := f.service.ListRules(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != rule.ID {
		t.Fatalf("list: %+v", items)
	}
}

func TestSaveRuleRejectsInvalid(t *testing.T) {
	f := newServiceFixture(t)
	cases := []rules.Rule{
		{Name: "", When: "vpd > 1", Then: "x 1", Priority: rules.PriorityLow},
		{Name: "a", When: "", Then: "x 1", Priority: rules.PriorityLow},
		{Name: "a", When: "vpd > 1", Then: "", Priority: rules.PriorityLow},
		{Name: "a", When: "vpd > 1", Then: "x 1", Priority: "urgent"},
	}
	for i, rule := range cases {
		if err := f.service.SaveRule(context.Background(), &rule); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestDeleteRuleNotFound(t *testing.T) {
	f := newServiceFixture(t)
	if err := f.service.DeleteRule(context.Background(), "missing"); !errors.Is(err, rules.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExecutePersistsRunRecord(t *testing.T) {
	f := newServiceFixture(t)
	f.ingest(t, "actual_vpd", 1.8)
	rule := rules.Rule{
		Name:     "high vpd",
		Enabled:  true,
		When:     "vpd > 1.6",
		Then:     "Schalte air_circulation an",
		Priority: rules.PriorityHigh,
	}
	if err := f.service.SaveRule(context.Background(), &rule); err != nil {
		t.Fatalf("save: %v", err)
	}

	summary, err := f.service.Execute(context.Background())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if summary.Matched != 1 || summary.Succeeded != 1 {
		t.Fatalf("summary: %+v", summary)
	}

	records, err := f.runs.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("run records: got %d, want 1", len(records))
	}
	record := records[0]
	if record.Mode != application.ModeExecute || record.Matched != 1 || record.Succeeded != 1 {
		t.Fatalf("record: %+v", record)
	}
}

func TestPreviewDoesNotPersistOrActuate(t *testing.T) {
	f := newServiceFixture(t)
	f.ingest(t, "actual_vpd", 1.8)
	rule := rules.Rule{
		Name:     "high vpd",
		Enabled:  true,
		When:     "vpd > 1.6",
		Then:     "Schalte air_circulation an",
		Priority: rules.PriorityMedium,
	}
	if err := f.service.SaveRule(context.Background(), &rule); err != nil {
		t.Fatalf("save: %v", err)
	}

	summary, err := f.service.Preview(context.Background())
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if summary.Matched != 1 {
		t.Fatalf("summary: %+v", summary)
	}
	if applied := f.actuator.Applied(); len(applied) != 0 {
		t.Fatalf("preview actuated %d times", len(applied))
	}
	records, err := f.runs.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("preview persisted %d records", len(records))
	}
}

func TestExecuteWithNoRules(t *testing.T) {
	f := newServiceFixture(t)
	summary, err := f.service.Execute(context.Background())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if summary.Evaluated != 0 || summary.Matched != 0 {
		t.Fatalf("summary: %+v", summary)
	}
}
