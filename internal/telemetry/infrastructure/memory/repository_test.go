package memory

import (
	"context"
	"math"
	"testing"
	"time"

	telemetry "growmind-cloud/internal/telemetry/domain"
)

func TestInsertKeepsLatestPerRole(t *testing.T) {
	repo := NewRepository()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	err := repo.InsertMeasurements(context.Background(), []telemetry.Measurement{
		{Role: "actual_temperature", Value: 22.5, TS: base},
		{Role: "actual_temperature", Value: 23.1, TS: base.Add(time.Minute)},
		{Role: "actual_humidity", Value: 61.0, TS: base},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	snapshot, err := repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got := snapshot["actual_temperature"]; got != 23.1 {
		t.Fatalf("actual_temperature = %v", got)
	}
	if got := snapshot["actual_humidity"]; got != 61.0 {
		t.Fatalf("actual_humidity = %v", got)
	}
}

func TestInsertIgnoresOlderReading(t *testing.T) {
	repo := NewRepository()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	if err := repo.InsertMeasurements(context.Background(), []telemetry.Measurement{
		{Role: "actual_vpd", Value: 1.4, TS: base},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.InsertMeasurements(context.Background(), []telemetry.Measurement{
		{Role: "actual_vpd", Value: 0.9, TS: base.Add(-time.Hour)},
	}); err != nil {
		t.Fatalf("insert stale: %v", err)
	}
	snapshot, _ := repo.Snapshot(context.Background())
	if got := snapshot["actual_vpd"]; got != 1.4 {
		t.Fatalf("actual_vpd = %v, stale reading overwrote newer one", got)
	}
}

func TestInsertRejectsInvalidMeasurement(t *testing.T) {
	repo := NewRepository()
	cases := [][]telemetry.Measurement{
		{{Role: "", Value: 1}},
		{{Role: "actual_ec", Value: math.NaN()}},
		{{Role: "actual_ec", Value: math.Inf(1)}},
	}
	for i, batch := range cases {
		if err := repo.InsertMeasurements(context.Background(), batch); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	snapshot, _ := repo.Snapshot(context.Background())
	if len(snapshot) != 0 {
		t.Fatalf("invalid batch left data behind: %v", snapshot)
	}
}

func TestSnapshotIsEmptyCopy(t *testing.T) {
	repo := NewRepository()
	snapshot, err := repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snapshot) != 0 {
		t.Fatalf("snapshot = %v", snapshot)
	}
	snapshot["injected"] = 1
	again, _ := repo.Snapshot(context.Background())
	if _, ok := again["injected"]; ok {
		t.Fatal("snapshot shares state with repository")
	}
}
