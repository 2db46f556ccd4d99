package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"growmind-cloud/internal/rules/application"
	rules "growmind-cloud/internal/rules/domain"
)

func TestRuleStoreListOrder(t *testing.T) {
	store := NewRuleStore()
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"c", "a", "b"} {
		rule := rules.Rule{
			ID:        id,
			Name:      "rule " + id,
			Enabled:   true,
			When:      "vpd > 1",
			Then:      "Schalte humidifier an",
			Priority:  rules.PriorityLow,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Save(context.Background(), &rule); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("order = %v", items)
		}
	}
}

func TestRuleStoreGetAndDelete(t *testing.T) {
	store := NewRuleStore()
	rule := rules.Rule{ID: "r1", Name: "r", Enabled: true, When: "temp > 30", Then: "Schalte exhaust_fan an", Priority: rules.PriorityHigh}
	if err := store.Save(context.Background(), &rule); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(context.Background(), "r1")
	if err != nil || got.Name != "r" {
		t.Fatalf("get: %+v, %v", got, err)
	}
	if err := store.Delete(context.Background(), "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(context.Background(), "r1"); !errors.Is(err, rules.ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
	if err := store.Delete(context.Background(), "r1"); !errors.Is(err, rules.ErrNotFound) {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestRunStoreListNewestFirstWithLimit(t *testing.T) {
	store := NewRunStore()
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		record := application.RunRecord{
			ID:        fmt.Sprintf("run-%d", i),
			Mode:      application.ModeExecute,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.Insert(context.Background(), &record); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	records, err := store.List(context.Background(), 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d", len(records))
	}
	if records[0].ID != "run-4" || records[2].ID != "run-2" {
		t.Fatalf("order = %+v", records)
	}
}

func TestRunStoreGetNotFound(t *testing.T) {
	store := NewRunStore()
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, application.ErrRunNotFound) {
		t.Fatalf("err = %v", err)
	}
}
