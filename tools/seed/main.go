// Command seed inserts demo rules and telemetry into the database.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	_ "github.com/jackc/pgx/v5/stdlib"

	rules "growmind-cloud/internal/rules/domain"
	rulesrepo "growmind-cloud/internal/rules/infrastructure/postgres"
	telemetry "growmind-cloud/internal/telemetry/domain"
	telemetryrepo "growmind-cloud/internal/telemetry/infrastructure/postgres"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("seed: DATABASE_URL required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("seed: db open: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ruleRepo := rulesrepo.NewRuleRepository(db)
	now := time.Now().UTC()
	demoRules := []rules.Rule{
		{
			ID:       uuid.NewString(),
			Name:     "High VPD ventilation",
			Enabled:  true,
			When:     "WHEN VPD > 1.6",
			Then:     "Schalte air_circulation an",
			Priority: rules.PriorityHigh,
		},
		{
			ID:       uuid.NewString(),
			Name:     "Dry substrate irrigation",
			Enabled:  true,
			When:     "WHEN vwc < 38",
			Then:     "Set irrigation_pump to 60",
			Priority: rules.PriorityMedium,
		},
		{
			ID:       uuid.NewString(),
			Name:     "Night humidity guard",
			Enabled:  false,
			When:     "RH < 45",
			Then:     "Schalte humidifier an",
			Priority: rules.PriorityLow,
		},
	}
	for i := range demoRules {
		demoRules[i].CreatedAt = now.Add(time.Duration(i) * time.Second)
		demoRules[i].UpdatedAt = demoRules[i].CreatedAt
		if err := ruleRepo.Save(ctx, &demoRules[i]); err != nil {
			log.Fatalf("seed: save rule: %v", err)
		}
	}

	telemetryRepo := telemetryrepo.NewRepository(db)
	readings := []telemetry.Measurement{
		{Role: "actual_vpd", Value: 1.8, TS: now},
		{Role: "actual_humidity", Value: 55, TS: now},
		{Role: "actual_temperature", Value: 24.5, TS: now},
		{Role: "actual_ec", Value: 2.1, TS: now},
		{Role: "actual_vwc", Value: 41, TS: now},
	}
	if err := telemetryRepo.InsertMeasurements(ctx, readings); err != nil {
		log.Fatalf("seed: insert telemetry: %v", err)
	}

	log.Printf("seed: inserted %d rules and %d telemetry points", len(demoRules), len(readings))
}
