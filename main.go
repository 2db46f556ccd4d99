package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"growmind-cloud/internal/actuation"
	actuationhttp "growmind-cloud/internal/actuation/httpclient"
	actuationmem "growmind-cloud/internal/actuation/memory"
	"growmind-cloud/internal/config"
	"growmind-cloud/internal/roles"
	snapshotadapter "growmind-cloud/internal/rules/adapters/telemetry"
	"growmind-cloud/internal/rules/application"
	rulesmem "growmind-cloud/internal/rules/infrastructure/memory"
	rulesrepo "growmind-cloud/internal/rules/infrastructure/postgres"
	ruleshttp "growmind-cloud/internal/rules/interfaces/http"
	telemetrymem "growmind-cloud/internal/telemetry/infrastructure/memory"
	telemetryrepo "growmind-cloud/internal/telemetry/infrastructure/postgres"
	telemetryhttp "growmind-cloud/internal/telemetry/interfaces/http"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	directory := roles.DefaultDirectory()
	if cfg.RolesFile != "" {
		directory, err = roles.LoadFile(cfg.RolesFile)
		if err != nil {
			logger.Fatalf("roles: %v", err)
		}
	}

	var (
		db          *sql.DB
		ruleStore   application.RuleStore
		runStore    application.RunStore
		source      application.SnapshotSource
		ingestRepo  telemetryhttp.Repository
		actuatorImp actuation.Actuator
	)

	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open: %v", err)
		}
		defer db.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			cancel()
			logger.Fatalf("db ping: %v", err)
		}
		cancel()

		maxAge, _ := cfg.ParsedSnapshotMaxAge()
		var readerOpts []snapshotadapter.ReaderOption
		if maxAge > 0 {
			readerOpts = append(readerOpts, snapshotadapter.WithMaxAge(maxAge))
		}
		reader, err := snapshotadapter.NewSnapshotReader(db, readerOpts...)
		if err != nil {
			logger.Fatalf("snapshot reader: %v", err)
		}

		ruleStore = rulesrepo.NewRuleRepository(db)
		runStore = rulesrepo.NewRunRepository(db)
		source = reader
		ingestRepo = telemetryrepo.NewRepository(db)
	} else {
		logger.Printf("no database url configured, using in-memory stores")
		telemetryStore := telemetrymem.NewRepository()
		ruleStore = rulesmem.NewRuleStore()
		runStore = rulesmem.NewRunStore()
		source = telemetryStore
		ingestRepo = telemetryStore
	}

	if cfg.ControllerURL != "" {
		client, err := actuationhttp.NewClient(cfg.ControllerURL)
		if err != nil {
			logger.Fatalf("actuation client: %v", err)
		}
		actuatorImp = client
	} else {
		logger.Printf("no controller url configured, using in-memory actuator")
		actuatorImp = actuationmem.NewActuator()
	}

	runner, err := application.NewRunner(actuatorImp, logger)
	if err != nil {
		logger.Fatalf("runner: %v", err)
	}
	service, err := application.NewService(ruleStore, source, directory, runner, runStore, logger)
	if err != nil {
		logger.Fatalf("service: %v", err)
	}

	rulesHandler, err := ruleshttp.NewHandler(service, runStore, logger)
	if err != nil {
		logger.Fatalf("rules handler: %v", err)
	}
	telemetryHandler, err := telemetryhttp.NewHandler(ingestRepo, source, logger)
	if err != nil {
		logger.Fatalf("telemetry handler: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if interval, _ := cfg.ParsedRunInterval(); interval > 0 {
		scheduler := application.NewScheduler(service, interval, logger)
		go scheduler.Start(ctx)
		logger.Printf("automation scheduler enabled: interval=%s", interval)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/rules", rulesHandler)
	mux.Handle("/api/v1/rules/", rulesHandler)
	mux.Handle("/api/v1/automation/", rulesHandler)
	mux.Handle("/api/v1/telemetry", telemetryHandler)
	mux.Handle("/api/v1/telemetry/", telemetryHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Printf("growmind server listening on %s", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server: %v", err)
	}
}
