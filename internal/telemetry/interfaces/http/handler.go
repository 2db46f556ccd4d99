package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"growmind-cloud/internal/observability/metrics"
	telemetry "growmind-cloud/internal/telemetry/domain"
)

// Repository persists telemetry measurements.
type Repository interface {
	InsertMeasurements(ctx context.Context, measurements []telemetry.Measurement) error
}

// SnapshotSource exposes the current snapshot for diagnostics.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (telemetry.Snapshot, error)
}

// Handler ingests telemetry readings and serves the latest snapshot.
type Handler struct {
	repo   Repository
	source SnapshotSource
	logger *log.Logger
}

// NewHandler constructs a handler.
func NewHandler(repo Repository, source SnapshotSource, logger *log.Logger) (*Handler, error) {
	if repo == nil {
		return nil, errors.New("telemetry handler: nil repository")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{repo: repo, source: source, logger: logger}, nil
}

// ServeHTTP routes telemetry endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/telemetry" && r.Method == http.MethodPost:
		h.handleIngest(w, r)
	case r.URL.Path == "/api/v1/telemetry/latest" && r.Method == http.MethodGet:
		h.handleLatest(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveIngest(result, time.Since(start))
	}()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Printf("telemetry ingest: read body error: %v", err)
		result = metrics.ResultError
		metrics.IncIngestError("read_body")
		http.Error(w, "read body error", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	measurements, err := decodeMeasurements(body)
	if err != nil {
		result = metrics.ResultError
		metrics.IncIngestError("invalid_json")
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	for _, m := range measurements {
		if err := m.Validate(); err != nil {
			result = metrics.ResultError
			metrics.IncIngestError("invalid_payload")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := h.repo.InsertMeasurements(r.Context(), measurements); err != nil {
		h.logger.Printf("telemetry ingest: insert error: %v", err)
		result = metrics.ResultError
		metrics.IncIngestError("insert_error")
		http.Error(w, "insert error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"accepted": len(measurements)})
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		http.Error(w, "snapshot source not configured", http.StatusNotFound)
		return
	}
	snapshot, err := h.source.Snapshot(r.Context())
	if err != nil {
		h.logger.Printf("telemetry latest: snapshot error: %v", err)
		http.Error(w, "snapshot error", http.StatusInternalServerError)
		return
	}
	if snapshot == nil {
		snapshot = telemetry.Snapshot{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshot)
}

// decodeMeasurements accepts a single reading or a batch.
func decodeMeasurements(body []byte) ([]telemetry.Measurement, error) {
	var batch []telemetry.Measurement
	if err := json.Unmarshal(body, &batch); err == nil {
		return batch, nil
	}
	var single telemetry.Measurement
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, err
	}
	return []telemetry.Measurement{single}, nil
}
