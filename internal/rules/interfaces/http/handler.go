package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"growmind-cloud/internal/reports"
	"growmind-cloud/internal/rules/application"
	rules "growmind-cloud/internal/rules/domain"
)

// Handler provides the rules and automation APIs.
type Handler struct {
	service *application.Service
	runs    application.RunStore
	logger  *log.Logger
}

// NewHandler constructs a handler. The run store may be nil when run
// history is not persisted.
func NewHandler(service *application.Service, runs application.RunStore, logger *log.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("rules handler: nil service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{service: service, runs: runs, logger: logger}, nil
}

// ServeHTTP routes rules and automation endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/rules" && r.Method == http.MethodGet:
		h.handleListRules(w, r)
	case r.URL.Path == "/api/v1/rules" && r.Method == http.MethodPost:
		h.handleSaveRule(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/rules/") && r.Method == http.MethodDelete:
		h.handleDeleteRule(w, r)
	case r.URL.Path == "/api/v1/automation/preview" && r.Method == http.MethodPost:
		h.handleRun(w, r, application.ModePreview)
	case r.URL.Path == "/api/v1/automation/execute" && r.Method == http.MethodPost:
		h.handleRun(w, r, application.ModeExecute)
	case r.URL.Path == "/api/v1/automation/runs" && r.Method == http.MethodGet:
		h.handleListRuns(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/automation/runs/") && r.Method == http.MethodGet:
		h.handleRunReport(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleListRules(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListRules(r.Context())
	if err != nil {
		h.logger.Printf("rules handler: list error: %v", err)
		http.Error(w, "list rules error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []rules.Rule{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleSaveRule(w http.ResponseWriter, r *http.Request) {
	var rule rules.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.service.SaveRule(r.Context(), &rule); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (h *Handler) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/rules/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err := h.service.DeleteRule(r.Context(), id); err != nil {
		if errors.Is(err, rules.ErrNotFound) {
			http.Error(w, "rule not found", http.StatusNotFound)
			return
		}
		h.logger.Printf("rules handler: delete error: %v", err)
		http.Error(w, "delete rule error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request, mode application.Mode) {
	var summary application.RunSummary
	var err error
	if mode == application.ModePreview {
		summary, err = h.service.Preview(r.Context())
	} else {
		summary, err = h.service.Execute(r.Context())
	}
	if err != nil {
		h.logger.Printf("rules handler: %s error: %v", mode, err)
		http.Error(w, fmt.Sprintf("%s error", mode), http.StatusInternalServerError)
		return
	}
	if summary.Verdicts == nil {
		summary.Verdicts = []application.RuleVerdict{}
	}
	if summary.Failures == nil {
		summary.Failures = []application.Failure{}
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		http.Error(w, "run history not configured", http.StatusNotFound)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	records, err := h.runs.List(r.Context(), limit)
	if err != nil {
		h.logger.Printf("rules handler: list runs error: %v", err)
		http.Error(w, "list runs error", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []application.RunRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": records})
}

func (h *Handler) handleRunReport(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		http.Error(w, "run history not configured", http.StatusNotFound)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/automation/runs/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "report" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	format, err := reports.ParseFormat(valueOrDefault(r.URL.Query().Get("format"), string(reports.FormatXLSX)))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	record, err := h.runs.Get(r.Context(), parts[0])
	if err != nil {
		if errors.Is(err, application.ErrRunNotFound) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		h.logger.Printf("rules handler: get run error: %v", err)
		http.Error(w, "get run error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=run-%s.%s", record.ID, format))
	if err := reports.Write(record, format, w); err != nil {
		h.logger.Printf("rules handler: report render error: %v", err)
	}
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
