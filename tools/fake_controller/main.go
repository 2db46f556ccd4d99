// Command fake_controller is a stand-in control surface for local runs:
// it accepts actuation calls, records them, and can inject latency and
// failures.
package main

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

type applyRequest struct {
	Category string `json:"category"`
	Role     string `json:"role"`
	Value    struct {
		Kind     string  `json:"kind"`
		On       bool    `json:"on"`
		Setpoint float64 `json:"setpoint"`
	} `json:"value"`
}

type fakeController struct {
	start    time.Time
	latency  time.Duration
	failRate float64

	mu         sync.Mutex
	byRole     map[string]int64
	byCategory map[string]int64
	totalCalls int64
	failures   int64
}

func main() {
	addr := getenvDefault("FAKE_CONTROLLER_ADDR", ":18090")
	latencyMs := getenvIntDefault("FAKE_CONTROLLER_LATENCY_MS", 0)
	failRate := getenvFloatDefault("FAKE_CONTROLLER_FAIL_RATE", 0)

	ctrl := &fakeController{
		start:      time.Now().UTC(),
		latency:    time.Duration(latencyMs) * time.Millisecond,
		failRate:   failRate,
		byRole:     make(map[string]int64),
		byCategory: make(map[string]int64),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/actuate", ctrl.handleActuate)
	mux.HandleFunc("/stats", ctrl.handleStats)

	log.Printf("fake controller listening on %s latency=%s fail_rate=%.2f", addr, ctrl.latency, failRate)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("fake controller: %v", err)
	}
}

func (c *fakeController) handleActuate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		http.Error(w, "role required", http.StatusBadRequest)
		return
	}
	if c.latency > 0 {
		time.Sleep(c.latency)
	}

	c.mu.Lock()
	c.totalCalls++
	c.byRole[req.Role]++
	c.byCategory[req.Category]++
	fail := c.failRate > 0 && rand.Float64() < c.failRate
	if fail {
		c.failures++
	}
	c.mu.Unlock()

	if fail {
		http.Error(w, "injected failure", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "applied", "role": req.Role})
}

func (c *fakeController) handleStats(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	stats := map[string]any{
		"uptime_seconds": time.Since(c.start).Seconds(),
		"total_calls":    c.totalCalls,
		"failures":       c.failures,
		"by_role":        c.byRole,
		"by_category":    c.byCategory,
	}
	body, _ := json.Marshal(stats)
	c.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
