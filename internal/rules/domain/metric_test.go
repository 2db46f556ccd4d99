package rules

import (
	"testing"

	telemetry "growmind-cloud/internal/telemetry/domain"
)

func TestResolveMetricCandidateOrder(t *testing.T) {
	snapshot := telemetry.Snapshot{"actual_vpd": 1.8, "vpd_day_min": 1.2}
	value, ok := ResolveMetric("vpd", snapshot)
	if !ok || value != 1.8 {
		t.Fatalf("got (%v, %v), want first candidate actual_vpd=1.8", value, ok)
	}
}

func TestResolveMetricFallbackCandidate(t *testing.T) {
	snapshot := telemetry.Snapshot{"vpd_day_max": 2.1}
	value, ok := ResolveMetric("vpd", snapshot)
	if !ok || value != 2.1 {
		t.Fatalf("got (%v, %v), want fallback candidate vpd_day_max=2.1", value, ok)
	}
}

func TestResolveMetricRawNameFallback(t *testing.T) {
	snapshot := telemetry.Snapshot{"foo": 5.5}
	value, ok := ResolveMetric("foo", snapshot)
	if !ok || value != 5.5 {
		t.Fatalf("got (%v, %v), want raw-name lookup foo=5.5", value, ok)
	}
}

func TestResolveMetricUnresolved(t *testing.T) {
	if _, ok := ResolveMetric("foo", telemetry.Snapshot{}); ok {
		t.Fatal("empty snapshot should not resolve")
	}
}

func TestResolveMetricZeroIsResolved(t *testing.T) {
	snapshot := telemetry.Snapshot{"actual_ec": 0}
	value, ok := ResolveMetric("ec", snapshot)
	if !ok || value != 0 {
		t.Fatalf("got (%v, %v), want resolved zero", value, ok)
	}
}
