package rules

import (
	telemetry "growmind-cloud/internal/telemetry/domain"
)

// metricRoles maps canonical metric names to candidate telemetry roles in
// fallback preference order.
var metricRoles = map[string][]string{
	"vpd":         {"actual_vpd", "vpd_day_min", "vpd_day_max"},
	"humidity":    {"actual_humidity", "target_humidity"},
	"temperature": {"actual_temperature", "target_temperature"},
	"ec":          {"actual_ec"},
	"vwc":         {"actual_vwc"},
	"ph":          {"actual_ph"},
	"light":       {"light_intensity"},
}

// CandidateRoles returns the candidate telemetry roles for a metric. A
// metric without a static mapping falls back to a single-candidate lookup
// of the raw metric name itself.
func CandidateRoles(metric string) []string {
	if candidates, ok := metricRoles[metric]; ok {
		return candidates
	}
	return []string{metric}
}

// ResolveMetric returns the first candidate role value present in the
// snapshot. A resolved zero is distinct from no resolution.
func ResolveMetric(metric string, snapshot telemetry.Snapshot) (float64, bool) {
	for _, role := range CandidateRoles(metric) {
		if value, ok := snapshot.Value(role); ok {
			return value, true
		}
	}
	return 0, false
}
