package metrics

import (
	"time"

	"github.com/nextgenai/nextgen/internal/observability"
)

// Application-level metrics following Prometheus conventions
var (
	// Generation metrics
	GenerationRequestsTotal = "generation_requests_total"
	GenerationDuration      = "generation_duration_ms"

	// Preference store metrics
	IdeasSavedTotal = "ideas_saved_total"

	// Health check metrics
	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	// Server lifecycle metrics
	ServerStartTime = "app_server_start_time_seconds"
)

// RecordGeneration records one generation attempt. outcome is "success" or
// the failure kind.
func RecordGeneration(outcome string, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}
	labels := map[string]string{"outcome": outcome}
	_ = observability.TelemetrySystem.Counter(GenerationRequestsTotal, 1, labels)
	_ = observability.TelemetrySystem.Histogram(GenerationDuration, duration, labels)
}

// RecordIdeaSaved records a result saved to local history.
func RecordIdeaSaved(platform string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			IdeasSavedTotal,
			1,
			map[string]string{"platform": platform},
		)
	}
}

// RecordHealthCheck records a health check execution
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			HealthCheckTotal,
			1,
			map[string]string{
				"check":  checkName,
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			HealthCheckDuration,
			duration,
			map[string]string{
				"check": checkName,
			},
		)
	}
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}
