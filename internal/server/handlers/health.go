package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/fulmenhq/gofulmen/errors"

	"github.com/nextgenai/nextgen/internal/metrics"
)

// Check statuses
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusTimeout   = "timeout"
)

// HealthResponse represents the aggregate health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// StatusResponse is the body of a healthy status endpoint
type StatusResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthChecker defines interface for health checkable components
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// CheckerFunc adapts a function to HealthChecker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) CheckHealth(ctx context.Context) error { return f(ctx) }

// DegradedError marks a failed check that should not fail the endpoint.
type DegradedError struct{ Reason string }

func (e *DegradedError) Error() string { return e.Reason }

// HealthManager runs registered checks for the health endpoints.
type HealthManager struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	version  string
}

// NewHealthManager creates a new health manager
func NewHealthManager(version string) *HealthManager {
	return &HealthManager{
		checkers: make(map[string]HealthChecker),
		version:  version,
	}
}

// RegisterChecker registers a health checker
func (hm *HealthManager) RegisterChecker(name string, checker HealthChecker) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.checkers[name] = checker
}

func (hm *HealthManager) runHealthChecks(ctx context.Context) map[string]string {
	hm.mu.RLock()
	names := make([]string, 0, len(hm.checkers))
	for name := range hm.checkers {
		names = append(names, name)
	}
	hm.mu.RUnlock()
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	for _, name := range names {
		if ctx.Err() != nil {
			checks[name] = StatusTimeout
			continue
		}

		hm.mu.RLock()
		checker := hm.checkers[name]
		hm.mu.RUnlock()

		start := time.Now()
		err := checker.CheckHealth(ctx)
		var degraded *DegradedError
		switch {
		case err == nil:
			checks[name] = StatusHealthy
		case asDegraded(err, &degraded):
			checks[name] = StatusDegraded
		default:
			checks[name] = StatusUnhealthy
		}
		metrics.RecordHealthCheck(name, err == nil, time.Since(start))
	}
	return checks
}

func asDegraded(err error, target **DegradedError) bool {
	d, ok := err.(*DegradedError)
	if ok {
		*target = d
	}
	return ok
}

func overallStatus(checks map[string]string) string {
	degraded := false
	for _, status := range checks {
		switch status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded, StatusTimeout:
			degraded = true
		}
	}
	if degraded {
		return StatusDegraded
	}
	return StatusHealthy
}

func (hm *HealthManager) evaluate(r *http.Request, timeout time.Duration) (string, map[string]string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()
	checks := hm.runHealthChecks(ctx)
	return overallStatus(checks), checks
}

// HealthHandler handles aggregate health check requests
func (hm *HealthManager) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status, checks := hm.evaluate(r, 5*time.Second)
	if status == StatusUnhealthy {
		respondUnhealthy(w, r, "aggregate", "aggregate health check failed", status, checks)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    status,
		Version:   hm.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// LivenessHandler reports whether the process is serving. It runs no checks;
// a misconfigured gateway must not get the pod restarted.
func (hm *HealthManager) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: StatusHealthy, Timestamp: time.Now().UTC()})
}

// ReadinessHandler reports whether generation requests can be served.
func (hm *HealthManager) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	hm.runEndpoint(w, r, "ready", 5*time.Second)
}

// StartupHandler reports whether initialization completed.
func (hm *HealthManager) StartupHandler(w http.ResponseWriter, r *http.Request) {
	hm.runEndpoint(w, r, "startup", 3*time.Second)
}

func (hm *HealthManager) runEndpoint(w http.ResponseWriter, r *http.Request, name string, timeout time.Duration) {
	status, checks := hm.evaluate(r, timeout)
	if status == StatusUnhealthy {
		respondUnhealthy(w, r, name, name+" check failed", status, checks)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: status, Timestamp: time.Now().UTC()})
}

func respondUnhealthy(w http.ResponseWriter, r *http.Request, endpoint, message, status string, checks map[string]string) {
	envelope := errors.NewErrorEnvelope("SERVICE_UNAVAILABLE", message)
	respondWithError(w, r, enrichHealthEnvelope(envelope, endpoint, status, checks))
}

func enrichHealthEnvelope(envelope *errors.ErrorEnvelope, endpoint, status string, checks map[string]string) *errors.ErrorEnvelope {
	if envelope == nil {
		return nil
	}

	details := map[string]interface{}{"status": status, "endpoint": endpoint}
	if len(checks) > 0 {
		details["checks"] = checks
	}
	envelope = envelope.WithDetails(details)

	var unhealthy []string
	for name, result := range checks {
		if result != StatusHealthy {
			unhealthy = append(unhealthy, name)
		}
	}
	sort.Strings(unhealthy)

	contextData := map[string]interface{}{"status": status, "endpoint": endpoint}
	if len(unhealthy) > 0 {
		contextData["unhealthy_checks"] = unhealthy
	}
	if updated, err := envelope.WithContext(contextData); err == nil {
		envelope = updated
	}
	return envelope
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
