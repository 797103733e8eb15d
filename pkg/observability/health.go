package observability

import (
	"encoding/json"
	"net/http"
	"os"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthChecker reports whether the directories the loader reads exist
type HealthChecker struct {
	version string
	dirs    map[string]string
}

// NewHealthChecker creates a health checker; dirs maps check name to path
func NewHealthChecker(version string, dirs map[string]string) *HealthChecker {
	return &HealthChecker{version: version, dirs: dirs}
}

// Check evaluates every directory. A missing dependency directory is not
// fatal for the loader, so it degrades the check text but keeps the status
// healthy; only an unreadable working directory is unhealthy.
func (h *HealthChecker) Check() HealthStatus {
	status := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Version:   h.version,
		Checks:    make(map[string]string, len(h.dirs)),
	}

	for name, dir := range h.dirs {
		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			status.Checks[name] = "ok"
		case name == "workdir":
			status.Checks[name] = "missing"
			status.Status = StatusUnhealthy
		default:
			status.Checks[name] = "missing"
		}
	}

	return status
}

// Liveness always returns 200 while the process is serving
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now(),
	})
}

// Readiness returns 503 when Check reports unhealthy
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	status := h.Check()

	code := http.StatusOK
	if status.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}
