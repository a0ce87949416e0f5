package rest

import (
	"context"
	"net/http"
	"time"
)

// Health states reported by the probes.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
	CheckUp         = "up"
	CheckDown       = "down"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the probe response body.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type HealthHandler struct {
	*BaseHandler
	version string
	db      Pinger // nil when the API tier runs without a database
}

// Version is the build version reported by the health probes.
type Version string

func NewHealthHandler(base *BaseHandler, version Version, db Pinger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: base,
		version:     string(version),
		db:          db,
	}
}

// GetLiveness has no external dependencies: responding means alive.
func (h *HealthHandler) GetLiveness(w http.ResponseWriter, r *http.Request) {
	h.WriteJSONResponse(w, r, HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Version:   h.version,
	}, http.StatusOK)
}

// GetReadiness checks critical dependencies.
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	response := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Version:   h.version,
	}
	httpStatus := http.StatusOK

	if h.db == nil {
		response.Status = StatusDegraded
		h.WriteJSONResponse(w, r, response, httpStatus)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response.Checks = map[string]string{"database": CheckUp}
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn(r.Context(), "readiness check failed", "check", "database", "error", err)
		response.Checks["database"] = CheckDown
		response.Status = StatusUnhealthy
		httpStatus = http.StatusServiceUnavailable
	}

	h.WriteJSONResponse(w, r, response, httpStatus)
}
