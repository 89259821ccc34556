package server

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// HealthChecker serves the Kubernetes probe endpoints. Liveness stays green
// while the process runs; readiness flips off at shutdown so the load
// balancer drains traffic before the listener closes.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a checker that starts out ready.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady flips the readiness gate. Called with false at shutdown.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the server accepts traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// shuttingDown tolerates a nil serverContext for tests.
func (h *HealthChecker) shuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// ProbeResponse is the body of /healthz and /readyz.
type ProbeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedProbeResponse is the body of /healthz/detailed, adding uptime and
// dependency state for operators.
type DetailedProbeResponse struct {
	Status             string `json:"status"`
	Uptime             string `json:"uptime"`
	SheetsCredentials  bool   `json:"sheetsCredentials"`
	ActiveUserSessions int    `json:"activeUserSessions"`
}

func (h *HealthChecker) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ProbeResponse{Status: healthStatusOK})
}

func (h *HealthChecker) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	checks := map[string]string{
		"ready":    healthStatusOK,
		"shutdown": healthStatusOK,
	}
	if !h.ready.Load() {
		checks["ready"] = healthStatusNotReady
	}
	if h.shuttingDown() {
		checks["shutdown"] = healthStatusShuttingDown
	}

	status := http.StatusOK
	overall := healthStatusOK
	for _, v := range checks {
		if v != healthStatusOK {
			status = http.StatusServiceUnavailable
			overall = healthStatusNotReady
		}
	}

	writeJSON(w, status, ProbeResponse{Status: overall, Checks: checks})
}

func (h *HealthChecker) handleDetailed(w http.ResponseWriter, _ *http.Request) {
	resp := DetailedProbeResponse{
		Status: healthStatusOK,
		Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
	}
	if h.serverContext != nil {
		_, err := h.serverContext.SheetsClient()
		resp.SheetsCredentials = err == nil
		resp.ActiveUserSessions = h.serverContext.Sessions().Count()
	}

	status := http.StatusOK
	switch {
	case !h.ready.Load():
		resp.Status = healthStatusNotReady
		status = http.StatusServiceUnavailable
	case h.shuttingDown():
		resp.Status = healthStatusShuttingDown
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

// RegisterHealthEndpoints mounts the probe routes on the router.
func (h *HealthChecker) RegisterHealthEndpoints(r chi.Router) {
	r.Get("/healthz", h.handleLiveness)
	r.Get("/readyz", h.handleReadiness)
	r.Get("/healthz/detailed", h.handleDetailed)
}
