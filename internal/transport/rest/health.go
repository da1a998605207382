package rest

import (
	"net/http"
)

// HealthHandler reports process readiness. The analyzer sidecar warms its
// language pipelines in the background at startup; until that finishes the
// service answers 503 so orchestrators delay traffic.
type HealthHandler struct {
	ready func() bool
}

// NewHealthHandler creates a HealthHandler. ready must be safe for
// concurrent use.
func NewHealthHandler(ready func() bool) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// HealthResponse is the JSON response for /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health returns 200 {"status":"healthy"} once warm-up completed,
// 503 {"status":"loading"} before.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.ready() {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "loading"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}
