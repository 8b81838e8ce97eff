package handler

import (
	"net/http"
	"time"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if h.views.Closed() {
		status, code = "closed", http.StatusServiceUnavailable
	}
	h.writeJSON(w, r, code, HealthResponse{
		Status:  status,
		Time:    h.now().UTC().Format(time.RFC3339),
		Version: h.views.View().Version,
	})
}

// handleReady handles GET /ready. The dashboard is ready once the first
// full fetch has been applied.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	status, code := "ready", http.StatusOK
	switch {
	case h.views.Closed():
		status, code = "closed", http.StatusServiceUnavailable
	case !h.views.Ready():
		status, code = "starting", http.StatusServiceUnavailable
	}
	h.writeJSON(w, r, code, HealthResponse{
		Status:  status,
		Time:    h.now().UTC().Format(time.RFC3339),
		Version: h.views.View().Version,
	})
}
