package handler

import (
	"net/http"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// handleListAlerts handles GET /alerts?hall_id=.
func (h *Handler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	items := []domain.Alert{}
	if h.alerts != nil {
		items = h.alerts.List(r.URL.Query().Get("hall_id"))
	}
	h.writeJSON(w, r, http.StatusOK, ListAlertsResponse{Items: items, Count: len(items)})
}
