package handler

import (
	"net/http"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// handleListHalls handles GET /halls.
func (h *Handler) handleListHalls(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.views.View())
}

// handleGetHall handles GET /halls/{hall_id}.
func (h *Handler) handleGetHall(w http.ResponseWriter, r *http.Request) {
	hallID := r.PathValue("hall_id")

	hall, ok := h.views.View().Hall(hallID)
	if !ok {
		h.handleServiceError(w, r, domain.ErrHallNotFound.WithDetails(hallID))
		return
	}
	h.writeJSON(w, r, http.StatusOK, hall)
}
