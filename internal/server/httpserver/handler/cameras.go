package handler

import (
	"net/http"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// handleAddCamera handles POST /cameras.
func (h *Handler) handleAddCamera(w http.ResponseWriter, r *http.Request) {
	var req AddCameraRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	reg := domain.CameraRegistration{
		HallID:   req.HallID,
		CameraID: req.CameraID,
		Link:     req.CameraLink,
	}
	if err := h.registry.Add(r.Context(), reg); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, CameraResponse{
		HallID:   h.hallOf(req.HallID),
		CameraID: req.CameraID,
	})
}

// handleRemoveCamera handles POST /cameras/remove.
func (h *Handler) handleRemoveCamera(w http.ResponseWriter, r *http.Request) {
	var req RemoveCameraRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.registry.Remove(r.Context(), req.HallID, req.CameraID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, CameraResponse{
		HallID:   h.hallOf(req.HallID),
		CameraID: req.CameraID,
	})
}

func (h *Handler) hallOf(hallID string) string {
	if hallID == "" {
		return h.registry.DefaultHall()
	}
	return hallID
}
