package handler

import (
	"net/http"
	"strconv"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// handleGetFrame handles GET /frames/{camera_id} and returns the latest
// JPEG frame.
func (h *Handler) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	cameraID := r.PathValue("camera_id")

	var (
		frame domain.Frame
		ok    bool
	)
	if h.frames != nil {
		frame, ok = h.frames.Get(cameraID)
	}
	if !ok {
		h.handleServiceError(w, r, domain.ErrFrameNotFound.WithDetails(cameraID))
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(frame.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Last-Modified", frame.ReceivedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(frame.Data)
}
