package handler

import (
	"net/http"
	"strconv"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// Event list limits.
const (
	DefaultEventLimit = 100
	MaxEventLimit     = 1000
)

// handleListEvents handles GET /events?hall_id=&camera_id=&kind=&since=&limit=.
// since is an exclusive sequence number; the newest events are kept when
// the result exceeds limit.
func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	items := h.events.Query(filter)
	if items == nil {
		items = []domain.Event{}
	}
	h.writeJSON(w, r, http.StatusOK, ListEventsResponse{
		Items:        items,
		Count:        len(items),
		LastSequence: h.events.LastSequence(),
	})
}

func parseEventFilter(r *http.Request) (*domain.EventFilter, error) {
	q := r.URL.Query()
	filter := &domain.EventFilter{
		HallID:   q.Get("hall_id"),
		CameraID: q.Get("camera_id"),
		Limit:    DefaultEventLimit,
	}

	if s := q.Get("kind"); s != "" {
		kind, err := domain.ParseEventKind(s)
		if err != nil {
			return nil, err
		}
		filter.Kind = kind
	}

	if s := q.Get("since"); s != "" {
		seq, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, domain.ErrInvalidArgument.WithDetails("since must be a non-negative integer")
		}
		filter.AfterSequence = seq
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return nil, domain.ErrInvalidArgument.WithDetails("limit must be a positive integer")
		}
		filter.Limit = min(n, MaxEventLimit)
	}
	return filter, nil
}
