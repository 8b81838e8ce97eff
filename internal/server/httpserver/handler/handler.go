package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
	"github.com/yndnr/hallwatch-go/internal/telemetry/logger"
)

// ViewSource serves the latest published view.
type ViewSource interface {
	View() *domain.View
	Ready() bool
	Closed() bool
}

// EventQuerier reads the event log.
type EventQuerier interface {
	Query(filter *domain.EventFilter) []domain.Event
	LastSequence() uint64
}

// AlertLister reads the alert history.
type AlertLister interface {
	List(hallID string) []domain.Alert
}

// CameraRegistry adds and removes cameras.
type CameraRegistry interface {
	Add(ctx context.Context, reg domain.CameraRegistration) error
	Remove(ctx context.Context, hallID, cameraID string) error
	DefaultHall() string
}

// FrameSource serves the latest frame per camera.
type FrameSource interface {
	Get(cameraID string) (domain.Frame, bool)
}

// Deps are the collaborators of the Handler. Alerts and Frames are optional.
type Deps struct {
	Views    ViewSource
	Events   EventQuerier
	Alerts   AlertLister
	Registry CameraRegistry
	Frames   FrameSource
	Logger   logger.Logger
}

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	views    ViewSource
	events   EventQuerier
	alerts   AlertLister
	registry CameraRegistry
	frames   FrameSource
	logger   logger.Logger
	mux      *http.ServeMux
	now      func() time.Time
}

// New creates a new Handler.
func New(deps Deps) *Handler {
	h := &Handler{
		views:    deps.Views,
		events:   deps.Events,
		alerts:   deps.Alerts,
		registry: deps.Registry,
		frames:   deps.Frames,
		logger:   deps.Logger,
		mux:      http.NewServeMux(),
		now:      time.Now,
	}
	if h.logger == nil {
		h.logger = logger.Discard()
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("GET /halls", h.handleListHalls)
	h.mux.HandleFunc("GET /halls/{hall_id}", h.handleGetHall)

	h.mux.HandleFunc("GET /events", h.handleListEvents)
	h.mux.HandleFunc("GET /alerts", h.handleListAlerts)

	h.mux.HandleFunc("POST /cameras", h.handleAddCamera)
	h.mux.HandleFunc("POST /cameras/remove", h.handleRemoveCamera)

	h.mux.HandleFunc("GET /frames/{camera_id}", h.handleGetFrame)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := getRequestID(r)
	response := NewErrorResponse(requestID, code, message)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// getRequestID extracts the request ID set by the RequestID middleware.
func getRequestID(r *http.Request) string {
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return r.Header.Get("X-Request-ID")
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if code := domain.GetErrorCode(err); code != "" {
		h.writeError(w, r, errorCodeToHTTPStatus(code), code, err.Error())
		return
	}

	logger.L(r.Context()).Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternal.Code, "internal server error")
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"):
		return http.StatusConflict
	case strings.HasPrefix(code, "HW-ARG-"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"):
		return http.StatusBadRequest
	case code == domain.ErrRemoteRejected.Code:
		return http.StatusBadGateway
	case code == domain.ErrRemoteUnavailable.Code:
		return http.StatusServiceUnavailable
	case code == domain.ErrDashboardClosed.Code, code == domain.ErrNotReady.Code:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrBadRequest.WithDetails("invalid request body").WithCause(err)
	}
	return nil
}

const maxBodyBytes = 1 << 20
