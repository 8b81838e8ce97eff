package handler

import (
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics and /frames).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// HealthResponse is the body for GET /health and GET /ready.
type HealthResponse struct {
	Status  string `json:"status"`
	Time    string `json:"time"`
	Version uint64 `json:"view_version"`
}

// AddCameraRequest is the request body for POST /cameras.
type AddCameraRequest struct {
	CameraID   string `json:"camera_id"`
	CameraLink string `json:"camera_link"`
	HallID     string `json:"hall_id,omitempty"`
}

// RemoveCameraRequest is the request body for POST /cameras/remove.
type RemoveCameraRequest struct {
	CameraID string `json:"camera_id"`
	HallID   string `json:"hall_id,omitempty"`
}

// CameraResponse is the body returned after a camera add or remove.
type CameraResponse struct {
	HallID   string `json:"hall_id"`
	CameraID string `json:"camera_id"`
}

// ListEventsResponse is the body for GET /events.
type ListEventsResponse struct {
	Items        []domain.Event `json:"items"`
	Count        int            `json:"count"`
	LastSequence uint64         `json:"last_sequence"`
}

// ListAlertsResponse is the body for GET /alerts.
type ListAlertsResponse struct {
	Items []domain.Alert `json:"items"`
	Count int            `json:"count"`
}
