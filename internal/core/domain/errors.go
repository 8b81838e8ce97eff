package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes follow the format HW-<AREA>-<NNNN>; the numeric suffix mirrors the
// HTTP status family used by the dashboard API.
type DomainError struct {
	Code    string // Error code (e.g., "HW-CAM-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Camera Errors (CAM)
// ============================================================================

var (
	// ErrCameraNotFound indicates the camera is not registered in the hall.
	ErrCameraNotFound = NewDomainError("HW-CAM-4040", "camera not found")

	// ErrCameraConflict indicates the camera id already exists in the hall.
	ErrCameraConflict = NewDomainError("HW-CAM-4090", "camera already exists")

	// ErrCameraValidation indicates camera data validation failed.
	ErrCameraValidation = NewDomainError("HW-CAM-4001", "camera validation failed")
)

// ============================================================================
// Hall and Frame Errors (HALL, FRM)
// ============================================================================

var (
	// ErrHallNotFound indicates no hall with the given id is known.
	ErrHallNotFound = NewDomainError("HW-HALL-4040", "hall not found")

	// ErrFrameNotFound indicates no frame has been received for the camera.
	ErrFrameNotFound = NewDomainError("HW-FRM-4040", "no frame for camera")
)

// ============================================================================
// Remote Errors (REM)
// ============================================================================

var (
	// ErrRemoteRejected indicates the backend answered with a failure status.
	ErrRemoteRejected = NewDomainError("HW-REM-5020", "backend rejected request")

	// ErrRemoteUnavailable indicates the backend could not be reached.
	ErrRemoteUnavailable = NewDomainError("HW-REM-5030", "backend unavailable")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an internal error.
	ErrInternal = NewDomainError("HW-SYS-5000", "internal error")

	// ErrDashboardClosed indicates the dashboard stopped processing updates.
	ErrDashboardClosed = NewDomainError("HW-SYS-5031", "dashboard closed")

	// ErrNotReady indicates the initial state has not been fetched yet.
	ErrNotReady = NewDomainError("HW-SYS-5032", "dashboard not ready")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("HW-SYS-4000", "bad request")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("HW-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("HW-ARG-1002", "missing required argument")
)
