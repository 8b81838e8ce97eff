package service

import (
	"context"
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
	"github.com/yndnr/hallwatch-go/internal/telemetry/logger"
)

// Backend is the camera registration API of the analytics backend.
type Backend interface {
	AddCamera(ctx context.Context, reg domain.CameraRegistration) error
	RemoveCamera(ctx context.Context, hallID, cameraID string) error
}

// Committer applies registry mutations to local state.
// *Reconciler implements it.
type Committer interface {
	View() *domain.View
	Closed() bool
	RegisterCamera(ctx context.Context, hallID, cameraID, sourceURI string) error
	RemoveCamera(ctx context.Context, hallID, cameraID string) error
}

// FrameDropper discards cached frames of removed cameras.
type FrameDropper interface {
	Drop(cameraID string)
}

// commitTimeout bounds the local commit once the backend has acknowledged.
// The commit does not inherit the caller's cancellation so an acknowledged
// change is not lost when the client goes away.
const commitTimeout = 5 * time.Second

// CameraRegistry adds and removes cameras. The backend is called first;
// local state changes only after it acknowledges.
type CameraRegistry struct {
	backend     Backend
	committer   Committer
	defaultHall string
	frames      FrameDropper
	recorder    Recorder
	logger      logger.Logger
}

// RegistryOption configures a CameraRegistry.
type RegistryOption func(*CameraRegistry)

// WithDefaultHall sets the hall used when a request has no hall id.
func WithDefaultHall(id string) RegistryOption {
	return func(r *CameraRegistry) {
		r.defaultHall = id
	}
}

// WithFrameDropper sets the frame cache cleared on removal.
func WithFrameDropper(f FrameDropper) RegistryOption {
	return func(r *CameraRegistry) {
		r.frames = f
	}
}

// WithRegistryRecorder sets the metrics recorder.
func WithRegistryRecorder(rec Recorder) RegistryOption {
	return func(r *CameraRegistry) {
		r.recorder = rec
	}
}

// WithRegistryLogger sets the logger.
func WithRegistryLogger(l logger.Logger) RegistryOption {
	return func(r *CameraRegistry) {
		r.logger = l
	}
}

// NewCameraRegistry creates a registry.
func NewCameraRegistry(backend Backend, committer Committer, opts ...RegistryOption) *CameraRegistry {
	r := &CameraRegistry{
		backend:     backend,
		committer:   committer,
		defaultHall: "default",
		recorder:    nopRecorder{},
		logger:      logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultHall returns the hall used for requests without a hall id.
func (r *CameraRegistry) DefaultHall() string {
	return r.defaultHall
}

// Add registers a camera with the backend, then locally.
func (r *CameraRegistry) Add(ctx context.Context, reg domain.CameraRegistration) (err error) {
	defer func() { r.record("add", err) }()

	if err := reg.Validate(); err != nil {
		return err
	}
	hall := r.hallOf(reg.HallID)

	if r.committer.Closed() {
		return domain.ErrDashboardClosed
	}
	if r.exists(hall, reg.CameraID) {
		return domain.ErrCameraConflict.WithDetails(hall + "/" + reg.CameraID)
	}

	if err := r.backend.AddCamera(ctx, reg); err != nil {
		r.logger.Warn("backend rejected camera add",
			"hall_id", hall,
			"camera_id", reg.CameraID,
			"error", err,
		)
		return err
	}

	commitCtx, cancel := detached(ctx)
	defer cancel()
	if err := r.committer.RegisterCamera(commitCtx, hall, reg.CameraID, reg.Link); err != nil {
		return err
	}

	r.logger.Info("camera added",
		"hall_id", hall,
		"camera_id", reg.CameraID,
		"camera_link", reg.Link,
	)
	return nil
}

// Remove unregisters a camera with the backend, then locally.
func (r *CameraRegistry) Remove(ctx context.Context, hallID, cameraID string) (err error) {
	defer func() { r.record("remove", err) }()

	if err := domain.ValidateCameraID(cameraID); err != nil {
		return err
	}
	if err := domain.ValidateHallID(hallID); err != nil {
		return err
	}
	hall := r.hallOf(hallID)

	if r.committer.Closed() {
		return domain.ErrDashboardClosed
	}
	if !r.exists(hall, cameraID) {
		return domain.ErrCameraNotFound.WithDetails(hall + "/" + cameraID)
	}

	if err := r.backend.RemoveCamera(ctx, hallID, cameraID); err != nil {
		r.logger.Warn("backend rejected camera removal",
			"hall_id", hall,
			"camera_id", cameraID,
			"error", err,
		)
		return err
	}

	commitCtx, cancel := detached(ctx)
	defer cancel()
	if err := r.committer.RemoveCamera(commitCtx, hall, cameraID); err != nil {
		return err
	}
	if r.frames != nil {
		r.frames.Drop(cameraID)
	}

	r.logger.Info("camera removed", "hall_id", hall, "camera_id", cameraID)
	return nil
}

func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
}

func (r *CameraRegistry) hallOf(hallID string) string {
	if hallID == "" {
		return r.defaultHall
	}
	return hallID
}

func (r *CameraRegistry) exists(hallID, cameraID string) bool {
	h, ok := r.committer.View().Hall(hallID)
	if !ok {
		return false
	}
	for _, c := range h.Cameras {
		if c.CameraID == cameraID {
			return true
		}
	}
	return false
}

func (r *CameraRegistry) record(op string, err error) {
	result := "ok"
	if err != nil {
		result = domain.GetErrorCode(err)
		if result == "" {
			result = "error"
		}
	}
	r.recorder.RecordRegistryCall(op, result)
}
