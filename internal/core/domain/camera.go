package domain

import (
	"net/url"
	"strings"
	"time"
)

// Camera constraints.
const (
	MaxCameraIDLength = 128
	MaxHallIDLength   = 128
	MaxSourceLength   = 2048
)

// allowedSchemes are the URL schemes accepted for camera links.
var allowedSchemes = map[string]struct{}{
	"rtsp":  {},
	"rtsps": {},
	"http":  {},
	"https": {},
	"file":  {},
}

// Counters holds the running counters reported for one camera.
// Inside is informational and not required to equal Entered - Exited.
type Counters struct {
	Entered int64 `json:"entered"`
	Exited  int64 `json:"exited"`
	Inside  int64 `json:"inside"`
}

// CameraKey identifies a camera within a hall.
type CameraKey struct {
	HallID   string `json:"hall_id"`
	CameraID string `json:"camera_id"`
}

// String returns "hall/camera".
func (k CameraKey) String() string {
	return k.HallID + "/" + k.CameraID
}

// Less orders keys by hall id, then camera id.
func (k CameraKey) Less(o CameraKey) bool {
	if k.HallID != o.HallID {
		return k.HallID < o.HallID
	}
	return k.CameraID < o.CameraID
}

// Camera is a registered camera and its latest merged counters.
type Camera struct {
	HallID    string `json:"hall_id"`
	ID        string `json:"camera_id"`
	SourceURI string `json:"source_uri,omitempty"`
	Counters

	// Baseline lists the fields a snapshot has reported at least once.
	// Registration alone never seeds.
	Baseline Field `json:"-"`

	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Key returns the camera's hall-scoped key.
func (c *Camera) Key() CameraKey {
	return CameraKey{HallID: c.HallID, CameraID: c.ID}
}

// Seeded reports whether both entered and exited have a baseline.
func (c *Camera) Seeded() bool {
	return c.Baseline.Has(FieldAll)
}

// Clone returns a copy of the camera.
func (c *Camera) Clone() *Camera {
	clone := *c
	return &clone
}

// ValidateCameraID checks a camera or hall identifier.
func ValidateCameraID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingArgument.WithDetails("camera_id is required")
	}
	if len(id) > MaxCameraIDLength {
		return ErrCameraValidation.WithDetails("camera_id too long")
	}
	if strings.ContainsAny(id, "/\n\r\t") {
		return ErrCameraValidation.WithDetails("camera_id contains invalid characters")
	}
	return nil
}

// ValidateHallID checks a hall identifier. Empty is allowed and means the
// default hall.
func ValidateHallID(id string) error {
	if len(id) > MaxHallIDLength {
		return ErrCameraValidation.WithDetails("hall_id too long")
	}
	if strings.ContainsAny(id, "/\n\r\t") {
		return ErrCameraValidation.WithDetails("hall_id contains invalid characters")
	}
	return nil
}

// ValidateCameraLink checks that a camera link is a URL with a supported scheme.
func ValidateCameraLink(link string) error {
	if strings.TrimSpace(link) == "" {
		return ErrMissingArgument.WithDetails("camera_link is required")
	}
	if len(link) > MaxSourceLength {
		return ErrCameraValidation.WithDetails("camera_link too long")
	}
	u, err := url.Parse(link)
	if err != nil {
		return ErrCameraValidation.WithDetails("camera_link is not a valid URL").WithCause(err)
	}
	if _, ok := allowedSchemes[strings.ToLower(u.Scheme)]; !ok {
		return ErrCameraValidation.WithDetails("unsupported camera_link scheme: " + u.Scheme)
	}
	if u.Scheme != "file" && u.Host == "" {
		return ErrCameraValidation.WithDetails("camera_link has no host")
	}
	return nil
}

// CameraRegistration is a request to register a camera with the backend.
// An empty HallID means the deployment's default hall.
type CameraRegistration struct {
	HallID   string `json:"hall_id,omitempty"`
	CameraID string `json:"camera_id"`
	Link     string `json:"camera_link"`
}

// Validate checks the registration fields.
func (r CameraRegistration) Validate() error {
	if err := ValidateCameraID(r.CameraID); err != nil {
		return err
	}
	if err := ValidateHallID(r.HallID); err != nil {
		return err
	}
	return ValidateCameraLink(r.Link)
}
