package domain

import "time"

// Frame is the latest encoded video frame reported for a camera.
// Data is opaque to HallWatch; the backend sends JPEG.
type Frame struct {
	CameraID   string    `json:"camera_id"`
	Data       []byte    `json:"-"`
	ReceivedAt time.Time `json:"received_at"`
}
