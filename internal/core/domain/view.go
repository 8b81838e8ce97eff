package domain

import "time"

// CameraView is a camera row in a hall projection.
type CameraView struct {
	CameraID  string `json:"camera_id"`
	SourceURI string `json:"source_uri,omitempty"`
	Entered   int64  `json:"entered"`
	Exited    int64  `json:"exited"`
	Inside    int64  `json:"inside"`
}

// HallView aggregates one hall's cameras.
type HallView struct {
	HallID  string       `json:"hall_id"`
	Inside  int64        `json:"inside"`
	Cameras []CameraView `json:"cameras"`

	// Capacity is 0 when no threshold applies to the hall.
	Capacity     int64 `json:"capacity,omitempty"`
	OverCapacity bool  `json:"over_capacity,omitempty"`
}

// View is the read-only projection published after every store change.
// Values are never mutated once published.
type View struct {
	Halls       []HallView `json:"halls"`
	TotalInside int64      `json:"total_inside"`
	Cameras     int        `json:"cameras"`

	// Version increases with every publication.
	Version     uint64    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Hall returns the hall projection with the given id.
func (v *View) Hall(id string) (HallView, bool) {
	for _, h := range v.Halls {
		if h.HallID == id {
			return h, true
		}
	}
	return HallView{}, false
}
