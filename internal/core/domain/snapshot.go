package domain

import (
	"sort"
	"time"
)

// Reading is one camera's counters as carried by a snapshot.
// A nil field means the fragment did not report it and the previous
// value is kept.
type Reading struct {
	Entered *int64 `json:"entered,omitempty"`
	Exited  *int64 `json:"exited,omitempty"`
	Inside  *int64 `json:"inside,omitempty"`
}

// Field is a set of event-bearing counters.
type Field uint8

// Event-bearing counters. Inside carries no events and has no baseline.
const (
	FieldEntered Field = 1 << iota
	FieldExited

	FieldAll = FieldEntered | FieldExited
)

// Has reports whether f contains every field in o.
func (f Field) Has(o Field) bool {
	return f&o == o
}

// Full builds a Reading with all three counters set.
func Full(entered, exited, inside int64) Reading {
	return Reading{Entered: &entered, Exited: &exited, Inside: &inside}
}

// IsEmpty reports whether the reading carries no counters.
func (r Reading) IsEmpty() bool {
	return r.Entered == nil && r.Exited == nil && r.Inside == nil
}

// Fields returns the event-bearing counters the reading reports.
func (r Reading) Fields() Field {
	var f Field
	if r.Entered != nil {
		f |= FieldEntered
	}
	if r.Exited != nil {
		f |= FieldExited
	}
	return f
}

// ApplyTo returns base with every reported counter overwritten.
func (r Reading) ApplyTo(base Counters) Counters {
	if r.Entered != nil {
		base.Entered = *r.Entered
	}
	if r.Exited != nil {
		base.Exited = *r.Exited
	}
	if r.Inside != nil {
		base.Inside = *r.Inside
	}
	return base
}

// Snapshot maps hall id to camera id to reading.
// It covers all cameras (full fetch) or a subset (fragment).
type Snapshot map[string]map[string]Reading

// Set records a reading, creating the hall entry if needed.
func (s Snapshot) Set(hallID, cameraID string, r Reading) {
	cams, ok := s[hallID]
	if !ok {
		cams = make(map[string]Reading)
		s[hallID] = cams
	}
	cams[cameraID] = r
}

// Get returns the reading for a camera.
func (s Snapshot) Get(hallID, cameraID string) (Reading, bool) {
	r, ok := s[hallID][cameraID]
	return r, ok
}

// Keys returns every camera key in ascending (hall, camera) order.
func (s Snapshot) Keys() []CameraKey {
	keys := make([]CameraKey, 0, s.Len())
	for hall, cams := range s {
		for cam := range cams {
			keys = append(keys, CameraKey{HallID: hall, CameraID: cam})
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Len returns the number of camera readings.
func (s Snapshot) Len() int {
	n := 0
	for _, cams := range s {
		n += len(cams)
	}
	return n
}

// Halls returns hall ids in ascending order, including halls without cameras.
func (s Snapshot) Halls() []string {
	halls := make([]string, 0, len(s))
	for h := range s {
		halls = append(halls, h)
	}
	sort.Strings(halls)
	return halls
}

// UpdateSource identifies which transport path produced an update.
type UpdateSource string

const (
	SourcePush UpdateSource = "push"
	SourcePull UpdateSource = "pull"
)

// UpdateKind distinguishes partial fragments from full fetches.
type UpdateKind string

const (
	KindFragment UpdateKind = "fragment"
	KindFull     UpdateKind = "full"
)

// Update is a snapshot stamped with its arrival order.
// Seq is assigned when the update enters the stream and is the only
// ordering key; the backend does not timestamp fragments.
type Update struct {
	Seq        uint64
	Source     UpdateSource
	Kind       UpdateKind
	Snapshot   Snapshot
	ReceivedAt time.Time
}

// CounterChange is the result of merging one camera's reading.
// Old is nil when the camera had no baseline before the merge.
// Seeded lists the fields whose first reported value arrived in this
// merge; they establish a baseline and carry no delta.
type CounterChange struct {
	Key    CameraKey
	Old    *Counters
	New    Counters
	Seeded Field
}
