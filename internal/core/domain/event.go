package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventIDPrefix is the prefix for event IDs.
const EventIDPrefix = "hwev-"

// EventKind is the direction of a derived occupancy event.
type EventKind string

const (
	EventEntered EventKind = "entered"
	EventExited  EventKind = "exited"
)

// ParseEventKind parses an event kind, case-insensitively.
func ParseEventKind(s string) (EventKind, error) {
	switch EventKind(strings.ToLower(strings.TrimSpace(s))) {
	case EventEntered:
		return EventEntered, nil
	case EventExited:
		return EventExited, nil
	default:
		return "", ErrInvalidArgument.WithDetails(fmt.Sprintf("unknown event kind %q", s))
	}
}

// Event is an immutable entered/exited record synthesized from a counter delta.
type Event struct {
	// ID is hwev-{ulid_lowercase}.
	ID string `json:"id"`

	// Sequence is the 1-based position in the event log, assigned on append.
	Sequence uint64 `json:"sequence"`

	HallID   string    `json:"hall_id"`
	CameraID string    `json:"camera_id"`
	Kind     EventKind `json:"kind"`

	// Count is 1 for per-unit events and the jump size for aggregate events.
	Count int64 `json:"count"`

	// Inside is the inside value reported by the snapshot that produced the event.
	Inside int64 `json:"inside"`

	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an event with a generated ID.
func NewEvent(key CameraKey, kind EventKind, count, inside int64, at time.Time) (Event, error) {
	id, err := GenerateEventID(at)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        id,
		HallID:    key.HallID,
		CameraID:  key.CameraID,
		Kind:      kind,
		Count:     count,
		Inside:    inside,
		Timestamp: at,
	}, nil
}

// Key returns the event's camera key.
func (e Event) Key() CameraKey {
	return CameraKey{HallID: e.HallID, CameraID: e.CameraID}
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// GenerateEventID generates a new event ID using ULID.
// IDs generated within the same millisecond sort in generation order.
func GenerateEventID(at time.Time) (string, error) {
	entropyMu.Lock()
	id, err := ulid.New(ulid.Timestamp(at), entropy)
	entropyMu.Unlock()
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return EventIDPrefix + strings.ToLower(id.String()), nil
}

// EventFilter selects events from the log. Zero fields match everything.
type EventFilter struct {
	HallID   string
	CameraID string
	Kind     EventKind

	// AfterSequence keeps events with Sequence > AfterSequence.
	AfterSequence uint64

	// Limit caps the number of returned events, keeping the newest.
	// 0 means no limit.
	Limit int
}

// Match reports whether the event passes the filter, ignoring Limit.
func (f *EventFilter) Match(e Event) bool {
	if f == nil {
		return true
	}
	if f.HallID != "" && e.HallID != f.HallID {
		return false
	}
	if f.CameraID != "" && e.CameraID != f.CameraID {
		return false
	}
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	return e.Sequence > f.AfterSequence
}
