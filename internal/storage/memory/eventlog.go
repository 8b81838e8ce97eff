package memory

import (
	"sync"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// EventLog is the append-only, session-scoped event log.
type EventLog struct {
	mu     sync.RWMutex
	events []domain.Event
}

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append assigns sequence numbers and appends a batch atomically.
// It returns the batch as stored.
func (l *EventLog) Append(batch []domain.Event) []domain.Event {
	if len(batch) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := uint64(len(l.events))
	stored := make([]domain.Event, len(batch))
	for i, e := range batch {
		next++
		e.Sequence = next
		stored[i] = e
	}
	l.events = append(l.events, stored...)

	out := make([]domain.Event, len(stored))
	copy(out, stored)
	return out
}

// All returns a copy of every event in log order.
func (l *EventLog) All() []domain.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Since returns events with Sequence greater than seq.
func (l *EventLog) Since(seq uint64) []domain.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Sequence n lives at index n-1.
	if seq >= uint64(len(l.events)) {
		return []domain.Event{}
	}
	out := make([]domain.Event, len(l.events)-int(seq))
	copy(out, l.events[seq:])
	return out
}

// ByCamera returns the events of one camera in log order.
func (l *EventLog) ByCamera(hallID, cameraID string) []domain.Event {
	return l.Query(&domain.EventFilter{HallID: hallID, CameraID: cameraID})
}

// Query returns the events matching filter in log order. When the filter
// has a limit, the newest matching events are kept.
func (l *EventLog) Query(filter *domain.EventFilter) []domain.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := 0
	if filter != nil {
		if filter.AfterSequence >= uint64(len(l.events)) {
			return []domain.Event{}
		}
		start = int(filter.AfterSequence)
	}

	out := make([]domain.Event, 0)
	for _, e := range l.events[start:] {
		if filter.Match(e) {
			out = append(out, e)
		}
	}

	if filter != nil && filter.Limit > 0 && len(out) > filter.Limit {
		out = out[len(out)-filter.Limit:]
	}
	return out
}

// Len returns the number of events.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// LastSequence returns the sequence of the newest event, or 0.
func (l *EventLog) LastSequence() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.events))
}
