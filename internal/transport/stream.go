package transport

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// DefaultBuffer is the default capacity of the update channel.
const DefaultBuffer = 64

// Stream stamps updates with their arrival sequence and delivers them on a
// single channel. Sequence order equals channel order.
type Stream struct {
	mu     sync.Mutex
	seq    atomic.Uint64
	ch     chan domain.Update
	now    func() time.Time
	closed bool
}

// StreamOption configures a Stream.
type StreamOption func(*Stream)

// WithStreamClock overrides the clock used for ReceivedAt.
func WithStreamClock(now func() time.Time) StreamOption {
	return func(s *Stream) {
		s.now = now
	}
}

// NewStream creates a stream with the given channel capacity.
func NewStream(buffer int, opts ...StreamOption) *Stream {
	if buffer < 0 {
		buffer = 0
	}
	s := &Stream{
		ch:  make(chan domain.Update, buffer),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Updates returns the receive side of the stream.
func (s *Stream) Updates() <-chan domain.Update {
	return s.ch
}

// Publish stamps the snapshot and sends it. It blocks until the update is
// accepted, ctx is done or the stream is closed.
func (s *Stream) Publish(ctx context.Context, source domain.UpdateSource, kind domain.UpdateKind, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrDashboardClosed
	}

	u := domain.Update{
		Seq:        s.seq.Load() + 1,
		Source:     source,
		Kind:       kind,
		Snapshot:   snap,
		ReceivedAt: s.now(),
	}

	select {
	case s.ch <- u:
		s.seq.Store(u.Seq)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LastSeq returns the sequence of the last accepted update.
func (s *Stream) LastSeq() uint64 {
	return s.seq.Load()
}

// Close closes the update channel. Later Publish calls fail with
// ErrDashboardClosed. Producers blocked in Publish must be cancelled first.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
