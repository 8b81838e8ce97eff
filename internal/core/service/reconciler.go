package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
	"github.com/yndnr/hallwatch-go/internal/telemetry/logger"
)

// OccupancyStore is the counter store owned by the reconciler.
type OccupancyStore interface {
	ApplySnapshot(snap domain.Snapshot) []domain.CounterChange
	RegisterCamera(hallID, cameraID, sourceURI string) error
	RemoveCamera(hallID, cameraID string) error
	Cameras() []*domain.Camera
	Halls() []string
}

// EventAppender appends a batch of events atomically and returns the
// stored events with their sequence numbers.
type EventAppender interface {
	Append(batch []domain.Event) []domain.Event
}

// AlertAppender records capacity alerts.
type AlertAppender interface {
	Append(alerts ...domain.Alert)
}

type command struct {
	fn     func() error
	result chan error
}

// Reconciler applies updates and registry commits one at a time on a single
// goroutine. It is the only writer of the store, the event log and the
// alert log, and publishes an immutable view after every change.
type Reconciler struct {
	store      OccupancyStore
	events     EventAppender
	alerts     AlertAppender
	translator *Translator
	monitor    *AlertMonitor
	caps       Capacities
	recorder   Recorder
	logger     logger.Logger
	now        func() time.Time

	commands chan command
	done     chan struct{}
	stopOnce sync.Once

	view    atomic.Pointer[domain.View]
	version uint64
	ready   atomic.Bool
	applied atomic.Uint64
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithTranslator sets the event translator.
func WithTranslator(t *Translator) ReconcilerOption {
	return func(r *Reconciler) {
		r.translator = t
	}
}

// WithAlerts sets the alert log and the initial capacities.
func WithAlerts(sink AlertAppender, caps Capacities) ReconcilerOption {
	return func(r *Reconciler) {
		r.alerts = sink
		r.caps = caps
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec Recorder) ReconcilerOption {
	return func(r *Reconciler) {
		r.recorder = rec
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		r.logger = l
	}
}

// WithClock sets the time source for event and view timestamps.
func WithClock(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) {
		r.now = now
	}
}

// NewReconciler creates a reconciler and publishes the initial view.
func NewReconciler(store OccupancyStore, events EventAppender, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:    store,
		events:   events,
		monitor:  NewAlertMonitor(),
		recorder: nopRecorder{},
		logger:   logger.Default(),
		now:      time.Now,
		commands: make(chan command),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.translator == nil {
		r.translator = NewTranslator(WithTranslatorLogger(r.logger))
	}
	r.logger = r.logger.With("component", "reconciler")

	r.publish(r.now())
	return r
}

// Run processes updates and commands until ctx is cancelled or Close is
// called. A closed updates channel stops update processing only.
func (r *Reconciler) Run(ctx context.Context, updates <-chan domain.Update) {
	defer r.Close()

	r.logger.Info("reconciler started")
	defer r.logger.Info("reconciler stopped", "updates_applied", r.applied.Load())

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case u, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			r.apply(u)
		case cmd := <-r.commands:
			cmd.result <- cmd.fn()
		}
	}
}

// Close stops the reconciler. Pending and future commands fail with
// domain.ErrDashboardClosed.
func (r *Reconciler) Close() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
}

// Done is closed once the reconciler is closed.
func (r *Reconciler) Done() <-chan struct{} {
	return r.done
}

// Closed reports whether the reconciler has stopped.
func (r *Reconciler) Closed() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// View returns the latest published view. It is never nil and must not be
// modified.
func (r *Reconciler) View() *domain.View {
	return r.view.Load()
}

// Ready reports whether a full fetch has been applied.
func (r *Reconciler) Ready() bool {
	return r.ready.Load()
}

// Applied returns the number of updates applied so far.
func (r *Reconciler) Applied() uint64 {
	return r.applied.Load()
}

// RegisterCamera commits a camera registration to the store.
func (r *Reconciler) RegisterCamera(ctx context.Context, hallID, cameraID, sourceURI string) error {
	return r.do(ctx, func() error {
		if err := r.store.RegisterCamera(hallID, cameraID, sourceURI); err != nil {
			return err
		}
		r.publish(r.now())
		return nil
	})
}

// RemoveCamera commits a camera removal to the store.
func (r *Reconciler) RemoveCamera(ctx context.Context, hallID, cameraID string) error {
	return r.do(ctx, func() error {
		if err := r.store.RemoveCamera(hallID, cameraID); err != nil {
			return err
		}
		r.publish(r.now())
		return nil
	})
}

// SetCapacities replaces the hall capacities and republishes the view.
func (r *Reconciler) SetCapacities(ctx context.Context, caps Capacities) error {
	return r.do(ctx, func() error {
		r.caps = caps
		r.publish(r.now())
		return nil
	})
}

// Flush returns once every update the reconciler had received before the
// call has been applied.
func (r *Reconciler) Flush(ctx context.Context) error {
	return r.do(ctx, func() error { return nil })
}

func (r *Reconciler) do(ctx context.Context, fn func() error) error {
	if r.Closed() {
		return domain.ErrDashboardClosed
	}

	cmd := command{fn: fn, result: make(chan error, 1)}
	select {
	case r.commands <- cmd:
	case <-r.done:
		return domain.ErrDashboardClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// Once received, the command runs to completion before the loop
	// looks at anything else.
	return <-cmd.result
}

func (r *Reconciler) apply(u domain.Update) {
	start := time.Now()
	at := u.ReceivedAt
	if at.IsZero() {
		at = r.now()
	}

	changes := r.store.ApplySnapshot(u.Snapshot)

	events, err := r.translator.Translate(changes, at)
	if err != nil {
		r.logger.Error("derive events failed", "seq", u.Seq, "error", err)
		events = nil
	}
	stored := r.events.Append(events)

	var entered, exited int
	for _, e := range stored {
		if e.Kind == domain.EventEntered {
			entered++
		} else {
			exited++
		}
	}

	r.publish(at)

	if u.Kind == domain.KindFull && !r.ready.Load() {
		r.ready.Store(true)
		r.logger.Info("initial state loaded", "source", string(u.Source), "cameras", r.View().Cameras)
	}

	r.applied.Add(1)
	r.recorder.IncUpdate(string(u.Source))
	r.recorder.AddEvents(string(domain.EventEntered), entered)
	r.recorder.AddEvents(string(domain.EventExited), exited)
	r.recorder.ObserveMerge(time.Since(start))

	if len(stored) > 0 {
		r.logger.Debug("update applied",
			"seq", u.Seq,
			"source", string(u.Source),
			"kind", string(u.Kind),
			"changes", len(changes),
			"events", len(stored),
		)
	}
}

func (r *Reconciler) publish(at time.Time) {
	r.version++
	v := Project(r.store.Halls(), r.store.Cameras(), r.caps, r.version, at)
	r.view.Store(v)

	alerts := r.monitor.Evaluate(v, at)
	for _, a := range alerts {
		r.logger.Warn("hall capacity alert",
			"hall_id", a.HallID,
			"kind", string(a.Kind),
			"inside", a.Inside,
			"capacity", a.Capacity,
		)
		r.recorder.IncAlert(string(a.Kind))
	}
	if len(alerts) > 0 && r.alerts != nil {
		r.alerts.Append(alerts...)
	}
}
