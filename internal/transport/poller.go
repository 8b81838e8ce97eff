package transport

import (
	"context"
	"errors"
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
	"github.com/yndnr/hallwatch-go/internal/telemetry/logger"
)

// DefaultPollInterval is the default pull interval.
const DefaultPollInterval = time.Second

// Fetcher returns the backend's full counter state.
type Fetcher interface {
	FetchAll(ctx context.Context) (domain.Snapshot, error)
}

// Publisher accepts snapshots into the update stream.
type Publisher interface {
	Publish(ctx context.Context, source domain.UpdateSource, kind domain.UpdateKind, snap domain.Snapshot) error
}

// Poller fetches the full state once at start and then on every tick.
type Poller struct {
	fetcher  Fetcher
	out      Publisher
	interval time.Duration
	logger   logger.Logger
	onError  func(error)
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval sets the pull interval.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithPollerLogger sets the logger.
func WithPollerLogger(l logger.Logger) PollerOption {
	return func(p *Poller) {
		p.logger = l
	}
}

// WithErrorHook is called for every failed fetch.
func WithErrorHook(fn func(error)) PollerOption {
	return func(p *Poller) {
		p.onError = fn
	}
}

// NewPoller creates a poller publishing full snapshots to out.
func NewPoller(fetcher Fetcher, out Publisher, opts ...PollerOption) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		out:      out,
		interval: DefaultPollInterval,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the pull interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run polls until ctx is done or the stream is closed. Fetch failures are
// logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.poll(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// poll returns an error only when the stream can no longer accept updates.
func (p *Poller) poll(ctx context.Context) error {
	snap, err := p.fetcher.FetchAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		p.logger.Warn("pull fetch failed", "error", err, "code", domain.GetErrorCode(err))
		if p.onError != nil {
			p.onError(err)
		}
		return nil
	}

	if err := p.out.Publish(ctx, domain.SourcePull, domain.KindFull, snap); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
	return nil
}
