package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
	"github.com/yndnr/hallwatch-go/internal/telemetry/logger"
)

// Policy selects how a counter jump of more than one maps to events.
type Policy string

const (
	// PolicyPerUnit emits one event per unit of increase.
	PolicyPerUnit Policy = "per_unit"
	// PolicyAggregate emits a single event whose Count is the jump size.
	PolicyAggregate Policy = "aggregate"
)

// ParsePolicy parses a policy name. Empty means PolicyPerUnit.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyPerUnit:
		return PolicyPerUnit, nil
	case PolicyAggregate:
		return PolicyAggregate, nil
	default:
		return "", domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("unknown translator policy %q", s))
	}
}

// DefaultMaxBurst is the largest jump PolicyPerUnit expands into single
// events.
const DefaultMaxBurst = 10000

// Translator turns counter changes into events.
// It holds no state between calls; baselines live in the store.
type Translator struct {
	policy   Policy
	maxBurst int64
	logger   logger.Logger
	onReset  func(key domain.CameraKey, field string)
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithPolicy sets the multi-unit policy.
func WithPolicy(p Policy) TranslatorOption {
	return func(t *Translator) {
		t.policy = p
	}
}

// WithMaxBurst caps per-unit expansion. A larger jump yields one aggregate
// event. Zero disables the cap.
func WithMaxBurst(n int64) TranslatorOption {
	return func(t *Translator) {
		t.maxBurst = n
	}
}

// WithTranslatorLogger sets the logger used for reset diagnostics.
func WithTranslatorLogger(l logger.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = l
	}
}

// WithResetHook sets a function called once per counter reset.
func WithResetHook(fn func(key domain.CameraKey, field string)) TranslatorOption {
	return func(t *Translator) {
		t.onReset = fn
	}
}

// NewTranslator creates a translator using PolicyPerUnit by default.
func NewTranslator(opts ...TranslatorOption) *Translator {
	t := &Translator{
		policy:   PolicyPerUnit,
		maxBurst: DefaultMaxBurst,
		logger:   logger.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Policy returns the configured policy.
func (t *Translator) Policy() Policy {
	return t.policy
}

// Translate derives events for changes in the given order. For each camera,
// entered events precede exited events. A nil baseline or a field seeded by
// this merge emits nothing; a decrease is a reset and emits nothing for that
// field.
func (t *Translator) Translate(changes []domain.CounterChange, at time.Time) ([]domain.Event, error) {
	var events []domain.Event

	for _, c := range changes {
		if c.Old == nil {
			continue
		}

		var err error
		if !c.Seeded.Has(domain.FieldEntered) {
			events, err = t.field(events, c.Key, domain.EventEntered, c.Old.Entered, c.New.Entered, c.New.Inside, at)
			if err != nil {
				return nil, err
			}
		}
		if !c.Seeded.Has(domain.FieldExited) {
			events, err = t.field(events, c.Key, domain.EventExited, c.Old.Exited, c.New.Exited, c.New.Inside, at)
			if err != nil {
				return nil, err
			}
		}
	}

	return events, nil
}

func (t *Translator) field(events []domain.Event, key domain.CameraKey, kind domain.EventKind, old, cur, inside int64, at time.Time) ([]domain.Event, error) {
	switch {
	case cur == old:
		return events, nil
	case cur < old:
		t.logger.Debug("counter reset",
			"hall_id", key.HallID,
			"camera_id", key.CameraID,
			"field", string(kind),
			"old", old,
			"new", cur,
		)
		if t.onReset != nil {
			t.onReset(key, string(kind))
		}
		return events, nil
	}

	delta := cur - old
	aggregate := t.policy == PolicyAggregate
	if !aggregate && t.maxBurst > 0 && delta > t.maxBurst {
		t.logger.Warn("counter jump exceeds max burst, emitting one aggregate event",
			"hall_id", key.HallID,
			"camera_id", key.CameraID,
			"field", string(kind),
			"delta", delta,
			"max_burst", t.maxBurst,
		)
		aggregate = true
	}
	if aggregate {
		e, err := domain.NewEvent(key, kind, delta, inside, at)
		if err != nil {
			return nil, err
		}
		return append(events, e), nil
	}

	for i := int64(0); i < delta; i++ {
		e, err := domain.NewEvent(key, kind, 1, inside, at)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
