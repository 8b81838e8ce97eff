package service

import (
	"errors"
	"testing"
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
	"github.com/yndnr/hallwatch-go/internal/telemetry/logger"
)

var cam1 = domain.CameraKey{HallID: "A", CameraID: "cam1"}

func change(key domain.CameraKey, old *domain.Counters, cur domain.Counters) domain.CounterChange {
	return domain.CounterChange{Key: key, Old: old, New: cur}
}

func counters(entered, exited, inside int64) *domain.Counters {
	return &domain.Counters{Entered: entered, Exited: exited, Inside: inside}
}

func kinds(events []domain.Event) []domain.EventKind {
	out := make([]domain.EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyPerUnit, false},
		{"per_unit", PolicyPerUnit, false},
		{"AGGREGATE", PolicyAggregate, false},
		{"batch", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("ParsePolicy(%q) err = %v, want %v", tt.in, err, domain.ErrInvalidArgument)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestTranslator_PerUnit(t *testing.T) {
	at := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		change domain.CounterChange
		want   []domain.EventKind
	}{
		{
			name:   "first snapshot seeds without events",
			change: change(cam1, nil, *counters(5, 3, 2)),
			want:   []domain.EventKind{},
		},
		{
			name:   "unchanged",
			change: change(cam1, counters(1, 1, 0), *counters(1, 1, 0)),
			want:   []domain.EventKind{},
		},
		{
			name:   "entered before exited",
			change: change(cam1, counters(0, 0, 0), *counters(3, 1, 2)),
			want: []domain.EventKind{
				domain.EventEntered, domain.EventEntered, domain.EventEntered, domain.EventExited,
			},
		},
		{
			name:   "entered reset",
			change: change(cam1, counters(5, 0, 5), *counters(2, 0, 2)),
			want:   []domain.EventKind{},
		},
		{
			name:   "reset on one field does not suppress the other",
			change: change(cam1, counters(5, 1, 4), *counters(2, 2, 0)),
			want:   []domain.EventKind{domain.EventExited},
		},
		{
			name: "field seeded by this merge emits nothing",
			change: domain.CounterChange{
				Key: cam1, Old: counters(40, 0, 0), New: *counters(42, 93, 7), Seeded: domain.FieldExited,
			},
			want: []domain.EventKind{domain.EventEntered, domain.EventEntered},
		},
		{
			name: "both fields seeded",
			change: domain.CounterChange{
				Key: cam1, Old: counters(0, 0, 7), New: *counters(100, 93, 7), Seeded: domain.FieldAll,
			},
			want: []domain.EventKind{},
		},
	}

	tr := NewTranslator(WithTranslatorLogger(logger.Discard()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := tr.Translate([]domain.CounterChange{tt.change}, at)
			if err != nil {
				t.Fatalf("Translate: %v", err)
			}
			got := kinds(events)
			if len(got) != len(tt.want) {
				t.Fatalf("kinds = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("kinds = %v, want %v", got, tt.want)
				}
			}
			for _, e := range events {
				if e.Count != 1 {
					t.Errorf("per-unit event Count = %d, want 1", e.Count)
				}
				if e.Inside != tt.change.New.Inside {
					t.Errorf("event Inside = %d, want %d", e.Inside, tt.change.New.Inside)
				}
				if !e.Timestamp.Equal(at) {
					t.Errorf("event Timestamp = %v, want %v", e.Timestamp, at)
				}
			}
		})
	}
}

func TestTranslator_Aggregate(t *testing.T) {
	tr := NewTranslator(WithPolicy(PolicyAggregate), WithTranslatorLogger(logger.Discard()))

	events, err := tr.Translate([]domain.CounterChange{
		change(cam1, counters(0, 0, 0), *counters(3, 1, 2)),
	}, time.Now())
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Kind != domain.EventEntered || events[0].Count != 3 {
		t.Errorf("events[0] = %+v, want entered x3", events[0])
	}
	if events[1].Kind != domain.EventExited || events[1].Count != 1 {
		t.Errorf("events[1] = %+v, want exited x1", events[1])
	}
	if tr.Policy() != PolicyAggregate {
		t.Errorf("Policy() = %q", tr.Policy())
	}
}

func TestTranslator_MaxBurst(t *testing.T) {
	tests := []struct {
		name      string
		maxBurst  int64
		entered   int64
		wantLen   int
		wantCount int64
	}{
		{"within cap", 5, 5, 5, 1},
		{"over cap collapses", 5, 6, 1, 6},
		{"cap disabled", 0, 20, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranslator(WithMaxBurst(tt.maxBurst), WithTranslatorLogger(logger.Discard()))
			events, err := tr.Translate([]domain.CounterChange{
				change(cam1, counters(0, 0, 0), *counters(tt.entered, 0, tt.entered)),
			}, time.Now())
			if err != nil {
				t.Fatalf("Translate: %v", err)
			}
			if len(events) != tt.wantLen {
				t.Fatalf("len(events) = %d, want %d", len(events), tt.wantLen)
			}
			if events[0].Count != tt.wantCount {
				t.Errorf("events[0].Count = %d, want %d", events[0].Count, tt.wantCount)
			}
		})
	}

	huge := NewTranslator(WithTranslatorLogger(logger.Discard()))
	events, err := huge.Translate([]domain.CounterChange{
		change(cam1, counters(0, 0, 0), *counters(9e15, 0, 0)),
	}, time.Now())
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(events) != 1 || events[0].Count != 9e15 {
		t.Errorf("default cap should collapse a corrupt jump, got %d events", len(events))
	}
}

func TestTranslator_CamerasInChangeOrder(t *testing.T) {
	tr := NewTranslator(WithTranslatorLogger(logger.Discard()))
	cam2 := domain.CameraKey{HallID: "A", CameraID: "cam2"}

	events, err := tr.Translate([]domain.CounterChange{
		change(cam1, counters(0, 0, 0), *counters(1, 1, 0)),
		change(cam2, counters(0, 0, 0), *counters(1, 0, 1)),
	}, time.Now())
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	want := []string{"cam1/entered", "cam1/exited", "cam2/entered"}
	if len(events) != len(want) {
		t.Fatalf("len(events) = %d, want %d", len(events), len(want))
	}
	for i, e := range events {
		if got := e.CameraID + "/" + string(e.Kind); got != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, got, want[i])
		}
	}
}

func TestTranslator_ResetHook(t *testing.T) {
	var resets []string
	tr := NewTranslator(
		WithTranslatorLogger(logger.Discard()),
		WithResetHook(func(key domain.CameraKey, field string) {
			resets = append(resets, key.String()+":"+field)
		}),
	)

	if _, err := tr.Translate([]domain.CounterChange{
		change(cam1, counters(5, 5, 0), *counters(2, 1, 1)),
	}, time.Now()); err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if len(resets) != 2 || resets[0] != "A/cam1:entered" || resets[1] != "A/cam1:exited" {
		t.Errorf("resets = %v", resets)
	}
}
