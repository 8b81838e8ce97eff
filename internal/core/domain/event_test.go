package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	key := CameraKey{HallID: "A", CameraID: "cam1"}

	ev, err := NewEvent(key, EventEntered, 1, 2, at)
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	if !strings.HasPrefix(ev.ID, EventIDPrefix) {
		t.Errorf("ID = %q, want prefix %q", ev.ID, EventIDPrefix)
	}
	if len(ev.ID) != len(EventIDPrefix)+26 {
		t.Errorf("len(ID) = %d, want %d", len(ev.ID), len(EventIDPrefix)+26)
	}
	if ev.Key() != key || ev.Kind != EventEntered || ev.Count != 1 || ev.Inside != 2 {
		t.Errorf("unexpected event %+v", ev)
	}
	if !ev.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v", ev.Timestamp, at)
	}
	if ev.Sequence != 0 {
		t.Errorf("Sequence should be assigned by the log, got %d", ev.Sequence)
	}
}

func TestGenerateEventID_Unique(t *testing.T) {
	at := time.Now()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := GenerateEventID(at)
		if err != nil {
			t.Fatalf("GenerateEventID: %v", err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestParseEventKind(t *testing.T) {
	tests := []struct {
		in      string
		want    EventKind
		wantErr bool
	}{
		{"entered", EventEntered, false},
		{"EXITED", EventExited, false},
		{" exited ", EventExited, false},
		{"left", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEventKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("ParseEventKind(%q) err = %v, want %v", tt.in, err, ErrInvalidArgument)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseEventKind(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestView_Hall(t *testing.T) {
	v := &View{Halls: []HallView{{HallID: "A", Inside: 2}, {HallID: "B"}}}
	h, ok := v.Hall("A")
	if !ok || h.Inside != 2 {
		t.Fatalf("Hall(A) = %+v, %v", h, ok)
	}
	if _, ok := v.Hall("C"); ok {
		t.Error("Hall(C) should not be found")
	}
}
