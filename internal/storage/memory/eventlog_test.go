package memory

import (
	"sync"
	"testing"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

func ev(hall, cam string, kind domain.EventKind) domain.Event {
	return domain.Event{HallID: hall, CameraID: cam, Kind: kind, Count: 1}
}

func TestEventLog_AppendAssignsSequence(t *testing.T) {
	log := NewEventLog()

	stored := log.Append([]domain.Event{ev("A", "cam1", domain.EventEntered), ev("A", "cam1", domain.EventExited)})
	if len(stored) != 2 || stored[0].Sequence != 1 || stored[1].Sequence != 2 {
		t.Fatalf("stored = %+v", stored)
	}

	stored = log.Append([]domain.Event{ev("A", "cam2", domain.EventEntered)})
	if stored[0].Sequence != 3 {
		t.Fatalf("Sequence = %d, want 3", stored[0].Sequence)
	}
	if log.Len() != 3 || log.LastSequence() != 3 {
		t.Fatalf("Len() = %d, LastSequence() = %d", log.Len(), log.LastSequence())
	}

	if got := log.Append(nil); got != nil {
		t.Errorf("Append(nil) = %v, want nil", got)
	}
}

func TestEventLog_Since(t *testing.T) {
	log := NewEventLog()
	log.Append([]domain.Event{
		ev("A", "cam1", domain.EventEntered),
		ev("A", "cam1", domain.EventEntered),
		ev("A", "cam1", domain.EventExited),
	})

	tests := []struct {
		since uint64
		want  int
	}{
		{0, 3},
		{1, 2},
		{3, 0},
		{10, 0},
	}
	for _, tt := range tests {
		got := log.Since(tt.since)
		if len(got) != tt.want {
			t.Errorf("Since(%d) returned %d events, want %d", tt.since, len(got), tt.want)
		}
		if len(got) > 0 && got[0].Sequence != tt.since+1 {
			t.Errorf("Since(%d)[0].Sequence = %d, want %d", tt.since, got[0].Sequence, tt.since+1)
		}
	}
}

func TestEventLog_QueryFilters(t *testing.T) {
	log := NewEventLog()
	log.Append([]domain.Event{
		ev("A", "cam1", domain.EventEntered),
		ev("A", "cam2", domain.EventEntered),
		ev("B", "cam1", domain.EventExited),
		ev("A", "cam1", domain.EventExited),
		ev("A", "cam1", domain.EventEntered),
	})

	if got := log.ByCamera("A", "cam1"); len(got) != 3 {
		t.Errorf("ByCamera(A, cam1) = %d events, want 3", len(got))
	}
	if got := log.Query(&domain.EventFilter{HallID: "A"}); len(got) != 4 {
		t.Errorf("Query(hall A) = %d events, want 4", len(got))
	}
	if got := log.Query(&domain.EventFilter{Kind: domain.EventExited}); len(got) != 2 {
		t.Errorf("Query(exited) = %d events, want 2", len(got))
	}
	if got := log.Query(nil); len(got) != 5 {
		t.Errorf("Query(nil) = %d events, want 5", len(got))
	}

	got := log.Query(&domain.EventFilter{HallID: "A", CameraID: "cam1", Limit: 2})
	if len(got) != 2 || got[0].Sequence != 4 || got[1].Sequence != 5 {
		t.Errorf("Query with limit should keep newest events, got %+v", got)
	}

	got = log.Query(&domain.EventFilter{AfterSequence: 3})
	if len(got) != 2 || got[0].Sequence != 4 {
		t.Errorf("Query(after 3) = %+v", got)
	}
}

func TestEventLog_ReturnsCopies(t *testing.T) {
	log := NewEventLog()
	log.Append([]domain.Event{ev("A", "cam1", domain.EventEntered)})

	all := log.All()
	all[0].CameraID = "mutated"

	if log.All()[0].CameraID != "cam1" {
		t.Error("log mutated through returned slice")
	}
}

func TestEventLog_BatchesAreAtomic(t *testing.T) {
	log := NewEventLog()
	const batches, size = 50, 4

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < batches; i++ {
			batch := make([]domain.Event, size)
			for j := range batch {
				batch[j] = ev("A", "cam1", domain.EventEntered)
			}
			log.Append(batch)
		}
	}()

	for i := 0; i < 200; i++ {
		if n := log.Len(); n%size != 0 {
			t.Fatalf("observed partial batch: Len() = %d", n)
		}
	}
	wg.Wait()

	if log.Len() != batches*size {
		t.Fatalf("Len() = %d, want %d", log.Len(), batches*size)
	}
}
