package memory

import (
	"testing"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

func TestAlertLog_AppendAndList(t *testing.T) {
	log := NewAlertLog(0)
	log.Append(
		domain.Alert{HallID: "A", Kind: domain.AlertOverCapacity, Inside: 11, Capacity: 10},
		domain.Alert{HallID: "B", Kind: domain.AlertOverCapacity, Inside: 6, Capacity: 5},
	)
	log.Append(domain.Alert{HallID: "A", Kind: domain.AlertCapacityRestored, Inside: 9, Capacity: 10})

	if log.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", log.Len())
	}
	hallA := log.List("A")
	if len(hallA) != 2 || hallA[1].Kind != domain.AlertCapacityRestored {
		t.Fatalf("List(A) = %+v", hallA)
	}
	if all := log.List(""); len(all) != 3 {
		t.Fatalf("List(\"\") = %d alerts, want 3", len(all))
	}
}

func TestAlertLog_EvictsOldest(t *testing.T) {
	log := NewAlertLog(2)
	for i := int64(1); i <= 3; i++ {
		log.Append(domain.Alert{HallID: "A", Inside: i})
	}

	got := log.List("")
	if len(got) != 2 || got[0].Inside != 2 || got[1].Inside != 3 {
		t.Fatalf("List() = %+v, want the two newest alerts", got)
	}
}
