package service

import (
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// Capacities holds the maximum number of people allowed inside each hall.
// A value of 0 disables the threshold.
type Capacities struct {
	Default int64
	PerHall map[string]int64
}

// For returns the capacity that applies to a hall.
func (c Capacities) For(hallID string) int64 {
	if v, ok := c.PerHall[hallID]; ok {
		return v
	}
	return c.Default
}

// AlertMonitor tracks which halls are over capacity and reports crossings.
// It is not safe for concurrent use; the reconciler owns it.
type AlertMonitor struct {
	over map[string]bool
}

// NewAlertMonitor creates a monitor with every hall under capacity.
func NewAlertMonitor() *AlertMonitor {
	return &AlertMonitor{over: make(map[string]bool)}
}

// Evaluate compares the view against the previous state and returns one
// alert per hall whose over-capacity state changed, in hall order.
func (m *AlertMonitor) Evaluate(v *domain.View, at time.Time) []domain.Alert {
	var alerts []domain.Alert
	seen := make(map[string]struct{}, len(v.Halls))

	for _, h := range v.Halls {
		seen[h.HallID] = struct{}{}
		was := m.over[h.HallID]

		switch {
		case h.OverCapacity && !was:
			alerts = append(alerts, domain.Alert{
				HallID:    h.HallID,
				Kind:      domain.AlertOverCapacity,
				Inside:    h.Inside,
				Capacity:  h.Capacity,
				Timestamp: at,
			})
		case !h.OverCapacity && was:
			alerts = append(alerts, domain.Alert{
				HallID:    h.HallID,
				Kind:      domain.AlertCapacityRestored,
				Inside:    h.Inside,
				Capacity:  h.Capacity,
				Timestamp: at,
			})
		}
		m.over[h.HallID] = h.OverCapacity
	}

	for id := range m.over {
		if _, ok := seen[id]; !ok {
			delete(m.over, id)
		}
	}
	return alerts
}
