package memory

import (
	"sync"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// DefaultAlertHistory is the number of alerts kept by default.
const DefaultAlertHistory = 1000

// AlertLog keeps the most recent capacity alerts.
type AlertLog struct {
	mu     sync.RWMutex
	alerts []domain.Alert
	max    int
}

// NewAlertLog creates an alert log keeping at most max alerts.
// A non-positive max uses DefaultAlertHistory.
func NewAlertLog(max int) *AlertLog {
	if max <= 0 {
		max = DefaultAlertHistory
	}
	return &AlertLog{max: max}
}

// Append records alerts, evicting the oldest beyond capacity.
func (l *AlertLog) Append(alerts ...domain.Alert) {
	if len(alerts) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.alerts = append(l.alerts, alerts...)
	if over := len(l.alerts) - l.max; over > 0 {
		l.alerts = append(l.alerts[:0:0], l.alerts[over:]...)
	}
}

// List returns alerts oldest first, optionally restricted to one hall.
func (l *AlertLog) List(hallID string) []domain.Alert {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Alert, 0, len(l.alerts))
	for _, a := range l.alerts {
		if hallID == "" || a.HallID == hallID {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of stored alerts.
func (l *AlertLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.alerts)
}
