package domain

import "time"

// AlertKind is the direction of a capacity threshold crossing.
type AlertKind string

const (
	AlertOverCapacity     AlertKind = "over_capacity"
	AlertCapacityRestored AlertKind = "capacity_restored"
)

// Alert records a hall crossing its configured capacity.
type Alert struct {
	HallID    string    `json:"hall_id"`
	Kind      AlertKind `json:"kind"`
	Inside    int64     `json:"inside"`
	Capacity  int64     `json:"capacity"`
	Timestamp time.Time `json:"timestamp"`
}
