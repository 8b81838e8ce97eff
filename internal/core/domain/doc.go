// Package domain defines the core domain models for HallWatch.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - Camera, Counters: per-camera occupancy counters within a hall
//   - Snapshot, Reading: full or partial counter state received from the backend
//   - Update: a snapshot stamped with its arrival order and source
//   - Event: immutable entered/exited record derived from counter deltas
//   - View: read-only per-hall projection handed to presentation
//   - Alert: hall capacity threshold crossings
//   - Errors: domain-specific error definitions
package domain
