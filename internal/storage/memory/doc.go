// Package memory provides in-memory, session-scoped storage for HallWatch.
//
// It contains:
//
//   - Store: per-hall, per-camera counters with snapshot merging
//   - EventLog: append-only log of derived entered/exited events
//   - AlertLog: history of capacity threshold crossings
//   - FrameCache: latest video frame per camera
//
// Thread Safety:
//
// Store is confined to the reconciler goroutine and is not safe for
// concurrent use. EventLog and AlertLog have a single writer and any number
// of readers guarded by an RWMutex. FrameCache is backed by a sharded map
// and safe for concurrent use.
//
// Nothing is persisted; state lives for the lifetime of the process.
package memory
