// Package cmap provides a concurrent map keyed by strings.
//
// Keys are spread over a power-of-two number of shards by their murmur3
// hash; each shard has its own RWMutex.
//
// Usage:
//
//	m := cmap.New[string, Frame]()
//	m.Set("hall/cam1", frame)
//	f, ok := m.Get("hall/cam1")
//
// All operations are safe for concurrent use. Range and friends lock one
// shard at a time, so they do not observe a consistent global snapshot.
package cmap
