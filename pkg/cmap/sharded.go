package cmap

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// Map is a concurrent-safe sharded map.
type Map[K ~string, V any] struct {
	shards    []*shard[K, V]
	shardMask uint64
	seed      uint32
}

type shard[K ~string, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// Option configures a Map.
type Option func(*options)

type options struct {
	shards int
	seed   uint32
}

// WithShardCount sets the number of shards. Values that are not a positive
// power of two fall back to DefaultShardCount.
func WithShardCount(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

// WithSeed sets the murmur3 seed used for shard selection.
func WithSeed(seed uint32) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// New creates a new sharded map.
func New[K ~string, V any](opts ...Option) *Map[K, V] {
	o := options{shards: DefaultShardCount}
	for _, opt := range opts {
		opt(&o)
	}

	if o.shards <= 0 || o.shards&(o.shards-1) != 0 {
		o.shards = DefaultShardCount
	}

	m := &Map[K, V]{
		shards:    make([]*shard[K, V], o.shards),
		shardMask: uint64(o.shards - 1),
		seed:      o.seed,
	}
	for i := range m.shards {
		m.shards[i] = &shard[K, V]{items: make(map[K]V)}
	}
	return m
}

// ShardIndex returns the shard a key maps to.
func (m *Map[K, V]) ShardIndex(key K) int {
	return int(murmur3.Sum64WithSeed([]byte(key), m.seed) & m.shardMask)
}

func (m *Map[K, V]) getShard(key K) *shard[K, V] {
	return m.shards[m.ShardIndex(key)]
}

// Get retrieves a value by key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	s := m.getShard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.items[key]
	return val, ok
}

// Set stores a key-value pair.
func (m *Map[K, V]) Set(key K, value V) {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// Delete removes a key.
func (m *Map[K, V]) Delete(key K) {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Has checks if a key exists.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Count returns the total number of items.
func (m *Map[K, V]) Count() int {
	count := 0
	for _, s := range m.shards {
		s.mu.RLock()
		count += len(s.items)
		s.mu.RUnlock()
	}
	return count
}

// Clear removes all items.
func (m *Map[K, V]) Clear() {
	for _, s := range m.shards {
		s.mu.Lock()
		s.items = make(map[K]V)
		s.mu.Unlock()
	}
}

// ShardCount returns the number of shards.
func (m *Map[K, V]) ShardCount() int {
	return len(m.shards)
}
