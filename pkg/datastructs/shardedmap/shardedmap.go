package shardedmap

import (
	"sync"

	"github.com/huynhanx03/go-fifo/pkg/utils"
)

const defaultShards = 256

// Map is a thread-safe map that uses sharding to minimize lock contention.
// It supports any comparable key type K and any value type V.
type Map[K comparable, V any] struct {
	shards []*lockedShard[K, V]
	mask   uint64
	hasher func(K) uint64
}

type lockedShard[K comparable, V any] struct {
	sync.RWMutex
	data map[K]V

	_ [64]byte // keeps hot shards on separate cache lines
}

// New creates a new Sharded Map.
// shards is rounded up to the nearest power of 2; <= 0 uses the default.
// hashFn hashes the key K into a uint64 and must not be nil.
func New[K comparable, V any](shards int, hashFn func(K) uint64) *Map[K, V] {
	if hashFn == nil {
		panic("shardedmap: nil hash function")
	}
	if shards <= 0 {
		shards = defaultShards
	}
	numShards := utils.CeilToPowerOfTwo(shards)
	m := &Map[K, V]{
		shards: make([]*lockedShard[K, V], numShards),
		mask:   uint64(numShards - 1),
		hasher: hashFn,
	}

	for i := range m.shards {
		m.shards[i] = &lockedShard[K, V]{data: make(map[K]V)}
	}
	return m
}

func (m *Map[K, V]) shard(key K) *lockedShard[K, V] {
	return m.shards[m.hasher(key)&m.mask]
}

// Get retrieves a value from the map.
func (m *Map[K, V]) Get(key K) (V, bool) {
	shard := m.shard(key)

	shard.RLock()
	val, ok := shard.data[key]
	shard.RUnlock()
	return val, ok
}

// GetOrCreate returns the value stored under key, creating it with create
// when absent. create runs under the shard lock, at most once per missing key.
// The boolean reports whether the value already existed.
func (m *Map[K, V]) GetOrCreate(key K, create func() V) (V, bool) {
	if val, ok := m.Get(key); ok {
		return val, true
	}

	shard := m.shard(key)
	shard.Lock()
	defer shard.Unlock()

	if val, ok := shard.data[key]; ok {
		return val, true
	}
	val := create()
	shard.data[key] = val
	return val, false
}

// Set adds or updates a value in the map.
func (m *Map[K, V]) Set(key K, value V) {
	shard := m.shard(key)

	shard.Lock()
	shard.data[key] = value
	shard.Unlock()
}

// Del removes a value from the map and reports whether it was present.
func (m *Map[K, V]) Del(key K) bool {
	shard := m.shard(key)

	shard.Lock()
	_, ok := shard.data[key]
	delete(shard.data, key)
	shard.Unlock()
	return ok
}

// Len returns the total number of items in the map.
// Shards are locked one at a time, so the count is not atomic across the whole map.
func (m *Map[K, V]) Len() int {
	total := 0
	for _, shard := range m.shards {
		shard.RLock()
		total += len(shard.data)
		shard.RUnlock()
	}
	return total
}

// Keys returns all keys in unspecified order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.Do(func(k K, _ V) { keys = append(keys, k) })
	return keys
}

// Do iterates over all items in the map and executes fn.
// It locks one shard at a time; fn must not call back into the map.
func (m *Map[K, V]) Do(fn func(K, V)) {
	for _, shard := range m.shards {
		shard.RLock()
		for k, v := range shard.data {
			fn(k, v)
		}
		shard.RUnlock()
	}
}
