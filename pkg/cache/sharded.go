package cache

import (
	"hash/maphash"
	"sync"
)

// shardCount splits the key space of a ShardedMap. 64 shards keep lock
// contention negligible when every render worker reads and writes the
// same memoization map.
const shardCount = 64

// ShardedMap is an in-memory concurrent map for orbit memoization.
// The arithmetic families revisit the same (start, parameter) pairs on
// every plane, so a single-mutex map would serialize all workers; the
// keys are spread across independently locked shards instead.
//
// Two goroutines that miss on the same key may both compute the value;
// the last write wins. For memoization of pure functions that is
// harmless, and cheaper than per-key in-flight tracking.
type ShardedMap[K comparable, V any] struct {
	seed   maphash.Seed
	shards [shardCount]mapShard[K, V]
}

type mapShard[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// NewShardedMap creates an empty sharded map.
func NewShardedMap[K comparable, V any]() *ShardedMap[K, V] {
	s := &ShardedMap[K, V]{seed: maphash.MakeSeed()}
	for i := range s.shards {
		s.shards[i].m = make(map[K]V)
	}
	return s
}

func (s *ShardedMap[K, V]) shard(key K) *mapShard[K, V] {
	return &s.shards[maphash.Comparable(s.seed, key)&(shardCount-1)]
}

// Get retrieves the value stored under key, if any.
func (s *ShardedMap[K, V]) Get(key K) (V, bool) {
	sh := s.shard(key)
	sh.mu.RLock()
	v, ok := sh.m[key]
	sh.mu.RUnlock()
	return v, ok
}

// Put stores value under key, replacing any previous entry.
func (s *ShardedMap[K, V]) Put(key K, value V) {
	sh := s.shard(key)
	sh.mu.Lock()
	sh.m[key] = value
	sh.mu.Unlock()
}

// Len reports the total number of entries across all shards.
func (s *ShardedMap[K, V]) Len() int {
	n := 0
	for i := range s.shards {
		s.shards[i].mu.RLock()
		n += len(s.shards[i].m)
		s.shards[i].mu.RUnlock()
	}
	return n
}
