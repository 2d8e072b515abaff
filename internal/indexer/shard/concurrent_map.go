// Package shard provides the fan-out primitives used by parallel query
// execution and parallel document removal: a ConcurrentMap that spreads
// document ids over independently locked shards, and bounded fork-join
// helpers that always wait for every task before returning.
package shard

import (
	"sync"
)

// DefaultShardCount is the shard count used when a caller passes a
// non-positive value.
const DefaultShardCount = 100

// Number is the set of value types a ConcurrentMap can accumulate.
type Number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float32 | ~float64
}

type bucket[V Number] struct {
	mu sync.Mutex
	m  map[int]V
}

// ConcurrentMap maps document ids to accumulated values. Key k lives in shard
// k mod ShardCount(); every operation holds only that shard's lock, so writers
// touching different shards never contend.
type ConcurrentMap[V Number] struct {
	buckets []bucket[V]
}

func NewConcurrentMap[V Number](shardCount int) *ConcurrentMap[V] {
	if shardCount <= 0 {
		shardCount = DefaultShardCount
	}
	c := &ConcurrentMap[V]{buckets: make([]bucket[V], shardCount)}
	for i := range c.buckets {
		c.buckets[i].m = make(map[int]V)
	}
	return c
}

func (c *ConcurrentMap[V]) bucketFor(key int) *bucket[V] {
	return &c.buckets[uint64(key)%uint64(len(c.buckets))]
}

// Add accumulates delta into key, starting from zero for a new key.
func (c *ConcurrentMap[V]) Add(key int, delta V) {
	b := c.bucketFor(key)
	b.mu.Lock()
	b.m[key] += delta
	b.mu.Unlock()
}

// Update runs fn on the value stored under key while holding the shard lock.
// A missing key is presented as zero and stored afterwards.
func (c *ConcurrentMap[V]) Update(key int, fn func(v *V)) {
	b := c.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.m[key]
	fn(&v)
	b.m[key] = v
}

// Erase removes key. Erasing a missing key is a no-op.
func (c *ConcurrentMap[V]) Erase(key int) {
	b := c.bucketFor(key)
	b.mu.Lock()
	delete(b.m, key)
	b.mu.Unlock()
}

// BuildOrdinaryMap merges all shards into one map, locking and copying one
// shard at a time. The result is not a consistent cut across shards: call it
// only after every writer of the current operation has been joined.
func (c *ConcurrentMap[V]) BuildOrdinaryMap() map[int]V {
	result := make(map[int]V)
	for i := range c.buckets {
		b := &c.buckets[i]
		b.mu.Lock()
		for k, v := range b.m {
			result[k] = v
		}
		b.mu.Unlock()
	}
	return result
}

// Len counts keys across all shards, with the same caveat as BuildOrdinaryMap.
func (c *ConcurrentMap[V]) Len() int {
	n := 0
	for i := range c.buckets {
		b := &c.buckets[i]
		b.mu.Lock()
		n += len(b.m)
		b.mu.Unlock()
	}
	return n
}

func (c *ConcurrentMap[V]) ShardCount() int {
	return len(c.buckets)
}
