package shard

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcurrentMapRoutesByModulo(t *testing.T) {
	c := NewConcurrentMap[int](4)
	assert.Equal(t, 4, c.ShardCount())

	c.Add(1, 2)
	c.Add(5, 3) // same shard as 1
	c.Add(1, 1)
	c.Erase(42)

	assert.Same(t, c.bucketFor(1), c.bucketFor(5))
	assert.NotSame(t, c.bucketFor(1), c.bucketFor(2))
	assert.Equal(t, map[int]int{1: 3, 5: 3}, c.BuildOrdinaryMap())
	assert.Equal(t, 2, c.Len())
}

func TestConcurrentMapDefaultShardCount(t *testing.T) {
	assert.Equal(t, DefaultShardCount, NewConcurrentMap[float64](0).ShardCount())
}

func TestConcurrentMapUpdateAndErase(t *testing.T) {
	c := NewConcurrentMap[float64](3)
	c.Update(7, func(v *float64) { *v += 0.5 })
	c.Update(7, func(v *float64) { *v *= 4 })
	assert.Equal(t, map[int]float64{7: 2}, c.BuildOrdinaryMap())

	c.Erase(7)
	assert.Empty(t, c.BuildOrdinaryMap())
}

func TestConcurrentMapParallelAccumulate(t *testing.T) {
	const (
		writers = 16
		keys    = 1000
	)
	c := NewConcurrentMap[int](100)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < keys; k++ {
				c.Add(k, 1)
			}
		}()
	}
	wg.Wait()

	got := c.BuildOrdinaryMap()
	assert.Len(t, got, keys)
	for k, v := range got {
		if v != writers {
			t.Fatalf("key %d: got %d, want %d", k, v, writers)
		}
	}
}

func TestForEachJoinsAllTasks(t *testing.T) {
	items := make([]int, 500)
	for i := range items {
		items[i] = i
	}
	var sum atomic.Int64
	ForEach(items, 8, func(item int) {
		sum.Add(int64(item))
	})
	// every task must have completed by the time ForEach returns
	assert.Equal(t, int64(499*500/2), sum.Load())

	ForEach([]int(nil), 4, func(int) { t.Fatal("fn called for empty input") })
}

func TestAny(t *testing.T) {
	words := []string{"cat", "dog", "city"}
	assert.True(t, Any(words, 4, func(w string) bool { return w == "dog" }))
	assert.False(t, Any(words, 4, func(w string) bool { return w == "bird" }))
	assert.False(t, Any([]string{}, 4, func(string) bool { return true }))
}

func TestFilterKeepsOrder(t *testing.T) {
	words := []string{"small", "cat", "big", "cat", "dog"}
	got := Filter(words, 3, func(w string) bool { return w != "big" })
	assert.Equal(t, []string{"small", "cat", "cat", "dog"}, got)
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 3, Workers(3))
	assert.Positive(t, Workers(0))
}
