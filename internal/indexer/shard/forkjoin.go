package shard

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Workers resolves a configured worker count; n <= 0 means one per CPU.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// ForEach calls fn once per item on at most workers goroutines and returns
// only after every call has finished.
func ForEach[T any](items []T, workers int, fn func(item T)) {
	forEachIndex(len(items), workers, func(i int) {
		fn(items[i])
	})
}

// Any reports whether pred holds for at least one item. Items not yet started
// when a match is found are skipped; the call still joins every task.
func Any[T any](items []T, workers int, pred func(item T) bool) bool {
	var found atomic.Bool
	forEachIndex(len(items), workers, func(i int) {
		if found.Load() {
			return
		}
		if pred(items[i]) {
			found.Store(true)
		}
	})
	return found.Load()
}

// Filter returns the items for which keep holds, in input order.
func Filter[T any](items []T, workers int, keep func(item T) bool) []T {
	marks := make([]bool, len(items))
	forEachIndex(len(items), workers, func(i int) {
		marks[i] = keep(items[i])
	})
	out := make([]T, 0, len(items))
	for i, ok := range marks {
		if ok {
			out = append(out, items[i])
		}
	}
	return out
}

func forEachIndex(n int, workers int, fn func(i int)) {
	if n == 0 {
		return
	}
	workers = Workers(workers)
	if workers == 1 || n == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
