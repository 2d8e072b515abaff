// Package analytics keeps a sliding window over recent find requests and
// counts the ones that returned nothing.
package analytics

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

// DefaultCapacity is one request per minute for a day.
const DefaultCapacity = 1440

type Searcher interface {
	FindTopDocuments(query string, opts ...indexer.FindOption) ([]ranker.Document, error)
}

// RequestQueue runs find requests through a Searcher and remembers the last
// capacity of them. It is safe for concurrent use when the Searcher is.
type RequestQueue struct {
	searcher Searcher
	capacity int
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu                sync.Mutex
	window            []RequestEvent
	head              int
	size              int
	noResults         int
	totalRequests     int64
	zeroResultQueries map[string]int64
}

type Option func(*RequestQueue)

// WithCapacity sets the window length; values below 1 keep the default.
func WithCapacity(n int) Option {
	return func(q *RequestQueue) {
		if n > 0 {
			q.capacity = n
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(q *RequestQueue) { q.metrics = m }
}

func NewRequestQueue(s Searcher, opts ...Option) *RequestQueue {
	q := &RequestQueue{
		searcher:          s,
		capacity:          DefaultCapacity,
		zeroResultQueries: make(map[string]int64),
		logger:            slog.Default().With("component", "request-queue"),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.window = make([]RequestEvent, q.capacity)
	return q
}

// AddFindRequest runs the query and records it. Failed requests are returned
// to the caller and not recorded.
func (q *RequestQueue) AddFindRequest(query string, opts ...indexer.FindOption) ([]ranker.Document, error) {
	start := time.Now()
	docs, err := q.searcher.FindTopDocuments(query, opts...)
	if err != nil {
		return nil, err
	}
	q.record(RequestEvent{
		Query:     query,
		Returned:  len(docs),
		Latency:   time.Since(start),
		Timestamp: start,
	})
	return docs, nil
}

func (q *RequestQueue) record(ev RequestEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == q.capacity {
		q.evictOldest()
	}
	q.window[(q.head+q.size)%q.capacity] = ev
	q.size++
	q.totalRequests++
	if ev.ZeroResult() {
		q.noResults++
		q.zeroResultQueries[ev.Query]++
		q.logger.Debug("request returned no results", "query", ev.Query)
	}
	if q.metrics != nil {
		q.metrics.NoResultRequests.Set(float64(q.noResults))
	}
}

func (q *RequestQueue) evictOldest() {
	old := q.window[q.head]
	q.window[q.head] = RequestEvent{}
	q.head = (q.head + 1) % q.capacity
	q.size--
	if !old.ZeroResult() {
		return
	}
	q.noResults--
	if q.zeroResultQueries[old.Query]--; q.zeroResultQueries[old.Query] <= 0 {
		delete(q.zeroResultQueries, old.Query)
	}
}

// NoResultRequests is the number of zero-result requests in the window.
func (q *RequestQueue) NoResultRequests() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.noResults
}

// Len is the number of requests currently in the window.
func (q *RequestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

func (q *RequestQueue) Capacity() int {
	return q.capacity
}

func (q *RequestQueue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats := Stats{
		TotalRequests:    q.totalRequests,
		WindowSize:       q.size,
		NoResultRequests: q.noResults,
	}
	if q.size > 0 {
		var sum time.Duration
		for i := 0; i < q.size; i++ {
			sum += q.window[(q.head+i)%q.capacity].Latency
		}
		stats.AvgLatencyMs = float64(sum.Microseconds()) / 1000 / float64(q.size)
	}
	stats.ZeroResultQueries = topN(q.zeroResultQueries, 10)
	return stats
}

func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		result = append(result, QueryCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
