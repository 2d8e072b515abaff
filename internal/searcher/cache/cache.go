// Package cache stores FindTopDocuments results in Redis. Entries are keyed by
// the engine generation, so any add or remove makes older entries
// unreachable; they then expire by TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/search-server/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "search:"

// Store is the subset of the Redis client the cache uses.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

// Searcher is a concurrency-safe engine, usually an indexer.Guarded.
type Searcher interface {
	FindTopDocuments(query string, opts ...indexer.FindOption) ([]ranker.Document, error)
	ParseQuery(query string) (parser.Query, error)
	Generation() uint64
}

// Key identifies one cacheable query by its canonical plus and minus words.
type Key struct {
	Plus       []string
	Minus      []string
	Status     index.DocumentStatus
	Policy     executor.Policy
	Generation uint64
}

type QueryCache struct {
	store   Store
	ttl     time.Duration
	breaker *resilience.CircuitBreaker
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

type Option func(*QueryCache)

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *QueryCache) { c.metrics = m }
}

// WithBreaker replaces the default circuit breaker around store calls.
func WithBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *QueryCache) { c.breaker = cb }
}

func New(store Store, ttl time.Duration, opts ...Option) *QueryCache {
	c := &QueryCache{
		store:  store,
		ttl:    ttl,
		logger: slog.Default().With("component", "query-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = resilience.NewCircuitBreaker("query-cache", resilience.BreakerConfig{})
	}
	if c.metrics != nil {
		gauge := c.metrics.CircuitBreakerState
		c.breaker.OnStateChange(func(name string, _, to resilience.State) {
			gauge.WithLabelValues(name).Set(float64(to))
		})
		gauge.WithLabelValues(c.breaker.Name()).Set(float64(c.breaker.State()))
	}
	return c
}

// Find returns the results of query among documents with status, serving
// them from the cache when the engine has not changed since they were stored.
// Queries that do not parse go straight to the searcher and fail as they do
// without the cache.
func (c *QueryCache) Find(ctx context.Context, s Searcher, query string, status index.DocumentStatus, policy executor.Policy) ([]ranker.Document, bool, error) {
	q, err := s.ParseQuery(query)
	if err != nil {
		docs, err := s.FindTopDocuments(query, indexer.WithStatus(status), indexer.WithPolicy(policy))
		return docs, false, err
	}
	key := Key{
		Plus:       q.Plus,
		Minus:      q.Minus,
		Status:     status,
		Policy:     policy,
		Generation: s.Generation(),
	}
	return c.GetOrCompute(ctx, key, func() ([]ranker.Document, error) {
		return s.FindTopDocuments(query, indexer.WithStatus(status), indexer.WithPolicy(policy))
	})
}

func (c *QueryCache) Get(ctx context.Context, key Key) ([]ranker.Document, bool) {
	redisKey := buildKey(key)
	var data []byte
	err := c.breaker.Execute(func() error {
		var err error
		data, err = c.store.Get(ctx, redisKey)
		if pkgredis.IsNilError(err) {
			return nil
		}
		return err
	})
	if err != nil {
		if !errors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.Error("cache get failed", "key", redisKey, "error", err)
		}
		c.miss()
		return nil, false
	}
	if data == nil {
		c.miss()
		return nil, false
	}

	var docs []ranker.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		c.logger.Error("cache unmarshal failed", "key", redisKey, "error", err)
		c.miss()
		return nil, false
	}
	c.hit()
	c.logger.Debug("cache hit", "plus", key.Plus, "minus", key.Minus, "key", redisKey)
	return docs, true
}

func (c *QueryCache) Set(ctx context.Context, key Key, docs []ranker.Document) {
	redisKey := buildKey(key)
	data, err := json.Marshal(docs)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", redisKey, "error", err)
		return
	}
	err = c.breaker.Execute(func() error {
		return c.store.Set(ctx, redisKey, data, c.ttl)
	})
	if err != nil && !errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.Error("cache set failed", "key", redisKey, "error", err)
	}
}

// GetOrCompute serves key from the cache or runs compute once for all
// concurrent callers of the same key. The bool reports a cache hit. Cache
// failures never fail the call.
func (c *QueryCache) GetOrCompute(ctx context.Context, key Key, compute func() ([]ranker.Document, error)) ([]ranker.Document, bool, error) {
	if docs, ok := c.Get(ctx, key); ok {
		return docs, true, nil
	}
	val, err, _ := c.group.Do(buildKey(key), func() (any, error) {
		docs, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, key, docs)
		return docs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]ranker.Document), false, nil
}

// Invalidate deletes every cached result.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	var deleted int64
	err := c.breaker.Execute(func() error {
		var err error
		deleted, err = c.store.DeletePrefix(ctx, keyPrefix)
		return err
	})
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Health reports the cache as degraded while its breaker is not closed or the
// store fails a ping. The engine keeps answering queries either way.
func (c *QueryCache) Health(ctx context.Context) health.ComponentHealth {
	if state := c.breaker.State(); state != resilience.StateClosed {
		return health.ComponentHealth{Status: health.StatusDegraded, Message: "circuit " + state.String()}
	}
	if p, ok := c.store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
	}
	hits, misses := c.Stats()
	return health.ComponentHealth{
		Status:  health.StatusUp,
		Message: fmt.Sprintf("%d hits, %d misses", hits, misses),
	}
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) hit() {
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
}

func (c *QueryCache) miss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

// buildKey joins words with NUL and separates the plus and minus lists with
// SOH. Valid words contain neither byte, so distinct queries never collide.
func buildKey(key Key) string {
	raw := fmt.Sprintf("%s\x01%s|status=%s|policy=%s|gen=%d",
		strings.Join(key.Plus, "\x00"), strings.Join(key.Minus, "\x00"),
		key.Status, key.Policy, key.Generation)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// CachedSearcher puts a QueryCache in front of a Searcher. Queries that use
// WithPredicate bypass the cache.
type CachedSearcher struct {
	cache    *QueryCache
	searcher Searcher
	timeout  time.Duration
}

// NewCachedSearcher bounds every cache round trip by timeout.
func NewCachedSearcher(c *QueryCache, s Searcher, timeout time.Duration) *CachedSearcher {
	return &CachedSearcher{cache: c, searcher: s, timeout: timeout}
}

func (cs *CachedSearcher) FindTopDocuments(query string, opts ...indexer.FindOption) ([]ranker.Document, error) {
	params := indexer.ResolveFindOptions(opts...)
	if params.Custom {
		return cs.searcher.FindTopDocuments(query, opts...)
	}
	ctx, cancel := context.WithTimeout(context.Background(), cs.timeout)
	defer cancel()
	docs, _, err := cs.cache.Find(ctx, cs.searcher, query, params.Status, params.Policy)
	return docs, err
}

func (cs *CachedSearcher) Generation() uint64 {
	return cs.searcher.Generation()
}

func (cs *CachedSearcher) ParseQuery(query string) (parser.Query, error) {
	return cs.searcher.ParseQuery(query)
}
