// Package metrics defines the Prometheus collectors of the search server.
// Each Metrics value owns its registry; the registry is rendered as text on
// demand instead of being served over HTTP.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds all Prometheus collectors for the engine and its collaborators.
type Metrics struct {
	registry *prometheus.Registry

	DocsIndexedTotal    prometheus.Counter
	DocsRemovedTotal    *prometheus.CounterVec
	SearchQueriesTotal  *prometheus.CounterVec
	SearchLatency       *prometheus.HistogramVec
	MatchRequestsTotal  *prometheus.CounterVec
	LiveDocuments       prometheus.Gauge
	InternedTokens      prometheus.Gauge
	CacheHitsTotal      prometheus.Counter
	CacheMissesTotal    prometheus.Counter
	DuplicatesRemoved   prometheus.Counter
	NoResultRequests    prometheus.Gauge
	CircuitBreakerState *prometheus.GaugeVec
}

// New creates all collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "search_documents_indexed_total",
				Help: "Total documents added to the index.",
			},
		),
		DocsRemovedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_documents_removed_total",
				Help: "Total documents removed by execution policy.",
			},
			[]string{"policy"},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by policy and result type (hit, zero_result, error).",
			},
			[]string{"policy", "result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_query_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"policy"},
		),
		MatchRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_match_requests_total",
				Help: "Total match requests by policy and result (matched, empty, error).",
			},
			[]string{"policy", "result"},
		),
		LiveDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "search_live_documents",
				Help: "Number of documents currently in the index.",
			},
		),
		InternedTokens: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "search_interned_tokens",
				Help: "Number of distinct tokens ever interned.",
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "search_cache_hits_total",
				Help: "Total query cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "search_cache_misses_total",
				Help: "Total query cache misses.",
			},
		),
		DuplicatesRemoved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "search_duplicates_removed_total",
				Help: "Total documents removed as duplicates.",
			},
		),
		NoResultRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "search_no_result_requests",
				Help: "Zero-result requests in the current request window.",
			},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "search_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open).",
			},
			[]string{"name"},
		),
	}

	m.registry.MustRegister(
		m.DocsIndexedTotal,
		m.DocsRemovedTotal,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.MatchRequestsTotal,
		m.LiveDocuments,
		m.InternedTokens,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.DuplicatesRemoved,
		m.NoResultRequests,
		m.CircuitBreakerState,
	)

	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteText renders every registered metric family in the Prometheus text
// exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
