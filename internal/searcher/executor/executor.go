package executor

import (
	"log/slog"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/shard"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Policy selects whether an operation runs on the caller's goroutine or fans
// its work out and joins before returning.
type Policy int

const (
	Sequential Policy = iota
	Parallel
)

func (p Policy) String() string {
	if p == Parallel {
		return "parallel"
	}
	return "sequential"
}

func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "", "sequential", "seq":
		return Sequential, nil
	case "parallel", "par":
		return Parallel, nil
	}
	return Sequential, apperrors.Newf(apperrors.ErrInvalidInput, "unknown execution policy %q", name)
}

// MatchResult lists the plus words of a query found in one document.
type MatchResult struct {
	Words  []string
	Status index.DocumentStatus
}

// Executor scores and matches parsed queries against a MemoryIndex. It only
// reads the index, so it shares the index's single-writer rule.
type Executor struct {
	index      *index.MemoryIndex
	shardCount int
	workers    int
	logger     *slog.Logger
}

type Option func(*Executor)

// WithShardCount sets the number of aggregator shards used by parallel scoring.
func WithShardCount(n int) Option {
	return func(e *Executor) { e.shardCount = n }
}

// WithWorkers bounds the goroutines of one parallel operation; n <= 0 means
// one per CPU.
func WithWorkers(n int) Option {
	return func(e *Executor) { e.workers = n }
}

func New(idx *index.MemoryIndex, opts ...Option) *Executor {
	e := &Executor{
		index:      idx,
		shardCount: shard.DefaultShardCount,
		logger:     slog.Default().With("component", "query-executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Workers() int {
	return shard.Workers(e.workers)
}

// FindAll returns every document accepted by pred that matches at least one
// plus word and no minus word, in ascending id order. With Parallel, pred
// is called from several goroutines at once.
func (e *Executor) FindAll(policy Policy, q parser.Query, pred index.Predicate) []ranker.Document {
	var relevance map[int]float64
	if policy == Parallel {
		relevance = e.scoreParallel(q, pred)
	} else {
		relevance = e.scoreSequential(q, pred)
	}
	docs := ranker.Collect(relevance, e.rating)
	e.logger.Debug("query executed",
		"query", q.RawQuery,
		"policy", policy.String(),
		"plus", len(q.Plus),
		"minus", len(q.Minus),
		"candidates", len(docs),
	)
	return docs
}

// Match reports which plus words of q occur in document id. Any minus word in
// the document empties the list. The caller must ensure id is live.
func (e *Executor) Match(policy Policy, q parser.Query, id int) MatchResult {
	data, _ := e.index.Document(id)
	var words []string
	if policy == Parallel {
		words = e.matchParallel(q, id)
	} else {
		words = e.matchSequential(q, id)
	}
	return MatchResult{Words: words, Status: data.Status}
}

func (e *Executor) rating(id int) int {
	data, _ := e.index.Document(id)
	return data.Rating
}

func (e *Executor) accepts(pred index.Predicate, id int) bool {
	data, ok := e.index.Document(id)
	return ok && pred(id, data.Status, data.Rating)
}

func (e *Executor) canonical(word string) string {
	if c, ok := e.index.Canonical(word); ok {
		return c
	}
	return word
}
