package indexer

import (
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/shard"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

// MatchResult is the outcome of MatchDocument.
type MatchResult = executor.MatchResult

// Engine is the search server: it indexes documents, ranks queries by TF-IDF
// and removes documents, each operation either sequentially or fanned out
// over goroutines.
//
// Engine is not safe for concurrent use. Wrap it in a Guarded when several
// goroutines share it.
type Engine struct {
	index      *index.MemoryIndex
	stopWords  tokenizer.StopWords
	parser     *parser.Parser
	executor   *executor.Executor
	maxResults int
	shardCount int
	workers    int
	generation uint64
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

type Option func(*Engine)

// WithMaxResults caps the number of documents FindTopDocuments returns.
func WithMaxResults(n int) Option {
	return func(e *Engine) { e.maxResults = n }
}

// WithShardCount sets the number of buckets in the parallel scoring
// accumulator.
func WithShardCount(n int) Option {
	return func(e *Engine) { e.shardCount = n }
}

// WithWorkers bounds the goroutines used by one parallel operation. Zero or
// less means one per CPU.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithMetrics records index and query activity in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an empty engine. It fails with ErrInvalidStopWord if a stop word
// contains a control character.
func New(stopWords []string, opts ...Option) (*Engine, error) {
	sw, err := tokenizer.NewStopWords(stopWords)
	if err != nil {
		return nil, err
	}
	return newEngine(sw, opts...), nil
}

// NewFromText is New with the stop words given as one space-separated string.
func NewFromText(stopWords string, opts ...Option) (*Engine, error) {
	sw, err := tokenizer.ParseStopWords(stopWords)
	if err != nil {
		return nil, err
	}
	return newEngine(sw, opts...), nil
}

func newEngine(sw tokenizer.StopWords, opts ...Option) *Engine {
	e := &Engine{
		index:      index.NewMemoryIndex(),
		stopWords:  sw,
		parser:     parser.New(sw),
		maxResults: ranker.DefaultMaxResults,
		shardCount: shard.DefaultShardCount,
		logger:     slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.executor = executor.New(e.index,
		executor.WithShardCount(e.shardCount),
		executor.WithWorkers(e.workers),
	)
	return e
}

// AddDocument indexes text under id. Ratings are averaged (truncated) into the
// document's rating. On error the engine is unchanged.
func (e *Engine) AddDocument(id int, text string, status index.DocumentStatus, ratings []int) error {
	if err := e.index.CheckID(id); err != nil {
		return err
	}
	tokens, err := e.stopWords.Tokenize(text)
	if err != nil {
		return err
	}
	data := index.DocumentData{
		Rating: index.AverageRating(ratings),
		Status: status,
	}
	if err := e.index.AddDocument(id, tokens, data); err != nil {
		return err
	}
	e.generation++

	if e.metrics != nil {
		e.metrics.DocsIndexedTotal.Inc()
		e.metrics.LiveDocuments.Set(float64(e.index.DocumentCount()))
		e.metrics.InternedTokens.Set(float64(e.index.InternedCount()))
	}
	e.logger.Debug("document indexed",
		"doc_id", id,
		"status", status.String(),
		"rating", data.Rating,
		"token_count", len(tokens),
	)
	return nil
}

// FindParams is the resolved form of a list of FindOptions.
type FindParams struct {
	Status    index.DocumentStatus
	Policy    executor.Policy
	Predicate index.Predicate
	// Custom is set when WithPredicate replaced the status filter.
	Custom bool
}

type FindOption func(*FindParams)

// ResolveFindOptions applies opts over the defaults: status Actual,
// sequential policy.
func ResolveFindOptions(opts ...FindOption) FindParams {
	p := FindParams{
		Status:    index.StatusActual,
		Policy:    executor.Sequential,
		Predicate: index.StatusIs(index.StatusActual),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithStatus keeps only documents with the given status.
func WithStatus(status index.DocumentStatus) FindOption {
	return func(p *FindParams) {
		p.Status = status
		p.Predicate = index.StatusIs(status)
		p.Custom = false
	}
}

// WithPredicate filters documents with an arbitrary predicate. Under the
// parallel policy the predicate is called from several goroutines.
func WithPredicate(pred index.Predicate) FindOption {
	return func(p *FindParams) {
		p.Predicate = pred
		p.Custom = true
	}
}

// WithPolicy selects sequential or parallel scoring.
func WithPolicy(policy executor.Policy) FindOption {
	return func(p *FindParams) { p.Policy = policy }
}

// FindTopDocuments returns the best matching documents for query, at most
// the configured maximum. Results are ordered by relevance, then by rating
// when relevances differ by less than ranker.RelevanceEpsilon.
func (e *Engine) FindTopDocuments(query string, opts ...FindOption) ([]ranker.Document, error) {
	o := ResolveFindOptions(opts...)

	start := time.Now()
	q, err := e.parser.Parse(query)
	if err != nil {
		e.observeQuery(o.Policy, "error", start)
		return nil, err
	}
	docs := ranker.Rank(e.executor.FindAll(o.Policy, q, o.Predicate), e.maxResults)

	resultType := "hit"
	if len(docs) == 0 {
		resultType = "zero_result"
	}
	e.observeQuery(o.Policy, resultType, start)
	e.logger.Debug("search completed",
		"query", query,
		"policy", o.Policy.String(),
		"results", len(docs),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return docs, nil
}

// ParseQuery parses query into its canonical plus and minus words, the form
// FindTopDocuments scores.
func (e *Engine) ParseQuery(query string) (parser.Query, error) {
	return e.parser.Parse(query)
}

func (e *Engine) observeQuery(policy executor.Policy, resultType string, start time.Time) {
	if e.metrics == nil {
		return
	}
	e.metrics.SearchQueriesTotal.WithLabelValues(policy.String(), resultType).Inc()
	e.metrics.SearchLatency.WithLabelValues(policy.String()).Observe(time.Since(start).Seconds())
}

// MatchDocument lists the query's plus words found in document id, sorted.
// A minus word in the document empties the list. It fails with
// ErrUnknownDocument when id is not live.
func (e *Engine) MatchDocument(query string, id int) (MatchResult, error) {
	return e.MatchDocumentWith(executor.Sequential, query, id)
}

// MatchDocumentWith is MatchDocument under the given policy.
func (e *Engine) MatchDocumentWith(policy executor.Policy, query string, id int) (MatchResult, error) {
	if !e.index.HasDocument(id) {
		e.observeMatch(policy, "error")
		return MatchResult{}, apperrors.Newf(apperrors.ErrUnknownDocument, "document %d does not exist", id)
	}

	var (
		q   parser.Query
		err error
	)
	if policy == executor.Parallel {
		q, err = e.parser.ParseRaw(query)
	} else {
		q, err = e.parser.Parse(query)
	}
	if err != nil {
		e.observeMatch(policy, "error")
		return MatchResult{}, err
	}

	res := e.executor.Match(policy, q, id)
	if len(res.Words) > 0 {
		e.observeMatch(policy, "matched")
	} else {
		e.observeMatch(policy, "empty")
	}
	return res, nil
}

func (e *Engine) observeMatch(policy executor.Policy, result string) {
	if e.metrics != nil {
		e.metrics.MatchRequestsTotal.WithLabelValues(policy.String(), result).Inc()
	}
}

// RemoveDocument deletes document id. Removing an absent id does nothing.
func (e *Engine) RemoveDocument(id int) {
	e.RemoveDocumentWith(executor.Sequential, id)
}

func (e *Engine) RemoveDocumentWith(policy executor.Policy, id int) {
	if !e.index.HasDocument(id) {
		return
	}
	if policy == executor.Parallel {
		e.index.RemoveDocumentParallel(id, e.workers)
	} else {
		e.index.RemoveDocument(id)
	}
	e.generation++

	if e.metrics != nil {
		e.metrics.DocsRemovedTotal.WithLabelValues(policy.String()).Inc()
		e.metrics.LiveDocuments.Set(float64(e.index.DocumentCount()))
	}
	e.logger.Debug("document removed",
		"doc_id", id,
		"policy", policy.String(),
		"live_docs", e.index.DocumentCount(),
	)
}

// GetWordFrequencies returns a copy of the token frequencies of document id,
// or an empty map when id is not live.
func (e *Engine) GetWordFrequencies(id int) map[string]float64 {
	return e.index.WordFrequencies(id)
}

func (e *Engine) DocumentCount() int {
	return e.index.DocumentCount()
}

// DocumentIDs returns the live ids in ascending order.
func (e *Engine) DocumentIDs() []int {
	return e.index.IDs()
}

// Each visits live ids in ascending order until fn returns false. fn must not
// add or remove documents; collect ids first with DocumentIDs for that.
func (e *Engine) Each(fn func(id int) bool) {
	e.index.Each(fn)
}

// Generation changes after every successful add or remove.
func (e *Engine) Generation() uint64 {
	return e.generation
}

// Stats summarizes the engine's memory footprint.
type Stats struct {
	LiveDocuments  int
	Terms          int
	InternedTokens int
	InternedBytes  int
	Generation     uint64
}

func (e *Engine) Stats() Stats {
	return Stats{
		LiveDocuments:  e.index.DocumentCount(),
		Terms:          e.index.TermCount(),
		InternedTokens: e.index.InternedCount(),
		InternedBytes:  e.index.InternedBytes(),
		Generation:     e.generation,
	}
}

func (e *Engine) StopWords() []string {
	return e.stopWords.Words()
}

func (e *Engine) MaxResults() int {
	return e.maxResults
}
