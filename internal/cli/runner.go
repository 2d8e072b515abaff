// Package cli reads search server commands line by line and writes one
// result line per document, match or counter to its output.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/tracing"
	"github.com/google/uuid"
)

const (
	maxLineBytes  = 1 << 20
	cacheTimeout  = 200 * time.Millisecond
	healthTimeout = 2 * time.Second
)

type searcher interface {
	FindTopDocuments(query string, opts ...indexer.FindOption) ([]ranker.Document, error)
	Generation() uint64
}

type handlerFunc func(ctx context.Context, args string) error

// Runner owns one engine and executes commands against it.
type Runner struct {
	cfg      *config.Config
	out      io.Writer
	metrics  *metrics.Metrics
	cache    *cache.QueryCache
	checker  *health.Checker
	policy   executor.Policy
	session  string
	logger   *slog.Logger
	commands map[string]handlerFunc

	engine   *indexer.Guarded
	searcher searcher
	queue    *analytics.RequestQueue
	line     int
}

type Option func(*Runner)

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithCache serves find and batch queries through c.
func WithCache(c *cache.QueryCache) Option {
	return func(r *Runner) { r.cache = c }
}

func New(cfg *config.Config, out io.Writer, opts ...Option) (*Runner, error) {
	policy, err := executor.ParsePolicy(cfg.Engine.Policy)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:     cfg,
		out:     out,
		policy:  policy,
		session: uuid.NewString(),
		logger:  logger.WithComponent("cli"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.commands = map[string]handlerFunc{
		"stopwords": r.cmdStopWords,
		"add":       r.cmdAdd,
		"find":      r.cmdFind,
		"match":     r.cmdMatch,
		"remove":    r.cmdRemove,
		"dedup":     r.cmdDedup,
		"count":     r.cmdCount,
		"ids":       r.cmdIDs,
		"batch":     r.cmdBatch,
		"noresults": r.cmdNoResults,
		"metrics":   r.cmdMetrics,
		"stats":     r.cmdStats,
		"health":    r.cmdHealth,
		"cache":     r.cmdCache,
	}
	if err := r.reset(cfg.Engine.StopWords); err != nil {
		return nil, err
	}

	r.checker = health.NewChecker()
	r.checker.Register("engine", func(context.Context) health.ComponentHealth {
		s := r.engine.Stats()
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents, generation %d", s.LiveDocuments, s.Generation),
		}
	})
	if r.cache != nil {
		r.checker.Register("cache", r.cache.Health)
	}
	return r, nil
}

// reset replaces the engine with an empty one using stopWords.
func (r *Runner) reset(stopWords []string) error {
	e, err := indexer.New(stopWords,
		indexer.WithMaxResults(r.cfg.Engine.MaxResults),
		indexer.WithShardCount(r.cfg.Engine.ShardCount),
		indexer.WithWorkers(r.cfg.Engine.Workers),
		indexer.WithMetrics(r.metrics),
	)
	if err != nil {
		return err
	}
	r.engine = indexer.NewGuarded(e)
	r.searcher = r.engine
	if r.cache != nil {
		r.searcher = cache.NewCachedSearcher(r.cache, r.engine, cacheTimeout)
	}
	r.queue = analytics.NewRequestQueue(r.searcher,
		analytics.WithCapacity(r.cfg.Queue.Capacity),
		analytics.WithMetrics(r.metrics),
	)
	return nil
}

// Engine exposes the engine the runner writes to.
func (r *Runner) Engine() *indexer.Guarded {
	return r.engine
}

// Run executes every line of in. Blank lines and lines starting with '#' are
// skipped. A failing command prints "error: <message>" and the next line is
// read; only read failures and ctx cancellation stop Run.
func (r *Runner) Run(ctx context.Context, in io.Reader) error {
	r.logger.Info("reading commands", "session", r.session, "policy", r.policy.String())

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.line++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if err := r.Exec(ctx, trimmed); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}

	if r.cfg.Metrics.DumpOnExit && r.metrics != nil {
		return r.metrics.WriteText(r.out)
	}
	return nil
}

// Exec runs a single command line.
func (r *Runner) Exec(ctx context.Context, line string) error {
	name, args := nextField(line)
	traceID := fmt.Sprintf("line-%d", r.line)
	ctx = logger.WithRequestID(ctx, traceID)
	ctx, span := tracing.StartSpan(ctx, name, traceID)
	span.SetAttr("session", r.session)
	defer span.End()

	handler, ok := r.commands[name]
	if !ok {
		return apperrors.Newf(apperrors.ErrInvalidInput, "unknown command %q", name)
	}
	err := handler(ctx, args)
	if err != nil {
		span.SetAttr("error", err.Error())
		logger.FromContext(ctx).Debug("command failed", "command", name, "error", err)
	}
	return err
}
