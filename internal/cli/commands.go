package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/dedup"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/batch"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/paginator"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/tracing"
	"github.com/dustin/go-humanize"
)

// stopwords [w1 w2 ...]: without arguments prints the stop words, otherwise
// replaces them. Replacing is only allowed before the first add.
func (r *Runner) cmdStopWords(_ context.Context, args string) error {
	words := tokenizer.SplitIntoWords(args)
	if len(words) == 0 {
		var current []string
		r.engine.View(func(e *indexer.Engine) { current = e.StopWords() })
		fmt.Fprintln(r.out, strings.Join(current, " "))
		return nil
	}
	if r.engine.Generation() != 0 {
		return apperrors.New(apperrors.ErrInvalidInput, "stop words can only be set before the first document is added")
	}
	return r.reset(words)
}

// add <id> <status> <r1,r2,...|-> <text...>
func (r *Runner) cmdAdd(_ context.Context, args string) error {
	idField, rest := nextField(args)
	statusField, rest := nextField(rest)
	ratingsField, text := nextField(rest)
	if ratingsField == "" {
		return apperrors.New(apperrors.ErrInvalidInput, "usage: add <id> <status> <r1,r2,..|-> <text>")
	}

	id, err := parseID(idField)
	if err != nil {
		return err
	}
	status, err := index.ParseStatus(statusField)
	if err != nil {
		return err
	}
	ratings, err := parseRatings(ratingsField)
	if err != nil {
		return err
	}
	return r.engine.AddDocument(id, text, status, ratings)
}

// find [-p] [-s STATUS] <query>
func (r *Runner) cmdFind(ctx context.Context, args string) error {
	f, query, err := parseFlags(args, true)
	if err != nil {
		return err
	}
	docs, err := r.queue.AddFindRequest(query,
		indexer.WithStatus(f.status),
		indexer.WithPolicy(r.policyFor(f)),
	)
	if err != nil {
		return err
	}
	tracing.SpanFromContext(ctx).SetAttr("results", len(docs))
	r.printDocuments(docs)
	return nil
}

// match [-p] <id> <query>
func (r *Runner) cmdMatch(ctx context.Context, args string) error {
	f, rest, err := parseFlags(args, false)
	if err != nil {
		return err
	}
	idField, query := nextField(rest)
	id, err := parseID(idField)
	if err != nil {
		return err
	}
	res, err := r.engine.MatchDocumentWith(r.policyFor(f), query, id)
	if err != nil {
		return err
	}
	tracing.SpanFromContext(ctx).SetAttr("words", len(res.Words))
	fmt.Fprintf(r.out, "{ document_id = %d, status = %s, words = [%s] }\n",
		id, res.Status, strings.Join(res.Words, " "))
	return nil
}

// remove [-p] <id>
func (r *Runner) cmdRemove(_ context.Context, args string) error {
	f, rest, err := parseFlags(args, false)
	if err != nil {
		return err
	}
	id, err := parseID(strings.TrimSpace(rest))
	if err != nil {
		return err
	}
	r.engine.RemoveDocumentWith(r.policyFor(f), id)
	return nil
}

func (r *Runner) cmdDedup(ctx context.Context, _ string) error {
	removed := dedup.RemoveDuplicatesGuarded(r.engine)
	for _, id := range removed {
		fmt.Fprintf(r.out, "Found duplicate document id %d\n", id)
	}
	if r.metrics != nil {
		r.metrics.DuplicatesRemoved.Add(float64(len(removed)))
	}
	tracing.SpanFromContext(ctx).SetAttr("removed", len(removed))
	return nil
}

func (r *Runner) cmdCount(_ context.Context, _ string) error {
	fmt.Fprintln(r.out, r.engine.DocumentCount())
	return nil
}

// ids [page]: lists live ids, paginated by paging.pageSize.
func (r *Runner) cmdIDs(_ context.Context, args string) error {
	all := r.engine.DocumentIDs()
	size := r.cfg.Paging.PageSize

	if arg := strings.TrimSpace(args); arg != "" {
		number, err := strconv.Atoi(arg)
		if err != nil {
			return apperrors.Newf(apperrors.ErrInvalidInput, "page number %q is not an integer", arg)
		}
		page, err := paginator.PageAt(all, size, number)
		if err != nil {
			return err
		}
		r.printPage(page)
		return nil
	}

	pages, err := paginator.Paginate(all, size)
	if err != nil {
		return err
	}
	for _, page := range pages {
		r.printPage(page)
	}
	return nil
}

// batch <q1> | <q2> | ...
func (r *Runner) cmdBatch(ctx context.Context, args string) error {
	var queries []string
	for _, q := range strings.Split(args, "|") {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return apperrors.New(apperrors.ErrInvalidInput, "usage: batch <q1> | <q2> | ...")
	}

	results, err := batch.ProcessQueries(r.searcher, queries, indexer.WithPolicy(r.policy))
	if err != nil {
		return err
	}
	total := 0
	for i, docs := range results {
		fmt.Fprintf(r.out, "query %q:\n", queries[i])
		r.printDocuments(docs)
		total += len(docs)
	}
	tracing.SpanFromContext(ctx).SetAttr("results", total)
	return nil
}

func (r *Runner) cmdNoResults(_ context.Context, _ string) error {
	fmt.Fprintln(r.out, r.queue.NoResultRequests())
	return nil
}

func (r *Runner) cmdMetrics(_ context.Context, _ string) error {
	if r.metrics == nil {
		return apperrors.New(apperrors.ErrInvalidInput, "metrics are disabled")
	}
	return r.metrics.WriteText(r.out)
}

func (r *Runner) cmdStats(_ context.Context, _ string) error {
	s := r.engine.Stats()
	q := r.queue.Stats()
	fmt.Fprintf(r.out, "documents=%s terms=%s interned=%s (%s) generation=%d requests=%s no_results=%d\n",
		humanize.Comma(int64(s.LiveDocuments)),
		humanize.Comma(int64(s.Terms)),
		humanize.Comma(int64(s.InternedTokens)),
		humanize.Bytes(uint64(s.InternedBytes)),
		s.Generation,
		humanize.Comma(q.TotalRequests),
		q.NoResultRequests,
	)
	return nil
}

// cache stats|invalidate
func (r *Runner) cmdCache(ctx context.Context, args string) error {
	if r.cache == nil {
		return apperrors.New(apperrors.ErrInvalidInput, "result cache is disabled")
	}
	switch strings.TrimSpace(args) {
	case "stats":
		hits, misses := r.cache.Stats()
		fmt.Fprintf(r.out, "hits = %d, misses = %d\n", hits, misses)
		return nil
	case "invalidate":
		return r.cache.Invalidate(ctx)
	default:
		return apperrors.New(apperrors.ErrInvalidInput, "usage: cache stats|invalidate")
	}
}

// health prints the overall status, then one line per component.
func (r *Runner) cmdHealth(ctx context.Context, _ string) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	report := r.checker.Run(ctx)
	fmt.Fprintf(r.out, "status = %s\n", report.Status)
	for _, name := range report.Names() {
		c := report.Components[name]
		fmt.Fprintf(r.out, "%s = %s (%s)\n", name, c.Status, c.Message)
	}
	return nil
}

func (r *Runner) policyFor(f flags) executor.Policy {
	if f.parallel {
		return executor.Parallel
	}
	return r.policy
}

func (r *Runner) printDocuments(docs []ranker.Document) {
	for _, d := range docs {
		fmt.Fprintln(r.out, d.String())
	}
}

func (r *Runner) printPage(page paginator.Page[int]) {
	parts := make([]string, len(page.Items))
	for i, id := range page.Items {
		parts[i] = strconv.Itoa(id)
	}
	fmt.Fprintf(r.out, "page %d: %s\n", page.Number, strings.Join(parts, " "))
}
