// Package batch evaluates many queries against one searcher concurrently.
package batch

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
)

// Searcher must be safe for concurrent use, such as an indexer.Guarded.
type Searcher interface {
	FindTopDocuments(query string, opts ...indexer.FindOption) ([]ranker.Document, error)
}

// ProcessQueries runs every query with opts and returns the results in input
// order. If any query fails, the first error is returned after every query
// has finished.
func ProcessQueries(s Searcher, queries []string, opts ...indexer.FindOption) ([][]ranker.Document, error) {
	results := make([][]ranker.Document, len(queries))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			docs, err := s.FindTopDocuments(q, opts...)
			if err != nil {
				return err
			}
			results[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ProcessQueriesJoined is ProcessQueries flattened into one slice, query by
// query.
func ProcessQueriesJoined(s Searcher, queries []string, opts ...indexer.FindOption) ([]ranker.Document, error) {
	results, err := ProcessQueries(s, queries, opts...)
	if err != nil {
		return nil, err
	}
	n := 0
	for _, docs := range results {
		n += len(docs)
	}
	joined := make([]ranker.Document, 0, n)
	for _, docs := range results {
		joined = append(joined, docs...)
	}
	return joined, nil
}
