package executor

import (
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
)

var benchTerms = []string{"distributed", "search", "analytics", "platform", "indexing", "query", "engine", "ranking"}

func benchExecutor(b *testing.B, numDocs int) (*Executor, *parser.Parser) {
	b.Helper()
	idx := index.NewMemoryIndex()
	for id := 0; id < numDocs; id++ {
		tokens := []string{
			benchTerms[id%len(benchTerms)],
			benchTerms[(id+2)%len(benchTerms)],
			benchTerms[(id+3)%len(benchTerms)],
			fmt.Sprintf("doc%d", id),
		}
		if err := idx.AddDocument(id, tokens, index.DocumentData{Rating: id % 7}); err != nil {
			b.Fatal(err)
		}
	}
	return New(idx), parser.New(tokenizer.StopWords{})
}

// BenchmarkFindAll compares the two policies across corpus sizes and query
// widths.
func BenchmarkFindAll(b *testing.B) {
	queries := map[string]string{
		"single":   "search",
		"multi":    "distributed search ranking engine",
		"minus":    "search query -ranking -engine",
		"wide_raw": "distributed search analytics platform indexing query engine ranking",
	}
	for _, numDocs := range []int{1000, 10000} {
		exec, p := benchExecutor(b, numDocs)
		for name, text := range queries {
			q, err := p.Parse(text)
			if err != nil {
				b.Fatal(err)
			}
			for _, policy := range []Policy{Sequential, Parallel} {
				b.Run(fmt.Sprintf("docs_%d/%s/%s", numDocs, name, policy), func(b *testing.B) {
					b.ReportAllocs()
					for i := 0; i < b.N; i++ {
						docs := ranker.Rank(exec.FindAll(policy, q, all), ranker.DefaultMaxResults)
						_ = docs
					}
				})
			}
		}
	}
}

func BenchmarkMatch(b *testing.B) {
	exec, p := benchExecutor(b, 1000)
	q, err := p.ParseRaw("distributed search analytics platform indexing query engine ranking -doc3")
	if err != nil {
		b.Fatal(err)
	}
	for _, policy := range []Policy{Sequential, Parallel} {
		b.Run(policy.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = exec.Match(policy, q, i%1000)
			}
		})
	}
}
