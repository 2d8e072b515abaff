package parser

import (
	"testing"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
)

// BenchmarkParse measures query parsing latency for queries of varying
// complexity.
func BenchmarkParse(b *testing.B) {
	sw, err := tokenizer.ParseStopWords("and of the")
	if err != nil {
		b.Fatal(err)
	}
	p := New(sw)
	queries := []struct {
		name  string
		query string
	}{
		{"simple", "distributed systems"},
		{"with_minus", "distributed -monolithic"},
		{"stop_words", "search and analytics of the platform"},
		{"duplicates", "search search ranking -old ranking -old"},
		{"long", "distributed search analytics platform indexing query processing ranking caching sharding"},
	}
	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := p.Parse(q.query); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
