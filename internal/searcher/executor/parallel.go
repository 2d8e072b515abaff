package executor

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/shard"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
)

// scoreParallel runs in two joined phases: plus words add into a sharded
// accumulator, then minus words erase from it. The accumulator is only read
// back after both phases finish.
func (e *Executor) scoreParallel(q parser.Query, pred index.Predicate) map[int]float64 {
	total := e.index.DocumentCount()
	acc := shard.NewConcurrentMap[float64](e.shardCount)

	shard.ForEach(q.Plus, e.workers, func(word string) {
		postings, ok := e.index.Postings(word)
		if !ok {
			return
		}
		idf := ranker.IDF(total, len(postings))
		for id, tf := range postings {
			if e.accepts(pred, id) {
				acc.Add(id, tf*idf)
			}
		}
	})

	shard.ForEach(q.Minus, e.workers, func(word string) {
		postings, ok := e.index.Postings(word)
		if !ok {
			return
		}
		for id := range postings {
			acc.Erase(id)
		}
	})

	return acc.BuildOrdinaryMap()
}

// matchParallel accepts a raw query with duplicates; the result is sorted and
// deduplicated before it is returned.
func (e *Executor) matchParallel(q parser.Query, id int) []string {
	excluded := shard.Any(q.Minus, e.workers, func(word string) bool {
		return e.index.Contains(word, id)
	})
	if excluded {
		return []string{}
	}

	found := shard.Filter(q.Plus, e.workers, func(word string) bool {
		return e.index.Contains(word, id)
	})
	sort.Strings(found)

	words := make([]string, 0, len(found))
	for _, word := range found {
		if len(words) > 0 && words[len(words)-1] == word {
			continue
		}
		words = append(words, e.canonical(word))
	}
	return words
}
