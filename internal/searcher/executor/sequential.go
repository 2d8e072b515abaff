package executor

import (
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
)

func (e *Executor) scoreSequential(q parser.Query, pred index.Predicate) map[int]float64 {
	total := e.index.DocumentCount()
	relevance := make(map[int]float64)

	for _, word := range q.Plus {
		postings, ok := e.index.Postings(word)
		if !ok {
			continue
		}
		idf := ranker.IDF(total, len(postings))
		for id, tf := range postings {
			if e.accepts(pred, id) {
				relevance[id] += tf * idf
			}
		}
	}

	for _, word := range q.Minus {
		postings, ok := e.index.Postings(word)
		if !ok {
			continue
		}
		for id := range postings {
			delete(relevance, id)
		}
	}
	return relevance
}

func (e *Executor) matchSequential(q parser.Query, id int) []string {
	for _, word := range q.Minus {
		if e.index.Contains(word, id) {
			return []string{}
		}
	}
	words := make([]string, 0, len(q.Plus))
	for _, word := range q.Plus {
		if e.index.Contains(word, id) {
			words = append(words, e.canonical(word))
		}
	}
	return words
}
