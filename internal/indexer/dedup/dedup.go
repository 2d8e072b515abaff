// Package dedup removes documents whose set of words repeats that of a
// document with a lower id.
package dedup

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
)

// Source is the part of the engine duplicate removal needs.
type Source interface {
	DocumentIDs() []int
	GetWordFrequencies(id int) map[string]float64
	RemoveDocument(id int)
}

// FindDuplicates returns, in ascending order, the ids whose word set equals
// the word set of some lower id. Frequencies are ignored.
func FindDuplicates(src Source) []int {
	seen := make(map[string]struct{})
	var dups []int
	for _, id := range src.DocumentIDs() {
		key := wordSetKey(src.GetWordFrequencies(id))
		if _, ok := seen[key]; ok {
			dups = append(dups, id)
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// RemoveDuplicates removes every duplicate found by FindDuplicates and returns
// the removed ids.
func RemoveDuplicates(src Source) []int {
	logger := slog.Default().With("component", "dedup")
	dups := FindDuplicates(src)
	for _, id := range dups {
		logger.Info("found duplicate document", "doc_id", id)
		src.RemoveDocument(id)
	}
	return dups
}

// RemoveDuplicatesGuarded runs RemoveDuplicates under the write lock of g so
// no reader observes a partly deduplicated index.
func RemoveDuplicatesGuarded(g *indexer.Guarded) []int {
	var removed []int
	g.Update(func(e *indexer.Engine) {
		removed = RemoveDuplicates(e)
	})
	return removed
}

// wordSetKey joins the sorted words with a byte that valid words never hold.
func wordSetKey(freqs map[string]float64) string {
	words := make([]string, 0, len(freqs))
	for w := range freqs {
		words = append(words, w)
	}
	sort.Strings(words)
	return strings.Join(words, "\x00")
}
