package index

import (
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/intern"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/shard"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/RoaringBitmap/roaring/v2"
)

// MemoryIndex holds the inverted index (token -> id -> tf), the forward index
// (id -> token -> tf) used for removal, the document store and the set of
// live ids.
//
// MemoryIndex has no internal locking. One writer at a time; readers only
// while no writer is active.
type MemoryIndex struct {
	tokens   *intern.Pool
	inverted map[string]map[int]float64
	forward  map[int]map[string]float64
	docs     map[int]DocumentData
	live     *roaring.Bitmap
	retired  *roaring.Bitmap
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		tokens:   intern.New(),
		inverted: make(map[string]map[int]float64),
		forward:  make(map[int]map[string]float64),
		docs:     make(map[int]DocumentData),
		live:     roaring.New(),
		retired:  roaring.New(),
	}
}

// CheckID reports why id cannot be used for a new document, if it cannot.
// Ids of removed documents stay retired for the lifetime of the index.
func (m *MemoryIndex) CheckID(id int) error {
	if id < 0 || id > MaxDocumentID {
		return apperrors.Newf(apperrors.ErrInvalidDocumentID, "document id %d is out of range", id)
	}
	if m.live.Contains(uint32(id)) {
		return apperrors.Newf(apperrors.ErrInvalidDocumentID, "document %d already exists", id)
	}
	if m.retired.Contains(uint32(id)) {
		return apperrors.Newf(apperrors.ErrInvalidDocumentID, "document id %d was removed and cannot be reused", id)
	}
	return nil
}

// AddDocument indexes already tokenized text. Every occurrence adds 1/len(tokens)
// to the token's frequency in both directions. Nothing is mutated when the id
// is rejected.
func (m *MemoryIndex) AddDocument(id int, tokens []string, data DocumentData) error {
	if err := m.CheckID(id); err != nil {
		return err
	}
	freqs := make(map[string]float64)
	if len(tokens) > 0 {
		inc := 1.0 / float64(len(tokens))
		for _, tok := range tokens {
			canonical := m.tokens.Intern(tok)
			postings, ok := m.inverted[canonical]
			if !ok {
				postings = make(map[int]float64)
				m.inverted[canonical] = postings
			}
			postings[id] += inc
			freqs[canonical] += inc
		}
	}
	m.forward[id] = freqs
	m.docs[id] = data
	m.live.Add(uint32(id))
	return nil
}

// RemoveDocument erases id sequentially. It reports false when id is not live.
func (m *MemoryIndex) RemoveDocument(id int) bool {
	freqs, ok := m.forward[id]
	if !ok {
		return false
	}
	for tok := range freqs {
		postings := m.inverted[tok]
		delete(postings, id)
		if len(postings) == 0 {
			delete(m.inverted, tok)
		}
	}
	m.forget(id)
	return true
}

// RemoveDocumentParallel erases id from every posting map on up to workers
// goroutines, one task per token. Each task touches a distinct posting map;
// the outer maps are only changed after the join.
func (m *MemoryIndex) RemoveDocumentParallel(id int, workers int) bool {
	freqs, ok := m.forward[id]
	if !ok {
		return false
	}
	postings := make([]map[int]float64, 0, len(freqs))
	tokens := make([]string, 0, len(freqs))
	for tok := range freqs {
		postings = append(postings, m.inverted[tok])
		tokens = append(tokens, tok)
	}
	shard.ForEach(postings, workers, func(p map[int]float64) {
		delete(p, id)
	})
	for i, p := range postings {
		if len(p) == 0 {
			delete(m.inverted, tokens[i])
		}
	}
	m.forget(id)
	return true
}

func (m *MemoryIndex) forget(id int) {
	m.live.Remove(uint32(id))
	m.retired.Add(uint32(id))
	delete(m.docs, id)
	delete(m.forward, id)
}

// Postings returns the id -> tf map of token. The map is owned by the index
// and must not be modified.
func (m *MemoryIndex) Postings(token string) (map[int]float64, bool) {
	p, ok := m.inverted[token]
	return p, ok
}

// Canonical returns the interned copy of token, if it was ever indexed.
func (m *MemoryIndex) Canonical(token string) (string, bool) {
	return m.tokens.Lookup(token)
}

// Contains reports whether token occurs in document id.
func (m *MemoryIndex) Contains(token string, id int) bool {
	_, ok := m.inverted[token][id]
	return ok
}

func (m *MemoryIndex) Document(id int) (DocumentData, bool) {
	d, ok := m.docs[id]
	return d, ok
}

func (m *MemoryIndex) HasDocument(id int) bool {
	return id >= 0 && id <= MaxDocumentID && m.live.Contains(uint32(id))
}

// WordFrequencies returns a copy of the document's token frequencies, empty
// when id is not live.
func (m *MemoryIndex) WordFrequencies(id int) map[string]float64 {
	freqs := m.forward[id]
	out := make(map[string]float64, len(freqs))
	for tok, f := range freqs {
		out[tok] = f
	}
	return out
}

func (m *MemoryIndex) DocumentCount() int {
	return len(m.docs)
}

// IDs returns the live ids in ascending order.
func (m *MemoryIndex) IDs() []int {
	raw := m.live.ToArray()
	ids := make([]int, len(raw))
	for i, id := range raw {
		ids[i] = int(id)
	}
	return ids
}

// Each calls fn for every live id in ascending order until fn returns false.
// fn must not add or remove documents.
func (m *MemoryIndex) Each(fn func(id int) bool) {
	it := m.live.Iterator()
	for it.HasNext() {
		if !fn(int(it.Next())) {
			return
		}
	}
}

// TermCount is the number of tokens that currently have postings.
func (m *MemoryIndex) TermCount() int {
	return len(m.inverted)
}

// InternedCount is the number of distinct tokens ever indexed.
func (m *MemoryIndex) InternedCount() int {
	return m.tokens.Len()
}

// InternedBytes is the total length of the interned tokens.
func (m *MemoryIndex) InternedBytes() int {
	return m.tokens.Bytes()
}
