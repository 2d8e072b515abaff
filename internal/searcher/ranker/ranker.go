package ranker

import (
	"fmt"
	"math"
	"sort"
)

const (
	// DefaultMaxResults is how many documents a query returns by default.
	DefaultMaxResults = 5
	// RelevanceEpsilon is the difference below which two relevances tie and
	// rating decides the order.
	RelevanceEpsilon = 1e-6
)

type Document struct {
	ID        int     `json:"id"`
	Relevance float64 `json:"relevance"`
	Rating    int     `json:"rating"`
}

func (d Document) String() string {
	return fmt.Sprintf("{ document_id = %d, relevance = %g, rating = %d }", d.ID, d.Relevance, d.Rating)
}

// IDF is ln(totalDocs / docFreq).
func IDF(totalDocs int, docFreq int) float64 {
	return math.Log(float64(totalDocs) / float64(docFreq))
}

// Less orders by relevance descending, falling back to rating descending when
// the relevances are within RelevanceEpsilon of each other.
func Less(a, b Document) bool {
	if math.Abs(a.Relevance-b.Relevance) < RelevanceEpsilon {
		return a.Rating > b.Rating
	}
	return a.Relevance > b.Relevance
}

// Rank sorts docs in place and truncates to limit (no limit when <= 0).
// Documents that tie on both keys keep their input order.
func Rank(docs []Document, limit int) []Document {
	sort.SliceStable(docs, func(i, j int) bool {
		return Less(docs[i], docs[j])
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs
}

// Collect turns an id -> relevance map into documents in ascending id order.
func Collect(relevance map[int]float64, rating func(id int) int) []Document {
	ids := make([]int, 0, len(relevance))
	for id := range relevance {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{
			ID:        id,
			Relevance: relevance[id],
			Rating:    rating(id),
		})
	}
	return docs
}
