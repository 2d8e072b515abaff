package index

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// MaxDocumentID is the largest accepted document id.
const MaxDocumentID = math.MaxInt32

// DocumentStatus is assigned when a document is added and never changes.
// StatusRemoved is only a caller-chosen tag; it does not delete anything.
type DocumentStatus int

const (
	StatusActual DocumentStatus = iota
	StatusIrrelevant
	StatusBanned
	StatusRemoved
)

func (s DocumentStatus) String() string {
	switch s {
	case StatusActual:
		return "ACTUAL"
	case StatusIrrelevant:
		return "IRRELEVANT"
	case StatusBanned:
		return "BANNED"
	case StatusRemoved:
		return "REMOVED"
	default:
		return fmt.Sprintf("DocumentStatus(%d)", int(s))
	}
}

// ParseStatus accepts the names produced by String, case-insensitively.
func ParseStatus(name string) (DocumentStatus, error) {
	switch strings.ToUpper(name) {
	case "ACTUAL":
		return StatusActual, nil
	case "IRRELEVANT":
		return StatusIrrelevant, nil
	case "BANNED":
		return StatusBanned, nil
	case "REMOVED":
		return StatusRemoved, nil
	}
	return 0, apperrors.Newf(apperrors.ErrInvalidInput, "unknown document status %q", name)
}

// DocumentData is what the store keeps per live document.
type DocumentData struct {
	Rating int
	Status DocumentStatus
}

// Predicate decides whether a scored document may appear in results.
type Predicate func(id int, status DocumentStatus, rating int) bool

// StatusIs accepts documents with the given status.
func StatusIs(status DocumentStatus) Predicate {
	return func(_ int, s DocumentStatus, _ int) bool {
		return s == status
	}
}

// AverageRating is the truncated integer mean of ratings, 0 when empty.
func AverageRating(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return sum / len(ratings)
}
