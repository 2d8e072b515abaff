// Package tokenizer splits document and query text into words. Words are
// delimited by the ASCII space; runs of spaces produce no empty words. A word
// is valid when it contains no control characters (code points below 0x20).
package tokenizer

import (
	"sort"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// SplitIntoWords returns the space-delimited words of text in order.
func SplitIntoWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ' '
	})
}

// IsValidWord reports whether word is free of control characters.
func IsValidWord(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < ' ' {
			return false
		}
	}
	return true
}

// StopWords is an immutable set of words excluded from indexing and queries.
type StopWords struct {
	words map[string]struct{}
}

// NewStopWords builds a set from words, skipping empty strings. Every word
// must be valid.
func NewStopWords(words []string) (StopWords, error) {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if !IsValidWord(w) {
			return StopWords{}, apperrors.Newf(apperrors.ErrInvalidStopWord, "stop word %q contains a control character", w)
		}
		set[w] = struct{}{}
	}
	return StopWords{words: set}, nil
}

// ParseStopWords builds a set from a space-separated list.
func ParseStopWords(text string) (StopWords, error) {
	return NewStopWords(SplitIntoWords(text))
}

func (s StopWords) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

func (s StopWords) Len() int {
	return len(s.words)
}

// Words returns the stop words in ascending order.
func (s StopWords) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Tokenize splits document text and drops stop words. It fails with
// ErrInvalidWord on the first word containing a control character, before
// the caller has a chance to index anything.
func (s StopWords) Tokenize(text string) ([]string, error) {
	words := SplitIntoWords(text)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if !IsValidWord(word) {
			return nil, apperrors.Newf(apperrors.ErrInvalidWord, "word %q contains a control character", word)
		}
		if s.Contains(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens, nil
}
