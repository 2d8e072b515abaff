package parser

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Query holds the words a document must contain (Plus) and the words that
// exclude it (Minus).
type Query struct {
	Plus     []string
	Minus    []string
	RawQuery string
}

type Parser struct {
	stopWords tokenizer.StopWords
}

func New(stopWords tokenizer.StopWords) *Parser {
	return &Parser{stopWords: stopWords}
}

// Parse returns a query whose plus and minus words are sorted and unique.
func (p *Parser) Parse(text string) (Query, error) {
	q, err := p.ParseRaw(text)
	if err != nil {
		return Query{}, err
	}
	q.Plus = sortUnique(q.Plus)
	q.Minus = sortUnique(q.Minus)
	return q, nil
}

// ParseRaw keeps duplicates and the original word order.
func (p *Parser) ParseRaw(text string) (Query, error) {
	q := Query{
		Plus:     make([]string, 0),
		Minus:    make([]string, 0),
		RawQuery: text,
	}
	for _, raw := range tokenizer.SplitIntoWords(text) {
		word, minus, err := parseWord(raw)
		if err != nil {
			return Query{}, err
		}
		if p.stopWords.Contains(word) {
			continue
		}
		if minus {
			q.Minus = append(q.Minus, word)
		} else {
			q.Plus = append(q.Plus, word)
		}
	}
	return q, nil
}

func parseWord(raw string) (word string, minus bool, err error) {
	word = raw
	if word[0] == '-' {
		minus = true
		word = word[1:]
	}
	if word == "" {
		return "", false, apperrors.Newf(apperrors.ErrInvalidQuery, "query word %q has no text after '-'", raw)
	}
	if word[0] == '-' {
		return "", false, apperrors.Newf(apperrors.ErrInvalidQuery, "query word %q starts with a double minus", raw)
	}
	if !tokenizer.IsValidWord(word) {
		return "", false, apperrors.Newf(apperrors.ErrInvalidQuery, "query word %q contains a control character", raw)
	}
	return word, minus, nil
}

func sortUnique(words []string) []string {
	if len(words) <= 1 {
		return words
	}
	sort.Strings(words)
	out := words[:1]
	for _, w := range words[1:] {
		if w != out[len(out)-1] {
			out = append(out, w)
		}
	}
	return out
}
