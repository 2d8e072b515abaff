// Package intern keeps one canonical copy of every distinct token the engine
// has indexed.
//
// A Pool behaves like an arena: tokens are added but never released, so a
// string returned by Intern stays valid, and equal to every later result for
// the same text, for as long as the pool is reachable. Canonical copies are
// cloned from the input so they never pin the (usually much larger) document
// text they were sliced from.
//
// A Pool is not safe for concurrent use; the engine's single-writer rule
// covers it.
package intern

import "strings"

type Pool struct {
	tokens map[string]string
	bytes  int
}

func New() *Pool {
	return &Pool{tokens: make(map[string]string)}
}

// Intern returns the canonical copy of token, creating it on first sight.
func (p *Pool) Intern(token string) string {
	if canonical, ok := p.tokens[token]; ok {
		return canonical
	}
	canonical := strings.Clone(token)
	p.tokens[canonical] = canonical
	p.bytes += len(canonical)
	return canonical
}

// Lookup returns the canonical copy of token without creating one.
func (p *Pool) Lookup(token string) (string, bool) {
	canonical, ok := p.tokens[token]
	return canonical, ok
}

// Len is the number of distinct tokens ever interned.
func (p *Pool) Len() int {
	return len(p.tokens)
}

// Bytes is the total size of the canonical token data held by the pool.
func (p *Pool) Bytes() int {
	return p.bytes
}
