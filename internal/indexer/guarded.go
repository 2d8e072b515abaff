package indexer

import (
	"sync"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
)

// Guarded serializes writers and lets readers share an Engine. Queries take
// the read lock; adds and removes take the write lock.
type Guarded struct {
	mu     sync.RWMutex
	engine *Engine
}

func NewGuarded(e *Engine) *Guarded {
	return &Guarded{engine: e}
}

func (g *Guarded) AddDocument(id int, text string, status index.DocumentStatus, ratings []int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.AddDocument(id, text, status, ratings)
}

func (g *Guarded) RemoveDocument(id int) {
	g.RemoveDocumentWith(executor.Sequential, id)
}

func (g *Guarded) RemoveDocumentWith(policy executor.Policy, id int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.engine.RemoveDocumentWith(policy, id)
}

func (g *Guarded) FindTopDocuments(query string, opts ...FindOption) ([]ranker.Document, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.FindTopDocuments(query, opts...)
}

func (g *Guarded) ParseQuery(query string) (parser.Query, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.ParseQuery(query)
}

func (g *Guarded) MatchDocument(query string, id int) (MatchResult, error) {
	return g.MatchDocumentWith(executor.Sequential, query, id)
}

func (g *Guarded) MatchDocumentWith(policy executor.Policy, query string, id int) (MatchResult, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.MatchDocumentWith(policy, query, id)
}

func (g *Guarded) GetWordFrequencies(id int) map[string]float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.GetWordFrequencies(id)
}

func (g *Guarded) DocumentCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.DocumentCount()
}

func (g *Guarded) DocumentIDs() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.DocumentIDs()
}

func (g *Guarded) Generation() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.Generation()
}

func (g *Guarded) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.Stats()
}

// View runs fn with the read lock held. fn must not mutate the engine.
func (g *Guarded) View(fn func(e *Engine)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	fn(g.engine)
}

// Update runs fn with the write lock held, so a multi-step mutation such as
// duplicate removal is seen by readers as one step.
func (g *Guarded) Update(fn func(e *Engine)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.engine)
}
