// Package tracing times CLI commands and the engine calls they make. Spans
// form a tree carried in a context and are written to slog at debug level
// when the root span ends.
package tracing

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

type contextKey struct{}

type Span struct {
	Name     string
	TraceID  string
	Start    time.Time
	Duration time.Duration

	mu       sync.Mutex
	parent   *Span
	children []*Span
	attrs    map[string]any
	logger   *slog.Logger
}

// StartSpan begins a root span. Its tree is logged when End is called on it.
func StartSpan(ctx context.Context, name string, traceID string) (context.Context, *Span) {
	span := &Span{
		Name:    name,
		TraceID: traceID,
		Start:   time.Now(),
		attrs:   make(map[string]any),
		logger:  slog.Default().With("component", "tracing"),
	}
	return context.WithValue(ctx, contextKey{}, span), span
}

// StartChildSpan begins a span under the one in ctx. Without a parent it
// behaves like StartSpan with an empty trace id.
func StartChildSpan(ctx context.Context, name string) (context.Context, *Span) {
	parent := SpanFromContext(ctx)
	if parent == nil {
		return StartSpan(ctx, name, "")
	}
	child := &Span{
		Name:    name,
		TraceID: parent.TraceID,
		Start:   time.Now(),
		parent:  parent,
		attrs:   make(map[string]any),
		logger:  parent.logger,
	}
	parent.mu.Lock()
	parent.children = append(parent.children, child)
	parent.mu.Unlock()
	return context.WithValue(ctx, contextKey{}, child), child
}

func SpanFromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(contextKey{}).(*Span)
	return span
}

func (s *Span) SetAttr(key string, value any) {
	s.mu.Lock()
	s.attrs[key] = value
	s.mu.Unlock()
}

// Attr returns a recorded attribute.
func (s *Span) Attr(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attrs[key]
	return v, ok
}

func (s *Span) Children() []*Span {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Span(nil), s.children...)
}

// End fixes the span's duration. Ending a root span logs the whole tree.
func (s *Span) End() {
	s.Duration = time.Since(s.Start)
	if s.parent == nil {
		s.log(0)
	}
}

func (s *Span) log(depth int) {
	if !s.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	s.mu.Lock()
	keys := make([]string, 0, len(s.attrs))
	for k := range s.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := []any{
		"trace_id", s.TraceID,
		"span", s.Name,
		"duration_us", s.Duration.Microseconds(),
		"depth", depth,
	}
	for _, k := range keys {
		args = append(args, k, s.attrs[k])
	}
	children := append([]*Span(nil), s.children...)
	s.mu.Unlock()

	s.logger.Debug("span", args...)
	for _, child := range children {
		child.log(depth + 1)
	}
}
