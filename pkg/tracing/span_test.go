package tracing

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureDebug(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestSpanTreeIsLoggedOnRootEnd(t *testing.T) {
	buf := captureDebug(t)

	ctx, root := StartSpan(context.Background(), "find", "line-3")
	root.SetAttr("results", 2)
	_, child := StartChildSpan(ctx, "engine.FindTopDocuments")
	child.End()
	assert.Empty(t, buf.String())

	root.End()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "trace_id=line-3")
	assert.Contains(t, lines[0], "span=find")
	assert.Contains(t, lines[0], "results=2")
	assert.Contains(t, lines[1], "span=engine.FindTopDocuments")
	assert.Contains(t, lines[1], "depth=1")
}

func TestChildInheritsTraceID(t *testing.T) {
	ctx, root := StartSpan(context.Background(), "root", "line-1")
	ctx, child := StartChildSpan(ctx, "child")

	assert.Equal(t, "line-1", child.TraceID)
	assert.Same(t, child, SpanFromContext(ctx))
	assert.Equal(t, []*Span{child}, root.Children())

	child.SetAttr("k", "v")
	v, ok := child.Attr("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestChildWithoutParent(t *testing.T) {
	_, span := StartChildSpan(context.Background(), "orphan")
	assert.Equal(t, "", span.TraceID)
	assert.Nil(t, SpanFromContext(context.Background()))
}
