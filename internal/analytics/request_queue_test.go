package analytics

import (
	"sync"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearcher(t *testing.T) *indexer.Guarded {
	t.Helper()
	e, err := indexer.NewFromText("and in at")
	require.NoError(t, err)
	require.NoError(t, e.AddDocument(1, "curly cat curly tail", index.StatusActual, []int{7, 2, 7}))
	require.NoError(t, e.AddDocument(2, "curly dog and fancy collar", index.StatusActual, []int{1, 2, 3}))
	require.NoError(t, e.AddDocument(3, "big cat fancy collar", index.StatusActual, []int{1, 2, 8}))
	require.NoError(t, e.AddDocument(4, "big dog sparrow Eugene", index.StatusActual, []int{1, 3, 2}))
	require.NoError(t, e.AddDocument(5, "big dog sparrow Vasiliy", index.StatusActual, []int{1, 1, 1}))
	return indexer.NewGuarded(e)
}

func TestRequestQueueSlidingWindow(t *testing.T) {
	q := NewRequestQueue(newSearcher(t))
	for i := 0; i < 1439; i++ {
		_, err := q.AddFindRequest("empty request")
		require.NoError(t, err)
	}
	assert.Equal(t, 1439, q.NoResultRequests())

	docs, err := q.AddFindRequest("curly dog")
	require.NoError(t, err)
	assert.NotEmpty(t, docs)
	assert.Equal(t, 1439, q.NoResultRequests())
	assert.Equal(t, 1440, q.Len())

	// the window is full; each new request evicts the oldest empty one
	_, err = q.AddFindRequest("big collar")
	require.NoError(t, err)
	assert.Equal(t, 1438, q.NoResultRequests())

	_, err = q.AddFindRequest("sparrow")
	require.NoError(t, err)
	assert.Equal(t, 1437, q.NoResultRequests())
	assert.Equal(t, 1440, q.Len())
}

func TestRequestQueueEvictsNonEmptyRequests(t *testing.T) {
	q := NewRequestQueue(newSearcher(t), WithCapacity(2))
	_, err := q.AddFindRequest("cat")
	require.NoError(t, err)
	_, err = q.AddFindRequest("nothing")
	require.NoError(t, err)
	_, err = q.AddFindRequest("nothing")
	require.NoError(t, err)

	assert.Equal(t, 2, q.NoResultRequests())

	_, err = q.AddFindRequest("dog")
	require.NoError(t, err)
	assert.Equal(t, 1, q.NoResultRequests())
}

func TestRequestQueueSkipsFailedRequests(t *testing.T) {
	q := NewRequestQueue(newSearcher(t))
	_, err := q.AddFindRequest("cat --dog")
	assert.Error(t, err)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, int64(0), q.Stats().TotalRequests)
}

func TestRequestQueueStats(t *testing.T) {
	m := metrics.New()
	q := NewRequestQueue(newSearcher(t), WithCapacity(3), WithMetrics(m))
	for _, query := range []string{"owl", "owl", "cat", "fox"} {
		_, err := q.AddFindRequest(query)
		require.NoError(t, err)
	}

	stats := q.Stats()
	assert.Equal(t, int64(4), stats.TotalRequests)
	assert.Equal(t, 3, stats.WindowSize)
	assert.Equal(t, 2, stats.NoResultRequests)
	assert.Equal(t, []QueryCount{{Query: "fox", Count: 1}, {Query: "owl", Count: 1}}, stats.ZeroResultQueries)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NoResultRequests))
}

func TestRequestQueueConcurrent(t *testing.T) {
	q := NewRequestQueue(newSearcher(t), WithCapacity(100))
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, err := q.AddFindRequest("nothing here")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, q.Len())
	assert.Equal(t, 100, q.NoResultRequests())
	assert.Equal(t, int64(400), q.Stats().TotalRequests)
}
