package paginator

import (
	"math"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	pages, err := Paginate([]int{1, 2, 3, 4, 5}, 2)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, []int{1, 2}, pages[0].Items)
	assert.Equal(t, []int{3, 4}, pages[1].Items)
	assert.Equal(t, []int{5}, pages[2].Items)
	assert.Equal(t, 3, pages[2].Number)
}

func TestPaginateAppendDoesNotClobber(t *testing.T) {
	items := []int{1, 2, 3, 4}
	pages, err := Paginate(items, 2)
	require.NoError(t, err)
	_ = append(pages[0].Items, 99)
	assert.Equal(t, []int{1, 2, 3, 4}, items)
}

func TestPaginateEmpty(t *testing.T) {
	pages, err := Paginate([]string{}, 3)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestPaginateInvalidSize(t *testing.T) {
	for _, size := range []int{0, -2} {
		_, err := Paginate([]int{1}, size)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPageSize)
		_, err = PageAt([]int{1}, size, 1)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPageSize)
	}
}

func TestPageAt(t *testing.T) {
	items := []string{"a", "b", "c"}

	p, err := PageAt(items, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, p.Items)

	p, err = PageAt(items, 2, 3)
	require.NoError(t, err)
	assert.Empty(t, p.Items)

	p, err = PageAt(items, 2, 0)
	require.NoError(t, err)
	assert.Empty(t, p.Items)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 2))
	assert.Equal(t, 3, PageCount(5, 2))
	assert.Equal(t, 2, PageCount(4, 2))
	assert.Equal(t, 0, PageCount(4, 0))
}

func TestPageAtHugeNumbers(t *testing.T) {
	items := []int{1, 2, 3}

	p, err := PageAt(items, 2, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, p.Number)
	assert.Empty(t, p.Items)

	p, err = PageAt(items, math.MaxInt, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, p.Items)

	pages, err := Paginate(items, math.MaxInt)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, []int{1, 2, 3}, pages[0].Items)
	assert.Equal(t, 1, PageCount(len(items), math.MaxInt))
}
