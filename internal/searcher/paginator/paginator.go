package paginator

import (
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Page is a view into the paginated slice; it shares its backing array.
type Page[T any] struct {
	Number int
	Items  []T
}

// Paginate splits items into consecutive pages of size items. The last page
// may be shorter. An empty input yields no pages.
func Paginate[T any](items []T, size int) ([]Page[T], error) {
	if size <= 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidPageSize, "page size must be positive, got %d", size)
	}
	pages := make([]Page[T], 0, PageCount(len(items), size))
	for start := 0; start < len(items); start += size {
		end := start + min(size, len(items)-start)
		pages = append(pages, Page[T]{
			Number: len(pages) + 1,
			Items:  items[start:end:end],
		})
	}
	return pages, nil
}

// PageAt returns the 1-based page number of items. Out-of-range numbers yield
// an empty page.
func PageAt[T any](items []T, size int, number int) (Page[T], error) {
	if size <= 0 {
		return Page[T]{}, apperrors.Newf(apperrors.ErrInvalidPageSize, "page size must be positive, got %d", size)
	}
	if number < 1 || number > PageCount(len(items), size) {
		return Page[T]{Number: number, Items: []T{}}, nil
	}
	start := (number - 1) * size
	end := start + min(size, len(items)-start)
	return Page[T]{Number: number, Items: items[start:end:end]}, nil
}

// PageCount is the number of pages Paginate would produce.
func PageCount(total int, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total-1)/size + 1
}
