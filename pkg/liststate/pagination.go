package liststate

// CurrentPage returns the 1-based page number. It may exceed TotalPages
// after a filter narrows the result; the page slice is then empty.
func (e *Engine[T, F]) CurrentPage() int {
	return e.currentPage
}

// SetCurrentPage moves to page n. Values below 1 select the first page;
// values past the last page are kept.
func (e *Engine[T, F]) SetCurrentPage(n int) {
	if n < 1 {
		n = 1
	}
	e.currentPage = n
}

// PageSize returns the number of rows per page.
func (e *Engine[T, F]) PageSize() int {
	return e.pageSize
}

// SetPageSize changes the page size without moving the current page.
// Non-positive sizes are ignored.
func (e *Engine[T, F]) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	e.pageSize = n
}

// TotalItems returns the size of the filtered dataset.
func (e *Engine[T, F]) TotalItems() int {
	return len(e.Filtered())
}

// TotalPages returns ceil(filtered / pageSize), zero when nothing matches.
func (e *Engine[T, F]) TotalPages() int {
	return pageCount(e.TotalItems(), e.pageSize)
}

// StartIndex returns the offset of the first row of the current page.
func (e *Engine[T, F]) StartIndex() int {
	return (e.currentPage - 1) * e.pageSize
}

// EndIndex returns the exclusive end offset of the current page, bounded by
// the filtered dataset size.
func (e *Engine[T, F]) EndIndex() int {
	return min(e.StartIndex()+e.pageSize, e.TotalItems())
}

func (e *Engine[T, F]) HasNextPage() bool {
	return e.currentPage < e.TotalPages()
}

func (e *Engine[T, F]) HasPreviousPage() bool {
	return e.currentPage > 1
}

// PageSlice returns the rows shown on the current page.
func (e *Engine[T, F]) PageSlice() []T {
	return window(e.Filtered(), e.StartIndex(), e.pageSize)
}

func pageCount(total, size int) int {
	if total == 0 {
		return 0
	}
	return (total + size - 1) / size
}

func window[T any](items []T, start, size int) []T {
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	return append([]T(nil), items[start:end]...)
}
