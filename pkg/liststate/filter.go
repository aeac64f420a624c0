package liststate

import "strings"

// SearchTerm returns the current free-text search term.
func (e *Engine[T, F]) SearchTerm() string {
	return e.searchTerm
}

// SetSearchTerm replaces the free-text search term. The current page is
// left as is; only SetFilter and ClearFilters return to the first page.
func (e *Engine[T, F]) SetSearchTerm(term string) {
	e.searchTerm = term
}

// SetFilter constrains field to values equal to value and returns to the
// first page. An empty value is kept but places no constraint.
func (e *Engine[T, F]) SetFilter(field F, value string) {
	e.fieldFilters[field] = value
	e.currentPage = 1
}

// Filters returns a copy of the stored field filters, including empty ones.
func (e *Engine[T, F]) Filters() map[F]string {
	out := make(map[F]string, len(e.fieldFilters))
	for k, v := range e.fieldFilters {
		out[k] = v
	}
	return out
}

// ClearFilters drops every field filter and the search term and returns to
// the first page.
func (e *Engine[T, F]) ClearFilters() {
	e.fieldFilters = make(map[F]string)
	e.searchTerm = ""
	e.currentPage = 1
}

// Filtered returns the rows passing the search term and every active field
// filter, in dataset order.
func (e *Engine[T, F]) Filtered() []T {
	term := e.lower.String(e.searchTerm)
	out := make([]T, 0, len(e.dataset))
	for _, item := range e.dataset {
		if e.matchesSearch(item, term) && e.matchesFilters(item) {
			out = append(out, item)
		}
	}
	return out
}

func (e *Engine[T, F]) matchesSearch(item T, term string) bool {
	if term == "" {
		return true
	}
	for _, key := range e.cfg.SearchKeys {
		if strings.Contains(e.lower.String(item.Field(key)), term) {
			return true
		}
	}
	return false
}

func (e *Engine[T, F]) matchesFilters(item T) bool {
	for field, value := range e.fieldFilters {
		if value == "" {
			continue
		}
		if item.Field(field) != value {
			return false
		}
	}
	return true
}
