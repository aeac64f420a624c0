// Package liststate keeps the state behind an administration list screen:
// the loaded dataset, the active search and field filters, the pagination
// window and a selection that spans pages.
//
// An Engine is owned by exactly one screen and is not safe for concurrent
// use. It performs no I/O; callers persist changes before or after invoking
// the mutation methods.
package liststate

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultPageSize  = 10
	DefaultDelimiter = ','
)

var (
	ErrBulkDeleteDisabled = errors.New("bulk delete is not enabled for this list")
	ErrExportDisabled     = errors.New("export is not enabled for this list")
)

// Row is the constraint every list item satisfies. F is the closed set of
// fields a screen exposes for search, filtering and export.
type Row[T any, F ~string] interface {
	// RowID returns the identity of the row. Rows are compared by this value only.
	RowID() string
	// Field returns the stringified value of a field.
	Field(f F) string
	// WithRowID returns a copy of the row carrying the given identity.
	WithRowID(id string) T
}

// Config is fixed for the lifetime of an Engine.
type Config[F ~string] struct {
	// SearchKeys are the fields matched by the free-text search.
	SearchKeys []F
	// Columns is the export column order. The identity is never exported.
	Columns []F
	// PageSize defaults to DefaultPageSize when not positive.
	PageSize int

	EnableBulkDelete bool
	EnableExport     bool

	// NewID generates identities for HandleCreate. Defaults to UUID v4.
	NewID func() string
	// Delimiter separates exported values. Defaults to DefaultDelimiter.
	Delimiter rune
}

// Engine is the list state of one screen.
type Engine[T Row[T, F], F ~string] struct {
	cfg Config[F]

	dataset      []T
	searchTerm   string
	fieldFilters map[F]string
	currentPage  int
	pageSize     int
	selectedIDs  []string

	lower cases.Caser
}

// New builds an engine over the initial dataset.
func New[T Row[T, F], F ~string](data []T, cfg Config[F]) *Engine[T, F] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = DefaultDelimiter
	}
	cfg.SearchKeys = append([]F(nil), cfg.SearchKeys...)
	cfg.Columns = append([]F(nil), cfg.Columns...)

	return &Engine[T, F]{
		cfg:          cfg,
		dataset:      append([]T(nil), data...),
		fieldFilters: make(map[F]string),
		currentPage:  1,
		pageSize:     cfg.PageSize,
		lower:        cases.Lower(language.Und),
	}
}

// Config returns the configuration the engine was built with.
func (e *Engine[T, F]) Config() Config[F] {
	return e.cfg
}

// Data returns a copy of the full dataset in insertion order.
func (e *Engine[T, F]) Data() []T {
	return append([]T(nil), e.dataset...)
}

// Find looks a row up by identity in the full dataset.
func (e *Engine[T, F]) Find(id string) (T, bool) {
	if i := e.indexOf(id); i >= 0 {
		return e.dataset[i], true
	}
	var zero T
	return zero, false
}

// SetData replaces the whole dataset, returns to the first page and drops
// the selection.
func (e *Engine[T, F]) SetData(data []T) {
	e.dataset = append([]T(nil), data...)
	e.currentPage = 1
	e.ClearSelection()
}

// UpdateData replaces the dataset with the result of fn applied to a copy
// of the current one. It resets page and selection like SetData.
func (e *Engine[T, F]) UpdateData(fn func(prev []T) []T) {
	e.SetData(fn(e.Data()))
}

func (e *Engine[T, F]) indexOf(id string) int {
	for i, item := range e.dataset {
		if item.RowID() == id {
			return i
		}
	}
	return -1
}
