package liststate

import "slices"

// SelectedIDs returns the selected identities in the order they were
// selected. Identities may refer to rows outside the current page, outside
// the filtered dataset, or to rows deleted with HandleDelete.
func (e *Engine[T, F]) SelectedIDs() []string {
	return append([]string(nil), e.selectedIDs...)
}

// SelectedItems returns the dataset rows whose identity is selected, in
// dataset order.
func (e *Engine[T, F]) SelectedItems() []T {
	out := make([]T, 0, len(e.selectedIDs))
	for _, item := range e.dataset {
		if e.isSelectedID(item.RowID()) {
			out = append(out, item)
		}
	}
	return out
}

// IsSelected reports whether a row with the item's identity is selected.
func (e *Engine[T, F]) IsSelected(item T) bool {
	return e.isSelectedID(item.RowID())
}

// ToggleSelection selects the item if its identity is not selected and
// deselects it otherwise.
func (e *Engine[T, F]) ToggleSelection(item T) {
	id := item.RowID()
	if i := slices.Index(e.selectedIDs, id); i >= 0 {
		e.selectedIDs = slices.Delete(e.selectedIDs, i, i+1)
		return
	}
	e.selectedIDs = append(e.selectedIDs, id)
}

// ToggleAllSelection works on the current page only. When every row on the
// page is selected those rows are deselected; otherwise the unselected rows
// on the page are added. Selections on other pages are never touched.
func (e *Engine[T, F]) ToggleAllSelection() {
	page := e.PageSlice()
	if e.allSelected(page) {
		pageIDs := make(map[string]struct{}, len(page))
		for _, item := range page {
			pageIDs[item.RowID()] = struct{}{}
		}
		e.selectedIDs = slices.DeleteFunc(e.selectedIDs, func(id string) bool {
			_, onPage := pageIDs[id]
			return onPage
		})
		return
	}
	for _, item := range page {
		if !e.IsSelected(item) {
			e.selectedIDs = append(e.selectedIDs, item.RowID())
		}
	}
}

// ClearSelection empties the selection.
func (e *Engine[T, F]) ClearSelection() {
	e.selectedIDs = nil
}

// IsAllSelectedOnPage is true when the current page has rows and all of
// them are selected.
func (e *Engine[T, F]) IsAllSelectedOnPage() bool {
	return e.allSelected(e.PageSlice())
}

func (e *Engine[T, F]) allSelected(page []T) bool {
	if len(page) == 0 {
		return false
	}
	for _, item := range page {
		if !e.IsSelected(item) {
			return false
		}
	}
	return true
}

func (e *Engine[T, F]) isSelectedID(id string) bool {
	return slices.Contains(e.selectedIDs, id)
}
