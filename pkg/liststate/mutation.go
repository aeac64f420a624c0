package liststate

// HandleCreate assigns a fresh identity to partial and puts it first in the
// dataset. Identities come from Config.NewID; uniqueness against existing
// rows is not checked.
func (e *Engine[T, F]) HandleCreate(partial T) T {
	item := partial.WithRowID(e.cfg.NewID())
	e.dataset = append([]T{item}, e.dataset...)
	return item
}

// HandleEdit replaces the row with the item's identity. It reports false
// and changes nothing when no such row exists.
func (e *Engine[T, F]) HandleEdit(item T) bool {
	i := e.indexOf(item.RowID())
	if i < 0 {
		return false
	}
	e.dataset[i] = item
	return true
}

// HandleDelete removes the row with the given identity. The selection is
// left untouched, so a deleted identity stays selected until the selection
// is cleared or the dataset is replaced.
func (e *Engine[T, F]) HandleDelete(id string) bool {
	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	e.dataset = append(e.dataset[:i:i], e.dataset[i+1:]...)
	return true
}

// HandleBulkDelete removes every selected row and clears the selection.
// It returns the removed rows.
func (e *Engine[T, F]) HandleBulkDelete() ([]T, error) {
	if !e.cfg.EnableBulkDelete {
		return nil, ErrBulkDeleteDisabled
	}
	kept := make([]T, 0, len(e.dataset))
	var removed []T
	for _, item := range e.dataset {
		if e.isSelectedID(item.RowID()) {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	e.dataset = kept
	e.ClearSelection()
	return removed, nil
}
