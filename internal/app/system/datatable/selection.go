package datatable

// IsSelected reports whether id is in the selection.
func (t *Table[T]) IsSelected(id string) bool {
	_, ok := t.selectedSet[id]
	return ok
}

// Selected returns the selected ids in the order they were selected.
func (t *Table[T]) Selected() []string {
	out := make([]string, len(t.selected))
	copy(out, t.selected)
	return out
}

// SelectedCount returns the size of the selection.
func (t *Table[T]) SelectedCount() int { return len(t.selected) }

// SelectedRows returns the rows of the data set that are selected, in
// selection order. Selected ids without a row are skipped.
func (t *Table[T]) SelectedRows() []T {
	byID := make(map[string]T, len(t.data))
	for _, row := range t.data {
		byID[row.RowID()] = row
	}
	out := make([]T, 0, len(t.selected))
	for _, id := range t.selected {
		if row, ok := byID[id]; ok {
			out = append(out, row)
		}
	}
	return out
}

// Toggle flips the selection of id. Only ids shown on the current page can
// be added; any selected id can be removed.
func (t *Table[T]) Toggle(id string) {
	if t.IsSelected(id) {
		t.remove(id)
		return
	}
	for _, row := range t.Compute().Rows {
		if row.RowID() == id {
			t.add(id)
			return
		}
	}
}

// AllOnPageSelected reports whether the current page is non-empty and every
// row on it is selected.
func (t *Table[T]) AllOnPageSelected() bool {
	rows := t.Compute().Rows
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		if !t.IsSelected(row.RowID()) {
			return false
		}
	}
	return true
}

// ToggleAllOnPage deselects the current page when every row on it is
// selected, and otherwise selects every row on it. Rows on other pages are
// not touched.
func (t *Table[T]) ToggleAllOnPage() {
	rows := t.Compute().Rows
	if t.AllOnPageSelected() {
		for _, row := range rows {
			t.remove(row.RowID())
		}
		return
	}
	for _, row := range rows {
		t.add(row.RowID())
	}
}

// ClearSelection empties the selection.
func (t *Table[T]) ClearSelection() {
	t.selected = nil
	t.selectedSet = make(map[string]struct{})
}

// PruneSelection drops selected ids that no longer have a row in the data
// set and returns how many were dropped.
func (t *Table[T]) PruneSelection() int {
	present := make(map[string]struct{}, len(t.data))
	for _, row := range t.data {
		present[row.RowID()] = struct{}{}
	}
	kept := t.selected[:0]
	dropped := 0
	for _, id := range t.selected {
		if _, ok := present[id]; ok {
			kept = append(kept, id)
			continue
		}
		delete(t.selectedSet, id)
		dropped++
	}
	t.selected = kept
	return dropped
}

func (t *Table[T]) add(id string) {
	if id == "" || t.IsSelected(id) {
		return
	}
	t.selectedSet[id] = struct{}{}
	t.selected = append(t.selected, id)
}

func (t *Table[T]) remove(id string) {
	if !t.IsSelected(id) {
		return
	}
	delete(t.selectedSet, id)
	for i, s := range t.selected {
		if s == id {
			t.selected = append(t.selected[:i], t.selected[i+1:]...)
			break
		}
	}
}
