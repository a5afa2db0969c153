package datatable

// State is the serializable view state of a Table. Hosts persist it between
// requests; it carries no row data.
type State struct {
	Search    string    `json:"search,omitempty" bson:"search,omitempty"`
	Filter    string    `json:"filter,omitempty" bson:"filter,omitempty"`
	SortField string    `json:"sort_field,omitempty" bson:"sort_field,omitempty"`
	SortOrder SortOrder `json:"sort_order,omitempty" bson:"sort_order,omitempty"`
	Page      int       `json:"page,omitempty" bson:"page,omitempty"`
	Selected  []string  `json:"selected,omitempty" bson:"selected,omitempty"`
}

// State snapshots the current view state.
func (t *Table[T]) State() State {
	return State{
		Search:    t.search,
		Filter:    t.filter,
		SortField: t.sortField,
		SortOrder: t.order,
		Page:      t.page,
		Selected:  t.Selected(),
	}
}

// Restore replaces the view state with st without firing callbacks. Sort
// fields that are not sortable columns are dropped and the page is clamped
// against the current data set.
func (t *Table[T]) Restore(st State) {
	t.search = st.Search
	t.filter = ""
	if t.cfg.Filter != nil {
		t.filter = st.Filter
	}
	t.sortField = ""
	t.order = Asc
	t.SetSort(st.SortField, st.SortOrder)

	t.ClearSelection()
	for _, id := range st.Selected {
		t.add(id)
	}

	t.page = st.Page
	t.clampPage()
}
