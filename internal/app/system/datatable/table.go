package datatable

import (
	"github.com/flicapp/flicapp/internal/app/system/paging"
)

// Table is the view state for one list over a caller-supplied data set.
// It is not safe for concurrent use; hosts build one per request from a
// persisted State.
type Table[T Row] struct {
	cfg  Config[T]
	data []T

	search    string
	filter    string
	sortField string
	order     SortOrder
	page      int

	selected    []string
	selectedSet map[string]struct{}
}

// Result is the derived view for the current state.
type Result[T Row] struct {
	// Rows is the current page.
	Rows []T
	// Filtered is every row matching the search term and filter, sorted.
	Filtered []T

	TotalItems int
	TotalPages int
	Page       int
	Range      paging.Range
}

// Empty reports whether no rows survive filtering.
func (r Result[T]) Empty() bool { return r.TotalItems == 0 }

// New returns a table in its initial state: no search, no sort, page 1 and
// an empty selection.
func New[T Row](cfg Config[T]) *Table[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = paging.PageSize
	}
	return &Table[T]{
		cfg:         cfg,
		order:       Asc,
		page:        1,
		selectedSet: make(map[string]struct{}),
	}
}

// Config returns the table configuration.
func (t *Table[T]) Config() Config[T] { return t.cfg }

// Title returns the configured title.
func (t *Table[T]) Title() string { return t.cfg.Title }

// Data returns the current data set.
func (t *Table[T]) Data() []T { return t.data }

// SetData replaces the data set. The page is clamped to the new page count.
// Selected ids are kept even when their rows are gone; see PruneSelection.
func (t *Table[T]) SetData(rows []T) {
	t.data = rows
	t.clampPage()
}

// Reset returns the view to its initial state. The data set is kept.
func (t *Table[T]) Reset() {
	t.search = ""
	t.filter = ""
	t.sortField = ""
	t.order = Asc
	t.page = 1
	t.ClearSelection()
}

// Search returns the current search term as entered.
func (t *Table[T]) Search() string { return t.search }

// SetSearch updates the search term and returns to page 1.
func (t *Table[T]) SetSearch(term string) {
	t.search = term
	t.page = 1
	if t.cfg.OnSearch != nil {
		t.cfg.OnSearch(term)
	}
}

// FilterValue returns the selected dropdown filter value.
func (t *Table[T]) FilterValue() string { return t.filter }

// SetFilter selects a dropdown filter value and returns to page 1.
// It is a no-op on tables without a filter.
func (t *Table[T]) SetFilter(value string) {
	if t.cfg.Filter == nil {
		return
	}
	t.filter = value
	t.page = 1
	if t.cfg.OnFilter != nil {
		t.cfg.OnFilter(value)
	}
}

// Sort returns the active sort field and order. The field is empty when the
// table is unsorted.
func (t *Table[T]) Sort() (string, SortOrder) { return t.sortField, t.order }

// ToggleSort sorts by field. Selecting the active field flips the order;
// selecting a new field sorts it ascending. Unknown or non-sortable fields
// are ignored.
func (t *Table[T]) ToggleSort(field string) {
	col, ok := t.cfg.Column(field)
	if !ok || !col.Sortable {
		return
	}
	if t.sortField == field {
		if t.order == Asc {
			t.order = Desc
		} else {
			t.order = Asc
		}
	} else {
		t.sortField = field
		t.order = Asc
	}
	if t.cfg.OnSort != nil {
		t.cfg.OnSort(t.sortField, t.order)
	}
}

// SetSort sets the sort field and order directly. An empty field clears the
// sort.
func (t *Table[T]) SetSort(field string, order SortOrder) {
	if field == "" {
		t.sortField = ""
		t.order = Asc
		return
	}
	col, ok := t.cfg.Column(field)
	if !ok || !col.Sortable {
		return
	}
	t.sortField = field
	if order != Desc {
		order = Asc
	}
	t.order = order
}

// Page returns the current 1-based page.
func (t *Table[T]) Page() int { return t.page }

// SetPage moves to page n, clamped to the valid range.
func (t *Table[T]) SetPage(n int) {
	t.page = n
	t.clampPage()
}

// Compute derives the filtered, sorted and paginated view. The returned
// slices are fresh; the data set passed to SetData is never reordered.
func (t *Table[T]) Compute() Result[T] {
	filtered := t.filtered()
	pg := Paginate(filtered, t.page, t.cfg.PageSize)
	t.page = pg.Page
	return Result[T]{
		Rows:       pg.Rows,
		Filtered:   filtered,
		TotalItems: pg.TotalItems,
		TotalPages: pg.TotalPages,
		Page:       pg.Page,
		Range:      paging.ComputeRange(pg.Page, t.cfg.PageSize, pg.TotalItems),
	}
}

func (t *Table[T]) filtered() []T {
	rows := t.data
	if f := t.cfg.Filter; f != nil && t.filter != "" && f.Match != nil {
		kept := make([]T, 0, len(rows))
		for _, row := range rows {
			if f.Match(row, t.filter) {
				kept = append(kept, row)
			}
		}
		rows = kept
	}
	return FilterAndSort(rows, t.search, t.cfg.Columns, t.sortField, t.order)
}

func (t *Table[T]) clampPage() {
	total := len(t.filtered())
	t.page = paging.Clamp(t.page, paging.TotalPages(total, t.cfg.PageSize))
}

// Row returns the row with the given id from the data set.
func (t *Table[T]) Row(id string) (T, bool) {
	for _, row := range t.data {
		if row.RowID() == id {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// Page is one page of a row sequence.
type Page[T Row] struct {
	Rows       []T
	Page       int
	TotalPages int
	TotalItems int
}

// Paginate slices rows to the 1-based page of the given size. The page is
// clamped into range and a non-positive size falls back to the default.
func Paginate[T Row](rows []T, page, size int) Page[T] {
	total := len(rows)
	pages := paging.TotalPages(total, size)
	page = paging.Clamp(page, pages)
	lo, hi := paging.Bounds(page, size, total)
	return Page[T]{
		Rows:       rows[lo:hi:hi],
		Page:       page,
		TotalPages: pages,
		TotalItems: total,
	}
}
