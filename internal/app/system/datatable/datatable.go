// Package datatable is the engine behind the admin list screens: a pure,
// in-memory view over caller-supplied rows with search, sort, pagination,
// row selection, bulk actions, a detail view, and CSV/JSON export.
//
// The engine never performs I/O of its own. Rows are supplied by the caller
// (usually freshly loaded from a store), cells are rendered by column
// callbacks, and actions run caller-supplied handlers. A Table holds the
// ephemeral view state for one list; State snapshots it so a host can keep it
// between requests.
package datatable

import (
	"context"
	"html/template"
	"strings"
)

// Row is the capability every row type must provide: a stable identifier.
type Row interface {
	RowID() string
}

// SortOrder is the direction of a column sort.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSortOrder maps user input to a SortOrder, defaulting to Asc.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// SortKind selects the comparator used for a column.
type SortKind int

const (
	// SortAuto compares as dates when the column key contains "date" or
	// "data", and as lower-cased text otherwise.
	SortAuto SortKind = iota
	SortText
	SortDate
	SortNumber
)

// Column describes one displayed field.
type Column[T Row] struct {
	Key      string
	Label    string
	Width    string
	Sortable bool
	SortAs   SortKind

	// Value returns the raw field value. Search, sort and CSV export all
	// operate on it.
	Value func(T) any

	// Render optionally overrides the default cell rendering.
	Render func(T) template.HTML
}

// Raw returns the column's raw value for row, or nil when no accessor is set.
func (c Column[T]) Raw(row T) any {
	if c.Value == nil {
		return nil
	}
	return c.Value(row)
}

// Cell renders the column for row. Missing values render as Placeholder.
func (c Column[T]) Cell(row T) template.HTML {
	if c.Render != nil {
		return c.Render(row)
	}
	return template.HTML(template.HTMLEscapeString(Display(c.Raw(row))))
}

func (c Column[T]) sortKind() SortKind {
	if c.SortAs != SortAuto {
		return c.SortAs
	}
	k := strings.ToLower(c.Key)
	if strings.Contains(k, "date") || strings.Contains(k, "data") {
		return SortDate
	}
	return SortText
}

// Variant is the visual style of an action button.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
	VariantSuccess     Variant = "success"
)

// Action is a row-scoped operation. The same configuration drives the
// per-row buttons and the bulk-action bar.
type Action[T Row] struct {
	ID      string
	Label   string
	Icon    string
	Variant Variant

	// Batchable marks actions that make sense across several rows at once.
	// Only batchable actions are offered when more than one row is selected.
	Batchable bool

	Disabled func(T) bool
	Show     func(T) bool
	Handle   func(ctx context.Context, row T) error
}

// Visible reports whether the action is shown for row.
func (a Action[T]) Visible(row T) bool {
	return a.Show == nil || a.Show(row)
}

// IsDisabled reports whether the action is disabled for row.
func (a Action[T]) IsDisabled(row T) bool {
	return a.Disabled != nil && a.Disabled(row)
}

func (a Action[T]) qualifies(row T) bool {
	return a.Visible(row) && !a.IsDisabled(row)
}

// FilterOption is one choice of a filter dropdown.
type FilterOption struct {
	Value string
	Label string
}

// Filter is an optional dropdown filter applied before the search term.
// An empty selected value keeps every row.
type Filter[T Row] struct {
	Key     string
	Label   string
	Options []FilterOption
	Match   func(row T, value string) bool
}

// Config is the declarative description of a table. It is fixed for the
// lifetime of a Table.
type Config[T Row] struct {
	Title    string
	Columns  []Column[T]
	Actions  []Action[T]
	Filter   *Filter[T]
	PageSize int

	// RowLink, when set, makes a row click navigate to the returned URL and
	// takes precedence over the built-in detail view.
	RowLink func(T) string

	// Detail renders the body of the detail view. When nil, the detail view
	// lists every column label with its cell.
	Detail func(T) template.HTML

	// OnSearch, OnFilter and OnSort are notified after the corresponding
	// view-state change.
	OnSearch func(term string)
	OnFilter func(value string)
	OnSort   func(field string, order SortOrder)
}

// Column looks up a column by key.
func (c Config[T]) Column(key string) (Column[T], bool) {
	for _, col := range c.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column[T]{}, false
}

// Action looks up an action by id.
func (c Config[T]) Action(id string) (Action[T], bool) {
	for _, a := range c.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action[T]{}, false
}
