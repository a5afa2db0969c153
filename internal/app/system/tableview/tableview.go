// Package tableview adapts a datatable.Table to the shared "datatable"
// template and writes the table's JSON and export responses.
package tableview

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"github.com/flicapp/flicapp/internal/app/system/paging"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"github.com/flicapp/flicapp/internal/app/system/viewdata"
	"github.com/gorilla/csrf"
)

// ColumnVM is one header cell.
type ColumnVM struct {
	Key      string
	Label    string
	Width    string
	Sortable bool
	Active   bool
	Desc     bool
	SortURL  string
}

// ActionVM is an action button with the URL it posts to.
type ActionVM struct {
	datatable.ActionView
	URL string
}

// RowVM is one rendered row.
type RowVM struct {
	ID        string
	Cells     []template.HTML
	Selected  bool
	ToggleURL string
	// DetailURL opens the row: the configured row link, or the built-in
	// detail view.
	DetailURL string
	Actions   []ActionVM
}

// OptionVM is one choice of the filter dropdown.
type OptionVM struct {
	Value    string
	Label    string
	Selected bool
}

// FilterVM is the dropdown filter, when the table has one.
type FilterVM struct {
	Key     string
	Label   string
	Value   string
	Options []OptionVM
}

// PageLinkVM is one numbered pagination link.
type PageLinkVM struct {
	Number  int
	URL     string
	Current bool
}

// VM is everything the "datatable" template needs.
type VM struct {
	Title    string
	BasePath string

	Columns []ColumnVM
	Rows    []RowVM
	Empty   bool

	Search string
	Filter *FilterVM

	TotalItems int
	Range      paging.Range
	PrevURL    string
	NextURL    string
	Pages      []PageLinkVM

	SelectedCount     int
	AllOnPageSelected bool
	TogglePageURL     string
	ClearURL          string
	PruneURL          string
	ResetURL          string

	BulkActions []ActionVM

	ExportCSVURL  string
	ExportJSONURL string
	JSONURL       string

	// CSRFToken is copied into the action forms.
	CSRFToken string
}

// maxPageLinks bounds the numbered links shown around the current page.
const maxPageLinks = 7

// Build derives the view model for t at basePath. Row actions post to
// basePath/{id}/actions/{action} and bulk actions to basePath/bulk/{action}.
func Build[T datatable.Row](r *http.Request, basePath string, t *datatable.Table[T], res datatable.Result[T]) VM {
	cfg := t.Config()
	field, order := t.Sort()

	vm := VM{
		Title:             t.Title(),
		BasePath:          basePath,
		Empty:             res.Empty(),
		Search:            t.Search(),
		TotalItems:        res.TotalItems,
		Range:             res.Range,
		SelectedCount:     t.SelectedCount(),
		AllOnPageSelected: t.AllOnPageSelected(),
		TogglePageURL:     link(basePath, tablestate.ParamTogglePage, "1"),
		ClearURL:          link(basePath, tablestate.ParamClear, "1"),
		PruneURL:          link(basePath, tablestate.ParamPrune, "1"),
		ResetURL:          link(basePath, tablestate.ParamReset, "1"),
		ExportCSVURL:      basePath + "/export/csv",
		ExportJSONURL:     basePath + "/export/json",
		JSONURL:           link(basePath, "format", "json"),
		CSRFToken:         csrf.Token(r),
	}

	for _, col := range cfg.Columns {
		cv := ColumnVM{
			Key:      col.Key,
			Label:    col.Label,
			Width:    col.Width,
			Sortable: col.Sortable,
			Active:   col.Key == field,
		}
		cv.Desc = cv.Active && order == datatable.Desc
		if col.Sortable {
			cv.SortURL = link(basePath, tablestate.ParamSort, col.Key)
		}
		vm.Columns = append(vm.Columns, cv)
	}

	for _, row := range res.Rows {
		id := row.RowID()
		rv := RowVM{
			ID:        id,
			Selected:  t.IsSelected(id),
			ToggleURL: link(basePath, tablestate.ParamToggle, id),
			DetailURL: basePath + "/" + id,
		}
		if cfg.RowLink != nil {
			rv.DetailURL = cfg.RowLink(row)
		}
		for _, col := range cfg.Columns {
			rv.Cells = append(rv.Cells, col.Cell(row))
		}
		rv.Actions = RowActions(basePath, t, row)
		vm.Rows = append(vm.Rows, rv)
	}

	for _, a := range t.BulkActions() {
		vm.BulkActions = append(vm.BulkActions, ActionVM{
			ActionView: a,
			URL:        basePath + "/bulk/" + a.ID,
		})
	}

	if f := cfg.Filter; f != nil {
		fv := &FilterVM{Key: f.Key, Label: f.Label, Value: t.FilterValue()}
		for _, o := range f.Options {
			fv.Options = append(fv.Options, OptionVM{
				Value:    o.Value,
				Label:    o.Label,
				Selected: o.Value == fv.Value,
			})
		}
		vm.Filter = fv
	}

	if res.Range.HasPrev {
		vm.PrevURL = pageLink(basePath, res.Range.PrevPage)
	}
	if res.Range.HasNext {
		vm.NextURL = pageLink(basePath, res.Range.NextPage)
	}
	lo, hi := window(res.Page, res.TotalPages)
	for p := lo; p <= hi; p++ {
		vm.Pages = append(vm.Pages, PageLinkVM{
			Number:  p,
			URL:     pageLink(basePath, p),
			Current: p == res.Page,
		})
	}
	return vm
}

// RowActions resolves the per-row action buttons for row.
func RowActions[T datatable.Row](basePath string, t *datatable.Table[T], row T) []ActionVM {
	var out []ActionVM
	for _, a := range t.RowActions(row) {
		out = append(out, ActionVM{
			ActionView: a,
			URL:        basePath + "/" + row.RowID() + "/actions/" + a.ID,
		})
	}
	return out
}

// DetailPage is the view model of the "datatable_detail" page.
type DetailPage struct {
	viewdata.BaseVM
	Detail  datatable.DetailView
	Actions []ActionVM
}

// window returns the first and last page numbers to link, centered on page.
func window(page, pages int) (int, int) {
	lo := page - maxPageLinks/2
	if lo < 1 {
		lo = 1
	}
	hi := lo + maxPageLinks - 1
	if hi > pages {
		hi = pages
		lo = hi - maxPageLinks + 1
		if lo < 1 {
			lo = 1
		}
	}
	return lo, hi
}

func link(base, key, value string) string {
	return urlutil.AddOrSetQueryParams(base, map[string]string{key: value})
}

func pageLink(base string, page int) string {
	return link(base, tablestate.ParamPage, strconv.Itoa(page))
}
