package datatable

import (
	"html/template"
	"strings"
)

// DetailView is what a row click resolves to. When Link is set the host
// should navigate there instead of showing Body.
type DetailView struct {
	RowID string
	Title string
	Link  string
	Body  template.HTML
}

// Detail resolves the detail view for the row with the given id.
func (t *Table[T]) Detail(id string) (DetailView, bool) {
	row, ok := t.Row(id)
	if !ok {
		return DetailView{}, false
	}
	dv := DetailView{RowID: id, Title: t.cfg.Title}
	if t.cfg.RowLink != nil {
		dv.Link = t.cfg.RowLink(row)
		return dv, true
	}
	if t.cfg.Detail != nil {
		dv.Body = t.cfg.Detail(row)
		return dv, true
	}
	dv.Body = t.defaultDetail(row)
	return dv, true
}

func (t *Table[T]) defaultDetail(row T) template.HTML {
	var b strings.Builder
	b.WriteString(`<dl class="grid grid-cols-3 gap-2">`)
	for _, col := range t.cfg.Columns {
		b.WriteString(`<dt class="font-medium text-gray-600">`)
		b.WriteString(template.HTMLEscapeString(col.Label))
		b.WriteString(`</dt><dd class="col-span-2">`)
		b.WriteString(string(col.Cell(row)))
		b.WriteString(`</dd>`)
	}
	b.WriteString(`</dl>`)
	return template.HTML(b.String())
}
