package tableview

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"github.com/flicapp/flicapp/internal/app/system/metrics"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// utf8BOM lets spreadsheet tools detect UTF-8 in CSV downloads.
const utf8BOM = "\ufeff"

// WantsJSON reports whether the request asked for the JSON rendition of a
// list page.
func WantsJSON(r *http.Request) bool {
	return r.URL.Query().Get("format") == FormatJSON
}

// PageJSON is the JSON rendition of the current page of a table.
type PageJSON[T datatable.Row] struct {
	Rows       []T             `json:"rows"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	TotalItems int             `json:"total_items"`
	Selected   []string        `json:"selected"`
	State      datatable.State `json:"state"`
}

// WritePage writes the current page, the selection and the view state as
// JSON.
func WritePage[T datatable.Row](w http.ResponseWriter, t *datatable.Table[T], res datatable.Result[T]) error {
	rows := res.Rows
	if rows == nil {
		rows = []T{}
	}
	out := PageJSON[T]{
		Rows:       rows,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		TotalItems: res.TotalItems,
		Selected:   t.Selected(),
		State:      t.State(),
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(out)
}

// WriteExport writes every filtered row of t as a download in format. The
// body is buffered so a failed export never sends a partial file. It returns
// false for an unknown format without writing anything.
func WriteExport[T datatable.Row](w http.ResponseWriter, name string, t *datatable.Table[T], format string) (bool, error) {
	var (
		buf         bytes.Buffer
		contentType string
		err         error
	)
	switch format {
	case FormatCSV:
		contentType = "text/csv; charset=utf-8"
		buf.WriteString(utf8BOM)
		err = t.ExportCSV(&buf, true)
	case FormatJSON:
		contentType = "application/json; charset=utf-8"
		err = t.ExportJSON(&buf)
	default:
		return false, nil
	}
	if err != nil {
		return true, err
	}

	metrics.Export(name, format, len(t.Compute().Filtered))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+t.Filename(format)+`"`)
	_, err = w.Write(buf.Bytes())
	return true, err
}
