package datatable

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/flicapp/flicapp/internal/app/system/search"
)

// WriteCSV writes rows as CSV: a header of column labels, then one record per
// row holding each column's raw value. Text values that a spreadsheet would
// read as a formula are prefixed with a single quote.
func WriteCSV[T Row](w io.Writer, columns []Column[T], rows []T, crlf bool) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = crlf

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	rec := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			rec[i] = csvField(col.Raw(row))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvField(v any) string {
	switch x := v.(type) {
	case string:
		return sanitizeCSVField(x)
	case *string:
		if x == nil {
			return ""
		}
		return sanitizeCSVField(*x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.UTC().Format(time.RFC3339)
	case *time.Time:
		if x == nil || x.IsZero() {
			return ""
		}
		return x.UTC().Format(time.RFC3339)
	}
	return search.Stringify(v)
}

// sanitizeCSVField prevents CSV injection by prefixing values that start
// with formula characters.
func sanitizeCSVField(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// WriteJSON writes rows verbatim as an indented JSON array. A nil slice is
// written as [].
func WriteJSON[T Row](w io.Writer, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// ExportFilename derives a download name from a table title: lower-cased,
// spaces replaced by hyphens. An empty title becomes "export".
func ExportFilename(title, ext string) string {
	name := strings.Join(strings.Fields(strings.ToLower(title)), "-")
	if name == "" {
		name = "export"
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// ExportCSV writes every filtered row, across all pages, as CSV.
func (t *Table[T]) ExportCSV(w io.Writer, crlf bool) error {
	return WriteCSV(w, t.cfg.Columns, t.Compute().Filtered, crlf)
}

// ExportJSON writes every filtered row, across all pages, as JSON.
func (t *Table[T]) ExportJSON(w io.Writer) error {
	return WriteJSON(w, t.Compute().Filtered)
}

// Filename returns the export file name for this table.
func (t *Table[T]) Filename(ext string) string {
	return ExportFilename(t.cfg.Title, ext)
}
