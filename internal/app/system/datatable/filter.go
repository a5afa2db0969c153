package datatable

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/flicapp/flicapp/internal/app/system/search"
)

// FilterAndSort returns the rows matching searchTerm in any column, ordered
// by sortField. An empty search term keeps every row and an empty sortField
// keeps the input order. The input slice is never modified.
func FilterAndSort[T Row](data []T, searchTerm string, columns []Column[T], sortField string, order SortOrder) []T {
	q := search.Normalize(searchTerm)

	out := make([]T, 0, len(data))
	for _, row := range data {
		if q == "" || rowMatches(row, columns, searchTerm) {
			out = append(out, row)
		}
	}

	if sortField == "" {
		return out
	}
	col, ok := findColumn(columns, sortField)
	if !ok {
		return out
	}
	sortRows(out, col, order)
	return out
}

func rowMatches[T Row](row T, columns []Column[T], term string) bool {
	values := make([]any, len(columns))
	for i, col := range columns {
		values[i] = col.Raw(row)
	}
	return search.Matches(values, term)
}

func findColumn[T Row](columns []Column[T], key string) (Column[T], bool) {
	for _, col := range columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column[T]{}, false
}

func sortRows[T Row](rows []T, col Column[T], order SortOrder) {
	var less func(a, b T) int
	switch col.sortKind() {
	case SortDate:
		less = func(a, b T) int {
			return parseDate(col.Raw(a)).Compare(parseDate(col.Raw(b)))
		}
	case SortNumber:
		less = func(a, b T) int {
			return cmp.Compare(parseNumber(col.Raw(a)), parseNumber(col.Raw(b)))
		}
	default:
		less = func(a, b T) int {
			ra, rb := col.Raw(a), col.Raw(b)
			if isTime(ra) && isTime(rb) {
				return parseDate(ra).Compare(parseDate(rb))
			}
			return strings.Compare(
				strings.ToLower(search.Stringify(ra)),
				strings.ToLower(search.Stringify(rb)),
			)
		}
	}

	if order == Desc {
		slices.SortStableFunc(rows, func(a, b T) int { return less(b, a) })
		return
	}
	slices.SortStableFunc(rows, less)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// parseDate interprets a raw value as a point in time. Values that cannot be
// parsed become the zero time and therefore sort first in ascending order.
func parseDate(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case *time.Time:
		if x == nil {
			return time.Time{}
		}
		return *x
	}
	s := strings.TrimSpace(search.Stringify(v))
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func isTime(v any) bool {
	switch v.(type) {
	case time.Time, *time.Time:
		return true
	}
	return false
}

func parseNumber(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(search.Stringify(v)), 64)
	if err != nil {
		return 0
	}
	return f
}
