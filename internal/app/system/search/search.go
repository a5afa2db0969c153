// Package search implements the free-text matching used by list tables.
//
// Matching is a plain lower-cased substring test. There is no tokenization
// and no per-field scoping: a row matches when any of its searchable values
// contains the term.
package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Normalize trims and lower-cases a search term.
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Stringify converts a raw field value to the string that search and sort
// operate on. Nil values become the empty string.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case *time.Time:
		if x == nil || x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Contains reports whether the lower-cased string form of v contains the
// already-normalized term.
func Contains(v any, normalizedTerm string) bool {
	if normalizedTerm == "" {
		return true
	}
	return strings.Contains(strings.ToLower(Stringify(v)), normalizedTerm)
}

// Matches reports whether any of values contains term. An empty term
// matches everything.
func Matches(values []any, term string) bool {
	q := Normalize(term)
	if q == "" {
		return true
	}
	for _, v := range values {
		if Contains(v, q) {
			return true
		}
	}
	return false
}
