// Package paging computes page-number pagination over in-memory collections.
//
// Pages are 1-based. A collection always has at least one page, even when it
// is empty, so a list screen can render "page 1 of 1" with an empty-state
// message instead of special-casing zero.
package paging

// PageSize is the default number of rows shown per page in list tables.
const PageSize = 10

// MaxPageSize bounds configured page sizes.
const MaxPageSize = 100

// TotalPages returns ceil(total/size), with a minimum of 1.
// A non-positive size falls back to PageSize.
func TotalPages(total, size int) int {
	if size <= 0 {
		size = PageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Clamp forces page into [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Bounds returns the half-open slice window [lo, hi) for the given page.
// The page is clamped first, so the result is always a valid window.
func Bounds(page, size, total int) (lo, hi int) {
	if size <= 0 {
		size = PageSize
	}
	page = Clamp(page, TotalPages(total, size))
	lo = (page - 1) * size
	if lo > total {
		lo = total
	}
	hi = lo + size
	if hi > total {
		hi = total
	}
	if lo < 0 {
		lo = 0
	}
	return lo, hi
}

// Range holds computed display values for a paginated list.
type Range struct {
	Start    int // 1-based index of the first row shown (0 if no results)
	End      int // 1-based index of the last row shown (0 if no results)
	Page     int
	Pages    int
	PrevPage int
	NextPage int
	HasPrev  bool
	HasNext  bool
}

// ComputeRange calculates the display range for page over total rows.
func ComputeRange(page, size, total int) Range {
	pages := TotalPages(total, size)
	page = Clamp(page, pages)
	lo, hi := Bounds(page, size, total)

	rg := Range{
		Page:     page,
		Pages:    pages,
		PrevPage: Clamp(page-1, pages),
		NextPage: Clamp(page+1, pages),
		HasPrev:  page > 1,
		HasNext:  page < pages,
	}
	if hi > lo {
		rg.Start = lo + 1
		rg.End = hi
	}
	return rg
}
