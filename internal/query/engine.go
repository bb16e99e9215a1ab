package query

import (
	"slices"

	"gameslibrary/internal/domain"
)

// Page is one window of a filtered, sorted result set.
type Page[T any] struct {
	Items      []T `json:"items"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Run filters, sorts and pages records. The input slice is left untouched.
func Run[T any](records []T, opts domain.PaginationAndSearchOptions, d *Descriptor[T]) Page[T] {
	match := Match(d, opts.SearchTerm, opts.SearchFields)

	filtered := make([]T, 0, len(records))
	for _, r := range records {
		if match(r) {
			filtered = append(filtered, r)
		}
	}

	Sort(filtered, d, opts.SortField, opts.SortOrder)

	start, end := Window(opts.PageNumber, opts.PageSize, len(filtered))
	return Page[T]{
		Items:      filtered[start:end:end],
		PageNumber: opts.PageNumber,
		PageSize:   opts.PageSize,
		TotalItems: len(filtered),
		TotalPages: TotalPages(opts.PageSize, len(filtered)),
	}
}

// Sort orders records in place by a sortable field, keeping equal keys in
// their original order. It returns false, leaving records as they are, when
// field is empty or not sortable.
func Sort[T any](records []T, d *Descriptor[T], field string, order domain.SortOrder) bool {
	if field == "" {
		return false
	}
	f, ok := d.Sortable(field)
	if !ok {
		return false
	}
	compare := f.Compare
	if order == domain.Descending {
		slices.SortStableFunc(records, func(a, b T) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(records, compare)
	}
	return true
}
