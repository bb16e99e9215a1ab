package domain

import (
	"strings"
)

// ID is used across domain entities.
type ID int64

// SortOrder selects ascending or descending ordering.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "Descending"
	}
	return "Ascending"
}

// ParseSortOrder accepts the enum name, its short form or its ordinal,
// case-insensitively. An empty string yields Ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ascending", "asc", "0":
		return Ascending, nil
	case "descending", "desc", "1":
		return Descending, nil
	default:
		return Ascending, ValidationError{Field: "sortOrder", Msg: "must be Ascending or Descending"}
	}
}

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// PaginationAndSearchOptions is built per request from the query string and
// consumed once by the query engine.
type PaginationAndSearchOptions struct {
	PageNumber   int       `json:"pageNumber"`
	PageSize     int       `json:"pageSize"`
	SearchTerm   string    `json:"searchTerm,omitempty"`
	SearchFields []string  `json:"searchFields,omitempty"` // empty: every searchable field
	SortField    string    `json:"sortField,omitempty"`
	SortOrder    SortOrder `json:"sortOrder"`
}

// DefaultOptions returns page 1 of size 10, unfiltered, unsorted.
func DefaultOptions() PaginationAndSearchOptions {
	return PaginationAndSearchOptions{
		PageNumber: DefaultPageNumber,
		PageSize:   DefaultPageSize,
		SortOrder:  Ascending,
	}
}

// Validate rejects non-positive paging values.
func (o PaginationAndSearchOptions) Validate() error {
	if o.PageNumber < 1 {
		return ValidationError{Field: "pageNumber", Msg: "must be at least 1"}
	}
	if o.PageSize < 1 {
		return ValidationError{Field: "pageSize", Msg: "must be at least 1"}
	}
	return nil
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID   ID     `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
