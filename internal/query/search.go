package query

import (
	"strings"

	"golang.org/x/text/cases"
)

// Predicate reports whether a record belongs to the result set.
type Predicate[T any] func(T) bool

// All matches every record.
func All[T any]() Predicate[T] { return func(T) bool { return true } }

// None matches no record.
func None[T any]() Predicate[T] { return func(T) bool { return false } }

func (p Predicate[T]) And(q Predicate[T]) Predicate[T] {
	return func(t T) bool { return p(t) && q(t) }
}

func (p Predicate[T]) Or(q Predicate[T]) Predicate[T] {
	return func(t T) bool { return p(t) || q(t) }
}

// Match builds the free-text predicate: a record matches when term occurs,
// ignoring case, in any of the named searchable fields. No fields named
// means all searchable fields; unknown names are skipped. An empty term
// matches everything.
func Match[T any](d *Descriptor[T], term string, fields []string) Predicate[T] {
	if term == "" {
		return All[T]()
	}
	names := fields
	if len(names) == 0 {
		names = d.SearchableFields()
	}

	texts := make([]func(T) string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		f, ok := d.searchable(name)
		if !ok {
			continue
		}
		key := fieldKey(f.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		texts = append(texts, f.Text)
	}
	if len(texts) == 0 {
		return None[T]()
	}

	needle := fold(term)
	return func(t T) bool {
		for _, text := range texts {
			if strings.Contains(fold(text(t)), needle) {
				return true
			}
		}
		return false
	}
}

// fold uses a fresh Caser per call; a Caser must not be shared between
// goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}
