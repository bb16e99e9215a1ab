// Package query implements the search, sort and paginate pipeline shared by
// every listable entity kind.
package query

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gameslibrary/internal/utils"
)

// Field describes one named attribute of an entity kind: how to render it
// for text search and how to order two records by it.
type Field[T any] struct {
	Name       string
	Text       func(T) string
	Compare    func(a, b T) int
	Searchable bool
	Sortable   bool
}

// SortOnly excludes the field from text search.
func (f Field[T]) SortOnly() Field[T] {
	f.Searchable = false
	return f
}

// SearchOnly excludes the field from ordering.
func (f Field[T]) SearchOnly() Field[T] {
	f.Sortable = false
	return f
}

// Text builds a string field compared case-insensitively.
func Text[T any](name string, get func(T) string) Field[T] {
	return Field[T]{
		Name: name,
		Text: get,
		Compare: func(a, b T) int {
			return strings.Compare(fold(get(a)), fold(get(b)))
		},
		Searchable: true,
		Sortable:   true,
	}
}

// Int builds an integer field searched through its decimal form.
func Int[T any](name string, get func(T) int64) Field[T] {
	return Field[T]{
		Name:       name,
		Text:       func(t T) string { return strconv.FormatInt(get(t), 10) },
		Compare:    func(a, b T) int { return cmp.Compare(get(a), get(b)) },
		Searchable: true,
		Sortable:   true,
	}
}

// Money builds an amount field searched through its two-decimal form.
func Money[T any](name string, get func(T) float64) Field[T] {
	return Field[T]{
		Name:       name,
		Text:       func(t T) string { return utils.FormatMoney(get(t)) },
		Compare:    func(a, b T) int { return cmp.Compare(get(a), get(b)) },
		Searchable: true,
		Sortable:   true,
	}
}

// Date builds a time field searched through its YYYY-MM-DD form.
func Date[T any](name string, get func(T) time.Time) Field[T] {
	return Field[T]{
		Name:       name,
		Text:       func(t T) string { return utils.FormatDate(get(t)) },
		Compare:    func(a, b T) int { return get(a).Compare(get(b)) },
		Searchable: true,
		Sortable:   true,
	}
}

// Descriptor is the capability table of one entity kind. Field names are
// matched case-insensitively.
type Descriptor[T any] struct {
	Kind   string
	fields []Field[T]
	byName map[string]int
}

// NewDescriptor panics on duplicate or incomplete fields; descriptors are
// package-level values built at init.
func NewDescriptor[T any](kind string, fields ...Field[T]) *Descriptor[T] {
	d := &Descriptor[T]{
		Kind:   kind,
		fields: make([]Field[T], 0, len(fields)),
		byName: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		key := fieldKey(f.Name)
		if key == "" || f.Text == nil || f.Compare == nil {
			panic(fmt.Sprintf("query: incomplete field %q on %s", f.Name, kind))
		}
		if _, dup := d.byName[key]; dup {
			panic(fmt.Sprintf("query: duplicate field %q on %s", f.Name, kind))
		}
		d.byName[key] = len(d.fields)
		d.fields = append(d.fields, f)
	}
	return d
}

// Field looks a field up by name.
func (d *Descriptor[T]) Field(name string) (Field[T], bool) {
	i, ok := d.byName[fieldKey(name)]
	if !ok {
		return Field[T]{}, false
	}
	return d.fields[i], true
}

// Sortable resolves a caller-supplied sort key to a whitelisted field.
func (d *Descriptor[T]) Sortable(name string) (Field[T], bool) {
	f, ok := d.Field(name)
	if !ok || !f.Sortable {
		return Field[T]{}, false
	}
	return f, true
}

func (d *Descriptor[T]) searchable(name string) (Field[T], bool) {
	f, ok := d.Field(name)
	if !ok || !f.Searchable {
		return Field[T]{}, false
	}
	return f, true
}

// SearchableFields lists searchable field names in declaration order.
func (d *Descriptor[T]) SearchableFields() []string {
	out := make([]string, 0, len(d.fields))
	for _, f := range d.fields {
		if f.Searchable {
			out = append(out, f.Name)
		}
	}
	return out
}

// SortableFields lists sortable field names in declaration order.
func (d *Descriptor[T]) SortableFields() []string {
	out := make([]string, 0, len(d.fields))
	for _, f := range d.fields {
		if f.Sortable {
			out = append(out, f.Name)
		}
	}
	return out
}

func fieldKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
