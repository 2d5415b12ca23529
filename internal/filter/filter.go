package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Wildcard is the filter value that disables a dimension.
const Wildcard = "all"

// ErrInvalidFilterDimension is returned by Validate for an unknown filter key.
var ErrInvalidFilterDimension = errors.New("invalid filter dimension")

// Criteria is a free-text query combined with categorical filter selections.
type Criteria struct {
	Query   string
	Filters map[string]string
}

// NewCriteria lowercases the query. Empty filter values are treated as the
// wildcard.
func NewCriteria(query string, filters map[string]string) Criteria {
	normalized := make(map[string]string, len(filters))
	for k, v := range filters {
		if v == "" {
			v = Wildcard
		}
		normalized[k] = v
	}
	return Criteria{Query: strings.ToLower(query), Filters: normalized}
}

// Active returns the dimensions with a non-wildcard value, sorted by name.
func (c Criteria) Active() []string {
	var dims []string
	for k, v := range c.Filters {
		if v != Wildcard && v != "" {
			dims = append(dims, k)
		}
	}
	sort.Strings(dims)
	return dims
}

// Predicate decides whether a record matches one filter value.
type Predicate[T any] func(record T, value string) bool

// Matcher evaluates criteria against records of a single entity type.
type Matcher[T any] struct {
	// Fields returns the searchable fields of a record in a fixed order.
	Fields func(T) []string
	// Dimensions maps a filter key to its predicate.
	Dimensions map[string]Predicate[T]
}

// Matches reports whether record satisfies the text query and every active
// filter. Unknown dimensions are ignored; use Validate to reject them.
func (m Matcher[T]) Matches(record T, c Criteria) bool {
	if !m.matchesText(record, c.Query) {
		return false
	}
	for dim, value := range c.Filters {
		if value == Wildcard || value == "" {
			continue
		}
		pred, ok := m.Dimensions[dim]
		if !ok {
			continue
		}
		if !pred(record, value) {
			return false
		}
	}
	return true
}

func (m Matcher[T]) matchesText(record T, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range m.Fields(record) {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Filter returns the records matching c in their original relative order.
// The input slice is not modified.
func (m Matcher[T]) Filter(records []T, c Criteria) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if m.Matches(r, c) {
			out = append(out, r)
		}
	}
	return out
}

// Validate rejects filter keys the matcher does not know.
func (m Matcher[T]) Validate(c Criteria) error {
	var unknown []string
	for dim := range c.Filters {
		if _, ok := m.Dimensions[dim]; !ok {
			unknown = append(unknown, dim)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w: %s", ErrInvalidFilterDimension, strings.Join(unknown, ", "))
}

// DimensionNames lists the filter keys of the matcher, sorted.
func (m Matcher[T]) DimensionNames() []string {
	names := make([]string, 0, len(m.Dimensions))
	for k := range m.Dimensions {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Equals builds a predicate comparing one field exactly with the filter value.
func Equals[T any, S ~string](field func(T) S) Predicate[T] {
	return func(record T, value string) bool {
		return string(field(record)) == value
	}
}
