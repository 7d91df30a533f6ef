package grid

import (
	"strings"

	"github.com/Payphone-Digital/storefront/pkg/query"
)

// FilterFunc turns one segment into a clause. It reports false when the
// segment value cannot be read, and the segment is then ignored.
type FilterFunc[T any] func(seg Segment) (query.Clause[T], bool)

// Projection maps a route state onto a query specification for T.
type Projection[T any] struct {
	Includes    []string
	DefaultSort string
	sorts       map[string]query.OrderBy[T]
	filters     map[string]FilterFunc[T]
}

func NewProjection[T any](includes string, defaultSort string) *Projection[T] {
	return &Projection[T]{
		Includes:    query.ParseIncludes(includes),
		DefaultSort: defaultSort,
		sorts:       make(map[string]query.OrderBy[T]),
		filters:     make(map[string]FilterFunc[T]),
	}
}

// Sort registers a sortable field. Field names are case-insensitive.
func (p *Projection[T]) Sort(field string, key query.OrderBy[T]) *Projection[T] {
	p.sorts[strings.ToLower(field)] = key
	return p
}

// Filter registers the clause builder for segments with prefix.
func (p *Projection[T]) Filter(prefix string, fn FilterFunc[T]) *Projection[T] {
	p.filters[strings.ToLower(prefix)] = fn
	return p
}

// Sortable reports whether field is registered.
func (p *Projection[T]) Sortable(field string) bool {
	_, ok := p.sorts[strings.ToLower(strings.TrimSpace(field))]
	return ok
}

// OrderFor returns the ordering of field, falling back to the default sort
// for unknown fields.
func (p *Projection[T]) OrderFor(field string) (query.OrderBy[T], bool) {
	if key, ok := p.sorts[strings.ToLower(strings.TrimSpace(field))]; ok {
		return key, true
	}
	key, ok := p.sorts[strings.ToLower(p.DefaultSort)]
	return key, ok
}

// Clauses converts every readable segment of state into a clause.
// Unknown prefixes and malformed values are dropped.
func (p *Projection[T]) Clauses(state RouteState) []query.Clause[T] {
	var clauses []query.Clause[T]
	for _, token := range state.Filters {
		seg, ok := ParseSegment(token)
		if !ok {
			continue
		}
		fn, ok := p.filters[seg.Prefix]
		if !ok {
			continue
		}
		if c, ok := fn(seg); ok {
			clauses = append(clauses, c)
		}
	}
	return clauses
}

// BuildQuerySpecification projects state into a fresh query specification.
func (p *Projection[T]) BuildQuerySpecification(state RouteState) query.Options[T] {
	opts := query.Options[T]{
		Includes:   append([]string(nil), p.Includes...),
		Where:      p.Clauses(state),
		Direction:  state.SortDirection,
		PageNumber: state.PageNumber,
		PageSize:   state.PageSize,
	}
	if key, ok := p.OrderFor(state.SortField); ok {
		opts.OrderBy = &key
	}
	if !opts.Direction.Valid() {
		opts.Direction = query.Asc
	}
	return opts
}
