// Package query describes a data query against one entity kind without
// executing it: eager-load paths, filter clauses, ordering and paging.
//
// An Options value carries no execution logic. Store adapters translate it
// into their own query language; see internal/repository for the executor.
package query

import (
	"cmp"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Direction is the ordering direction of a query.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection reads a direction case-insensitively. Anything other than
// "desc" is ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// Clause is one filter predicate over T. Cond is the relational rendering,
// Match the in-memory rendering of the same condition.
type Clause[T any] struct {
	Cond  sq.Sqlizer
	Match func(T) bool
}

// Where builds a clause from both renderings.
func Where[T any](cond sq.Sqlizer, match func(T) bool) Clause[T] {
	return Clause[T]{Cond: cond, Match: match}
}

// OrderBy is an ordering key. Column is used by relational stores, Compare by
// in-memory ones. Random orderings ignore both.
type OrderBy[T any] struct {
	Column  string
	Compare func(a, b T) int
	Random  bool
}

// OrderByKey builds an ordering from a selector function.
func OrderByKey[T any, K cmp.Ordered](column string, key func(T) K) OrderBy[T] {
	return OrderBy[T]{
		Column: column,
		Compare: func(a, b T) int {
			return cmp.Compare(key(a), key(b))
		},
	}
}

// Random orders results randomly.
func Random[T any]() OrderBy[T] {
	return OrderBy[T]{Random: true}
}

// Options is the query specification for entity kind T.
type Options[T any] struct {
	Includes   []string
	Where      []Clause[T]
	OrderBy    *OrderBy[T]
	Direction  Direction
	PageNumber int
	PageSize   int
}

func (o Options[T]) HasWhere() bool {
	return len(o.Where) > 0
}

func (o Options[T]) HasOrderBy() bool {
	return o.OrderBy != nil
}

func (o Options[T]) HasPaging() bool {
	return o.PageNumber > 0 && o.PageSize > 0
}

// Skip is the number of rows before the requested page.
func (o Options[T]) Skip() int {
	if !o.HasPaging() {
		return 0
	}
	return (o.PageNumber - 1) * o.PageSize
}

// WithWhere returns a copy of o with clauses appended. o is left untouched.
func (o Options[T]) WithWhere(clauses ...Clause[T]) Options[T] {
	out := o.clone()
	out.Where = append(out.Where, clauses...)
	return out
}

// WithIncludes returns a copy of o with the include paths of a
// comma-separated list appended, e.g. "BookAuthors.Author, Genre".
func (o Options[T]) WithIncludes(list string) Options[T] {
	out := o.clone()
	out.Includes = append(out.Includes, ParseIncludes(list)...)
	return out
}

// WithOrder returns a copy of o ordered by key in direction dir.
func (o Options[T]) WithOrder(key OrderBy[T], dir Direction) Options[T] {
	out := o.clone()
	out.OrderBy = &key
	out.Direction = dir
	return out
}

// WithPage returns a copy of o restricted to one page.
func (o Options[T]) WithPage(number, size int) Options[T] {
	out := o.clone()
	out.PageNumber = number
	out.PageSize = size
	return out
}

func (o Options[T]) clone() Options[T] {
	out := o
	out.Includes = append([]string(nil), o.Includes...)
	out.Where = append([]Clause[T](nil), o.Where...)
	if o.OrderBy != nil {
		key := *o.OrderBy
		out.OrderBy = &key
	}
	return out
}

// ParseIncludes splits a comma-separated include list, dropping blanks.
func ParseIncludes(list string) []string {
	var paths []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
