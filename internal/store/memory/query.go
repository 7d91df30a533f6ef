package memory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/Payphone-Digital/storefront/internal/repository"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

type queryable[T any] struct {
	table    *Table[T]
	includes []string
	where    []query.Clause[T]
	order    *query.OrderBy[T]
	dir      query.Direction
	skip     int
	take     int
	paged    bool
}

func (q *queryable[T]) clone() *queryable[T] {
	out := *q
	out.includes = append([]string(nil), q.includes...)
	out.where = append([]query.Clause[T](nil), q.where...)
	return &out
}

func (q *queryable[T]) Include(path string) repository.Queryable[T] {
	out := q.clone()
	out.includes = append(out.includes, path)
	return out
}

func (q *queryable[T]) Where(c query.Clause[T]) repository.Queryable[T] {
	out := q.clone()
	out.where = append(out.where, c)
	return out
}

func (q *queryable[T]) Order(key query.OrderBy[T], dir query.Direction) repository.Queryable[T] {
	out := q.clone()
	out.order = &key
	out.dir = dir
	return out
}

func (q *queryable[T]) Page(skip, take int) repository.Queryable[T] {
	out := q.clone()
	out.skip = max(skip, 0)
	out.take = take
	out.paged = true
	return out
}

// matching loads the rows, resolves includes and applies every clause.
func (q *queryable[T]) matching(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := q.table.All()

	for _, path := range q.includes {
		resolve, ok := q.table.resolvers[strings.ToLower(strings.TrimSpace(path))]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownPath, q.table.name, path)
		}
		resolve(rows)
	}

	for _, c := range q.where {
		if c.Match == nil {
			return nil, ErrNoMatcher
		}
	}

	out := rows[:0]
	for _, row := range rows {
		if q.accepts(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (q *queryable[T]) accepts(row T) bool {
	for _, c := range q.where {
		if !c.Match(row) {
			return false
		}
	}
	return true
}

func (q *queryable[T]) Count(ctx context.Context) (int64, error) {
	rows, err := q.matching(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (q *queryable[T]) Find(ctx context.Context) ([]T, error) {
	rows, err := q.matching(ctx)
	if err != nil {
		return nil, err
	}

	if q.order != nil {
		switch {
		case q.order.Random:
			rand.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		case q.order.Compare != nil:
			cmp := q.order.Compare
			if q.dir == query.Desc {
				slices.SortStableFunc(rows, func(a, b T) int { return cmp(b, a) })
			} else {
				slices.SortStableFunc(rows, cmp)
			}
		}
	}

	if q.paged {
		if q.skip >= len(rows) {
			return []T{}, nil
		}
		rows = rows[q.skip:]
		if q.take >= 0 && q.take < len(rows) {
			rows = rows[:q.take]
		}
	}
	return rows, nil
}

func (q *queryable[T]) First(ctx context.Context) (*T, error) {
	rows, err := q.Find(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	item := rows[0]
	return &item, nil
}
