// Package gormstore backs repositories with a relational database through
// GORM. Clauses are rendered with their squirrel condition, includes become
// Preload calls and a unit commit runs in one transaction.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/Payphone-Digital/storefront/internal/repository"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

// ErrNoCondition is returned for clauses that have no SQL rendering.
var ErrNoCondition = errors.New("gormstore: clause has no SQL condition")

// Table is the repository.Source of one model type.
type Table[T any] struct {
	db        *gorm.DB
	keyColumn string
}

type TableOption[T any] func(*Table[T])

// WithKeyColumn names the primary key column used by KeyClause. Defaults to
// "id".
func WithKeyColumn[T any](column string) TableOption[T] {
	return func(t *Table[T]) {
		t.keyColumn = column
	}
}

func NewTable[T any](db *gorm.DB, opts ...TableOption[T]) *Table[T] {
	t := &Table[T]{db: db, keyColumn: "id"}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Table[T]) Query() repository.Queryable[T] {
	return &queryable[T]{db: t.db}
}

// KeyClause matches on the key column only; in-memory matching is not
// available for relational tables.
func (t *Table[T]) KeyClause(id any) query.Clause[T] {
	return query.Clause[T]{Cond: sq.Eq{t.keyColumn: id}}
}

type queryable[T any] struct {
	db       *gorm.DB
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
	out.includes = append(out.includes, strings.TrimSpace(path))
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

// filtered builds the model scope with every where clause applied.
func (q *queryable[T]) filtered(ctx context.Context) (*gorm.DB, error) {
	tx := q.db.WithContext(ctx).Model(new(T))
	for _, c := range q.where {
		if c.Cond == nil {
			return nil, ErrNoCondition
		}
		sql, args, err := c.Cond.ToSql()
		if err != nil {
			return nil, fmt.Errorf("gormstore: render clause: %w", err)
		}
		tx = tx.Where(sql, args...)
	}
	return tx, nil
}

// Count ignores includes, ordering and paging.
func (q *queryable[T]) Count(ctx context.Context) (int64, error) {
	tx, err := q.filtered(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (q *queryable[T]) scope(ctx context.Context) (*gorm.DB, error) {
	tx, err := q.filtered(ctx)
	if err != nil {
		return nil, err
	}
	for _, path := range q.includes {
		tx = tx.Preload(path)
	}

	if q.order != nil {
		switch {
		case q.order.Random:
			tx = tx.Order(randomFunc(tx))
		case q.order.Column != "":
			tx = tx.Order(q.order.Column + " " + strings.ToUpper(string(q.dir)))
		}
	}

	if q.paged {
		tx = tx.Offset(q.skip).Limit(q.take)
	}
	return tx, nil
}

func (q *queryable[T]) Find(ctx context.Context) ([]T, error) {
	tx, err := q.scope(ctx)
	if err != nil {
		return nil, err
	}
	items := []T{}
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// First takes the first row of the scope in its own order; without an
// ordering no primary key order is imposed.
func (q *queryable[T]) First(ctx context.Context) (*T, error) {
	tx, err := q.scope(ctx)
	if err != nil {
		return nil, err
	}
	var item T
	if err := tx.Take(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func randomFunc(tx *gorm.DB) string {
	if tx.Dialector != nil && tx.Dialector.Name() == "mysql" {
		return "RAND()"
	}
	return "RANDOM()"
}
