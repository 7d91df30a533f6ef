package repository

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/storefront/pkg/query"
)

var (
	// ErrCommitFailed wraps every failed unit commit.
	ErrCommitFailed = errors.New("repository: commit failed")
	// ErrQueryFailed wraps every failed read against the store.
	ErrQueryFailed = errors.New("repository: query failed")
)

// Queryable is a deferred, composable query over one entity kind. Each call
// returns a new Queryable; nothing runs until Count, Find or First.
type Queryable[T any] interface {
	Include(path string) Queryable[T]
	Where(c query.Clause[T]) Queryable[T]
	Order(key query.OrderBy[T], dir query.Direction) Queryable[T]
	Page(skip, take int) Queryable[T]

	Count(ctx context.Context) (int64, error)
	Find(ctx context.Context) ([]T, error)
	// First returns nil, nil when nothing matches.
	First(ctx context.Context) (*T, error)
}

// Source hands out queries over the persisted collection of T.
type Source[T any] interface {
	Query() Queryable[T]
	// KeyClause matches the entity whose primary key equals id.
	KeyClause(id any) query.Clause[T]
}

// Op is a staged change kind.
type Op int

const (
	OpInsert Op = iota + 1
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is one staged mutation. Entity is a pointer to a model value.
type Change struct {
	Op     Op
	Entity any
}

// Backend applies a set of changes atomically: either all of them become
// visible or none do.
type Backend interface {
	Commit(ctx context.Context, changes []Change) error
}
