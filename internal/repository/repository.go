package repository

import (
	"context"
	"fmt"
	"time"

	ctxutil "github.com/Payphone-Digital/storefront/pkg/context"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

// Result is one executed List call.
type Result[T any] struct {
	Items []T
	// Count is the number of entities matching every where clause, ignoring
	// paging. Without clauses it is the unfiltered total.
	Count int64
	// Filtered reports whether any where clause was applied.
	Filtered bool
}

// Repository executes query specifications for one entity kind and stages
// writes on a shared Unit.
type Repository[T any] struct {
	name   string
	source Source[T]
	unit   *Unit
}

func New[T any](name string, source Source[T], unit *Unit) *Repository[T] {
	return &Repository[T]{name: name, source: source, unit: unit}
}

func (r *Repository[T]) withLogContext(ctx context.Context, function string) context.Context {
	ctx = ctxutil.WithValue(ctx, ctxutil.FunctionKey, function)
	return ctxutil.WithValue(ctx, ctxutil.ModuleKey, "repository")
}

// filtered applies includes and every where clause, in that order.
func (r *Repository[T]) filtered(opts query.Options[T]) Queryable[T] {
	q := r.source.Query()
	for _, path := range opts.Includes {
		q = q.Include(path)
	}
	for _, c := range opts.Where {
		q = q.Where(c)
	}
	return q
}

// List runs opts: includes, where clauses, filtered count, ordering, paging.
// The count is computed fresh on every call.
func (r *Repository[T]) List(ctx context.Context, opts query.Options[T]) (Result[T], error) {
	ctx = r.withLogContext(ctx, "List")

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			String("entity", r.name).
			Err(err).
			Log()
		return Result[T]{}, err
	}

	start := time.Now()
	q := r.filtered(opts)
	res := Result[T]{Filtered: opts.HasWhere()}

	if res.Filtered {
		count, err := q.Count(ctx)
		if err != nil {
			return Result[T]{}, r.queryFailed(ctx, "count", start, err)
		}
		res.Count = count
	}

	if opts.HasOrderBy() {
		q = q.Order(*opts.OrderBy, opts.Direction)
	}
	if opts.HasPaging() {
		q = q.Page(opts.Skip(), opts.PageSize)
	}

	items, err := q.Find(ctx)
	if err != nil {
		return Result[T]{}, r.queryFailed(ctx, "find", start, err)
	}
	res.Items = items

	if !res.Filtered {
		if opts.HasPaging() {
			total, err := r.source.Query().Count(ctx)
			if err != nil {
				return Result[T]{}, r.queryFailed(ctx, "count", start, err)
			}
			res.Count = total
		} else {
			res.Count = int64(len(items))
		}
	}

	logger.DebugWithContext(ctx, "Repository: list executed").
		String("entity", r.name).
		Int("where_clauses", len(opts.Where)).
		Int("page", opts.PageNumber).
		Int("page_size", opts.PageSize).
		Int64("count", res.Count).
		Int("returned", len(items)).
		Duration(time.Since(start)).
		Log()

	return res, nil
}

// Get runs opts and returns the first match, or nil when there is none.
func (r *Repository[T]) Get(ctx context.Context, opts query.Options[T]) (*T, error) {
	ctx = r.withLogContext(ctx, "Get")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	q := r.filtered(opts)
	if opts.HasOrderBy() {
		q = q.Order(*opts.OrderBy, opts.Direction)
	}
	if opts.HasPaging() {
		q = q.Page(opts.Skip(), opts.PageSize)
	}

	item, err := q.First(ctx)
	if err != nil {
		return nil, r.queryFailed(ctx, "first", start, err)
	}

	logger.DebugWithContext(ctx, "Repository: get executed").
		String("entity", r.name).
		Bool("found", item != nil).
		Duration(time.Since(start)).
		Log()

	return item, nil
}

// GetByID loads the entity with primary key id and the given include paths.
func (r *Repository[T]) GetByID(ctx context.Context, id any, includes ...string) (*T, error) {
	opts := query.Options[T]{Includes: includes}.WithWhere(r.source.KeyClause(id))
	return r.Get(ctx, opts)
}

// Count is the unfiltered number of entities.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	ctx = r.withLogContext(ctx, "Count")

	start := time.Now()
	n, err := r.source.Query().Count(ctx)
	if err != nil {
		return 0, r.queryFailed(ctx, "count", start, err)
	}
	return n, nil
}

func (r *Repository[T]) Insert(entity *T) {
	if entity != nil {
		r.unit.stage(OpInsert, entity)
	}
}

func (r *Repository[T]) Update(entity *T) {
	if entity != nil {
		r.unit.stage(OpUpdate, entity)
	}
}

func (r *Repository[T]) Delete(entity *T) {
	if entity != nil {
		r.unit.stage(OpDelete, entity)
	}
}

// Save commits the shared unit, including changes staged through other
// repositories on it.
func (r *Repository[T]) Save(ctx context.Context) error {
	return r.unit.Commit(ctx)
}

func (r *Repository[T]) queryFailed(ctx context.Context, step string, start time.Time, err error) error {
	logger.ErrorWithContext(ctx, "Repository: query failed").
		String("entity", r.name).
		String("step", step).
		Duration(time.Since(start)).
		Err(err).
		Log()
	return fmt.Errorf("%w: %s %s: %w", ErrQueryFailed, r.name, step, err)
}
