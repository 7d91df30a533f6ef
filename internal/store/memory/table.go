package memory

import (
	"fmt"
	"reflect"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/Payphone-Digital/storefront/internal/repository"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

// Table holds the rows of one entity kind in insertion order.
type Table[T any] struct {
	store     *Store
	name      string
	key       func(*T) string
	keyColumn string

	getID func(*T) uint
	setID func(*T, uint)
	next  uint

	normalize  func(*T)
	afterWrite func(tx *Tx, op repository.Op, item *T) error
	resolvers  map[string]func(items []T)

	rows  []T
	index map[string]int
}

type TableOption[T any] func(*Table[T])

// WithSequence assigns ascending ids to inserted rows whose id is zero.
func WithSequence[T any](get func(*T) uint, set func(*T, uint)) TableOption[T] {
	return func(t *Table[T]) {
		t.getID = get
		t.setID = set
	}
}

// WithNormalize rewrites every stored copy, e.g. to drop relation fields
// that live in other tables.
func WithNormalize[T any](fn func(*T)) TableOption[T] {
	return func(t *Table[T]) {
		t.normalize = fn
	}
}

// WithAfterWrite runs fn after each insert or update inside the same commit.
func WithAfterWrite[T any](fn func(tx *Tx, op repository.Op, item *T) error) TableOption[T] {
	return func(t *Table[T]) {
		t.afterWrite = fn
	}
}

// WithKeyColumn names the primary key column used by KeyClause. Defaults to
// "id".
func WithKeyColumn[T any](column string) TableOption[T] {
	return func(t *Table[T]) {
		t.keyColumn = column
	}
}

// Register creates the table for T in s. key renders the primary key of a
// row.
func Register[T any](s *Store, name string, key func(*T) string, opts ...TableOption[T]) *Table[T] {
	t := &Table[T]{
		store:     s,
		name:      name,
		key:       key,
		keyColumn: "id",
		next:      1,
		resolvers: make(map[string]func(items []T)),
		index:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(t)
	}
	s.register(reflect.TypeOf((*T)(nil)), t)
	return t
}

// Resolve registers the loader for an include path. fn fills relation fields
// of items in place.
func (t *Table[T]) Resolve(path string, fn func(items []T)) {
	t.resolvers[strings.ToLower(path)] = fn
}

// Name is the table name.
func (t *Table[T]) Name() string {
	return t.name
}

// All returns a copy of every row.
func (t *Table[T]) All() []T {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return append([]T(nil), t.rows...)
}

// Len is the number of rows.
func (t *Table[T]) Len() int {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return len(t.rows)
}

// Query implements repository.Source.
func (t *Table[T]) Query() repository.Queryable[T] {
	return &queryable[T]{table: t}
}

// KeyClause implements repository.Source.
func (t *Table[T]) KeyClause(id any) query.Clause[T] {
	want := fmt.Sprint(id)
	return query.Where[T](sq.Eq{t.keyColumn: id}, func(item T) bool {
		return t.key(&item) == want
	})
}

func (t *Table[T]) begin() tableTx {
	index := make(map[string]int, len(t.index))
	for k, v := range t.index {
		index[k] = v
	}
	return &tableState[T]{
		table: t,
		rows:  append([]T(nil), t.rows...),
		index: index,
		next:  t.next,
	}
}

type tableState[T any] struct {
	table *Table[T]
	rows  []T
	index map[string]int
	next  uint
	// assigned holds the sequence ids handed out in this commit. They reach
	// the caller's entities only once the commit succeeds.
	assigned []assignedID[T]
}

type assignedID[T any] struct {
	item *T
	id   uint
}

func (ts *tableState[T]) apply(tx *Tx, op repository.Op, entity any) error {
	item, ok := entity.(*T)
	if !ok || item == nil {
		return fmt.Errorf("%w: %T", ErrUnknownEntity, entity)
	}
	t := ts.table

	switch op {
	case repository.OpInsert:
		staged := *item
		if t.setID != nil {
			if id := t.getID(&staged); id == 0 {
				t.setID(&staged, ts.next)
				ts.assigned = append(ts.assigned, assignedID[T]{item: item, id: ts.next})
				ts.next++
			} else if id >= ts.next {
				ts.next = id + 1
			}
		}
		k := t.key(&staged)
		if _, exists := ts.index[k]; exists {
			return fmt.Errorf("%w: %s %s", ErrDuplicateKey, t.name, k)
		}
		ts.index[k] = len(ts.rows)
		ts.rows = append(ts.rows, ts.stored(&staged))
		item = &staged

	case repository.OpUpdate:
		k := t.key(item)
		i, exists := ts.index[k]
		if !exists {
			return fmt.Errorf("%w: %s %s", ErrNotFound, t.name, k)
		}
		ts.rows[i] = ts.stored(item)

	case repository.OpDelete:
		k := t.key(item)
		i, exists := ts.index[k]
		if !exists {
			return nil
		}
		ts.rows = append(ts.rows[:i], ts.rows[i+1:]...)
		delete(ts.index, k)
		for j := i; j < len(ts.rows); j++ {
			ts.index[t.key(&ts.rows[j])] = j
		}
		return nil

	default:
		return fmt.Errorf("memory: unsupported op %d", op)
	}

	if t.afterWrite != nil {
		return t.afterWrite(tx, op, item)
	}
	return nil
}

func (ts *tableState[T]) stored(item *T) T {
	row := *item
	if ts.table.normalize != nil {
		ts.table.normalize(&row)
	}
	return row
}

func (ts *tableState[T]) commit() {
	ts.table.rows = ts.rows
	ts.table.index = ts.index
	ts.table.next = ts.next
	for _, a := range ts.assigned {
		ts.table.setID(a.item, a.id)
	}
}
