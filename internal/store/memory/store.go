// Package memory is an in-process store for catalog entities. Commits are
// all-or-nothing: changes are applied to copies of the tables involved and
// swapped in only when every change succeeded.
package memory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/Payphone-Digital/storefront/internal/repository"
)

var (
	ErrDuplicateKey  = errors.New("memory: duplicate key")
	ErrNotFound      = errors.New("memory: row not found")
	ErrUnknownEntity = errors.New("memory: entity kind not registered")
	ErrUnknownPath   = errors.New("memory: unknown include path")
	ErrNoMatcher     = errors.New("memory: clause has no in-memory matcher")
)

// Store owns every registered table and implements repository.Backend.
type Store struct {
	mu     sync.RWMutex
	tables map[reflect.Type]anyTable
}

func NewStore() *Store {
	return &Store{tables: make(map[reflect.Type]anyTable)}
}

type anyTable interface {
	begin() tableTx
}

type tableTx interface {
	apply(tx *Tx, op repository.Op, entity any) error
	commit()
}

// Tx is the in-flight state of one Commit. After-write hooks use it to write
// into other tables as part of the same commit.
type Tx struct {
	store   *Store
	touched map[reflect.Type]tableTx
	order   []reflect.Type
}

// Apply stages one more change in the running commit.
func (tx *Tx) Apply(op repository.Op, entity any) error {
	typ := reflect.TypeOf(entity)
	tt, ok := tx.touched[typ]
	if !ok {
		table, registered := tx.store.tables[typ]
		if !registered {
			return fmt.Errorf("%w: %s", ErrUnknownEntity, typ)
		}
		tt = table.begin()
		tx.touched[typ] = tt
		tx.order = append(tx.order, typ)
	}
	return tt.apply(tx, op, entity)
}

// Commit applies changes atomically.
func (s *Store) Commit(ctx context.Context, changes []repository.Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{store: s, touched: make(map[reflect.Type]tableTx)}
	for i, ch := range changes {
		if err := tx.Apply(ch.Op, ch.Entity); err != nil {
			return fmt.Errorf("change %d (%s %T): %w", i, ch.Op, ch.Entity, err)
		}
	}

	for _, typ := range tx.order {
		tx.touched[typ].commit()
	}
	return nil
}

func (s *Store) register(typ reflect.Type, t anyTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[typ] = t
}
