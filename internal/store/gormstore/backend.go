package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/internal/repository"
)

// Backend commits a unit of staged changes in a single transaction.
type Backend struct {
	db *gorm.DB
}

func NewBackend(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

// Commit applies changes in order inside one transaction. The first failing
// change rolls back all of them.
func (b *Backend) Commit(ctx context.Context, changes []repository.Change) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, ch := range changes {
			var err error
			switch ch.Op {
			case repository.OpInsert:
				err = tx.Create(ch.Entity).Error
			case repository.OpUpdate:
				err = tx.Save(ch.Entity).Error
			case repository.OpDelete:
				err = tx.Delete(ch.Entity).Error
			default:
				err = fmt.Errorf("unsupported op %d", ch.Op)
			}
			if err != nil {
				return fmt.Errorf("change %d (%s %T): %w", i, ch.Op, ch.Entity, err)
			}
		}
		return nil
	})
}

// Sources exposes the catalog tables of db.
func Sources(db *gorm.DB) repository.Sources {
	return repository.Sources{
		Books:       NewTable[model.Book](db),
		Authors:     NewTable[model.Author](db),
		BookAuthors: NewTable[model.BookAuthor](db),
		Genres:      NewTable[model.Genre](db),
	}
}

// Factory opens catalogs backed by db.
func Factory(db *gorm.DB) repository.CatalogFactory {
	return repository.CatalogFactory{Backend: NewBackend(db), Sources: Sources(db)}
}
