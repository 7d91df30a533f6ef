package database

import (
	"fmt"

	"gorm.io/gorm"
)

// catalogIndexes back the grid sorts and filters that the model tags do not
// cover. Postgres only.
var catalogIndexes = []string{
	// price range filter combined with the default title sort
	"CREATE INDEX IF NOT EXISTS idx_books_price_title ON books(price, title);",
	// genre filter combined with the default title sort
	"CREATE INDEX IF NOT EXISTS idx_books_genre_title ON books(genre_id, title);",
	// case-insensitive genre lookups
	"CREATE INDEX IF NOT EXISTS idx_genres_name_lower ON genres(LOWER(name));",
}

// CatalogIndexes creates the extra catalog indexes. Other dialects are
// skipped.
func CatalogIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, stmt := range catalogIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
