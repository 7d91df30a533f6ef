package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/internal/service"
)

func TestBooksInGenre_RenderingsAgree(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"lowercase", "novel"},
		{"mixed case", "Novel"},
		{"padded", "  NOVEL "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause := service.BooksInGenre(tt.input)

			sql, args, err := clause.Cond.ToSql()
			require.NoError(t, err)
			assert.Equal(t, "genre_id = ?", sql)
			assert.Equal(t, []any{"novel"}, args)

			assert.True(t, clause.Match(model.Book{GenreID: "novel"}))
			assert.False(t, clause.Match(model.Book{GenreID: "history"}))
		})
	}
}
