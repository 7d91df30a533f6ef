package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBook_GenreName(t *testing.T) {
	assert.Equal(t, "novel", Book{GenreID: "novel"}.GenreName())
	assert.Equal(t, "Novel", Book{GenreID: "novel", Genre: &Genre{ID: "novel", Name: "Novel"}}.GenreName())
}

func TestBook_HasAuthor(t *testing.T) {
	b := Book{BookAuthors: []BookAuthor{{BookID: 1, AuthorID: 3}, {BookID: 1, AuthorID: 7}}}

	assert.True(t, b.HasAuthor(7))
	assert.False(t, b.HasAuthor(2))
}

func TestAuthor_FullName(t *testing.T) {
	assert.Equal(t, "Jane Austen", Author{FirstName: "Jane", LastName: "Austen"}.FullName())
	assert.Equal(t, "Plato", Author{LastName: "Plato"}.FullName())
}
