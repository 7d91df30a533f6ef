package memory

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/internal/repository"
)

// CatalogTables is an in-memory catalog: one table per entity kind with the
// relations between them resolved on include.
type CatalogTables struct {
	Store       *Store
	Books       *Table[model.Book]
	Authors     *Table[model.Author]
	BookAuthors *Table[model.BookAuthor]
	Genres      *Table[model.Genre]
}

func bookKey(b *model.Book) string       { return strconv.FormatUint(uint64(b.ID), 10) }
func authorKey(a *model.Author) string   { return strconv.FormatUint(uint64(a.ID), 10) }
func genreKey(g *model.Genre) string     { return g.ID }
func linkKey(l *model.BookAuthor) string { return fmt.Sprintf("%d:%d", l.BookID, l.AuthorID) }

func NewCatalogTables() *CatalogTables {
	s := NewStore()
	c := &CatalogTables{Store: s}

	c.Books = Register(s, "books", bookKey,
		WithSequence(func(b *model.Book) uint { return b.ID }, func(b *model.Book, id uint) { b.ID = id }),
		WithNormalize(func(b *model.Book) {
			b.Genre = nil
			b.BookAuthors = nil
		}),
		WithAfterWrite(saveBookLinks),
	)
	c.Authors = Register(s, "authors", authorKey,
		WithSequence(func(a *model.Author) uint { return a.ID }, func(a *model.Author, id uint) { a.ID = id }),
		WithNormalize(func(a *model.Author) { a.BookAuthors = nil }),
	)
	c.BookAuthors = Register(s, "book_authors", linkKey,
		WithNormalize(func(l *model.BookAuthor) {
			l.Book = nil
			l.Author = nil
		}),
	)
	c.Genres = Register(s, "genres", genreKey,
		WithNormalize(func(g *model.Genre) { g.Books = nil }),
	)

	c.registerResolvers()
	return c
}

// saveBookLinks writes the author links carried by a book, skipping links
// that already exist.
func saveBookLinks(tx *Tx, op repository.Op, b *model.Book) error {
	if op != repository.OpInsert && op != repository.OpUpdate {
		return nil
	}
	for _, ba := range b.BookAuthors {
		link := model.BookAuthor{BookID: b.ID, AuthorID: ba.AuthorID}
		if err := tx.Apply(repository.OpInsert, &link); err != nil && !errors.Is(err, ErrDuplicateKey) {
			return err
		}
	}
	return nil
}

func (c *CatalogTables) registerResolvers() {
	c.Books.Resolve("Genre", func(books []model.Book) {
		genres := c.genresByID()
		for i := range books {
			if g, ok := genres[books[i].GenreID]; ok {
				books[i].Genre = &g
			}
		}
	})
	c.Books.Resolve("BookAuthors", func(books []model.Book) {
		links := c.linksBy(func(l model.BookAuthor) uint { return l.BookID })
		for i := range books {
			books[i].BookAuthors = append([]model.BookAuthor(nil), links[books[i].ID]...)
		}
	})
	c.Books.Resolve("BookAuthors.Author", func(books []model.Book) {
		links := c.linksBy(func(l model.BookAuthor) uint { return l.BookID })
		authors := c.authorsByID()
		for i := range books {
			own := append([]model.BookAuthor(nil), links[books[i].ID]...)
			for j := range own {
				if a, ok := authors[own[j].AuthorID]; ok {
					own[j].Author = &a
				}
			}
			books[i].BookAuthors = own
		}
	})

	c.Authors.Resolve("BookAuthors", func(authors []model.Author) {
		links := c.linksBy(func(l model.BookAuthor) uint { return l.AuthorID })
		for i := range authors {
			authors[i].BookAuthors = append([]model.BookAuthor(nil), links[authors[i].ID]...)
		}
	})
	c.Authors.Resolve("BookAuthors.Book", func(authors []model.Author) {
		links := c.linksBy(func(l model.BookAuthor) uint { return l.AuthorID })
		books := c.booksByID()
		for i := range authors {
			own := append([]model.BookAuthor(nil), links[authors[i].ID]...)
			for j := range own {
				if b, ok := books[own[j].BookID]; ok {
					own[j].Book = &b
				}
			}
			authors[i].BookAuthors = own
		}
	})

	c.BookAuthors.Resolve("Book", func(links []model.BookAuthor) {
		books := c.booksByID()
		for i := range links {
			if b, ok := books[links[i].BookID]; ok {
				links[i].Book = &b
			}
		}
	})
	c.BookAuthors.Resolve("Author", func(links []model.BookAuthor) {
		authors := c.authorsByID()
		for i := range links {
			if a, ok := authors[links[i].AuthorID]; ok {
				links[i].Author = &a
			}
		}
	})

	c.Genres.Resolve("Books", func(genres []model.Genre) {
		byGenre := make(map[string][]model.Book)
		for _, b := range c.Books.All() {
			byGenre[b.GenreID] = append(byGenre[b.GenreID], b)
		}
		for i := range genres {
			genres[i].Books = byGenre[genres[i].ID]
		}
	})
}

func (c *CatalogTables) genresByID() map[string]model.Genre {
	out := make(map[string]model.Genre)
	for _, g := range c.Genres.All() {
		out[g.ID] = g
	}
	return out
}

func (c *CatalogTables) authorsByID() map[uint]model.Author {
	out := make(map[uint]model.Author)
	for _, a := range c.Authors.All() {
		out[a.ID] = a
	}
	return out
}

func (c *CatalogTables) booksByID() map[uint]model.Book {
	out := make(map[uint]model.Book)
	for _, b := range c.Books.All() {
		out[b.ID] = b
	}
	return out
}

func (c *CatalogTables) linksBy(key func(model.BookAuthor) uint) map[uint][]model.BookAuthor {
	out := make(map[uint][]model.BookAuthor)
	for _, l := range c.BookAuthors.All() {
		out[key(l)] = append(out[key(l)], l)
	}
	return out
}

// Sources exposes the tables as repository sources.
func (c *CatalogTables) Sources() repository.Sources {
	return repository.Sources{
		Books:       c.Books,
		Authors:     c.Authors,
		BookAuthors: c.BookAuthors,
		Genres:      c.Genres,
	}
}

// Factory opens catalogs backed by these tables.
func (c *CatalogTables) Factory() repository.CatalogFactory {
	return repository.CatalogFactory{Backend: c.Store, Sources: c.Sources()}
}
