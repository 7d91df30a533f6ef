package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

// Sources groups the store sources of every catalog entity kind.
type Sources struct {
	Books       Source[model.Book]
	Authors     Source[model.Author]
	BookAuthors Source[model.BookAuthor]
	Genres      Source[model.Genre]
}

// Catalog is the bookstore unit of work: one repository per entity kind, all
// staging on the same Unit.
type Catalog struct {
	Books       *Repository[model.Book]
	Authors     *Repository[model.Author]
	BookAuthors *Repository[model.BookAuthor]
	Genres      *Repository[model.Genre]

	unit *Unit
}

func NewCatalog(backend Backend, src Sources) *Catalog {
	unit := NewUnit(backend)
	return &Catalog{
		Books:       New("book", src.Books, unit),
		Authors:     New("author", src.Authors, unit),
		BookAuthors: New("book_author", src.BookAuthors, unit),
		Genres:      New("genre", src.Genres, unit),
		unit:        unit,
	}
}

// CatalogFactory opens a fresh Catalog per request.
type CatalogFactory struct {
	Backend Backend
	Sources Sources
}

func (f CatalogFactory) Open() *Catalog {
	return NewCatalog(f.Backend, f.Sources)
}

// LinksOfBook matches every author link of bookID.
func LinksOfBook(bookID uint) query.Clause[model.BookAuthor] {
	return query.Where[model.BookAuthor](
		sq.Eq{"book_id": bookID},
		func(ba model.BookAuthor) bool { return ba.BookID == bookID },
	)
}

// LinksOfAuthor matches every book link of authorID.
func LinksOfAuthor(authorID uint) query.Clause[model.BookAuthor] {
	return query.Where[model.BookAuthor](
		sq.Eq{"author_id": authorID},
		func(ba model.BookAuthor) bool { return ba.AuthorID == authorID },
	)
}

// DeleteCurrentBookAuthors stages removal of every persisted author link of
// book.
func (c *Catalog) DeleteCurrentBookAuthors(ctx context.Context, book *model.Book) error {
	res, err := c.BookAuthors.List(ctx, query.Options[model.BookAuthor]{}.WithWhere(LinksOfBook(book.ID)))
	if err != nil {
		return err
	}
	for i := range res.Items {
		c.BookAuthors.Delete(&res.Items[i])
	}
	return nil
}

// LoadNewBookAuthors replaces the in-memory author links of book with one
// link per id. Duplicate ids are collapsed.
func (c *Catalog) LoadNewBookAuthors(book *model.Book, authorIDs []uint) {
	seen := make(map[uint]bool, len(authorIDs))
	links := make([]model.BookAuthor, 0, len(authorIDs))
	for _, id := range authorIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, model.BookAuthor{BookID: book.ID, AuthorID: id})
	}
	book.BookAuthors = links
}

// Save commits every change staged through any catalog repository.
func (c *Catalog) Save(ctx context.Context) error {
	return c.unit.Commit(ctx)
}

// Pending is the number of changes waiting for Save.
func (c *Catalog) Pending() int {
	return c.unit.Pending()
}
