package service

import (
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	sq "github.com/Masterminds/squirrel"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/grid"
	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

const (
	bookIncludes   = "BookAuthors.Author, Genre"
	authorIncludes = "BookAuthors.Book"

	genreNameColumn = "(SELECT genres.name FROM genres WHERE genres.id = books.genre_id)"
)

var (
	BookSortFields   = []string{constants.SortFieldTitle, constants.SortFieldGenre, constants.SortFieldPrice}
	AuthorSortFields = []string{constants.SortFieldFirstName, constants.SortFieldLastName}
	PriceRanges      = []string{constants.PriceUnder7, constants.Price7To14, constants.PriceOver14}
)

var (
	bookTitle   = query.OrderByKey("title", func(b model.Book) string { return b.Title })
	bookGenre   = query.OrderByKey(genreNameColumn, func(b model.Book) string { return b.GenreName() })
	bookPrice   = query.OrderByKey("price", func(b model.Book) float64 { return b.Price })
	authorFirst = query.OrderByKey("first_name", func(a model.Author) string { return a.FirstName })
	authorLast  = query.OrderByKey("last_name", func(a model.Author) string { return a.LastName })
	genreName   = query.OrderByKey("name", func(g model.Genre) string { return g.Name })
)

// BookProjection maps the book grid's route state onto book queries.
func BookProjection() *grid.Projection[model.Book] {
	return grid.NewProjection[model.Book](bookIncludes, constants.SortFieldTitle).
		Sort(constants.SortFieldTitle, bookTitle).
		Sort(constants.SortFieldGenre, bookGenre).
		Sort(constants.SortFieldPrice, bookPrice).
		Filter(constants.FilterPrefixAuthor, authorFilter).
		Filter(constants.FilterPrefixGenre, genreFilter).
		Filter(constants.FilterPrefixPrice, priceFilter)
}

// AuthorProjection maps the author grid's route state onto author queries.
func AuthorProjection() *grid.Projection[model.Author] {
	return grid.NewProjection[model.Author](authorIncludes, constants.SortFieldFirstName).
		Sort(constants.SortFieldFirstName, authorFirst).
		Sort(constants.SortFieldLastName, authorLast)
}

func authorFilter(seg grid.Segment) (query.Clause[model.Book], bool) {
	id, ok := seg.IntValue()
	if !ok {
		return query.Clause[model.Book]{}, false
	}
	return BooksByAuthor(uint(id)), true
}

// BooksByAuthor matches books linked to authorID. The in-memory rendering
// needs the BookAuthors include.
func BooksByAuthor(authorID uint) query.Clause[model.Book] {
	return query.Where[model.Book](
		sq.Expr("id IN (SELECT book_id FROM book_authors WHERE author_id = ?)", authorID),
		func(b model.Book) bool { return b.HasAuthor(authorID) },
	)
}

func genreFilter(seg grid.Segment) (query.Clause[model.Book], bool) {
	return BooksInGenre(seg.Value), true
}

// BooksInGenre matches books of genreID. Genre ids are stored lowercase, so
// both renderings compare against the lowercased id.
func BooksInGenre(genreID string) query.Clause[model.Book] {
	genreID = strings.ToLower(strings.TrimSpace(genreID))
	return query.Where[model.Book](
		sq.Eq{"genre_id": genreID},
		func(b model.Book) bool { return b.GenreID == genreID },
	)
}

func priceFilter(seg grid.Segment) (query.Clause[model.Book], bool) {
	switch strings.ToLower(seg.Value) {
	case constants.PriceUnder7:
		return query.Where[model.Book](
			sq.Lt{"price": constants.PriceLowCap},
			func(b model.Book) bool { return b.Price < constants.PriceLowCap },
		), true
	case constants.Price7To14:
		return query.Where[model.Book](
			sq.And{sq.GtOrEq{"price": constants.PriceLowCap}, sq.LtOrEq{"price": constants.PriceHighCap}},
			func(b model.Book) bool { return b.Price >= constants.PriceLowCap && b.Price <= constants.PriceHighCap },
		), true
	case constants.PriceOver14:
		return query.Where[model.Book](
			sq.Gt{"price": constants.PriceHighCap},
			func(b model.Book) bool { return b.Price > constants.PriceHighCap },
		), true
	default:
		return query.Clause[model.Book]{}, false
	}
}

// AuthorsWithIDs matches authors whose id is one of ids.
func AuthorsWithIDs(ids []uint) query.Clause[model.Author] {
	return query.Where[model.Author](
		sq.Eq{"id": ids},
		func(a model.Author) bool { return slices.Contains(ids, a.ID) },
	)
}

// newSegmentTemplate parses the template rendering an author's filter
// value, e.g. "12-jane-austen".
func newSegmentTemplate(text string) (*template.Template, error) {
	return template.New("author-segment").
		Funcs(sprig.TxtFuncMap()).
		Funcs(template.FuncMap{"slug": grid.Slug}).
		Parse(text)
}
