package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/dto"
	apperrors "github.com/Payphone-Digital/storefront/internal/errors"
	"github.com/Payphone-Digital/storefront/internal/grid"
	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/internal/repository"
	"github.com/Payphone-Digital/storefront/internal/service"
	"github.com/Payphone-Digital/storefront/internal/store/memory"
	"github.com/Payphone-Digital/storefront/pkg/cache"
	"github.com/Payphone-Digital/storefront/pkg/database"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

// Seeded author ids, in insertion order.
const (
	janeAusten uint = iota + 1
	agathaChristie
	ursulaLeGuin
	maryBeard
	mayaAngelou
	neilGaiman
	terryPratchett
)

type fixture struct {
	catalogs repository.CatalogFactory
	states   *cache.Cache
	books    *service.BookService
	authors  *service.AuthorService
	genres   *service.GenreService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalogs := memory.NewCatalogTables().Factory()
	require.NoError(t, database.SeedCatalog(context.Background(), catalogs))

	states := cache.NewCache(time.Minute)
	t.Cleanup(func() { _ = states.Close() })

	bookGrid := grid.NewController(constants.GridBooks, grid.Defaults{
		PageSize:  constants.DefaultPageSize,
		SortField: constants.SortFieldTitle,
	}, states, time.Hour)
	authorGrid := grid.NewController(constants.GridAuthors, grid.Defaults{
		PageSize:  constants.DefaultPageSize,
		SortField: constants.SortFieldFirstName,
	}, states, time.Hour)

	books, err := service.NewBookService(catalogs, bookGrid)
	require.NoError(t, err)

	return &fixture{
		catalogs: catalogs,
		states:   states,
		books:    books,
		authors:  service.NewAuthorService(catalogs, authorGrid),
		genres:   service.NewGenreService(catalogs),
	}
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func titles(items []dto.BookResponse) []string {
	out := make([]string, 0, len(items))
	for _, b := range items {
		out = append(out, b.Title)
	}
	return out
}

func TestBookList_FirstVisitUsesDefaults(t *testing.T) {
	f := newFixture(t)

	page, err := f.books.List(context.Background(), "c1", dto.GridQuery{})
	require.NoError(t, err)

	assert.Equal(t, int64(12), page.Count)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Route.PageNumber)
	assert.Equal(t, []string{"American Gods", "And Then There Were None", "Emma", "Good Omens"}, titles(page.Items))
	assert.Equal(t, "Science Fiction", page.Items[0].Genre.Name)
	assert.Empty(t, page.Links.Prev)
	assert.NotEmpty(t, page.Links.Next)
}

func TestBookList_RemembersRouteStatePerClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.books.List(ctx, "c1", dto.GridQuery{Page: intPtr(3), Sort: strPtr("price"), Dir: strPtr("desc")})
	require.NoError(t, err)
	// The sort changed, so the requested page is not honoured.
	page, err := f.books.List(ctx, "c1", dto.GridQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Route.PageNumber)
	assert.Equal(t, "SPQR", page.Items[0].Title)

	page, err = f.books.List(ctx, "c1", dto.GridQuery{Page: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Route.PageNumber)
	assert.Equal(t, []string{"Pride and Prejudice", "Persuasion"}, titles(page.Items)[2:])

	page, err = f.books.List(ctx, "c1", dto.GridQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Route.PageNumber)
	assert.Equal(t, query.Desc, page.Route.SortDirection)

	other, err := f.books.List(ctx, "c2", dto.GridQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, other.Route.PageNumber)
	assert.Equal(t, constants.SortFieldTitle, other.Route.SortField)
}

func TestBookList_PageBeyondEndIsEmpty(t *testing.T) {
	f := newFixture(t)

	page, err := f.books.List(context.Background(), "c1", dto.GridQuery{Page: intPtr(9)})
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.Equal(t, int64(12), page.Count)
	assert.Equal(t, 3, page.TotalPages)
	assert.Empty(t, page.Links.Next)
	assert.NotEmpty(t, page.Links.Prev)
}

func TestBookList_SortLinksToggleCurrentField(t *testing.T) {
	f := newFixture(t)

	page, err := f.books.List(context.Background(), "c1", dto.GridQuery{})
	require.NoError(t, err)

	assert.Contains(t, page.Links.Sort[constants.SortFieldTitle], "dir=desc")
	assert.Contains(t, page.Links.Sort[constants.SortFieldPrice], "dir=asc")
	assert.Contains(t, page.Links.Sort[constants.SortFieldPrice], "sort=price")
	// The page itself is untouched by link building.
	assert.Equal(t, constants.SortFieldTitle, page.Route.SortField)
	assert.Equal(t, query.Asc, page.Route.SortDirection)
}

func TestBookFilter(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.FilterRequest
		filters []string
		count   int64
	}{
		{"author", dto.FilterRequest{AuthorID: "6"}, []string{"author-6-neil-gaiman"}, 2},
		{"genre", dto.FilterRequest{GenreID: "scifi"}, []string{"genre-scifi"}, 4},
		{"under 7", dto.FilterRequest{Price: constants.PriceUnder7}, []string{"price-under7"}, 2},
		{"7 to 14", dto.FilterRequest{Price: constants.Price7To14}, []string{"price-7to14"}, 7},
		{"over 14", dto.FilterRequest{Price: constants.PriceOver14}, []string{"price-over14"}, 3},
		{"combined", dto.FilterRequest{AuthorID: "6", GenreID: "scifi", Price: constants.PriceOver14}, []string{"author-6-neil-gaiman", "genre-scifi", "price-over14"}, 1},
		{"all means none", dto.FilterRequest{AuthorID: "all", GenreID: "all", Price: "all"}, nil, 12},
		{"unknown author dropped", dto.FilterRequest{AuthorID: "99"}, nil, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			state, err := f.books.Filter(ctx, "c1", tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.filters, state.Filters)

			page, err := f.books.List(ctx, "c1", dto.GridQuery{})
			require.NoError(t, err)
			assert.Equal(t, tt.count, page.Count)
		})
	}
}

func TestBookFilter_ResetsPageAndClears(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.books.List(ctx, "c1", dto.GridQuery{Page: intPtr(2)})
	require.NoError(t, err)

	state, err := f.books.Filter(ctx, "c1", dto.FilterRequest{GenreID: "novel"})
	require.NoError(t, err)
	assert.Equal(t, 1, state.PageNumber)

	page, err := f.books.List(ctx, "c1", dto.GridQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Emma", "Persuasion", "Pride and Prejudice"}, titles(page.Items))

	state, err = f.books.Filter(ctx, "c1", dto.FilterRequest{Clear: true})
	require.NoError(t, err)
	assert.False(t, state.HasFilters())

	page, err = f.books.List(ctx, "c1", dto.GridQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.Count)
	assert.False(t, page.Route.HasFilters())
}

func TestBookList_SelectionFromQueryString(t *testing.T) {
	f := newFixture(t)

	page, err := f.books.List(context.Background(), "c1", dto.GridQuery{Author: strPtr("1"), Price: strPtr("under7")})
	require.NoError(t, err)

	assert.Equal(t, []string{"author-1-jane-austen", "price-under7"}, page.Route.Filters)
	assert.Equal(t, []string{"Persuasion", "Pride and Prejudice"}, titles(page.Items))
}

func TestBookDetailsAndRandom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.books.List(ctx, "", dto.GridQuery{Sort: strPtr("title")})
	require.NoError(t, err)
	omens := page.Items[3]
	require.Equal(t, "Good Omens", omens.Title)

	book, err := f.books.Details(ctx, omens.ID)
	require.NoError(t, err)
	assert.Len(t, book.Authors, 2)
	assert.Equal(t, "scifi", book.Genre.ID)

	_, err = f.books.Details(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)

	random, err := f.books.Random(ctx)
	require.NoError(t, err)
	assert.NotZero(t, random.ID)
	assert.NotEmpty(t, random.Authors)
}

func TestBookFilterOptions(t *testing.T) {
	f := newFixture(t)

	opts, err := f.books.FilterOptions(context.Background())
	require.NoError(t, err)

	assert.Len(t, opts.Authors, 7)
	assert.Equal(t, "Agatha Christie", opts.Authors[0].FullName)
	assert.Len(t, opts.Genres, 5)
	assert.Equal(t, "History", opts.Genres[0].Name)
	assert.Equal(t, service.PriceRanges, opts.Prices)
}

func TestBookCreateUpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.books.Create(ctx, dto.BookRequest{
		Title:     " Dune ",
		Price:     9.5,
		GenreID:   "scifi",
		AuthorIDs: []uint{ursulaLeGuin, neilGaiman, ursulaLeGuin},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune", created.Title)
	assert.Len(t, created.Authors, 2)

	updated, err := f.books.Update(ctx, created.ID, dto.BookRequest{
		Title:     "Dune Messiah",
		Price:     10,
		GenreID:   "novel",
		AuthorIDs: []uint{terryPratchett},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, "novel", updated.Genre.ID)
	require.Len(t, updated.Authors, 1)
	assert.Equal(t, terryPratchett, updated.Authors[0].ID)

	require.NoError(t, f.books.Delete(ctx, created.ID))
	_, err = f.books.Details(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)

	links, err := f.catalogs.Open().BookAuthors.List(ctx, query.Options[model.BookAuthor]{}.WithWhere(repository.LinksOfBook(created.ID)))
	require.NoError(t, err)
	assert.Zero(t, links.Count)

	assert.ErrorIs(t, f.books.Delete(ctx, created.ID), apperrors.ErrBookNotFound)
}

func TestBookCreate_RejectsUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.books.Create(ctx, dto.BookRequest{Title: "X", Price: 1, GenreID: "poetry", AuthorIDs: []uint{janeAusten}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = f.books.Create(ctx, dto.BookRequest{Title: "X", Price: 1, GenreID: "novel", AuthorIDs: []uint{janeAusten, 42}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	page, err := f.books.List(ctx, "", dto.GridQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.Count)
}

func TestAuthorList(t *testing.T) {
	f := newFixture(t)

	page, err := f.authors.List(context.Background(), "c1", dto.GridQuery{Sort: strPtr("lastname"), Filter: []string{"genre-novel"}})
	require.NoError(t, err)

	assert.Equal(t, int64(7), page.Count)
	assert.Equal(t, 2, page.TotalPages)
	assert.Nil(t, page.Route.Filters)

	names := make([]string, 0, len(page.Items))
	for _, a := range page.Items {
		names = append(names, a.LastName)
	}
	assert.Equal(t, []string{"Angelou", "Austen", "Beard", "Christie"}, names)
}

func TestAuthorDetailsAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author, err := f.authors.Details(ctx, neilGaiman)
	require.NoError(t, err)
	assert.Len(t, author.Books, 2)

	assert.ErrorIs(t, f.authors.Delete(ctx, neilGaiman), apperrors.ErrAuthorInUse)
	assert.ErrorIs(t, f.authors.Delete(ctx, 404), apperrors.ErrAuthorNotFound)

	created, err := f.authors.Create(ctx, dto.AuthorRequest{FirstName: "Italo", LastName: "Calvino"})
	require.NoError(t, err)
	require.NoError(t, f.authors.Delete(ctx, created.ID))

	_, err = f.authors.Details(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrAuthorNotFound)
}

func TestGenreService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.genres.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "History", all[0].Name)
	assert.Equal(t, "Science Fiction", all[4].Name)

	_, err = f.genres.Create(ctx, dto.GenreRequest{ID: "Novel", Name: "Again"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	created, err := f.genres.Create(ctx, dto.GenreRequest{ID: "Poetry", Name: "Poetry"})
	require.NoError(t, err)
	assert.Equal(t, "poetry", created.ID)

	assert.ErrorIs(t, f.genres.Delete(ctx, "novel"), apperrors.ErrGenreInUse)
	assert.ErrorIs(t, f.genres.Delete(ctx, "nope"), apperrors.ErrGenreNotFound)
	require.NoError(t, f.genres.Delete(ctx, "poetry"))
}

func TestParseID(t *testing.T) {
	id, err := service.ParseID(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	for _, raw := range []string{"", "0", "-1", "abc"} {
		_, err := service.ParseID(raw)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), raw)
	}
}
