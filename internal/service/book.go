package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/dto"
	apperrors "github.com/Payphone-Digital/storefront/internal/errors"
	"github.com/Payphone-Digital/storefront/internal/grid"
	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/internal/repository"
	ctxutil "github.com/Payphone-Digital/storefront/pkg/context"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

type BookService struct {
	catalogs   repository.CatalogFactory
	grid       *grid.Controller
	projection *grid.Projection[model.Book]
	segment    *template.Template
}

func NewBookService(catalogs repository.CatalogFactory, ctrl *grid.Controller) (*BookService, error) {
	tmpl, err := newSegmentTemplate(constants.AuthorSegmentTemplate)
	if err != nil {
		return nil, fmt.Errorf("author segment template: %w", err)
	}
	return &BookService{
		catalogs:   catalogs,
		grid:       ctrl,
		projection: BookProjection(),
		segment:    tmpl,
	}, nil
}

func withService(ctx context.Context, function string) context.Context {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, function)
	return context.WithValue(ctx, ctxutil.ModuleKey, "service")
}

// List renders the client's current page of the book grid.
func (s *BookService) List(ctx context.Context, clientID string, q dto.GridQuery) (*dto.GridPage[dto.BookResponse], error) {
	ctx = withService(ctx, "BookList")
	cat := s.catalogs.Open()

	in := q.Input()
	if q.HasSelection() && !q.Clear {
		filters, err := s.selectionSegments(ctx, cat, deref(q.Author), deref(q.Genre), deref(q.Price))
		if err != nil {
			return nil, err
		}
		in.Filters = filters
	}

	g, err := runGrid[model.Book](ctx, s.grid, s.projection, cat.Books, clientID, in)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list books").
			Err(err).
			Log()
		return nil, err
	}

	logger.InfoWithContext(ctx, "Books listed").
		Int("page", g.state.PageNumber).
		Int("page_total", g.pages).
		Int64("total", g.result.Count).
		Bool("filtered", g.result.Filtered).
		Strings("filters", g.state.Filters).
		Log()

	return gridPage(g, toBookResponse, BookSortFields), nil
}

// Filter applies or clears the book filters for clientID and returns the
// saved route state.
func (s *BookService) Filter(ctx context.Context, clientID string, req dto.FilterRequest) (grid.RouteState, error) {
	ctx = withService(ctx, "BookFilter")

	state, err := s.grid.Load(ctx, clientID)
	if err != nil {
		return grid.RouteState{}, err
	}

	in := grid.Input{Clear: req.Clear}
	if !req.Clear {
		filters, err := s.selectionSegments(ctx, s.catalogs.Open(), req.AuthorID, req.GenreID, req.Price)
		if err != nil {
			return grid.RouteState{}, err
		}
		in.Filters = filters
	}

	state = s.grid.Merge(state, in)
	if err := s.grid.Save(ctx, clientID, state); err != nil {
		return grid.RouteState{}, apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}

	logger.InfoWithContext(ctx, "Book filters applied").
		Bool("clear", req.Clear).
		Strings("filters", state.Filters).
		Log()

	return state, nil
}

// Reset forgets the client's book grid state.
func (s *BookService) Reset(ctx context.Context, clientID string) error {
	ctx = withService(ctx, "BookReset")

	if err := s.grid.Reset(ctx, clientID); err != nil {
		return apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

// selectionSegments encodes a drop-down selection as filter segments. An
// author that cannot be read or does not exist is left out.
func (s *BookService) selectionSegments(ctx context.Context, cat *repository.Catalog, author, genre, price string) ([]string, error) {
	filters := []string{}

	if seg := grid.NewSegment(constants.FilterPrefixAuthor, author); !seg.IsAll() {
		if id, ok := seg.IntValue(); ok {
			a, err := cat.Authors.GetByID(ctx, uint(id))
			if err != nil {
				return nil, storeError(err)
			}
			if a != nil {
				value, err := s.authorSegmentValue(*a)
				if err != nil {
					return nil, apperrors.WrapError(apperrors.ErrInternal, err)
				}
				filters = append(filters, grid.NewSegment(constants.FilterPrefixAuthor, value).String())
			}
		}
	}

	if seg := grid.NewSegment(constants.FilterPrefixGenre, genre); !seg.IsAll() {
		filters = append(filters, seg.String())
	}
	if seg := grid.NewSegment(constants.FilterPrefixPrice, price); !seg.IsAll() {
		filters = append(filters, seg.String())
	}
	return filters, nil
}

func (s *BookService) authorSegmentValue(a model.Author) (string, error) {
	var b strings.Builder
	if err := s.segment.Execute(&b, a); err != nil {
		return "", err
	}
	return strings.Trim(b.String(), "-"), nil
}

// FilterOptions lists the values offered by the filter drop-downs.
func (s *BookService) FilterOptions(ctx context.Context) (*dto.BookFilterOptions, error) {
	ctx = withService(ctx, "BookFilterOptions")
	cat := s.catalogs.Open()

	authors, err := cat.Authors.List(ctx, query.Options[model.Author]{}.WithOrder(authorFirst, query.Asc))
	if err != nil {
		return nil, storeError(err)
	}
	genres, err := cat.Genres.List(ctx, query.Options[model.Genre]{}.WithOrder(genreName, query.Asc))
	if err != nil {
		return nil, storeError(err)
	}

	opts := &dto.BookFilterOptions{
		Authors: make([]dto.AuthorSummary, 0, len(authors.Items)),
		Genres:  make([]dto.GenreResponse, 0, len(genres.Items)),
		Prices:  PriceRanges,
	}
	for _, a := range authors.Items {
		opts.Authors = append(opts.Authors, toAuthorSummary(a))
	}
	for _, g := range genres.Items {
		opts.Genres = append(opts.Genres, toGenreResponse(g))
	}
	return opts, nil
}

// Details loads one book with its authors and genre.
func (s *BookService) Details(ctx context.Context, id uint) (*dto.BookResponse, error) {
	ctx = withService(ctx, "BookDetails")

	book, err := s.catalogs.Open().Books.GetByID(ctx, id, query.ParseIncludes(bookIncludes)...)
	if err != nil {
		return nil, storeError(err)
	}
	if book == nil {
		logger.InfoWithContext(ctx, "Book not found").
			Int("book_id", int(id)).
			Log()
		return nil, apperrors.ErrBookNotFound
	}

	res := toBookResponse(*book)
	return &res, nil
}

// Random picks one book for the home page.
func (s *BookService) Random(ctx context.Context) (*dto.BookResponse, error) {
	ctx = withService(ctx, "BookRandom")

	opts := query.Options[model.Book]{}.
		WithIncludes(bookIncludes).
		WithOrder(query.Random[model.Book](), query.Asc)
	book, err := s.catalogs.Open().Books.Get(ctx, opts)
	if err != nil {
		return nil, storeError(err)
	}
	if book == nil {
		return nil, apperrors.ErrBookNotFound
	}

	res := toBookResponse(*book)
	return &res, nil
}

func (s *BookService) Create(ctx context.Context, req dto.BookRequest) (*dto.BookResponse, error) {
	ctx = withService(ctx, "BookCreate")
	cat := s.catalogs.Open()

	if err := s.checkReferences(ctx, cat, req); err != nil {
		return nil, err
	}

	book := &model.Book{
		Title:   strings.TrimSpace(req.Title),
		Price:   req.Price,
		GenreID: req.GenreID,
	}
	cat.LoadNewBookAuthors(book, req.AuthorIDs)
	cat.Books.Insert(book)

	if err := cat.Save(ctx); err != nil {
		return nil, storeError(err)
	}

	logger.InfoWithContext(ctx, "Book created").
		Int("book_id", int(book.ID)).
		Int("authors", len(book.BookAuthors)).
		Log()

	return s.Details(ctx, book.ID)
}

func (s *BookService) Update(ctx context.Context, id uint, req dto.BookRequest) (*dto.BookResponse, error) {
	ctx = withService(ctx, "BookUpdate")
	cat := s.catalogs.Open()

	book, err := cat.Books.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if book == nil {
		return nil, apperrors.ErrBookNotFound
	}
	if err := s.checkReferences(ctx, cat, req); err != nil {
		return nil, err
	}

	if err := cat.DeleteCurrentBookAuthors(ctx, book); err != nil {
		return nil, storeError(err)
	}
	book.Title = strings.TrimSpace(req.Title)
	book.Price = req.Price
	book.GenreID = req.GenreID
	book.Genre = nil
	cat.LoadNewBookAuthors(book, req.AuthorIDs)
	cat.Books.Update(book)

	if err := cat.Save(ctx); err != nil {
		return nil, storeError(err)
	}

	logger.InfoWithContext(ctx, "Book updated").
		Int("book_id", int(id)).
		Log()

	return s.Details(ctx, id)
}

func (s *BookService) Delete(ctx context.Context, id uint) error {
	ctx = withService(ctx, "BookDelete")
	cat := s.catalogs.Open()

	book, err := cat.Books.GetByID(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if book == nil {
		return apperrors.ErrBookNotFound
	}

	if err := cat.DeleteCurrentBookAuthors(ctx, book); err != nil {
		return storeError(err)
	}
	cat.Books.Delete(book)

	if err := cat.Save(ctx); err != nil {
		return storeError(err)
	}

	logger.InfoWithContext(ctx, "Book deleted").
		Int("book_id", int(id)).
		Log()
	return nil
}

// checkReferences verifies that the genre and every author of req exist.
func (s *BookService) checkReferences(ctx context.Context, cat *repository.Catalog, req dto.BookRequest) error {
	genre, err := cat.Genres.GetByID(ctx, req.GenreID)
	if err != nil {
		return storeError(err)
	}
	if genre == nil {
		return apperrors.WrapError(apperrors.ErrInvalidInput, fmt.Errorf("genre %q does not exist", req.GenreID))
	}

	ids := uniqueIDs(req.AuthorIDs)
	if len(ids) == 0 {
		return apperrors.WrapError(apperrors.ErrInvalidInput, fmt.Errorf("a book needs at least one author"))
	}
	found, err := cat.Authors.List(ctx, query.Options[model.Author]{}.WithWhere(AuthorsWithIDs(ids)))
	if err != nil {
		return storeError(err)
	}
	if found.Count != int64(len(ids)) {
		return apperrors.WrapError(apperrors.ErrInvalidInput, fmt.Errorf("%d of %d authors do not exist", int64(len(ids))-found.Count, len(ids)))
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ParseID reads a positive numeric id.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.WrapError(apperrors.ErrInvalidInput, fmt.Errorf("invalid id %q", raw))
	}
	return uint(id), nil
}
