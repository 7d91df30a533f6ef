package service

import (
	"context"
	"strings"

	"github.com/Payphone-Digital/storefront/internal/dto"
	apperrors "github.com/Payphone-Digital/storefront/internal/errors"
	"github.com/Payphone-Digital/storefront/internal/grid"
	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/internal/repository"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

type AuthorService struct {
	catalogs   repository.CatalogFactory
	grid       *grid.Controller
	projection *grid.Projection[model.Author]
}

func NewAuthorService(catalogs repository.CatalogFactory, ctrl *grid.Controller) *AuthorService {
	return &AuthorService{
		catalogs:   catalogs,
		grid:       ctrl,
		projection: AuthorProjection(),
	}
}

// List renders the client's current page of the author grid. The author
// grid has no filters.
func (s *AuthorService) List(ctx context.Context, clientID string, q dto.GridQuery) (*dto.GridPage[dto.AuthorResponse], error) {
	ctx = withService(ctx, "AuthorList")

	in := q.Input()
	in.Filters = nil
	in.Clear = false

	g, err := runGrid[model.Author](ctx, s.grid, s.projection, s.catalogs.Open().Authors, clientID, in)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list authors").
			Err(err).
			Log()
		return nil, err
	}

	logger.InfoWithContext(ctx, "Authors listed").
		Int("page", g.state.PageNumber).
		Int("page_total", g.pages).
		Int64("total", g.result.Count).
		Log()

	return gridPage(g, toAuthorResponse, AuthorSortFields), nil
}

// Reset forgets the client's author grid state.
func (s *AuthorService) Reset(ctx context.Context, clientID string) error {
	ctx = withService(ctx, "AuthorReset")

	if err := s.grid.Reset(ctx, clientID); err != nil {
		return apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

// Details loads one author with their books.
func (s *AuthorService) Details(ctx context.Context, id uint) (*dto.AuthorResponse, error) {
	ctx = withService(ctx, "AuthorDetails")

	author, err := s.catalogs.Open().Authors.GetByID(ctx, id, query.ParseIncludes(authorIncludes)...)
	if err != nil {
		return nil, storeError(err)
	}
	if author == nil {
		return nil, apperrors.ErrAuthorNotFound
	}

	res := toAuthorResponse(*author)
	return &res, nil
}

func (s *AuthorService) Create(ctx context.Context, req dto.AuthorRequest) (*dto.AuthorResponse, error) {
	ctx = withService(ctx, "AuthorCreate")
	cat := s.catalogs.Open()

	author := &model.Author{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	cat.Authors.Insert(author)
	if err := cat.Save(ctx); err != nil {
		return nil, storeError(err)
	}

	logger.InfoWithContext(ctx, "Author created").
		Int("author_id", int(author.ID)).
		Log()

	res := toAuthorResponse(*author)
	return &res, nil
}

// Delete removes an author that has no books.
func (s *AuthorService) Delete(ctx context.Context, id uint) error {
	ctx = withService(ctx, "AuthorDelete")
	cat := s.catalogs.Open()

	author, err := cat.Authors.GetByID(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if author == nil {
		return apperrors.ErrAuthorNotFound
	}

	links, err := cat.BookAuthors.List(ctx, query.Options[model.BookAuthor]{}.WithWhere(repository.LinksOfAuthor(id)))
	if err != nil {
		return storeError(err)
	}
	if links.Count > 0 {
		return apperrors.ErrAuthorInUse
	}

	cat.Authors.Delete(author)
	if err := cat.Save(ctx); err != nil {
		return storeError(err)
	}

	logger.InfoWithContext(ctx, "Author deleted").
		Int("author_id", int(id)).
		Log()
	return nil
}
