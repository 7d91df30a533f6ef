package service

import (
	"context"
	"strings"

	"github.com/Payphone-Digital/storefront/internal/dto"
	apperrors "github.com/Payphone-Digital/storefront/internal/errors"
	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/internal/repository"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

type GenreService struct {
	catalogs repository.CatalogFactory
}

func NewGenreService(catalogs repository.CatalogFactory) *GenreService {
	return &GenreService{catalogs: catalogs}
}

// All lists genres ordered by name.
func (s *GenreService) All(ctx context.Context) ([]dto.GenreResponse, error) {
	ctx = withService(ctx, "GenreAll")

	res, err := s.catalogs.Open().Genres.List(ctx, query.Options[model.Genre]{}.WithOrder(genreName, query.Asc))
	if err != nil {
		return nil, storeError(err)
	}

	out := make([]dto.GenreResponse, 0, len(res.Items))
	for _, g := range res.Items {
		out = append(out, toGenreResponse(g))
	}
	return out, nil
}

func (s *GenreService) Create(ctx context.Context, req dto.GenreRequest) (*dto.GenreResponse, error) {
	ctx = withService(ctx, "GenreCreate")
	cat := s.catalogs.Open()

	id := strings.ToLower(strings.TrimSpace(req.ID))
	existing, err := cat.Genres.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicate
	}

	genre := &model.Genre{ID: id, Name: strings.TrimSpace(req.Name)}
	cat.Genres.Insert(genre)
	if err := cat.Save(ctx); err != nil {
		return nil, storeError(err)
	}

	logger.InfoWithContext(ctx, "Genre created").
		String("genre_id", genre.ID).
		Log()

	res := toGenreResponse(*genre)
	return &res, nil
}

// Delete removes a genre no book belongs to.
func (s *GenreService) Delete(ctx context.Context, id string) error {
	ctx = withService(ctx, "GenreDelete")
	cat := s.catalogs.Open()

	genre, err := cat.Genres.GetByID(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if genre == nil {
		return apperrors.ErrGenreNotFound
	}

	books, err := cat.Books.List(ctx, query.Options[model.Book]{}.WithWhere(BooksInGenre(id)).WithPage(1, 1))
	if err != nil {
		return storeError(err)
	}
	if books.Count > 0 {
		return apperrors.ErrGenreInUse
	}

	cat.Genres.Delete(genre)
	if err := cat.Save(ctx); err != nil {
		return storeError(err)
	}

	logger.InfoWithContext(ctx, "Genre deleted").
		String("genre_id", id).
		Log()
	return nil
}
