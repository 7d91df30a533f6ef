package service

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/storefront/internal/dto"
	apperrors "github.com/Payphone-Digital/storefront/internal/errors"
	"github.com/Payphone-Digital/storefront/internal/grid"
	"github.com/Payphone-Digital/storefront/internal/repository"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

type lister[T any] interface {
	List(ctx context.Context, opts query.Options[T]) (repository.Result[T], error)
}

type gridResult[T any] struct {
	state  grid.RouteState
	result repository.Result[T]
	pages  int
}

// runGrid is one request cycle of a grid: load the client's route state,
// merge the request input, query, and save the merged state. The state is
// saved even when the query fails.
func runGrid[T any](ctx context.Context, ctrl *grid.Controller, proj *grid.Projection[T], repo lister[T], clientID string, in grid.Input) (gridResult[T], error) {
	state, err := ctrl.Load(ctx, clientID)
	if err != nil {
		return gridResult[T]{}, err
	}
	state = ctrl.Merge(state, in)

	defer func() {
		if err := ctrl.Save(ctx, clientID, state); err != nil {
			logger.WarnWithContext(ctx, "Grid state not saved").
				String("grid", ctrl.Name()).
				Err(err).
				Log()
		}
	}()

	res, err := repo.List(ctx, proj.BuildQuerySpecification(state))
	if err != nil {
		return gridResult[T]{}, storeError(err)
	}

	return gridResult[T]{
		state:  state,
		result: res,
		pages:  grid.ComputeTotalPages(res.Count, state.PageSize),
	}, nil
}

// gridLinks builds the navigation a page offers from copies of state.
func gridLinks(state grid.RouteState, totalPages int, sortFields []string) dto.GridLinks {
	links := dto.GridLinks{
		Sort:  make(map[string]string, len(sortFields)),
		First: state.WithPage(1).Values().Encode(),
		Last:  state.WithPage(totalPages).Values().Encode(),
	}
	for _, field := range sortFields {
		links.Sort[field] = state.WithSort(field).Values().Encode()
	}
	if state.PageNumber > 1 {
		links.Prev = state.WithPage(min(state.PageNumber-1, totalPages)).Values().Encode()
	}
	if state.PageNumber < totalPages {
		links.Next = state.WithPage(state.PageNumber + 1).Values().Encode()
	}
	return links
}

func gridPage[T, R any](g gridResult[T], convert func(T) R, sortFields []string) *dto.GridPage[R] {
	items := make([]R, 0, len(g.result.Items))
	for _, item := range g.result.Items {
		items = append(items, convert(item))
	}
	return &dto.GridPage[R]{
		Items:      items,
		Count:      g.result.Count,
		TotalPages: g.pages,
		Route:      g.state,
		Links:      gridLinks(g.state, g.pages, sortFields),
	}
}

// storeError maps repository failures onto domain errors. Cancellation is
// passed through untouched.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case apperrors.IsDomainError(err):
		return err
	case errors.Is(err, repository.ErrCommitFailed):
		return apperrors.WrapError(apperrors.ErrCommitFailed, err)
	default:
		return apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
	}
}
