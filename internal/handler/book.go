package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/dto"
	"github.com/Payphone-Digital/storefront/internal/middleware"
	"github.com/Payphone-Digital/storefront/internal/service"
	ctxutil "github.com/Payphone-Digital/storefront/pkg/context"
	"github.com/Payphone-Digital/storefront/pkg/logger"
)

type BookHandler struct {
	bookService *service.BookService
}

func NewBookHandler(service *service.BookService) *BookHandler {
	return &BookHandler{bookService: service}
}

// List renders the client's book grid. Query values update the stored route
// state; omitted ones keep it.
func (h *BookHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "BookList")

	var q dto.GridQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	logger.InfoWithContext(ctx, "Book grid request").
		String("query", c.Request.URL.RawQuery).
		Log()

	page, err := h.bookService.List(ctx, middleware.ClientID(c), q)
	if err != nil {
		respondError(ctx, c, "Failed to fetch books", err)
		return
	}

	options, err := h.bookService.FilterOptions(ctx)
	if err != nil {
		respondError(ctx, c, "Failed to fetch filter options", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildGridResponse(
		page.Count, page.Route.PageNumber, page.TotalPages,
		page.Items, page.Route, page.Links, options,
	))
}

// Filter applies or clears the book filters and returns the new route state.
func (h *BookHandler) Filter(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "BookFilter")

	var req dto.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	state, err := h.bookService.Filter(ctx, middleware.ClientID(c), req)
	if err != nil {
		respondError(ctx, c, "Failed to apply filters", err)
		return
	}

	message := constants.MsgFiltersApplied
	if !state.HasFilters() {
		message = constants.MsgFiltersCleared
	}
	c.JSON(http.StatusOK, constants.BuildDataResponse(message, state))
}

// ResetState drops the client's stored book grid state.
func (h *BookHandler) ResetState(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "BookReset")

	if err := h.bookService.Reset(ctx, middleware.ClientID(c)); err != nil {
		respondError(ctx, c, "Failed to reset grid state", err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgGridReset))
}

func (h *BookHandler) Details(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "BookDetails")

	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		respondError(ctx, c, "Invalid book ID", err)
		return
	}

	book, err := h.bookService.Details(ctx, id)
	if err != nil {
		respondError(ctx, c, "Failed to fetch book", err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// Home shows one random book.
func (h *BookHandler) Home(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Home")

	book, err := h.bookService.Random(ctx)
	if err != nil {
		respondError(ctx, c, "Failed to fetch featured book", err)
		return
	}

	c.JSON(http.StatusOK, book)
}
