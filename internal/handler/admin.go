package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/dto"
	"github.com/Payphone-Digital/storefront/internal/service"
	ctxutil "github.com/Payphone-Digital/storefront/pkg/context"
	"github.com/Payphone-Digital/storefront/pkg/logger"
)

// AdminHandler maintains the catalog.
type AdminHandler struct {
	books   *service.BookService
	authors *service.AuthorService
	genres  *service.GenreService
}

func NewAdminHandler(books *service.BookService, authors *service.AuthorService, genres *service.GenreService) *AdminHandler {
	return &AdminHandler{books: books, authors: authors, genres: genres}
}

func (h *AdminHandler) CreateBook(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateBook")

	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	book, err := h.books.Create(ctx, req)
	if err != nil {
		respondError(ctx, c, "Failed to create book", err)
		return
	}

	logger.InfoWithContext(ctx, "Book created successfully").
		Int("book_id", int(book.ID)).
		Log()
	c.JSON(http.StatusCreated, constants.BuildDataResponse(constants.MsgCreated, book))
}

func (h *AdminHandler) UpdateBook(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateBook")

	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		respondError(ctx, c, "Invalid book ID", err)
		return
	}

	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	book, err := h.books.Update(ctx, id, req)
	if err != nil {
		respondError(ctx, c, "Failed to update book", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(constants.MsgUpdated, book))
}

func (h *AdminHandler) DeleteBook(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteBook")

	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		respondError(ctx, c, "Invalid book ID", err)
		return
	}

	if err := h.books.Delete(ctx, id); err != nil {
		respondError(ctx, c, "Failed to delete book", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}

func (h *AdminHandler) CreateAuthor(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateAuthor")

	var req dto.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	author, err := h.authors.Create(ctx, req)
	if err != nil {
		respondError(ctx, c, "Failed to create author", err)
		return
	}

	c.JSON(http.StatusCreated, constants.BuildDataResponse(constants.MsgCreated, author))
}

func (h *AdminHandler) DeleteAuthor(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteAuthor")

	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		respondError(ctx, c, "Invalid author ID", err)
		return
	}

	if err := h.authors.Delete(ctx, id); err != nil {
		respondError(ctx, c, "Failed to delete author", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}

func (h *AdminHandler) CreateGenre(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateGenre")

	var req dto.GenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	genre, err := h.genres.Create(ctx, req)
	if err != nil {
		respondError(ctx, c, "Failed to create genre", err)
		return
	}

	c.JSON(http.StatusCreated, constants.BuildDataResponse(constants.MsgCreated, genre))
}

func (h *AdminHandler) DeleteGenre(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteGenre")

	id := strings.ToLower(strings.TrimSpace(c.Param("id")))
	if err := h.genres.Delete(ctx, id); err != nil {
		respondError(ctx, c, "Failed to delete genre", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}
