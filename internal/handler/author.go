package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/dto"
	"github.com/Payphone-Digital/storefront/internal/middleware"
	"github.com/Payphone-Digital/storefront/internal/service"
	ctxutil "github.com/Payphone-Digital/storefront/pkg/context"
)

type AuthorHandler struct {
	authorService *service.AuthorService
}

func NewAuthorHandler(service *service.AuthorService) *AuthorHandler {
	return &AuthorHandler{authorService: service}
}

func (h *AuthorHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "AuthorList")

	var q dto.GridQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	page, err := h.authorService.List(ctx, middleware.ClientID(c), q)
	if err != nil {
		respondError(ctx, c, "Failed to fetch authors", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildGridResponse(
		page.Count, page.Route.PageNumber, page.TotalPages,
		page.Items, page.Route, page.Links, nil,
	))
}

// ResetState drops the client's stored author grid state.
func (h *AuthorHandler) ResetState(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "AuthorReset")

	if err := h.authorService.Reset(ctx, middleware.ClientID(c)); err != nil {
		respondError(ctx, c, "Failed to reset grid state", err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgGridReset))
}

func (h *AuthorHandler) Details(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "AuthorDetails")

	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		respondError(ctx, c, "Invalid author ID", err)
		return
	}

	author, err := h.authorService.Details(ctx, id)
	if err != nil {
		respondError(ctx, c, "Failed to fetch author", err)
		return
	}

	c.JSON(http.StatusOK, author)
}
