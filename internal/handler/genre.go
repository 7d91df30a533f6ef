package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Payphone-Digital/storefront/internal/service"
	ctxutil "github.com/Payphone-Digital/storefront/pkg/context"
)

type GenreHandler struct {
	genreService *service.GenreService
}

func NewGenreHandler(service *service.GenreService) *GenreHandler {
	return &GenreHandler{genreService: service}
}

// All lists genres ordered by name.
func (h *GenreHandler) All(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GenreAll")

	genres, err := h.genreService.All(ctx)
	if err != nil {
		respondError(ctx, c, "Failed to fetch genres", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": genres})
}
