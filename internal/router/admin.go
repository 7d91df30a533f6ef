package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Payphone-Digital/storefront/internal/dto"
)

func (r *Router) adminRoutes(version *gin.RouterGroup) {
	admin := version.Group("/admin")
	{
		books := admin.Group("/books")
		{
			books.POST("", r.validMw.ValidateRequestBody(func() interface{} { return &dto.BookRequest{} }), r.adminHandler.CreateBook)
			books.PUT("/:id", r.validMw.ValidateRequestBody(func() interface{} { return &dto.BookRequest{} }), r.adminHandler.UpdateBook)
			books.DELETE("/:id", r.adminHandler.DeleteBook)
		}

		authors := admin.Group("/authors")
		{
			authors.POST("", r.validMw.ValidateRequestBody(func() interface{} { return &dto.AuthorRequest{} }), r.adminHandler.CreateAuthor)
			authors.DELETE("/:id", r.adminHandler.DeleteAuthor)
		}

		genres := admin.Group("/genres")
		{
			genres.POST("", r.validMw.ValidateRequestBody(func() interface{} { return &dto.GenreRequest{} }), r.adminHandler.CreateGenre)
			genres.DELETE("/:id", r.adminHandler.DeleteGenre)
		}
	}
}
