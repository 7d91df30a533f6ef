package router

import "github.com/gin-gonic/gin"

func (r *Router) catalogRoutes(version *gin.RouterGroup) {
	// Featured book
	version.GET("/home", r.bookHandler.Home)

	books := version.Group("/books")
	{
		// Book grid, paged and sorted by the client's stored route state
		books.GET("", r.bookHandler.List)

		// Apply or clear the book filters
		books.POST("/filter", r.bookHandler.Filter)

		// Forget the stored route state and start from the defaults
		books.DELETE("/state", r.bookHandler.ResetState)

		books.GET("/:id", r.bookHandler.Details)
	}

	authors := version.Group("/authors")
	{
		authors.GET("", r.authorHandler.List)
		authors.DELETE("/state", r.authorHandler.ResetState)
		authors.GET("/:id", r.authorHandler.Details)
	}

	version.GET("/genres", r.genreHandler.All)
}
