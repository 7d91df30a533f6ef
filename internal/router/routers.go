package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Payphone-Digital/storefront/internal/handler"
	"github.com/Payphone-Digital/storefront/internal/middleware"
)

type Router struct {
	bookHandler   *handler.BookHandler
	authorHandler *handler.AuthorHandler
	genreHandler  *handler.GenreHandler
	adminHandler  *handler.AdminHandler
	healthHandler *handler.HealthHandler

	validMw *middleware.ValidationMiddleware
	session middleware.SessionConfig
}

func NewRouter(
	book *handler.BookHandler,
	author *handler.AuthorHandler,
	genre *handler.GenreHandler,
	admin *handler.AdminHandler,
	health *handler.HealthHandler,

	validMw *middleware.ValidationMiddleware,
	session middleware.SessionConfig,
) *Router {
	return &Router{
		bookHandler:   book,
		authorHandler: author,
		genreHandler:  genre,
		adminHandler:  admin,
		healthHandler: health,

		validMw: validMw,
		session: session,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/health", r.healthHandler.HealthCheck)

			storefront := v1.Group("")
			storefront.Use(middleware.SessionMiddleware(r.session))
			{
				r.catalogRoutes(storefront)
				r.adminRoutes(storefront)
			}
		}
	}

	return router
}
