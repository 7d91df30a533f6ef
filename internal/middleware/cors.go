package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Payphone-Digital/storefront/internal/constants"
)

// CORS allows browser front ends on any origin. Credentials stay enabled so
// the session cookie travels with cross-origin grid requests.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", constants.HeaderContentType, "Accept", "Cache-Control", "X-Requested-With", constants.HeaderXRequestID},
		ExposeHeaders:    []string{constants.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
