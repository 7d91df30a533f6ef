package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Payphone-Digital/storefront/internal/constants"
	ctxutil "github.com/Payphone-Digital/storefront/pkg/context"
)

// SessionConfig describes the client cookie.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionMiddleware identifies the client by a UUID cookie, issuing one on
// first contact. The id is stored in the gin context and the request context
// so grid state can be keyed by it.
func SessionMiddleware(cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "sid"
	}

	return func(c *gin.Context) {
		clientID, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(clientID) != nil {
			clientID = uuid.NewString()
		}

		// Refresh on every request so the cookie outlives active clients.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, clientID, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)

		c.Set(constants.GinKeyClientID, clientID)
		c.Request = c.Request.WithContext(ctxutil.WithClientID(c.Request.Context(), clientID))

		c.Next()
	}
}

// ClientID returns the id set by SessionMiddleware.
func ClientID(c *gin.Context) string {
	return c.GetString(constants.GinKeyClientID)
}
