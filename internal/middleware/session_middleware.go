package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie keys the shopper's cart and detail-view state.
	SessionCookie = "krale_session"

	sessionContextKey = "session_id"

	// Cart state outlives a page view; keep the cookie for a year.
	sessionMaxAge = 365 * 24 * 60 * 60
)

// SessionMiddleware issues a session id cookie on first visit and
// exposes the id to handlers.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sessionID, sessionMaxAge, "/", "", false, true)
		}
		c.Set(sessionContextKey, sessionID)
		c.Next()
	}
}

// GetSessionID returns the shopper session id for the request.
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID := c.GetString(sessionContextKey)
	return sessionID, sessionID != ""
}
