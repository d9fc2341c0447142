package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// VisitorCookie carries the signed browser identity.
const VisitorCookie = "tilawat_visitor"

const visitorKey = "visitorID"

// Visitor identifies the browser by its cookie and stores the visitor ID in
// the context. A missing or invalid cookie starts a new visitor.
func Visitor(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(VisitorCookie); err == nil {
			if id, err := parseToken(raw, secret); err == nil {
				c.Set(visitorKey, id)
				c.Next()
				return
			}
			log.Debug().Str("path", c.Request.URL.Path).Msg("discarding invalid visitor cookie")
		}

		id := uuid.NewString()
		token, err := GenerateVisitorToken(id, secret)
		if err != nil {
			log.Error().Err(err).Msg("could not sign visitor token")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(VisitorCookie, token, int(visitorTokenTTL.Seconds()), "/", "", false, true)
		c.Set(visitorKey, id)
		c.Next()
	}
}

// GetVisitorID retrieves the visitor ID from the context (after Visitor has run).
func GetVisitorID(c *gin.Context) (string, bool) {
	v, exists := c.Get(visitorKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
