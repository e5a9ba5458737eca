package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

const (
	ctxKeyActor     = "actor"
	ctxKeySessionID = "session_id"

	headerSessionID = "X-Session-ID"
)

// SessionMiddleware resolves the bearer token to an actor (when present)
// and extracts the cart session id. The session id defaults to the actor's
// user id so a logged-in customer keeps one cart per account.
func (h *Handlers) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			user, err := h.authClient.GetUser(c.Request.Context(), token)
			if err != nil {
				h.logger.Error().Err(err).Msg("Failed to resolve actor")
			} else if user != nil {
				c.Set(ctxKeyActor, user)
			}
		}

		sessionID := c.GetHeader(headerSessionID)
		if sessionID == "" {
			if actor := actorFrom(c); actor != nil {
				sessionID = actor.ID
			}
		}
		c.Set(ctxKeySessionID, sessionID)

		c.Next()
	}
}

// RequireAuth aborts with 401 when no actor was resolved.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireSession aborts with 400 when no cart session id is available.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionIDFrom(c) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "session id required"})
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxKeyActor); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func sessionIDFrom(c *gin.Context) string {
	return c.GetString(ctxKeySessionID)
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
