package mw

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"forklift-fleet-backend/internal/session"
)

// RequireSession rejects requests without a valid bearer token and stores
// the resolved session in the gin context.
func RequireSession(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		s, err := m.Resolve(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if !errors.Is(err, session.ErrUnauthorized) {
				log.Printf("Error resolving session: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve session"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		session.WithContext(c, s)
		c.Next()
	}
}
