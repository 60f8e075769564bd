// Package middleware provides the gin middleware shared by the HTTP routes:
// JWT authentication, request logging and Prometheus metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/tally/internal/auth"
)

// UserIDKey is the gin context key under which the authenticated user's id
// is stored by RequireAuth.
const UserIDKey = "userID"

// RequireAuth validates the Bearer token on each request and stores the
// authenticated user's id in the gin context. Requests without a valid
// token are rejected with 401.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header must be a Bearer token"})
			return
		}

		claims, err := jwtManager.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user's id stored by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
