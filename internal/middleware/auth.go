package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"microblog-lite/internal/auth"
)

const (
	usernameContextKey = "username"
	sessionCookie      = "token"
)

func UsernameFromContext(c *gin.Context) (string, bool) {
	username, ok := c.Get(usernameContextKey)
	if !ok {
		return "", false
	}
	value, ok := username.(string)
	return value, ok && value != ""
}

// RequireAuth reads the session token cookie the client attaches to
// every credentialed call.
func RequireAuth(cfg auth.TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
			c.Abort()
			return
		}

		claims, err := auth.VerifyToken(token, cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
			c.Abort()
			return
		}

		c.Set(usernameContextKey, claims.Username)
		c.Next()
	}
}
