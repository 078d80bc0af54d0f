package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/utils"
)

// ClaimsKey is the gin context key the validated token claims live under.
const ClaimsKey = "claims"

// AuthMiddleware rejects requests without a valid Bearer access token.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abortUnauthorized(c, "invalid authorization format, use: Bearer <token>")
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret, utils.TokenTypeAccess)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches claims when a valid token is present but
// lets anonymous requests through. List/read endpoints use it: visibility
// scoping decides what they see.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.Next()
			return
		}

		if claims, err := utils.ValidateToken(tokenString, jwtSecret, utils.TokenTypeAccess); err == nil {
			c.Set(ClaimsKey, claims)
		}
		c.Next()
	}
}

// Claims returns the validated token claims set by AuthMiddleware, or nil
// for anonymous requests.
func Claims(c *gin.Context) *utils.Claims {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*utils.Claims)
	if !ok {
		return nil
	}
	return claims
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   apperr.KindAuth,
		"message": message,
	})
	c.Abort()
}
