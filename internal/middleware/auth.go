package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/store"
	"github.com/harentsoaR/doctors-portal-api/internal/utils"
)

// EmailKey is where RequireAuth leaves the verified token subject.
const EmailKey = "email"

type UserFinder interface {
	FindUser(ctx context.Context, email string) (*models.User, error)
}

// RequireAuth rejects requests without a bearer token (401) or with one that
// fails verification (403).
func RequireAuth(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := tokens.ValidateJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden access"})
			return
		}

		c.Set(EmailKey, claims.Subject)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth. The requester's stored role has to
// be admin; a requester with no user record is treated as not admin.
func RequireAdmin(users UserFinder, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(EmailKey)
		user, err := users.FindUser(c.Request.Context(), email)
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden access"})
			return
		case err != nil:
			log.Error().Err(err).Str("email", email).Msg("load requester")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify role"})
			return
		}

		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden access"})
			return
		}
		c.Next()
	}
}

// CurrentEmail returns the subject verified by RequireAuth.
func CurrentEmail(c *gin.Context) string {
	return c.GetString(EmailKey)
}
