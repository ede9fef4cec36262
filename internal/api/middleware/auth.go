package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cdc-ai/personaproxy/internal/domain"
)

const (
	// AdminKeyHeader gates the admin listing endpoints
	AdminKeyHeader = "x-admin-key"
	// AdminTokenHeader gates destructive admin endpoints
	AdminTokenHeader = "x-admin-token"
)

// SharedSecret rejects requests whose header does not exactly match secret.
// An unset secret rejects every request.
func SharedSecret(header, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !secretMatches(c.GetHeader(header), secret) {
			_ = c.Error(fmt.Errorf("%w: %s mismatch", domain.ErrUnauthorized, header))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Unauthorized"})
			return
		}

		c.Next()
	}
}

func secretMatches(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
