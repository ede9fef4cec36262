// Package respond maps service errors to HTTP responses.
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cdc-ai/personaproxy/internal/api/middleware"
	"github.com/cdc-ai/personaproxy/internal/domain"
)

// Error writes {"detail": msg} with a status derived from err.
// Server errors always use msg; the cause only goes to the log.
func Error(c *gin.Context, logger *zap.Logger, err error, msg string) {
	status := Status(err)

	logger.Warn(msg,
		zap.Error(err),
		zap.Int("status", status),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
	)

	c.JSON(status, gin.H{"detail": msg})
}

// Status maps domain errors to HTTP status codes
func Status(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
