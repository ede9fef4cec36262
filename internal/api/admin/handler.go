package admin

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cdc-ai/personaproxy/internal/api/middleware"
	"github.com/cdc-ai/personaproxy/internal/api/respond"
	"github.com/cdc-ai/personaproxy/internal/domain"
	"github.com/cdc-ai/personaproxy/internal/service"
)

// Handler handles admin API requests
type Handler struct {
	adminService *service.AdminService
	logger       *zap.Logger
}

// NewHandler creates a new admin handler
func NewHandler(adminService *service.AdminService, logger *zap.Logger) *Handler {
	return &Handler{
		adminService: adminService,
		logger:       logger,
	}
}

// RegisterRoutes registers admin routes. The wipe route is checked against
// token, the listings against key.
func (h *Handler) RegisterRoutes(r gin.IRouter, key, token string) {
	r.DELETE("/api/wipe-user/:email",
		middleware.SharedSecret(middleware.AdminTokenHeader, token),
		h.WipeUser,
	)

	listings := r.Group("/api/admin")
	listings.Use(middleware.SharedSecret(middleware.AdminKeyHeader, key))
	{
		listings.GET("/users", h.ListUsers)
		listings.GET("/personas", h.ListPersonas)
	}
}

func (h *Handler) WipeUser(c *gin.Context) {
	email := c.Param("email")

	if err := h.adminService.WipeUser(c.Request.Context(), email); err != nil {
		msg := "Failed to wipe user"
		if respond.Status(err) == http.StatusNotFound {
			msg = "User not found"
		}
		respond.Error(c, h.logger, err, msg)
		return
	}

	h.logger.Info("user wiped", zap.String("email", domain.NormalizeEmail(email)))
	c.JSON(http.StatusOK, domain.MessageResponse{
		Message: fmt.Sprintf("✅ User data for %s wiped successfully.", email),
	})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		respond.Error(c, h.logger, err, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) ListPersonas(c *gin.Context) {
	personas, err := h.adminService.ListPersonas(c.Request.Context())
	if err != nil {
		respond.Error(c, h.logger, err, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"personas": personas})
}
