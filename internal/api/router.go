package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cdc-ai/personaproxy/internal/api/admin"
	"github.com/cdc-ai/personaproxy/internal/api/middleware"
	"github.com/cdc-ai/personaproxy/internal/api/public"
	"github.com/cdc-ai/personaproxy/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AdminKey     string
	AdminToken   string
	AllowOrigins []string
	AllowMethods []string
}

// Services bundles the handlers' dependencies. Speech may be nil.
type Services struct {
	Session      *service.SessionService
	Admin        *service.AdminService
	Chat         *service.ChatService
	Notification *service.NotificationService
	Speech       *service.SpeechService
	Status       *service.StatusService
}

// SetupRouter sets up the Gin router
func SetupRouter(svc Services, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins, cfg.AllowMethods))

	publicHandler := public.NewHandler(svc.Session, svc.Chat, svc.Notification, svc.Speech, svc.Status, logger)
	publicHandler.RegisterRoutes(r)

	adminHandler := admin.NewHandler(svc.Admin, logger)
	adminHandler.RegisterRoutes(r, cfg.AdminKey, cfg.AdminToken)

	return r
}
