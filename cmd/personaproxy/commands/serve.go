package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cdc-ai/personaproxy/internal/api"
	"github.com/cdc-ai/personaproxy/internal/config"
	"github.com/cdc-ai/personaproxy/internal/mail"
	"github.com/cdc-ai/personaproxy/internal/repository"
	"github.com/cdc-ai/personaproxy/internal/service"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  `Run the HTTP server until SIGINT or SIGTERM, then shut down gracefully.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := repository.NewDB(cfg.Database.URL)
	if err != nil {
		logger.Error("Failed to initialize database", zap.Error(err))
		return err
	}
	defer db.Close()

	warnMissingSecrets(cfg, logger)

	router := api.SetupRouter(buildServices(cfg, db), api.RouterConfig{
		AdminKey:     cfg.Admin.Key,
		AdminToken:   cfg.Admin.Token,
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: cfg.Server.AllowMethods,
	}, logger)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Inference.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting persona proxy",
			zap.String("address", cfg.Address()),
			zap.String("database", string(db.Dialect())),
			zap.Bool("speech", cfg.Speech.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("Failed to start server", zap.Error(err))
		return err
	case <-quit:
	}

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited")
	return nil
}

func buildServices(cfg *config.Config, db *repository.DB) api.Services {
	userRepo := repository.NewUserRepository(db)
	personaRepo := repository.NewPersonaRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)

	svc := api.Services{
		Session:      service.NewSessionService(userRepo, sessionRepo, transcriptRepo),
		Admin:        service.NewAdminService(userRepo, personaRepo),
		Chat:         service.NewChatService(cfg.Inference),
		Notification: service.NewNotificationService(cfg.Mail, mail.NewSMTPSender(cfg.Mail)),
		Status:       service.NewStatusService(db),
	}
	if cfg.Speech.Enabled {
		svc.Speech = service.NewSpeechService(cfg.Speech)
	}

	return svc
}

// warnMissingSecrets logs features that will reject every call
func warnMissingSecrets(cfg *config.Config, logger *zap.Logger) {
	if cfg.Admin.Key == "" {
		logger.Warn("ADMIN_KEY not set - admin listings will return 403")
	}
	if cfg.Admin.Token == "" {
		logger.Warn("ADMIN_TOKEN not set - user wipes will return 403")
	}
	if cfg.Mail.Username == "" || cfg.Mail.Password == "" {
		logger.Warn("EMAIL_USERNAME / EMAIL_PASSWORD not set - email endpoints will fail")
	}
}
