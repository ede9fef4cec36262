package public

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cdc-ai/personaproxy/internal/api/respond"
	"github.com/cdc-ai/personaproxy/internal/domain"
	"github.com/cdc-ai/personaproxy/internal/service"
)

// HealthMessage is the plaintext body served at the root path
const HealthMessage = "✅ CDC AI Proxy is running."

// Handler handles the unauthenticated web client API
type Handler struct {
	sessionService      *service.SessionService
	chatService         *service.ChatService
	notificationService *service.NotificationService
	speechService       *service.SpeechService
	statusService       *service.StatusService
	logger              *zap.Logger
}

// NewHandler creates a new public handler. speechService may be nil,
// in which case /api/synthesize is not registered.
func NewHandler(
	sessionService *service.SessionService,
	chatService *service.ChatService,
	notificationService *service.NotificationService,
	speechService *service.SpeechService,
	statusService *service.StatusService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		sessionService:      sessionService,
		chatService:         chatService,
		notificationService: notificationService,
		speechService:       speechService,
		statusService:       statusService,
		logger:              logger,
	}
}

// RegisterRoutes registers public routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Health)

	api := r.Group("/api")
	{
		api.GET("/test-db", h.TestDB)
		api.POST("/startSession", h.StartSession)
		api.POST("/chat", h.Chat)
		api.POST("/reportIssue", h.ReportIssue)
		api.POST("/sendTranscript", h.SendTranscript)
		api.POST("/saveTranscript", h.SaveTranscript)
		api.GET("/transcripts/by-email/:email", h.TranscriptsByEmail)
		api.GET("/debug/user/:email", h.DebugUser)

		if h.speechService != nil {
			api.GET("/synthesize", h.Synthesize)
		}
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, HealthMessage)
}

func (h *Handler) TestDB(c *gin.Context) {
	now, err := h.statusService.DatabaseTime(c.Request.Context())
	if err != nil {
		respond.Error(c, h.logger, err, "DB connection failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "DB connected", "time": now})
}

// Session handlers

func (h *Handler) StartSession(c *gin.Context) {
	var req domain.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email and persona are required"})
		return
	}

	resp, err := h.sessionService.StartSession(c.Request.Context(), &req)
	if err != nil {
		msg := "Failed to start session"
		if errors.Is(err, domain.ErrInvalidRequest) {
			msg = "Email and persona are required"
		}
		respond.Error(c, h.logger, err, msg)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) SaveTranscript(c *gin.Context) {
	var req domain.SaveTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing required fields"})
		return
	}

	resp, err := h.sessionService.SaveTranscript(c.Request.Context(), &req)
	if err != nil {
		msg := "Failed to save transcript"
		if errors.Is(err, domain.ErrInvalidRequest) {
			msg = "Missing required fields"
		}
		respond.Error(c, h.logger, err, msg)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) TranscriptsByEmail(c *gin.Context) {
	resp, err := h.sessionService.TranscriptsByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respond.Error(c, h.logger, err, "Failed to fetch transcripts")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) DebugUser(c *gin.Context) {
	rows, err := h.sessionService.DebugUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		respond.Error(c, h.logger, err, "Failed to fetch user info")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// Proxy handlers

func (h *Handler) Chat(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respond.Error(c, h.logger, fmt.Errorf("%w: read body: %v", domain.ErrUpstream, err), "Proxy failed")
		return
	}

	result, err := h.chatService.Chat(c.Request.Context(), body)
	if err != nil {
		respond.Error(c, h.logger, err, "Proxy failed")
		return
	}

	c.Data(result.StatusCode, "application/json", result.Body)
}

func (h *Handler) Synthesize(c *gin.Context) {
	audio, err := h.speechService.Synthesize(c.Request.Context(), c.Query("text"))
	if err != nil {
		msg := "TTS failed"
		if errors.Is(err, domain.ErrInvalidRequest) {
			msg = "Missing text"
		}
		respond.Error(c, h.logger, err, msg)
		return
	}
	defer audio.Body.Close()

	c.DataFromReader(http.StatusOK, audio.Size, "audio/wav", audio.Body, nil)
}

// Email handlers

func (h *Handler) ReportIssue(c *gin.Context) {
	var req domain.ReportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing required fields"})
		return
	}

	if err := h.notificationService.ReportIssue(c.Request.Context(), &req); err != nil {
		respond.Error(c, h.logger, err, "Email failed to send")
		return
	}

	c.JSON(http.StatusOK, domain.MessageResponse{Message: "Email sent successfully"})
}

func (h *Handler) SendTranscript(c *gin.Context) {
	var req domain.SendTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing required fields"})
		return
	}

	if err := h.notificationService.SendTranscript(c.Request.Context(), &req); err != nil {
		respond.Error(c, h.logger, err, "Failed to send transcript")
		return
	}

	c.JSON(http.StatusOK, domain.MessageResponse{Message: "Transcript sent successfully"})
}
