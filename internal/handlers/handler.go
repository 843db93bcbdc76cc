package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"propchain/internal/chain"
	"propchain/internal/scheduler"
	"propchain/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Reindexer ручной запуск перестроения поискового индекса
type Reindexer interface {
	RunNow(ctx context.Context) error
}

type Handler struct {
	listings      service.ListingService
	verifications service.VerificationService
	dashboards    service.DashboardService
	networks      *chain.Registry
	reindexer     Reindexer
	logger        *zap.Logger
}

// NewHandler reindexer может быть nil, если поиск не настроен
func NewHandler(
	listings service.ListingService,
	verifications service.VerificationService,
	dashboards service.DashboardService,
	networks *chain.Registry,
	reindexer Reindexer,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		listings:      listings,
		verifications: verifications,
		dashboards:    dashboards,
		networks:      networks,
		reindexer:     reindexer,
		logger:        logger,
	}
}

func (h *Handler) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.logger))
	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// без списка источников cors.New паникует
	if len(allowedOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/properties", h.listProperties)
	api.GET("/properties/:id", h.getProperty)
	api.POST("/properties/:id/verification", h.submitForVerification)

	api.GET("/verifications/pending", h.listPending)
	api.GET("/verifications/pending/:id", h.getReview)
	api.POST("/verifications/pending/:id/decision", h.decide)
	api.GET("/verifications/history", h.listHistory)

	api.GET("/alerts", h.listAlerts)
	api.GET("/announcements", h.listAnnouncements)
	api.GET("/documents/:hash", h.getDocument)

	api.GET("/dashboard/owner/:wallet", h.ownerDashboard)
	api.GET("/dashboard/verifier", h.verifierDashboard)

	api.GET("/networks", h.listNetworks)
	api.GET("/statuses", h.listStatuses)

	api.POST("/admin/reindex", h.reindex)

	return r
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError переводит ошибки сервисов в HTTP статусы
func (h *Handler) writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		status, code = http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrConflict), errors.Is(err, scheduler.ErrAlreadyRunning):
		status, code = http.StatusConflict, "conflict"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: code, Message: message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid_argument", Message: message})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) reindex(c *gin.Context) {
	if h.reindexer == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorResponse{Error: "unavailable", Message: "search is not configured"})
		return
	}
	if err := h.reindexer.RunNow(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reindexed"})
}
