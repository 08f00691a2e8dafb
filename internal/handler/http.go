package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"briefing-server/internal/domain"
	"briefing-server/internal/runtracker"
	"briefing-server/internal/service"
	"briefing-server/internal/ws"
)

// BriefingHandler обрабатывает HTTP-запросы сервера подготовки брифингов.
type BriefingHandler struct {
	service   *service.BriefingService
	wsManager *ws.Manager
	logger    *zap.Logger
}

// NewBriefingHandler создает BriefingHandler.
func NewBriefingHandler(s *service.BriefingService, wsManager *ws.Manager, logger *zap.Logger) *BriefingHandler {
	return &BriefingHandler{
		service:   s,
		wsManager: wsManager,
		logger:    logger.Named("BriefingHandler"),
	}
}

// RegisterRoutes регистрирует маршруты сервиса.
func (h *BriefingHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.health)

	api := router.Group("/api", SessionMiddleware())
	{
		api.POST("/briefings", h.prepareBriefing)
		api.GET("/briefings/:id", h.getBriefing)
		api.GET("/briefings/:id/download", h.downloadBriefing)
	}

	router.GET("/ws", SessionMiddleware(), h.progressSocket)
}

// prepareBriefing запускает конвейер синхронно и возвращает итог запуска.
func (h *BriefingHandler) prepareBriefing(c *gin.Context) {
	var req prepareBriefingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for prepareBriefing", zap.Error(err))
		c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body"})
		return
	}

	run, err := h.service.Prepare(c.Request.Context(), sessionID(c), req.toDomain())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// getBriefing возвращает состояние запуска и транскрипт.
func (h *BriefingHandler) getBriefing(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "invalid run ID format"})
		return
	}

	run, err := h.service.GetRun(sessionID(c), runID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// downloadBriefing отдаёт готовый документ как Markdown-файл.
func (h *BriefingHandler) downloadBriefing(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "invalid run ID format"})
		return
	}

	doc, err := h.service.GetDocument(sessionID(c), runID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename()))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(doc.Markdown))
}

// progressSocket апгрейдит соединение для получения событий хода выполнения.
func (h *BriefingHandler) progressSocket(c *gin.Context) {
	h.wsManager.Handle(c.Writer, c.Request, sessionID(c))
}

func (h *BriefingHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleServiceError сопоставляет доменные ошибки со статус-кодами HTTP.
func (h *BriefingHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	case errors.Is(err, domain.ErrSessionBusy):
		c.JSON(http.StatusConflict, APIError{Message: err.Error()})
	case errors.Is(err, domain.ErrRunNotFound):
		c.JSON(http.StatusNotFound, APIError{Message: err.Error()})
	case errors.Is(err, runtracker.ErrShuttingDown):
		c.JSON(http.StatusServiceUnavailable, APIError{Message: err.Error()})
	case errors.Is(err, domain.ErrGenerationFailed):
		// Сбой вышестоящего сервиса во время запуска; причина — в сообщении
		c.JSON(http.StatusBadGateway, APIError{Message: err.Error()})
	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Message: "internal server error"})
	}
}
