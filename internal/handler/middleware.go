package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sessionIDKey — ключ ID сессии в контексте Gin.
const sessionIDKey = "sessionID"

// SessionHeader — заголовок, через который браузер передаёт ID сессии.
const SessionHeader = "X-Session-ID"

// SessionMiddleware извлекает ID сессии из заголовка; если его нет,
// генерирует новый и возвращает клиенту в том же заголовке. Сам слой
// браузерной сессии остаётся на стороне клиента.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		c.Set(sessionIDKey, sessionID)
		c.Header(SessionHeader, sessionID)
		c.Next()
	}
}

// sessionID возвращает ID сессии текущего запроса.
func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// ZapLoggingMiddleware логирует запросы с помощью zap. Запросы к healthcheck
// и metrics не логируются.
func ZapLoggingMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		if path == "/healthz" || path == "/metrics" {
			c.Next()
			return
		}

		c.Next()

		latency := time.Since(start)
		if rawQuery := c.Request.URL.RawQuery; rawQuery != "" {
			path = path + "?" + rawQuery
		}

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
		}

		if len(c.Errors) > 0 {
			for _, ginErr := range c.Errors.ByType(gin.ErrorTypeAny) {
				log.Error("Request error", append(fields, zap.Error(ginErr.Err))...)
			}
			return
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("Request completed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("Request completed", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}
