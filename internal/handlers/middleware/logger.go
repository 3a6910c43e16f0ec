package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
)

// RequestLogger registra cada requisição no logger da aplicação
func RequestLogger(logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.Last().Err)
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request failed", args...)
		case c.Writer.Status() >= 400:
			logger.Warn("request rejected", args...)
		default:
			logger.Info("request served", args...)
		}
	}
}
