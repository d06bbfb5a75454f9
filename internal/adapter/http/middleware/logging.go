package middleware

import (
	"time"

	ct "usertodos/pkg/context"
	"usertodos/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		ctx := c.Request.Context()
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("request_id", ct.RequestID(ctx)),
		}

		if userID, ok := GetCurrent(c).GetInt(ct.UserIDKey); ok {
			fields = append(fields, zap.Int("user_id", userID))
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.ErrorWithTrace(ctx, "HTTP Request", fields...)
		case status >= 400:
			log.WarnWithTrace(ctx, "HTTP Request", fields...)
		default:
			log.InfoWithTrace(ctx, "HTTP Request", fields...)
		}
	}
}
