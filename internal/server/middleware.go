package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/YuminosukeSato/olsfit/pkg/log"
)

const requestIDHeader = "X-Request-ID"

// requestID propagates the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(log.RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			slog.String(log.RequestIDKey, c.GetString(log.RequestIDKey)),
			slog.String("http.method", c.Request.Method),
			slog.String("http.path", c.FullPath()),
			slog.Int("http.status", c.Writer.Status()),
			slog.Int64(log.DurationMsKey, time.Since(start).Milliseconds()),
		}
		if err := c.Errors.Last(); err != nil {
			slog.Warn("request failed", append(attrs, log.ErrAttr(err.Err))...)
			return
		}
		slog.Debug("request served", attrs...)
	}
}
