package middleware

import (
	"log/slog"
	"time"

	"ask/internal/logging"

	"github.com/gin-gonic/gin"
)

const RequestIDHeader = "X-Request-ID"

const maxRequestIDLen = 64

// Correlation tags the request context with a correlation id, reusing a
// well-formed incoming X-Request-ID.
func Correlation() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = logging.NewCorrelationID()
		}

		ctx := logging.WithCorrelationID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request after it has been served.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		ctx := c.Request.Context()
		if status >= 500 {
			slog.ErrorContext(ctx, "Request served", attrs...)
			return
		}
		slog.InfoContext(ctx, "Request served", attrs...)
	}
}

// validRequestID accepts 1 to 64 characters of letters, digits, '-', '_'
// and '.', which covers uuids and the short ids issued here.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
