package errors

import (
	"log/slog"

	"ask/internal/metrics"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is read from the gin context to enrich error logs.
const ContextUserIDKey = "user_id"

var httpMetrics *metrics.HTTPMetrics

// UseMetrics makes Respond count errors on m.
func UseMetrics(m *metrics.HTTPMetrics) {
	httpMetrics = m
}

// Respond logs err, records it and writes the JSON error body, aborting the
// handler chain.
func Respond(c *gin.Context, err error) {
	structuredErr := AsStructuredError(err)

	if httpMetrics != nil {
		httpMetrics.ErrorsTotal.WithLabelValues(string(structuredErr.Type)).Inc()
	}

	logError(c, structuredErr)

	c.AbortWithStatusJSON(structuredErr.HTTPStatus(), structuredErr.ToResponse())
}

func logError(c *gin.Context, err *Error) {
	attrs := []any{
		"error_type", err.Type,
		"code", err.Code,
		"message", err.Message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	if userID, ok := c.Get(ContextUserIDKey); ok {
		attrs = append(attrs, "user_id", userID)
	}

	ctx := c.Request.Context()
	switch err.Type {
	case TypeValidation, TypeNotFound, TypeUnauthorized:
		slog.InfoContext(ctx, "Request rejected", attrs...)
	case TypeForbidden, TypeConflict:
		slog.WarnContext(ctx, "Request refused", attrs...)
	default:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "Internal error", attrs...)
	}
}
