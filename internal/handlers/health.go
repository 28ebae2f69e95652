package handlers

import (
	"net/http"
	"time"

	"ask/internal/db"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether the service and its database are reachable.
func HealthCheck(c *gin.Context) {
	status, message, code := "ok", "ask is running", http.StatusOK

	if sqlDB, err := db.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status, message, code = "error", "database unreachable", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"message":   message,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
