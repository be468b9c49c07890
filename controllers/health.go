package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus 健康检查文案
const HealthStatus = "Server is running"

// Health 健康检查
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    HealthStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
