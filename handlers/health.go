package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// Health is the liveness probe.
func Health(c *gin.Context) {
	respond(c, 200, gin.H{
		"message":   "Menu API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	})
}
