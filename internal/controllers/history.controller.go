package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetHistory returns the usage samples of every device, or of one
// Query params: device=/dev/sda1, duration=5m|10m|1h|0 (default: 10m, 0 keeps all)
func (h *Handlers) GetHistory(c *gin.Context) {
	device := c.Query("device")
	durationStr := c.DefaultQuery("duration", "10m")

	duration, err := time.ParseDuration(durationStr)
	if err != nil || duration < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration format"})
		return
	}

	data := h.History.GetHistoricalData(device, duration, time.Now())
	if len(device) > 0 && len(data) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown device"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"duration": durationStr,
		"data":     data,
	})
}
