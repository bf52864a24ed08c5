package controllers

import (
	"errors"
	"net/http"

	"diskmanager/internal/services"

	"github.com/gin-gonic/gin"
)

// GetVolumes returns the last refreshed volume table
func (h *Handlers) GetVolumes(c *gin.Context) {
	update, ok := h.Cache.Volumes()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "volumes not polled yet"})
		return
	}
	c.JSON(http.StatusOK, update)
}

// RefreshVolumes forces a refresh and returns the new table
func (h *Handlers) RefreshVolumes(c *gin.Context) {
	update, err := h.Poller.Refresh(c.Request.Context())
	if err != nil {
		var failure *services.IOFailure
		if errors.As(err, &failure) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, update)
}

// GetHealth reports liveness and the age of the table
func (h *Handlers) GetHealth(c *gin.Context) {
	_, polled := h.Cache.Volumes()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"mode":   h.Poller.Mode(),
		"polled": polled,
	})
}
