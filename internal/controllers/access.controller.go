package controllers

import (
	"errors"
	"net/http"

	"diskmanager/internal/middleware"
	"diskmanager/internal/services"

	"github.com/gin-gonic/gin"
)

// GetAccess returns the current access indicator
func (h *Handlers) GetAccess(c *gin.Context) {
	indicator, count := h.Cache.Access()
	c.JSON(http.StatusOK, gin.H{
		"indicator":    indicator,
		"access_count": count,
	})
}

// SimulateAccess triggers a simulated disk access
func (h *Handlers) SimulateAccess(c *gin.Context) {
	started, err := h.Poller.TriggerAccess(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrSimulationDisabled):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case !started:
		c.JSON(http.StatusConflict, gin.H{"error": "simulated access already running"})
	default:
		if claims := middleware.Claims(c); claims != nil {
			h.logger.WithField("server", claims.ServerName).Info("simulated access requested")
		}
		c.JSON(http.StatusAccepted, gin.H{"started": true})
	}
}
