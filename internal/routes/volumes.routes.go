package routes

import (
	"diskmanager/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterVolumeRoutes registers the read-only table routes and the
// mutating ones behind protect
func RegisterVolumeRoutes(r *gin.Engine, h *controllers.Handlers, protect gin.HandlerFunc) {
	r.GET("/healthz", h.GetHealth)

	volumes := r.Group("/volumes")
	{
		volumes.GET("", h.GetVolumes)
		volumes.POST("/refresh", protect, h.RefreshVolumes)
	}

	r.GET("/history", h.GetHistory)
}
