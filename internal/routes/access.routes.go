package routes

import (
	"diskmanager/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterAccessRoutes(r *gin.Engine, h *controllers.Handlers, protect gin.HandlerFunc) {
	access := r.Group("/access")
	{
		access.GET("", h.GetAccess)
		access.POST("/simulate", protect, h.SimulateAccess)
	}

	// WebSocket endpoint for real-time updates
	r.GET("/ws", protect, h.HandleWebSocket)
}
