package events

import (
	"tickgate/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures the read-only event surface and the
// scan-permission grant endpoint.
func SetupEventRoutes(rg *gin.RouterGroup, controller *Controller) {
	eventsGroup := rg.Group("/events")
	{
		eventsGroup.GET("", controller.ListEvents)
		eventsGroup.GET("/:id", controller.GetEvent)

		eventsGroup.POST("/:id/staff/:userId",
			middleware.JWTAuth(),
			middleware.RequireAdmin(),
			controller.GrantScanPermission)
	}
}
