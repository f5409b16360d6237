package tickets

import (
	"tickgate/internal/shared/middleware"
	"tickgate/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures the scan/activation/print surface. Everything
// except the self-service status lookup requires an authenticated operator.
func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller) {
	ticketsGroup := rg.Group("/tickets")
	{
		// Customer self-service, read only.
		ticketsGroup.GET("/status/:code", controller.TicketStatus)

		staff := ticketsGroup.Group("")
		staff.Use(middleware.JWTAuth())
		{
			staff.POST("/scan", controller.Scan)
			staff.POST("/activate", controller.Activate)
			staff.GET("/scans", controller.ListScanEvents)

			printRoutes := staff.Group("")
			printRoutes.Use(middleware.RequireRoles(string(users.RoleAdmin), string(users.RoleOrganizer)))
			{
				printRoutes.POST("/print-single/:code", controller.PrintSingle)
				printRoutes.POST("/print-batch", controller.PrintBatch)
				printRoutes.POST("/stock", middleware.RequireAdmin(), controller.ProvisionStock)
			}
		}
	}
}
