package settlement

import "github.com/gin-gonic/gin"

// SetupSettlementRoutes configures the gateway metadata surface. Public:
// buyers pick a gateway before any booking exists.
func SetupSettlementRoutes(rg *gin.RouterGroup, controller *Controller) {
	payments := rg.Group("/payments")
	{
		payments.GET("/gateways", controller.ListGateways)
	}
}
