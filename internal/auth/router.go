package auth

import (
	"tickgate/internal/shared/middleware"
	"tickgate/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes configures authentication routes
func SetupAuthRoutes(rg *gin.RouterGroup, controller *Controller) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", controller.Login)
		authGroup.POST("/refresh", controller.Refresh)

		// Staff accounts are provisioned by admins, not self-registered
		authGroup.POST("/register",
			middleware.JWTAuth(),
			middleware.RequireRoles(string(users.RoleAdmin)),
			controller.Register)
	}
}
