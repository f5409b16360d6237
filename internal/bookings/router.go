package bookings

import (
	"tickgate/internal/shared/middleware"
	"tickgate/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the online sale surface. Creation and lookup
// are public (buyers are not registered users); event-scoped listings are
// staff only.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookingsGroup := rg.Group("/bookings")
	{
		bookingsGroup.POST("", controller.CreateBooking)
		bookingsGroup.GET("/:reference", controller.GetBooking)
		bookingsGroup.POST("/:reference/confirm", controller.ConfirmBooking)
	}

	rg.GET("/events/:id/bookings",
		middleware.JWTAuth(),
		middleware.RequireRoles(string(users.RoleAdmin), string(users.RoleOrganizer)),
		controller.ListEventBookings)
}
