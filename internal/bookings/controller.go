package bookings

import (
	"errors"
	"net/http"
	"strconv"

	"tickgate/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	resp, err := c.service.CreateBooking(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Failed to create booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created", resp, nil)
}

// ConfirmBooking handles POST /api/v1/bookings/:reference/confirm. Gateway
// callbacks and manual reconciliation both land here; repeated confirmations
// for the same reference are no-ops.
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	reference := ctx.Param("reference")

	booking, err := c.service.ConfirmBooking(ctx.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to confirm booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking confirmed", booking.ToResponse(), nil)
}

// GetBooking handles GET /api/v1/bookings/:reference
func (c *Controller) GetBooking(ctx *gin.Context) {
	reference := ctx.Param("reference")

	booking, err := c.service.GetBookingByReference(ctx.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved", booking.ToResponse(), nil)
}

// ListEventBookings handles GET /api/v1/events/:id/bookings (staff only)
func (c *Controller) ListEventBookings(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	result, err := c.service.ListEventBookings(ctx.Request.Context(), eventID, page, limit)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved", result, nil)
}
