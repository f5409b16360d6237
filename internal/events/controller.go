package events

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

// ListEvents handles GET /api/v1/events
func (c *Controller) ListEvents(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	events, total, err := c.service.ListEvents(ctx.Request.Context(), page, limit)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list events", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Events retrieved", gin.H{
		"events":      events,
		"total_count": total,
		"page":        page,
		"limit":       limit,
	}, nil)
}

// GetEvent handles GET /api/v1/events/:id
func (c *Controller) GetEvent(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	event, err := c.service.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Event not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get event", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Event retrieved", event.ToResponse(), nil)
}

// GrantScanPermission handles POST /api/v1/events/:id/staff/:userId (admin only)
func (c *Controller) GrantScanPermission(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	userID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid user ID", nil, nil)
		return
	}

	if err := c.service.GrantScanPermission(ctx.Request.Context(), eventID, userID); err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to grant scan permission", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Scan permission granted", nil, nil)
}
