package settlement

import (
	"net/http"

	"tickgate/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	registry *Registry
}

func NewController(registry *Registry) *Controller {
	return &Controller{registry: registry}
}

// ListGateways handles GET /api/v1/payments/gateways
func (c *Controller) ListGateways(ctx *gin.Context) {
	response.RespondJSON(ctx, "success", http.StatusOK, "Gateways retrieved", gin.H{
		"gateways": c.registry.List(),
	}, nil)
}
