package tickets

import (
	"errors"
	"net/http"
	"strconv"

	"tickgate/internal/categories"
	"tickgate/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate checks path-parameter ticket codes; request bodies go through
// gin's binding tags.
var validate = validator.New()

const ticketCodeRule = "required,len=16,startswith=TKT-"

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// operatorFromContext reads the staff identity set by the JWT middleware.
func operatorFromContext(ctx *gin.Context) (Operator, bool) {
	userIDValue, exists := ctx.Get("user_id")
	if !exists {
		return Operator{}, false
	}
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return Operator{}, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return Operator{}, false
	}

	role := ""
	if roleValue, exists := ctx.Get("user_role"); exists {
		role, _ = roleValue.(string)
	}

	return Operator{ID: userID, Role: role}, true
}

// scanStatusCode maps a validator outcome to its HTTP status.
func scanStatusCode(outcome Outcome) int {
	switch outcome {
	case OutcomeSuccess:
		return http.StatusOK
	case OutcomeInvalidTicket:
		return http.StatusNotFound
	case OutcomeInvalidSignature:
		return http.StatusBadRequest
	case OutcomeAlreadyScanned, OutcomeNotActivated, OutcomeAlreadyPrinted:
		return http.StatusConflict
	case OutcomeNoPermission:
		return http.StatusForbidden
	default:
		return http.StatusUnprocessableEntity
	}
}

// Scan handles POST /api/v1/tickets/scan
func (c *Controller) Scan(ctx *gin.Context) {
	operator, ok := operatorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Operator not authenticated", nil, nil)
		return
	}

	var req ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.Scan(ctx.Request.Context(), req, operator)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Scan failed", nil, err.Error())
		return
	}

	status := "success"
	if !result.Success {
		status = "error"
	}
	response.RespondJSON(ctx, status, scanStatusCode(result.Code), result.Message, result, nil)
}

// Activate handles POST /api/v1/tickets/activate
func (c *Controller) Activate(ctx *gin.Context) {
	operator, ok := operatorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Operator not authenticated", nil, nil)
		return
	}

	var req ActivationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.Activate(ctx.Request.Context(), req, operator)
	if err != nil {
		switch {
		case errors.Is(err, ErrTicketNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Ticket not found", nil, nil)
		case errors.Is(err, ErrWrongTicketType):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Only hard tickets can be activated", nil, nil)
		case errors.Is(err, ErrActivationConflict):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Ticket already activated or sold", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Activation failed", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, result.Message, result, nil)
}

// TicketStatus handles GET /api/v1/tickets/status/:code
func (c *Controller) TicketStatus(ctx *gin.Context) {
	code := ctx.Param("code")
	if err := validate.Var(code, ticketCodeRule); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid ticket code", nil, nil)
		return
	}

	result, err := c.service.TicketStatus(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Ticket not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get ticket status", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket status retrieved", result, nil)
}

// PrintSingle handles POST /api/v1/tickets/print-single/:code
func (c *Controller) PrintSingle(ctx *gin.Context) {
	operator, ok := operatorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Operator not authenticated", nil, nil)
		return
	}

	code := ctx.Param("code")
	if err := validate.Var(code, ticketCodeRule); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid ticket code", nil, nil)
		return
	}

	result, err := c.service.PrintSingle(ctx.Request.Context(), code, operator)
	if err != nil {
		switch {
		case errors.Is(err, ErrTicketNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Ticket not found", nil, nil)
		case errors.Is(err, ErrWrongTicketType):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Only hard tickets can be printed", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Print failed", nil, err.Error())
		}
		return
	}

	if !result.Success {
		response.RespondJSON(ctx, "error", http.StatusConflict, result.Message, result, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, result.Message, result, nil)
}

// PrintBatch handles POST /api/v1/tickets/print-batch
func (c *Controller) PrintBatch(ctx *gin.Context) {
	operator, ok := operatorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Operator not authenticated", nil, nil)
		return
	}

	var req PrintBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.PrintBatch(ctx.Request.Context(), req, operator)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Batch print failed", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Batch print completed", result, nil)
}

// ListScanEvents handles GET /api/v1/tickets/scans?event_id=
func (c *Controller) ListScanEvents(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Query("event_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid or missing event_id", nil, nil)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	result, err := c.service.ListScanEvents(ctx.Request.Context(), eventID, page, limit)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list scans", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Scan history retrieved", result, nil)
}

// ProvisionStock handles POST /api/v1/tickets/stock (admin only)
func (c *Controller) ProvisionStock(ctx *gin.Context) {
	var req ProvisionStockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid category ID", nil, nil)
		return
	}

	codes, err := c.service.ProvisionStock(ctx.Request.Context(), categoryID)
	if err != nil {
		if errors.Is(err, categories.ErrCategoryNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Category not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Failed to provision stock", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Hard stock minted", gin.H{
		"ticket_codes": codes,
		"count":        len(codes),
	}, nil)
}
