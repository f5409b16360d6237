package routes

import (
	"context"
	"net/http"
	"time"

	"tickgate/internal/auth"
	"tickgate/internal/bookings"
	"tickgate/internal/categories"
	"tickgate/internal/events"
	"tickgate/internal/settlement"
	"tickgate/internal/shared/config"
	"tickgate/internal/shared/database"
	"tickgate/internal/tickets"
	"tickgate/pkg/cache"
	"tickgate/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	logger    *logger.Logger
	publisher tickets.ScanEventPublisher

	// shared across feature setups
	eventService  events.Service
	categoryRepo  categories.Repository
	minter        *tickets.Minter
	ticketService tickets.Service
	registry      *settlement.Registry
}

// NewRouter creates a new router instance. publisher may be nil when the
// Kafka feed is disabled.
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger, publisher tickets.ScanEventPublisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		logger:    log,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupEventRoutes(api)
		r.setupSettlementRoutes(api)
		r.setupTicketRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := r.db.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "tickgate",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "tickgate",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)

	auth.SetupAuthRoutes(rg, authController)
}

// setupEventRoutes configures the event read surface and staff grants
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	r.eventService = events.NewService(eventRepo)
	r.categoryRepo = categories.NewRepository(r.db.GetPostgreSQL())

	eventController := events.NewController(r.eventService)
	events.SetupEventRoutes(rg, eventController)
}

// setupSettlementRoutes configures the gateway metadata surface
func (r *Router) setupSettlementRoutes(rg *gin.RouterGroup) {
	r.registry = buildSettlementRegistry()

	settlementController := settlement.NewController(r.registry)
	settlement.SetupSettlementRoutes(rg, settlementController)
}

// setupTicketRoutes configures the scan/activation/print protocol surface
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) {
	ticketRepo := tickets.NewRepository(r.db.GetPostgreSQL())
	codes := tickets.NewCodeGenerator(r.config.Ticket.SigningSecret, r.config.Ticket.QRSize)
	r.minter = tickets.NewMinter(ticketRepo, r.config.Ticket.ValidityPeriod)
	cacheService := cache.NewService(r.db.GetRedisClient())

	r.ticketService = tickets.NewService(
		ticketRepo,
		r.eventService,
		r.categoryRepo,
		codes,
		r.minter,
		r.publisher,
		cacheService,
		r.logger,
		r.config.Ticket.CommissionPercent,
	)

	ticketController := tickets.NewController(r.ticketService)
	tickets.SetupTicketRoutes(rg, ticketController)
}

// setupBookingRoutes configures the online sale surface
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(
		bookingRepo,
		r.eventService,
		r.categoryRepo,
		r.minter,
		settlementAdapter{registry: r.registry},
		r.logger,
	)

	bookingController := bookings.NewController(bookingService)
	bookings.SetupBookingRoutes(rg, bookingController)
}

// settlementAdapter bridges the settlement registry into the bookings
// package's local interface.
type settlementAdapter struct {
	registry *settlement.Registry
}

func (a settlementAdapter) Instructions(ctx context.Context, gatewayCode, bookingRef string, amount decimal.Decimal) (*bookings.SettlementInstructions, error) {
	instructions, err := a.registry.Instructions(ctx, gatewayCode, bookingRef, amount)
	if err != nil {
		return nil, err
	}
	return &bookings.SettlementInstructions{
		GatewayCode:  instructions.GatewayCode,
		Flow:         string(instructions.Flow),
		RedirectURL:  instructions.RedirectURL,
		PromptNotice: instructions.PromptNotice,
	}, nil
}

// buildSettlementRegistry registers the configured gateway adapters. One
// hosted-checkout redirect gateway and one mobile-money prompt gateway.
func buildSettlementRegistry() *settlement.Registry {
	registry := settlement.NewRegistry()

	cardMin := decimal.NewFromInt(1)
	_ = registry.Register(settlement.NewRedirectAdapter(settlement.Gateway{
		Code:                "card",
		DisplayName:         "Card (Hosted Checkout)",
		SupportedCurrencies: []string{"USD", "EUR"},
		MinAmount:           &cardMin,
	}, "https://pay.tickgate.io/checkout"))

	mobileMin := decimal.NewFromInt(1)
	mobileMax := decimal.NewFromInt(2000)
	_ = registry.Register(settlement.NewPromptAdapter(settlement.Gateway{
		Code:                "mobile_money",
		DisplayName:         "Mobile Money",
		SupportedCurrencies: []string{"USD"},
		MinAmount:           &mobileMin,
		MaxAmount:           &mobileMax,
	}, "Ask the buyer to approve the payment prompt on their phone."))

	return registry
}
