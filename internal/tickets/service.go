package tickets

import (
	"context"
	"fmt"
	"time"

	"tickgate/internal/categories"
	"tickgate/internal/events"
	"tickgate/pkg/cache"
	"tickgate/pkg/logger"

	"github.com/google/uuid"
)

// ScanEventPublisher pushes scan audit records to the downstream feed
// (interface to avoid circular dependency with the notifications package).
type ScanEventPublisher interface {
	PublishScanEvent(ctx context.Context, event *ScanEvent) error
}

type Service interface {
	Scan(ctx context.Context, req ScanRequest, operator Operator) (*ScanResult, error)
	Activate(ctx context.Context, req ActivationRequest, operator Operator) (*ActivationResult, error)
	PrintSingle(ctx context.Context, code string, operator Operator) (*PrintResult, error)
	PrintBatch(ctx context.Context, req PrintBatchRequest, operator Operator) (*BatchPrintResult, error)
	TicketStatus(ctx context.Context, code string) (*TicketStatusResponse, error)
	ListScanEvents(ctx context.Context, eventID uuid.UUID, page, limit int) (*PaginatedScanEvents, error)
	ProvisionStock(ctx context.Context, categoryID uuid.UUID) ([]string, error)
}

type service struct {
	repo         Repository
	eventService events.Service
	categoryRepo categories.Repository
	codes        *CodeGenerator
	minter       *Minter
	publisher    ScanEventPublisher
	cache        cache.Service
	logger       *logger.Logger

	commissionPercent float64

	// injected clock, used by event-window checks
	now func() time.Time
}

func NewService(
	repo Repository,
	eventService events.Service,
	categoryRepo categories.Repository,
	codes *CodeGenerator,
	minter *Minter,
	publisher ScanEventPublisher,
	cacheService cache.Service,
	log *logger.Logger,
	commissionPercent float64,
) Service {
	return &service{
		repo:              repo,
		eventService:      eventService,
		categoryRepo:      categoryRepo,
		codes:             codes,
		minter:            minter,
		publisher:         publisher,
		cache:             cacheService,
		logger:            log,
		commissionPercent: commissionPercent,
		now:               time.Now,
	}
}

const ticketStatusCacheTTL = 30 * time.Second

func ticketStatusCacheKey(code string) string {
	return fmt.Sprintf("tickgate:ticket:status:%s", code)
}

// TicketStatus returns the read-only projection of a ticket, its booking and
// event, and the full scan history. Never mutates state; cached briefly.
func (s *service) TicketStatus(ctx context.Context, code string) (*TicketStatusResponse, error) {
	if s.cache != nil {
		var cached TicketStatusResponse
		if err := s.cache.Get(ctx, ticketStatusCacheKey(code), &cached); err == nil {
			return &cached, nil
		}
	}

	ticket, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	resp := &TicketStatusResponse{
		Ticket: ticket.ToResponse(),
	}

	if ticket.Booking != nil {
		br := ticket.Booking.ToResponse()
		resp.Booking = &br
	}

	if event, err := s.eventService.GetEvent(ctx, ticket.EventID); err == nil {
		er := event.ToResponse()
		resp.Event = &er
	}

	history, err := s.repo.ScanHistory(ctx, code)
	if err != nil {
		return nil, err
	}
	resp.ScanHistory = history

	if s.cache != nil {
		_ = s.cache.Set(ctx, ticketStatusCacheKey(code), resp, ticketStatusCacheTTL)
	}
	return resp, nil
}

func (s *service) ListScanEvents(ctx context.Context, eventID uuid.UUID, page, limit int) (*PaginatedScanEvents, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	scans, total, err := s.repo.ListScanEvents(ctx, eventID, page, limit)
	if err != nil {
		return nil, err
	}

	return &PaginatedScanEvents{
		Scans:      scans,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

// ProvisionStock mints the physical allocation of a hybrid category.
func (s *service) ProvisionStock(ctx context.Context, categoryID uuid.UUID) ([]string, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !category.IsHybrid() {
		return nil, fmt.Errorf("category %q sells online only, no physical stock to mint", category.Name)
	}
	return s.minter.MintHardStock(ctx, category)
}

// invalidateStatusCache drops the cached projection after a mutation.
func (s *service) invalidateStatusCache(ctx context.Context, code string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, ticketStatusCacheKey(code))
	}
}
