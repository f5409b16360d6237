package bookings

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"tickgate/internal/categories"
	"tickgate/internal/events"
	"tickgate/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TicketMinter issues digital tickets for a freshly created booking
// (interface to avoid circular dependency with the tickets package).
type TicketMinter interface {
	MintSoft(ctx context.Context, bookingID, eventID, categoryID uuid.UUID, quantity int) ([]string, error)
}

// SettlementInstructions mirrors the adapter output the bookings flow needs.
type SettlementInstructions struct {
	GatewayCode  string
	Flow         string
	RedirectURL  string
	PromptNotice string
}

// SettlementService resolves payment instructions for the buyer's chosen
// gateway (interface to avoid circular dependency with the settlement package).
type SettlementService interface {
	Instructions(ctx context.Context, gatewayCode, bookingRef string, amount decimal.Decimal) (*SettlementInstructions, error)
}

type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error)
	ConfirmBooking(ctx context.Context, reference string) (*Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingByReference(ctx context.Context, reference string) (*Booking, error)
	ListEventBookings(ctx context.Context, eventID uuid.UUID, page, limit int) (*PaginatedBookings, error)
}

type service struct {
	repo         Repository
	eventService events.Service
	categoryRepo categories.Repository
	minter       TicketMinter
	settlement   SettlementService
	logger       *logger.Logger
}

func NewService(repo Repository, eventService events.Service, categoryRepo categories.Repository, minter TicketMinter, settlement SettlementService, log *logger.Logger) Service {
	return &service{
		repo:         repo,
		eventService: eventService,
		categoryRepo: categoryRepo,
		minter:       minter,
		settlement:   settlement,
		logger:       log,
	}
}

// CreateBooking runs the online sale flow: validate the event and category,
// check remaining online capacity, create a PENDING booking, mint SOFT
// tickets and hand back gateway instructions.
func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category ID: %w", err)
	}

	event, err := s.eventService.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsCancelled() {
		return nil, fmt.Errorf("event %q is cancelled", event.Title)
	}
	if event.HasEnded(time.Now()) {
		return nil, fmt.Errorf("event %q has already ended", event.Title)
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.EventID != eventID {
		return nil, fmt.Errorf("category does not belong to event %s", req.EventID)
	}

	booked, err := s.repo.CountBookedQuantity(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check capacity: %w", err)
	}
	if booked+req.Quantity > category.OnlineCapacity() {
		return nil, fmt.Errorf("not enough tickets left in category %q", category.Name)
	}

	bookingRef, err := s.generateBookingReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	totalPrice := category.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))

	// Resolve the gateway before anything is persisted so an unknown code or
	// out-of-bounds amount never leaves a dangling booking behind.
	instructions, err := s.settlement.Instructions(ctx, req.GatewayCode, bookingRef, totalPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare payment: %w", err)
	}

	booking := &Booking{
		BookingRef:    bookingRef,
		EventID:       eventID,
		CategoryID:    categoryID,
		Quantity:      req.Quantity,
		Status:        StatusPending,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.GatewayCode,
		GatewayCode:   req.GatewayCode,
		TotalPrice:    totalPrice,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	codes, err := s.minter.MintSoft(ctx, booking.ID, eventID, categoryID, req.Quantity)
	if err != nil {
		// Leave the booking PENDING; it expires unconfirmed rather than
		// holding inventory forever.
		return nil, fmt.Errorf("failed to mint tickets: %w", err)
	}

	s.logger.LogBookingCreated(ctx, bookingRef, req.EventID, req.Quantity)

	return &CreateBookingResponse{
		Booking:     booking.ToResponse(),
		TicketCodes: codes,
		Payment: PaymentInstructions{
			GatewayCode:  instructions.GatewayCode,
			Flow:         instructions.Flow,
			RedirectURL:  instructions.RedirectURL,
			PromptNotice: instructions.PromptNotice,
		},
	}, nil
}

// ConfirmBooking marks a booking CONFIRMED after settlement. Safe to call
// more than once for the same reference.
func (s *service) ConfirmBooking(ctx context.Context, reference string) (*Booking, error) {
	booking, err := s.repo.ConfirmByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBookingByReference(ctx context.Context, reference string) (*Booking, error) {
	return s.repo.GetByReference(ctx, reference)
}

func (s *service) ListEventBookings(ctx context.Context, eventID uuid.UUID, page, limit int) (*PaginatedBookings, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	bookings, total, err := s.repo.ListByEvent(ctx, eventID, page, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, bookings[i].ToResponse())
	}

	return &PaginatedBookings{
		Bookings:   responses,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

func (s *service) generateBookingReference() (string, error) {
	return GenerateReference()
}

// GenerateReference builds a TKG-YYYYMMDD-XXXXXX reference with six random
// uppercase letters. Shared with the hard-ticket activation path, which
// creates its quantity-1 bookings outside this service.
func GenerateReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("TKG-%s-%s", timestamp, string(randomPart)), nil
}
