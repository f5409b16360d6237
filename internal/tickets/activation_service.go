package tickets

import (
	"context"
	"errors"
	"fmt"

	"tickgate/internal/bookings"

	"github.com/shopspring/decimal"
)

var ErrWrongTicketType = errors.New("only hard tickets can be activated")

// Activate converts an unsold physical ticket into a confirmed quantity-1
// booking at the point of sale. The booking creation and the SOLD flip commit
// atomically; a scan can never observe SOLD before the booking exists.
func (s *service) Activate(ctx context.Context, req ActivationRequest, operator Operator) (*ActivationResult, error) {
	code, _, err := s.codes.DecodeScannedCode(req.TicketCode)
	if err != nil {
		// The activation code carries the bare ticket code; a signed gate
		// payload is accepted too as long as the signature holds.
		return nil, fmt.Errorf("unreadable ticket code: %w", err)
	}

	ticket, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !ticket.IsHard() {
		return nil, ErrWrongTicketType
	}
	if !ticket.NeedsActivation() {
		return nil, ErrActivationConflict
	}

	event, err := s.eventService.GetEvent(ctx, ticket.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event.IsCancelled() {
		return nil, fmt.Errorf("event %q is cancelled, stock cannot be sold", event.Title)
	}
	if event.HasEnded(s.now()) {
		return nil, fmt.Errorf("event %q has already ended", event.Title)
	}

	category, err := s.categoryRepo.GetByID(ctx, ticket.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	bookingRef, err := bookings.GenerateReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	booking := &bookings.Booking{
		BookingRef:    bookingRef,
		EventID:       ticket.EventID,
		CategoryID:    ticket.CategoryID,
		Quantity:      1,
		Status:        bookings.StatusConfirmed,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.PaymentMethod,
		TotalPrice:    category.Price,
	}

	commission := category.Price.
		Mul(decimal.NewFromFloat(s.commissionPercent)).
		Div(decimal.NewFromInt(100)).
		Round(2)

	now := s.now()
	activated, err := s.repo.Activate(ctx, code, booking, func(t *Ticket) {
		t.ActivatedAt = &now
		t.ActivatedBy = &operator.ID
		t.ActivationLocation = req.ActivationLocation
		t.CommissionAmount = &commission
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStatusCache(ctx, code)
	s.logger.LogTicketActivated(ctx, code, bookingRef, operator.ID.String())

	// The gate payload now carries the booking reference.
	payload := s.codes.GatePayload(activated, bookingRef, event.Title)

	tr := activated.ToResponse()
	br := booking.ToResponse()
	return &ActivationResult{
		Success:     true,
		Message:     fmt.Sprintf("Ticket activated, booking %s confirmed", bookingRef),
		Ticket:      &tr,
		Booking:     &br,
		GatePayload: payload,
	}, nil
}
