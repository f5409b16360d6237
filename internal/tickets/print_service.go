package tickets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PrintSingle seals one hard ticket and returns its printable artifacts. The
// seal is a conditional update on printed_at; once set it can never be
// re-obtained through this path.
func (s *service) PrintSingle(ctx context.Context, code string, operator Operator) (*PrintResult, error) {
	ticket, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !ticket.IsHard() {
		return nil, ErrWrongTicketType
	}

	sealed, err := s.repo.SealPrinted(ctx, code, operator.ID)
	if err != nil {
		if errors.Is(err, ErrAlreadyPrinted) {
			return &PrintResult{
				Success:   false,
				Code:      OutcomeAlreadyPrinted,
				Message:   OutcomeAlreadyPrinted.Message(),
				PrintedAt: sealed.PrintedAt,
			}, nil
		}
		return nil, err
	}

	artifact, err := s.renderArtifacts(ctx, sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to render printable artifacts: %w", err)
	}

	s.invalidateStatusCache(ctx, code)
	s.logger.LogTicketPrinted(ctx, code, operator.ID.String())

	return &PrintResult{
		Success:   true,
		Message:   "Ticket sealed and artifacts rendered",
		PrintedAt: sealed.PrintedAt,
		Artifact:  artifact,
	}, nil
}

// PrintBatch seals up to Quantity unprinted hard tickets. Per-ticket
// failures are skips, not aborts; the batch never yields more artifacts than
// distinct unprinted tickets, even when another process seals one mid-batch.
func (s *service) PrintBatch(ctx context.Context, req PrintBatchRequest, operator Operator) (*BatchPrintResult, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}
	categoryID := uuid.Nil
	if req.CategoryID != "" {
		categoryID, err = uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category ID: %w", err)
		}
	}

	candidates, err := s.repo.ListUnprintedHard(ctx, eventID, categoryID, req.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprinted stock: %w", err)
	}

	result := &BatchPrintResult{
		Requested: req.Quantity,
		Artifacts: make([]PrintArtifact, 0, len(candidates)),
	}

	for i := range candidates {
		single, err := s.PrintSingle(ctx, candidates[i].TicketCode, operator)
		if err != nil {
			result.Skipped++
			result.Skips = append(result.Skips, BatchSkip{
				TicketCode: candidates[i].TicketCode,
				Code:       OutcomeInvalidTicket,
				Message:    err.Error(),
			})
			continue
		}
		if !single.Success {
			result.Skipped++
			result.Skips = append(result.Skips, BatchSkip{
				TicketCode: candidates[i].TicketCode,
				Code:       single.Code,
				Message:    single.Message,
			})
			continue
		}
		result.Succeeded++
		result.Artifacts = append(result.Artifacts, *single.Artifact)
	}

	return result, nil
}

// renderArtifacts builds the activation barcode and the gate QR for one
// sealed ticket. Unsold stock gets a gate payload with empty booking fields
// so printing can happen before sale.
func (s *service) renderArtifacts(ctx context.Context, ticket *Ticket) (*PrintArtifact, error) {
	var bookingRef string
	if ticket.Booking != nil {
		bookingRef = ticket.Booking.BookingRef
	}

	var eventTitle string
	if event, err := s.eventService.GetEvent(ctx, ticket.EventID); err == nil {
		eventTitle = event.Title
	}

	payload := s.codes.GatePayload(ticket, bookingRef, eventTitle)
	gatePNG, err := s.codes.GateCodePNG(payload)
	if err != nil {
		return nil, err
	}

	activationPNG, err := s.codes.ActivationCodePNG(ticket.TicketCode)
	if err != nil {
		return nil, err
	}

	return &PrintArtifact{
		TicketCode:        ticket.TicketCode,
		ActivationCodePNG: activationPNG,
		GateCodePNG:       gatePNG,
	}, nil
}
