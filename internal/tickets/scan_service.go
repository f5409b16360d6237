package tickets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Scan is the authoritative validator. Every invocation appends exactly one
// ScanEvent, success or failure; only the SUCCESS path mutates ticket and
// booking state, and it does so exactly once per ticket.
func (s *service) Scan(ctx context.Context, req ScanRequest, operator Operator) (*ScanResult, error) {
	code, _, decodeErr := s.codes.DecodeScannedCode(req.TicketCode)
	if decodeErr != nil {
		if errors.Is(decodeErr, ErrInvalidSignature) {
			return s.failScan(ctx, code, nil, OutcomeInvalidSignature, req, operator), nil
		}
		return s.failScan(ctx, req.TicketCode, nil, OutcomeInvalidTicket, req, operator), nil
	}

	ticket, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return s.failScan(ctx, code, nil, OutcomeInvalidTicket, req, operator), nil
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	// Re-scan of a retired ticket: report the original entry time.
	if ticket.Status == StatusScanned {
		return s.failScan(ctx, code, ticket, OutcomeAlreadyScanned, req, operator), nil
	}

	if ticket.NeedsActivation() {
		return s.failScan(ctx, code, ticket, OutcomeNotActivated, req, operator), nil
	}

	if ticket.Status != StatusSold {
		return s.failScan(ctx, code, ticket, OutcomeInvalidTicket, req, operator), nil
	}

	if ticket.Booking == nil || !ticket.Booking.Status.IsScannable() {
		return s.failScan(ctx, code, ticket, OutcomeBookingNotConfirmed, req, operator), nil
	}

	event, err := s.eventService.GetEvent(ctx, ticket.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event.IsCancelled() {
		return s.failScan(ctx, code, ticket, OutcomeEventCancelled, req, operator), nil
	}
	if event.HasEnded(s.now()) {
		return s.failScan(ctx, code, ticket, OutcomeEventEnded, req, operator), nil
	}

	allowed, err := s.eventService.CanScan(ctx, ticket.EventID, operator.ID, operator.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to check scan permission: %w", err)
	}
	if !allowed {
		return s.failScan(ctx, code, ticket, OutcomeNoPermission, req, operator), nil
	}

	scanned, err := s.repo.MarkScanned(ctx, code, operator.ID, req.ScanLocation, req.Notes)
	if err != nil {
		// Lost the race: another device scanned between our read and the
		// locked re-check.
		if errors.Is(err, ErrScanConflict) {
			return s.failScan(ctx, code, scanned, OutcomeAlreadyScanned, req, operator), nil
		}
		return nil, fmt.Errorf("failed to mark ticket scanned: %w", err)
	}

	s.invalidateStatusCache(ctx, code)
	s.recordScan(ctx, code, &ticket.EventID, OutcomeSuccess, req, operator)
	s.logger.LogTicketScanned(ctx, code, string(OutcomeSuccess), operator.ID.String())

	result := &ScanResult{
		Success:   true,
		Code:      OutcomeSuccess,
		Message:   OutcomeSuccess.Message(),
		ScannedAt: scanned.ScannedAt,
		ScannedBy: operator.ID.String(),
	}
	tr := scanned.ToResponse()
	result.Ticket = &tr

	// Re-read the booking so the response carries the incremented counter.
	if refreshed, err := s.repo.GetByCode(ctx, code); err == nil && refreshed.Booking != nil {
		br := refreshed.Booking.ToResponse()
		result.Booking = &br
	}
	er := event.ToResponse()
	result.Event = &er

	return result, nil
}

// failScan records the failure in the audit log and builds the normalized
// negative verdict.
func (s *service) failScan(ctx context.Context, code string, ticket *Ticket, outcome Outcome, req ScanRequest, operator Operator) *ScanResult {
	var eventID *uuid.UUID
	if ticket != nil {
		eventID = &ticket.EventID
	}
	s.recordScan(ctx, code, eventID, outcome, req, operator)
	s.logger.LogTicketScanned(ctx, code, string(outcome), operator.ID.String())

	result := &ScanResult{
		Success: false,
		Code:    outcome,
		Message: outcome.Message(),
	}

	if ticket != nil {
		tr := ticket.ToResponse()
		result.Ticket = &tr
		if outcome == OutcomeAlreadyScanned {
			result.ScannedAt = ticket.ScannedAt
			if ticket.ScannedBy != nil {
				result.ScannedBy = ticket.ScannedBy.String()
			}
		}
		if ticket.Booking != nil {
			br := ticket.Booking.ToResponse()
			result.Booking = &br
		}
	}
	return result
}

// recordScan appends the audit record and hands it to the downstream feed.
// The publish is best-effort; a broker outage never blocks a gate.
func (s *service) recordScan(ctx context.Context, code string, eventID *uuid.UUID, outcome Outcome, req ScanRequest, operator Operator) {
	event := &ScanEvent{
		TicketCode:    code,
		EventID:       eventID,
		ScannedAt:     s.now(),
		WasSuccessful: outcome.IsSuccess(),
		Outcome:       outcome,
		ScanLocation:  req.ScanLocation,
		ScannedBy:     operator.ID,
	}
	if !outcome.IsSuccess() {
		event.FailureReason = outcome.Message()
	}

	if err := s.repo.AppendScanEvent(ctx, event); err != nil {
		s.logger.Error("failed to append scan event", "ticket_code", code, "error", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishScanEvent(ctx, event); err != nil {
			s.logger.Warn("failed to publish scan event", "ticket_code", code, "error", err)
		}
	}
}
