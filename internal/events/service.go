package events

import (
	"context"

	"tickgate/internal/users"

	"github.com/google/uuid"
)

// Service exposes the read surface scanning clients need, plus the
// per-event scan permission check consumed by the scan validator.
// Catalog management itself lives outside this system.
type Service interface {
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context, page, limit int) ([]EventResponse, int64, error)
	CanScan(ctx context.Context, eventID, userID uuid.UUID, role string) (bool, error)
	GrantScanPermission(ctx context.Context, eventID, userID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListEvents(ctx context.Context, page, limit int) ([]EventResponse, int64, error) {
	events, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}
	return responses, total, nil
}

func (s *service) CanScan(ctx context.Context, eventID, userID uuid.UUID, role string) (bool, error) {
	// Admins may scan at any gate
	if role == string(users.RoleAdmin) {
		return true, nil
	}
	return s.repo.HasScanPermission(ctx, eventID, userID)
}

func (s *service) GrantScanPermission(ctx context.Context, eventID, userID uuid.UUID) error {
	return s.repo.GrantScanPermission(ctx, eventID, userID)
}
