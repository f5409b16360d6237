package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	List(ctx context.Context, page, limit int) ([]Event, int64, error)
	HasScanPermission(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	GrantScanPermission(ctx context.Context, eventID, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context, page, limit int) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Event{}).Where("status = ?", StatusPublished)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := baseQuery.
		Order("starts_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error

	return events, totalCount, err
}

func (r *repository) HasScanPermission(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&EventStaff{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) GrantScanPermission(ctx context.Context, eventID, userID uuid.UUID) error {
	grant := &EventStaff{
		EventID: eventID,
		UserID:  userID,
	}
	return r.db.WithContext(ctx).Create(grant).Error
}
