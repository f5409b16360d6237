package categories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("ticket category not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*TicketCategory, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketCategory, error)
	Create(ctx context.Context, category *TicketCategory) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*TicketCategory, error) {
	var category TicketCategory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketCategory, error) {
	var cats []TicketCategory
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("price ASC").
		Find(&cats).Error
	return cats, err
}

func (r *repository) Create(ctx context.Context, category *TicketCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}
