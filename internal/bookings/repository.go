package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, cancelledAt *time.Time) error
	ConfirmByReference(ctx context.Context, reference string) (*Booking, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, page, limit int) ([]Booking, int64, error)
	CountBookedQuantity(ctx context.Context, categoryID uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("booking_ref = ?", reference).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, cancelledAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if cancelledAt != nil {
		updates["cancelled_at"] = *cancelledAt
	}

	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ConfirmByReference flips a PENDING booking to CONFIRMED. The conditional
// WHERE keeps settlement-callback retries idempotent: a second callback for
// an already-confirmed booking is a no-op, not an error.
func (r *repository) ConfirmByReference(ctx context.Context, reference string) (*Booking, error) {
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("booking_ref = ? AND status = ?", reference, StatusPending).
		Updates(map[string]interface{}{
			"status":     StatusConfirmed,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return nil, err
	}
	return r.GetByReference(ctx, reference)
}

// CountBookedQuantity sums the quantities of all non-cancelled bookings for a
// category. PENDING bookings count so concurrent buyers cannot oversell while
// a settlement is in flight.
func (r *repository) CountBookedQuantity(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("category_id = ? AND status != ?", categoryID, StatusCancelled).
		Scan(&total).Error
	return int(total), err
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID, page, limit int) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("event_id = ?", eventID)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}
