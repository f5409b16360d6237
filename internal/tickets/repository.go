package tickets

import (
	"context"
	"errors"
	"time"

	"tickgate/internal/bookings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrScanConflict reports that the ticket was already SCANNED when the
	// transaction re-checked its status under lock.
	ErrScanConflict = errors.New("ticket already scanned")

	// ErrActivationConflict reports that the ticket was no longer unsold
	// AVAILABLE stock when the activation transaction re-checked it.
	ErrActivationConflict = errors.New("ticket already activated or sold")

	// ErrAlreadyPrinted reports that the print seal was already set.
	ErrAlreadyPrinted = errors.New("ticket already printed")
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Ticket, error)
	CreateBatch(ctx context.Context, tickets []*Ticket) error

	MarkScanned(ctx context.Context, code string, by uuid.UUID, location, notes string) (*Ticket, error)
	Activate(ctx context.Context, code string, booking *bookings.Booking, apply func(t *Ticket)) (*Ticket, error)
	SealPrinted(ctx context.Context, code string, by uuid.UUID) (*Ticket, error)

	ListUnprintedHard(ctx context.Context, eventID, categoryID uuid.UUID, limit int) ([]Ticket, error)

	AppendScanEvent(ctx context.Context, event *ScanEvent) error
	ListScanEvents(ctx context.Context, eventID uuid.UUID, page, limit int) ([]ScanEvent, int64, error)
	ScanHistory(ctx context.Context, code string) ([]ScanEvent, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Preload("Booking").
		Where("ticket_code = ?", code).
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) CreateBatch(ctx context.Context, tickets []*Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(tickets).Error
}

// MarkScanned flips a SOLD ticket to SCANNED and increments the owning
// booking's scanned counter in one transaction. The status re-check under
// FOR UPDATE is what makes two concurrent scans resolve to exactly one
// SUCCESS: the loser observes SCANNED and gets ErrScanConflict with the
// winner's scan fields.
func (r *repository) MarkScanned(ctx context.Context, code string, by uuid.UUID, location, notes string) (*Ticket, error) {
	var ticket Ticket

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("ticket_code = ?", code).
			First(&ticket).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return err
		}

		if !ticket.Status.CanTransitionTo(StatusScanned) {
			return ErrScanConflict
		}

		now := time.Now()
		ticket.Status = StatusScanned
		ticket.ScannedAt = &now
		ticket.ScannedBy = &by
		ticket.ScanLocation = location
		ticket.ScanNotes = notes

		if err := tx.Model(&Ticket{}).
			Where("id = ?", ticket.ID).
			Updates(map[string]interface{}{
				"status":        StatusScanned,
				"scanned_at":    now,
				"scanned_by":    by,
				"scan_location": location,
				"scan_notes":    notes,
				"updated_at":    now,
			}).Error; err != nil {
			return err
		}

		if ticket.BookingID != nil {
			if err := tx.Model(&bookings.Booking{}).
				Where("id = ?", *ticket.BookingID).
				UpdateColumn("scanned_tickets", gorm.Expr("scanned_tickets + 1")).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrScanConflict) {
			// Return the locked row so the caller can report the original
			// scan timestamp.
			return &ticket, err
		}
		return nil, err
	}
	return &ticket, nil
}

// Activate creates the quantity-1 CONFIRMED booking and flips the ticket to
// SOLD in one transaction. The AVAILABLE re-check under lock serializes
// activation against both a second activation and a concurrent scan.
func (r *repository) Activate(ctx context.Context, code string, booking *bookings.Booking, apply func(t *Ticket)) (*Ticket, error) {
	var ticket Ticket

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("ticket_code = ?", code).
			First(&ticket).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return err
		}

		if !ticket.Status.CanTransitionTo(StatusSold) || ticket.BookingID != nil {
			return ErrActivationConflict
		}

		if err := tx.Create(booking).Error; err != nil {
			return err
		}

		ticket.BookingID = &booking.ID
		ticket.Status = StatusSold
		apply(&ticket)

		return tx.Save(&ticket).Error
	})

	if err != nil {
		return nil, err
	}
	ticket.Booking = booking
	return &ticket, nil
}

// SealPrinted sets the print seal with a conditional update. Zero rows
// affected means another process printed first; the original printed_at is
// fetched and returned with ErrAlreadyPrinted.
func (r *repository) SealPrinted(ctx context.Context, code string, by uuid.UUID) (*Ticket, error) {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("ticket_code = ? AND type = ? AND printed_at IS NULL", code, TypeHard).
		Updates(map[string]interface{}{
			"printed_at": now,
			"printed_by": by,
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	ticket, err := r.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected == 0 {
		if ticket.PrintedAt != nil {
			return ticket, ErrAlreadyPrinted
		}
		// Not printed and not updatable: wrong type.
		return ticket, ErrTicketNotFound
	}
	return ticket, nil
}

func (r *repository) ListUnprintedHard(ctx context.Context, eventID, categoryID uuid.UUID, limit int) ([]Ticket, error) {
	if limit <= 0 {
		limit = 50
	}

	query := r.db.WithContext(ctx).
		Where("event_id = ? AND type = ? AND printed_at IS NULL", eventID, TypeHard)
	if categoryID != uuid.Nil {
		query = query.Where("category_id = ?", categoryID)
	}

	var tickets []Ticket
	err := query.Order("created_at ASC").Limit(limit).Find(&tickets).Error
	return tickets, err
}

func (r *repository) AppendScanEvent(ctx context.Context, event *ScanEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) ListScanEvents(ctx context.Context, eventID uuid.UUID, page, limit int) ([]ScanEvent, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var events []ScanEvent
	var totalCount int64

	baseQuery := r.db.WithContext(ctx).
		Model(&ScanEvent{}).
		Where("event_id = ?", eventID)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Order("scanned_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error

	return events, totalCount, err
}

func (r *repository) ScanHistory(ctx context.Context, code string) ([]ScanEvent, error) {
	var events []ScanEvent
	err := r.db.WithContext(ctx).
		Where("ticket_code = ?", code).
		Order("scanned_at ASC").
		Find(&events).Error
	return events, err
}
