package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking is the commercial record one or more tickets are issued against.
// Online sales carry quantity N; a hard-ticket activation always creates a
// quantity-1 booking at the point of sale.
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingRef string    `gorm:"uniqueIndex;not null" json:"booking_ref"`
	EventID    uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null" json:"category_id"`
	Quantity   int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	Status     Status    `gorm:"type:varchar(20);default:'PENDING'" json:"status"`

	// ScannedTickets is maintained exclusively by the scan validator's
	// transaction; IsFullyScanned is derived, never stored.
	ScannedTickets int `gorm:"not null;default:0" json:"scanned_tickets"`

	CustomerName  string `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerEmail string `gorm:"size:255" json:"customer_email,omitempty"`
	CustomerPhone string `gorm:"size:50" json:"customer_phone,omitempty"`
	PaymentMethod string `gorm:"size:50" json:"payment_method,omitempty"`
	GatewayCode   string `gorm:"size:50" json:"gateway_code,omitempty"`

	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_price"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsFullyScanned reports whether every ticket under this booking has passed
// gate entry. Derived, recomputed from counters on each read.
func (b *Booking) IsFullyScanned() bool {
	return b.ScannedTickets >= b.Quantity
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

func (b *Booking) Cancel() {
	b.Status = StatusCancelled
	now := time.Now()
	b.CancelledAt = &now
	b.UpdatedAt = now
}

// BookingResponse is the customer/operator-facing projection.
type BookingResponse struct {
	ID             string          `json:"id"`
	BookingRef     string          `json:"booking_ref"`
	EventID        string          `json:"event_id"`
	CategoryID     string          `json:"category_id"`
	Quantity       int             `json:"quantity"`
	Status         Status          `json:"status"`
	ScannedTickets int             `json:"scanned_tickets"`
	IsFullyScanned bool            `json:"is_fully_scanned"`
	CustomerName   string          `json:"customer_name,omitempty"`
	CustomerEmail  string          `json:"customer_email,omitempty"`
	CustomerPhone  string          `json:"customer_phone,omitempty"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToResponse converts a Booking to its projection, computing the derived
// fully-scanned flag.
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:             b.ID.String(),
		BookingRef:     b.BookingRef,
		EventID:        b.EventID.String(),
		CategoryID:     b.CategoryID.String(),
		Quantity:       b.Quantity,
		Status:         b.Status,
		ScannedTickets: b.ScannedTickets,
		IsFullyScanned: b.IsFullyScanned(),
		CustomerName:   b.CustomerName,
		CustomerEmail:  b.CustomerEmail,
		CustomerPhone:  b.CustomerPhone,
		PaymentMethod:  b.PaymentMethod,
		TotalPrice:     b.TotalPrice,
		CreatedAt:      b.CreatedAt,
	}
}
