package tickets

import (
	"time"

	"tickgate/internal/bookings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ticket is the unit of admission. SOFT tickets are bound to a booking at
// issuance; HARD tickets sit in physical stock with a nil booking until
// activated at the point of sale.
type Ticket struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TicketCode string    `gorm:"uniqueIndex;not null;size:64" json:"ticket_code"`
	Type       Type      `gorm:"type:varchar(10);not null" json:"type"`
	Status     Status    `gorm:"type:varchar(20);not null;default:'AVAILABLE';index" json:"status"`

	EventID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"event_id"`
	CategoryID uuid.UUID  `gorm:"type:uuid;index;not null" json:"category_id"`
	BookingID  *uuid.UUID `gorm:"type:uuid;index" json:"booking_id,omitempty"`

	Booking *bookings.Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`

	IssuedAt  time.Time `gorm:"not null" json:"issued_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	ScannedAt    *time.Time `json:"scanned_at,omitempty"`
	ScannedBy    *uuid.UUID `gorm:"type:uuid" json:"scanned_by,omitempty"`
	ScanLocation string     `gorm:"size:255" json:"scan_location,omitempty"`
	ScanNotes    string     `gorm:"size:500" json:"scan_notes,omitempty"`

	ActivatedAt        *time.Time `json:"activated_at,omitempty"`
	ActivatedBy        *uuid.UUID `gorm:"type:uuid" json:"activated_by,omitempty"`
	ActivationLocation string     `gorm:"size:255" json:"activation_location,omitempty"`

	// PrintedAt is the print seal: written at most once, never cleared.
	PrintedAt *time.Time `json:"printed_at,omitempty"`
	PrintedBy *uuid.UUID `gorm:"type:uuid" json:"printed_by,omitempty"`

	CommissionAmount *decimal.Decimal `gorm:"type:numeric(12,2)" json:"commission_amount,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) IsHard() bool {
	return t.Type == TypeHard
}

// NeedsActivation reports whether this ticket is unsold physical stock.
func (t *Ticket) NeedsActivation() bool {
	return t.IsHard() && t.Status == StatusAvailable && t.BookingID == nil
}

func (t *Ticket) IsPrinted() bool {
	return t.PrintedAt != nil
}

func (t *Ticket) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ScanEvent is one append-only audit record per validator invocation. Never
// mutated or deleted; surfaced as scan history and published to Kafka.
type ScanEvent struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TicketCode    string     `gorm:"index;not null;size:128" json:"ticket_code"`
	EventID       *uuid.UUID `gorm:"type:uuid;index" json:"event_id,omitempty"`
	ScannedAt     time.Time  `gorm:"not null;index" json:"scanned_at"`
	WasSuccessful bool       `gorm:"not null" json:"was_successful"`
	Outcome       Outcome    `gorm:"type:varchar(30);not null" json:"outcome"`
	FailureReason string     `gorm:"size:255" json:"failure_reason,omitempty"`
	ScanLocation  string     `gorm:"size:255" json:"scan_location,omitempty"`
	ScannedBy     uuid.UUID  `gorm:"type:uuid;not null" json:"scanned_by"`
}

func (ScanEvent) TableName() string {
	return "scan_events"
}

// Operator identifies the authenticated staff member driving a scan,
// activation or print call.
type Operator struct {
	ID   uuid.UUID
	Role string
}

// TicketResponse is the operator-facing projection of a ticket.
type TicketResponse struct {
	ID               string           `json:"id"`
	TicketCode       string           `json:"ticket_code"`
	Type             Type             `json:"type"`
	Status           Status           `json:"status"`
	EventID          string           `json:"event_id"`
	CategoryID       string           `json:"category_id"`
	BookingID        string           `json:"booking_id,omitempty"`
	IssuedAt         time.Time        `json:"issued_at"`
	ExpiresAt        time.Time        `json:"expires_at"`
	ScannedAt        *time.Time       `json:"scanned_at,omitempty"`
	ScanLocation     string           `json:"scan_location,omitempty"`
	ActivatedAt      *time.Time       `json:"activated_at,omitempty"`
	PrintedAt        *time.Time       `json:"printed_at,omitempty"`
	CommissionAmount *decimal.Decimal `json:"commission_amount,omitempty"`
}

func (t *Ticket) ToResponse() TicketResponse {
	resp := TicketResponse{
		ID:               t.ID.String(),
		TicketCode:       t.TicketCode,
		Type:             t.Type,
		Status:           t.Status,
		EventID:          t.EventID.String(),
		CategoryID:       t.CategoryID.String(),
		IssuedAt:         t.IssuedAt,
		ExpiresAt:        t.ExpiresAt,
		ScannedAt:        t.ScannedAt,
		ScanLocation:     t.ScanLocation,
		ActivatedAt:      t.ActivatedAt,
		PrintedAt:        t.PrintedAt,
		CommissionAmount: t.CommissionAmount,
	}
	if t.BookingID != nil {
		resp.BookingID = t.BookingID.String()
	}
	return resp
}
