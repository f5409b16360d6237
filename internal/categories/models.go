package categories

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SalesType string

const (
	SalesOnlineOnly SalesType = "ONLINE_ONLY"
	SalesHybrid     SalesType = "HYBRID"
)

// TicketCategory is consumed context for the ticket protocol: its price and
// hard-ticket ratio feed minting and commission, but the scan/activation
// protocol never mutates it. HardTicketPercentage is fixed at creation time.
type TicketCategory struct {
	ID                   uuid.UUID       `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID              uuid.UUID       `json:"event_id" gorm:"type:uuid;index;not null"`
	Name                 string          `json:"name" gorm:"not null;size:100"`
	Price                decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	SalesType            SalesType       `json:"sales_type" gorm:"type:varchar(20);not null;default:'ONLINE_ONLY'"`
	HardTicketPercentage int             `json:"hard_ticket_percentage" gorm:"not null;default:0;check:hard_ticket_percentage >= 0 AND hard_ticket_percentage <= 100"`
	Capacity             int             `json:"capacity" gorm:"not null;check:capacity > 0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TicketCategory) TableName() string {
	return "ticket_categories"
}

// IsHybrid reports whether this category issues physical stock alongside
// digital tickets.
func (c *TicketCategory) IsHybrid() bool {
	return c.SalesType == SalesHybrid
}

// HardAllocation is the number of physical tickets reserved out of capacity.
// Rounds down; the online share absorbs the remainder.
func (c *TicketCategory) HardAllocation() int {
	if !c.IsHybrid() {
		return 0
	}
	return c.Capacity * c.HardTicketPercentage / 100
}

// OnlineCapacity is the share of capacity sellable through the online channel.
func (c *TicketCategory) OnlineCapacity() int {
	return c.Capacity - c.HardAllocation()
}
