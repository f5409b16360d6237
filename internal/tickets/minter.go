package tickets

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"tickgate/internal/categories"

	"github.com/google/uuid"
)

// codeAlphabet omits 0/O/1/I so printed codes survive manual entry.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 12

// SplitQuantity applies the hard/soft minting policy for a hybrid category:
// floor division for the HARD share, SOFT absorbs the remainder.
func SplitQuantity(quantity, hardPercentage int) (hard, soft int) {
	hard = quantity * hardPercentage / 100
	return hard, quantity - hard
}

// Minter issues ticket records with fresh opaque codes. SOFT tickets are
// minted per booking at sale time; HARD tickets are minted as unsold stock
// when a hybrid category is provisioned.
type Minter struct {
	repo     Repository
	validity time.Duration
}

func NewMinter(repo Repository, validity time.Duration) *Minter {
	if validity <= 0 {
		validity = 90 * 24 * time.Hour
	}
	return &Minter{repo: repo, validity: validity}
}

// MintSoft issues quantity SOFT tickets bound to a booking and returns their
// codes. Satisfies the bookings package's TicketMinter.
func (m *Minter) MintSoft(ctx context.Context, bookingID, eventID, categoryID uuid.UUID, quantity int) ([]string, error) {
	now := time.Now()
	tickets := make([]*Ticket, 0, quantity)
	codes := make([]string, 0, quantity)

	for i := 0; i < quantity; i++ {
		code, err := GenerateTicketCode()
		if err != nil {
			return nil, err
		}
		bid := bookingID
		tickets = append(tickets, &Ticket{
			TicketCode: code,
			Type:       TypeSoft,
			Status:     StatusSold,
			EventID:    eventID,
			CategoryID: categoryID,
			BookingID:  &bid,
			IssuedAt:   now,
			ExpiresAt:  now.Add(m.validity),
		})
		codes = append(codes, code)
	}

	if err := m.repo.CreateBatch(ctx, tickets); err != nil {
		return nil, fmt.Errorf("failed to mint soft tickets: %w", err)
	}
	return codes, nil
}

// MintHardStock issues the physical allocation of a hybrid category as
// AVAILABLE tickets with no booking. ONLINE_ONLY categories have no physical
// share and mint nothing here.
func (m *Minter) MintHardStock(ctx context.Context, category *categories.TicketCategory) ([]string, error) {
	count := category.HardAllocation()
	if count == 0 {
		return nil, nil
	}

	now := time.Now()
	tickets := make([]*Ticket, 0, count)
	codes := make([]string, 0, count)

	for i := 0; i < count; i++ {
		code, err := GenerateTicketCode()
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, &Ticket{
			TicketCode: code,
			Type:       TypeHard,
			Status:     StatusAvailable,
			EventID:    category.EventID,
			CategoryID: category.ID,
			IssuedAt:   now,
			ExpiresAt:  now.Add(m.validity),
		})
		codes = append(codes, code)
	}

	if err := m.repo.CreateBatch(ctx, tickets); err != nil {
		return nil, fmt.Errorf("failed to mint hard stock: %w", err)
	}
	return codes, nil
}

// GenerateTicketCode builds a TKT- prefixed opaque code from the unambiguous
// alphabet. Uniqueness is enforced by the ticket_code unique index.
func GenerateTicketCode() (string, error) {
	buf := make([]byte, codeLength)
	for i := range buf {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[num.Int64()]
	}
	return fmt.Sprintf("TKT-%s", string(buf)), nil
}
