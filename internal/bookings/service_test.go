package bookings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"tickgate/internal/categories"
	"tickgate/internal/events"
	"tickgate/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byRef map[string]*Booking
	byID  map[uuid.UUID]*Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byRef: make(map[string]*Booking),
		byID:  make(map[uuid.UUID]*Booking),
	}
}

func (f *fakeRepo) Create(_ context.Context, booking *Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	f.byRef[booking.BookingRef] = booking
	f.byID[booking.ID] = booking
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeRepo) GetByReference(_ context.Context, reference string) (*Booking, error) {
	b, ok := f.byRef[reference]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status, cancelledAt *time.Time) error {
	b, ok := f.byID[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	b.CancelledAt = cancelledAt
	return nil
}

func (f *fakeRepo) ConfirmByReference(_ context.Context, reference string) (*Booking, error) {
	b, ok := f.byRef[reference]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status == StatusPending {
		b.Status = StatusConfirmed
	}
	return b, nil
}

func (f *fakeRepo) ListByEvent(_ context.Context, eventID uuid.UUID, page, limit int) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range f.byID {
		if b.EventID == eventID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) CountBookedQuantity(_ context.Context, categoryID uuid.UUID) (int, error) {
	total := 0
	for _, b := range f.byID {
		if b.CategoryID == categoryID && b.Status != StatusCancelled {
			total += b.Quantity
		}
	}
	return total, nil
}

type fakeEventService struct {
	event *events.Event
}

func (f *fakeEventService) GetEvent(_ context.Context, id uuid.UUID) (*events.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, events.ErrEventNotFound
	}
	cp := *f.event
	return &cp, nil
}

func (f *fakeEventService) ListEvents(_ context.Context, page, limit int) ([]events.EventResponse, int64, error) {
	return nil, 0, nil
}

func (f *fakeEventService) CanScan(_ context.Context, eventID, userID uuid.UUID, role string) (bool, error) {
	return true, nil
}

func (f *fakeEventService) GrantScanPermission(_ context.Context, eventID, userID uuid.UUID) error {
	return nil
}

type fakeCategoryRepo struct {
	category *categories.TicketCategory
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*categories.TicketCategory, error) {
	if f.category == nil || f.category.ID != id {
		return nil, categories.ErrCategoryNotFound
	}
	cp := *f.category
	return &cp, nil
}

func (f *fakeCategoryRepo) ListByEvent(_ context.Context, eventID uuid.UUID) ([]categories.TicketCategory, error) {
	return nil, nil
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *categories.TicketCategory) error {
	return nil
}

type fakeMinter struct {
	minted int
	fail   bool
}

func (f *fakeMinter) MintSoft(_ context.Context, bookingID, eventID, categoryID uuid.UUID, quantity int) ([]string, error) {
	if f.fail {
		return nil, errors.New("mint failed")
	}
	codes := make([]string, quantity)
	for i := range codes {
		codes[i] = fmt.Sprintf("TKT-TESTCODE%04d", f.minted+i)
	}
	f.minted += quantity
	return codes, nil
}

type fakeSettlement struct {
	calls        int
	rejectedCode string
}

func (f *fakeSettlement) Instructions(_ context.Context, gatewayCode, bookingRef string, amount decimal.Decimal) (*SettlementInstructions, error) {
	f.calls++
	if gatewayCode == f.rejectedCode || f.rejectedCode == "*" {
		return nil, errors.New("gateway not registered")
	}
	return &SettlementInstructions{
		GatewayCode: gatewayCode,
		Flow:        "REDIRECT_FLOW",
		RedirectURL: "https://pay.example.com/checkout?reference=" + bookingRef,
	}, nil
}

type bookingFixture struct {
	svc        Service
	repo       *fakeRepo
	minter     *fakeMinter
	settlement *fakeSettlement
	event      *events.Event
	category   *categories.TicketCategory
}

func newBookingFixture() *bookingFixture {
	event := &events.Event{
		ID:       uuid.New(),
		Title:    "Harbor Lights Festival",
		StartsAt: time.Now().Add(24 * time.Hour),
		EndsAt:   time.Now().Add(30 * time.Hour),
		Status:   events.StatusPublished,
	}
	category := &categories.TicketCategory{
		ID:                   uuid.New(),
		EventID:              event.ID,
		Name:                 "VIP",
		Price:                decimal.NewFromInt(120),
		SalesType:            categories.SalesHybrid,
		HardTicketPercentage: 40,
		Capacity:             10, // online share is 6
	}

	repo := newFakeRepo()
	minter := &fakeMinter{}
	settlement := &fakeSettlement{}

	svc := NewService(repo, &fakeEventService{event: event}, &fakeCategoryRepo{category: category}, minter, settlement, logger.New())

	return &bookingFixture{
		svc:        svc,
		repo:       repo,
		minter:     minter,
		settlement: settlement,
		event:      event,
		category:   category,
	}
}

func (f *bookingFixture) request(quantity int) CreateBookingRequest {
	return CreateBookingRequest{
		EventID:       f.event.ID.String(),
		CategoryID:    f.category.ID.String(),
		Quantity:      quantity,
		CustomerName:  "Jordan Reyes",
		CustomerEmail: "jordan.reyes@example.com",
		GatewayCode:   "card",
	}
}

func TestCreateBooking_Success(t *testing.T) {
	f := newBookingFixture()

	resp, err := f.svc.CreateBooking(context.Background(), f.request(3))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, resp.Booking.Status)
	assert.Equal(t, 3, resp.Booking.Quantity)
	assert.Len(t, resp.TicketCodes, 3)
	assert.True(t, decimal.NewFromInt(360).Equal(resp.Booking.TotalPrice))

	assert.Equal(t, "card", resp.Payment.GatewayCode)
	assert.Contains(t, resp.Payment.RedirectURL, resp.Booking.BookingRef)

	stored, err := f.repo.GetByReference(context.Background(), resp.Booking.BookingRef)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}

func TestCreateBooking_EnforcesOnlineCapacity(t *testing.T) {
	f := newBookingFixture()

	// The hybrid category reserves 4 of 10 tickets as physical stock, so
	// the online channel holds 6.
	_, err := f.svc.CreateBooking(context.Background(), f.request(4))
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(context.Background(), f.request(3))
	require.Error(t, err, "4 + 3 exceeds the online share of 6")

	_, err = f.svc.CreateBooking(context.Background(), f.request(2))
	require.NoError(t, err)
}

func TestCreateBooking_PendingBookingsHoldCapacity(t *testing.T) {
	f := newBookingFixture()

	resp, err := f.svc.CreateBooking(context.Background(), f.request(6))
	require.NoError(t, err)

	// The first booking is still PENDING; its quantity counts.
	_, err = f.svc.CreateBooking(context.Background(), f.request(1))
	require.Error(t, err)

	// A cancelled booking releases its hold.
	stored := f.repo.byRef[resp.Booking.BookingRef]
	stored.Cancel()

	_, err = f.svc.CreateBooking(context.Background(), f.request(1))
	assert.NoError(t, err)
}

func TestCreateBooking_UnknownGatewayLeavesNothingBehind(t *testing.T) {
	f := newBookingFixture()
	f.settlement.rejectedCode = "card"

	_, err := f.svc.CreateBooking(context.Background(), f.request(2))
	require.Error(t, err)

	assert.Empty(t, f.repo.byID, "a failed gateway lookup must not persist a booking")
	assert.Zero(t, f.minter.minted)
}

func TestCreateBooking_CategoryMustBelongToEvent(t *testing.T) {
	f := newBookingFixture()
	f.category.EventID = uuid.New()

	_, err := f.svc.CreateBooking(context.Background(), f.request(1))
	require.Error(t, err)
	assert.Zero(t, f.settlement.calls)
}

func TestConfirmBooking_Idempotent(t *testing.T) {
	f := newBookingFixture()

	resp, err := f.svc.CreateBooking(context.Background(), f.request(2))
	require.NoError(t, err)
	ref := resp.Booking.BookingRef

	first, err := f.svc.ConfirmBooking(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, first.Status)

	// Settlement callbacks retry; the second confirm is a no-op.
	second, err := f.svc.ConfirmBooking(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, second.Status)
}

func TestGenerateReference_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^TKG-\d{8}-[A-Z]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref, err := GenerateReference()
		require.NoError(t, err)
		assert.Regexp(t, pattern, ref)
		assert.False(t, seen[ref], "duplicate reference %q", ref)
		seen[ref] = true
	}
}
