package tickets

import (
	"context"
	"sync"
	"time"

	"tickgate/internal/bookings"
	"tickgate/internal/categories"
	"tickgate/internal/events"
	"tickgate/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeRepo is an in-memory Repository. A single mutex stands in for the
// row locks the real implementation takes, so the conflict sentinels fire
// the same way under concurrent calls.
type fakeRepo struct {
	mu         sync.Mutex
	tickets    map[string]*Ticket
	bookingsDB map[uuid.UUID]*bookings.Booking
	scans      []ScanEvent

	// listOverride, when set, is returned verbatim by ListUnprintedHard.
	listOverride []Ticket
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tickets:    make(map[string]*Ticket),
		bookingsDB: make(map[uuid.UUID]*bookings.Booking),
	}
}

func (f *fakeRepo) snapshot(t *Ticket) *Ticket {
	cp := *t
	if t.BookingID != nil {
		if b, ok := f.bookingsDB[*t.BookingID]; ok {
			bcp := *b
			cp.Booking = &bcp
		}
	}
	return &cp
}

func (f *fakeRepo) GetByCode(_ context.Context, code string) (*Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[code]
	if !ok {
		return nil, ErrTicketNotFound
	}
	return f.snapshot(t), nil
}

func (f *fakeRepo) CreateBatch(_ context.Context, tickets []*Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range tickets {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		cp := *t
		f.tickets[t.TicketCode] = &cp
	}
	return nil
}

func (f *fakeRepo) MarkScanned(_ context.Context, code string, by uuid.UUID, location, notes string) (*Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[code]
	if !ok {
		return nil, ErrTicketNotFound
	}
	if !t.Status.CanTransitionTo(StatusScanned) {
		return f.snapshot(t), ErrScanConflict
	}

	now := time.Now()
	t.Status = StatusScanned
	t.ScannedAt = &now
	t.ScannedBy = &by
	t.ScanLocation = location
	t.ScanNotes = notes

	if t.BookingID != nil {
		if b, ok := f.bookingsDB[*t.BookingID]; ok {
			b.ScannedTickets++
		}
	}
	return f.snapshot(t), nil
}

func (f *fakeRepo) Activate(_ context.Context, code string, booking *bookings.Booking, apply func(t *Ticket)) (*Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[code]
	if !ok {
		return nil, ErrTicketNotFound
	}
	if !t.Status.CanTransitionTo(StatusSold) || t.BookingID != nil {
		return nil, ErrActivationConflict
	}

	booking.ID = uuid.New()
	bcp := *booking
	f.bookingsDB[booking.ID] = &bcp

	t.BookingID = &booking.ID
	t.Status = StatusSold
	apply(t)

	return f.snapshot(t), nil
}

func (f *fakeRepo) SealPrinted(_ context.Context, code string, by uuid.UUID) (*Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[code]
	if !ok {
		return nil, ErrTicketNotFound
	}
	if t.PrintedAt != nil {
		return f.snapshot(t), ErrAlreadyPrinted
	}
	now := time.Now()
	t.PrintedAt = &now
	t.PrintedBy = &by
	return f.snapshot(t), nil
}

func (f *fakeRepo) ListUnprintedHard(_ context.Context, eventID, categoryID uuid.UUID, limit int) ([]Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listOverride != nil {
		return f.listOverride, nil
	}

	var out []Ticket
	for _, t := range f.tickets {
		if t.EventID != eventID || t.Type != TypeHard || t.PrintedAt != nil {
			continue
		}
		if categoryID != uuid.Nil && t.CategoryID != categoryID {
			continue
		}
		out = append(out, *t)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepo) AppendScanEvent(_ context.Context, event *ScanEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	f.scans = append(f.scans, *event)
	return nil
}

func (f *fakeRepo) ListScanEvents(_ context.Context, eventID uuid.UUID, page, limit int) ([]ScanEvent, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ScanEvent
	for _, s := range f.scans {
		if s.EventID != nil && *s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) ScanHistory(_ context.Context, code string) ([]ScanEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ScanEvent
	for _, s := range f.scans {
		if s.TicketCode == code {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) scanOutcomes(code string) []Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Outcome
	for _, s := range f.scans {
		if s.TicketCode == code {
			out = append(out, s.Outcome)
		}
	}
	return out
}

// fakeEventService serves one stored event per ID and a switchable
// permission verdict.
type fakeEventService struct {
	mu       sync.Mutex
	eventsDB map[uuid.UUID]*events.Event
	denyScan bool
}

func newFakeEventService() *fakeEventService {
	return &fakeEventService{eventsDB: make(map[uuid.UUID]*events.Event)}
}

func (f *fakeEventService) GetEvent(_ context.Context, id uuid.UUID) (*events.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.eventsDB[id]
	if !ok {
		return nil, events.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventService) ListEvents(_ context.Context, page, limit int) ([]events.EventResponse, int64, error) {
	return nil, 0, nil
}

func (f *fakeEventService) CanScan(_ context.Context, eventID, userID uuid.UUID, role string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.denyScan, nil
}

func (f *fakeEventService) GrantScanPermission(_ context.Context, eventID, userID uuid.UUID) error {
	return nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*categories.TicketCategory
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*categories.TicketCategory)}
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*categories.TicketCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, categories.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) ListByEvent(_ context.Context, eventID uuid.UUID) ([]categories.TicketCategory, error) {
	return nil, nil
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *categories.TicketCategory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	f.categories[category.ID] = category
	return nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []*ScanEvent
}

func (p *capturePublisher) PublishScanEvent(_ context.Context, event *ScanEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

var testBase = time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

// fixture wires a service against the in-memory fakes with a frozen clock
// one hour into a six-hour event.
type fixture struct {
	svc      *service
	repo     *fakeRepo
	eventSvc *fakeEventService
	catRepo  *fakeCategoryRepo
	pub      *capturePublisher

	event    *events.Event
	category *categories.TicketCategory
	operator Operator
}

func newFixture() *fixture {
	repo := newFakeRepo()
	eventSvc := newFakeEventService()
	catRepo := newFakeCategoryRepo()
	pub := &capturePublisher{}

	event := &events.Event{
		ID:       uuid.New(),
		Title:    "Harbor Lights Festival",
		Venue:    "North Harbor Grounds",
		StartsAt: testBase,
		EndsAt:   testBase.Add(6 * time.Hour),
		Status:   events.StatusPublished,
	}
	eventSvc.eventsDB[event.ID] = event

	category := &categories.TicketCategory{
		ID:                   uuid.New(),
		EventID:              event.ID,
		Name:                 "VIP",
		Price:                decimal.NewFromInt(120),
		SalesType:            categories.SalesHybrid,
		HardTicketPercentage: 40,
		Capacity:             100,
	}
	catRepo.categories[category.ID] = category

	svc := &service{
		repo:              repo,
		eventService:      eventSvc,
		categoryRepo:      catRepo,
		codes:             NewCodeGenerator("test-secret", 64),
		minter:            NewMinter(repo, time.Hour),
		publisher:         pub,
		logger:            logger.New(),
		commissionPercent: 5.0,
		now:               func() time.Time { return testBase.Add(time.Hour) },
	}

	return &fixture{
		svc:      svc,
		repo:     repo,
		eventSvc: eventSvc,
		catRepo:  catRepo,
		pub:      pub,
		event:    event,
		category: category,
		operator: Operator{ID: uuid.New(), Role: "GATE_STAFF"},
	}
}

// addSoldTickets mints soft tickets against a confirmed booking and returns
// the codes with the booking.
func (f *fixture) addSoldTickets(quantity int) ([]string, *bookings.Booking) {
	booking := &bookings.Booking{
		ID:         uuid.New(),
		BookingRef: "TKG-20260501-TEST01",
		EventID:    f.event.ID,
		CategoryID: f.category.ID,
		Quantity:   quantity,
		Status:     bookings.StatusConfirmed,
		TotalPrice: f.category.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
	f.repo.bookingsDB[booking.ID] = booking

	codes, err := f.svc.minter.MintSoft(context.Background(), booking.ID, f.event.ID, f.category.ID, quantity)
	if err != nil {
		panic(err)
	}
	return codes, booking
}

// addHardStock mints n AVAILABLE hard tickets and returns their codes.
func (f *fixture) addHardStock(n int) []string {
	codes := make([]string, 0, n)
	ticketRows := make([]*Ticket, 0, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		code, err := GenerateTicketCode()
		if err != nil {
			panic(err)
		}
		ticketRows = append(ticketRows, &Ticket{
			TicketCode: code,
			Type:       TypeHard,
			Status:     StatusAvailable,
			EventID:    f.event.ID,
			CategoryID: f.category.ID,
			IssuedAt:   now,
			ExpiresAt:  now.Add(time.Hour),
		})
		codes = append(codes, code)
	}
	if err := f.repo.CreateBatch(context.Background(), ticketRows); err != nil {
		panic(err)
	}
	return codes
}
