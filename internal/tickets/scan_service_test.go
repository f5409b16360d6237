package tickets

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"tickgate/internal/bookings"
	"tickgate/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_Success(t *testing.T) {
	f := newFixture()
	codes, booking := f.addSoldTickets(2)

	result, err := f.svc.Scan(context.Background(), ScanRequest{
		TicketCode:   codes[0],
		ScanLocation: "Gate A",
	}, f.operator)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, OutcomeSuccess, result.Code)
	require.NotNil(t, result.Ticket)
	assert.Equal(t, StatusScanned, result.Ticket.Status)
	assert.Equal(t, f.operator.ID.String(), result.ScannedBy)
	require.NotNil(t, result.ScannedAt)

	require.NotNil(t, result.Booking)
	assert.Equal(t, 1, result.Booking.ScannedTickets)
	assert.False(t, result.Booking.IsFullyScanned)

	require.NotNil(t, result.Event)
	assert.Equal(t, f.event.Title, result.Event.Title)

	assert.Equal(t, 1, booking.ScannedTickets)
	assert.Equal(t, []Outcome{OutcomeSuccess}, f.repo.scanOutcomes(codes[0]))
}

func TestScan_SecondScanReportsOriginalEntry(t *testing.T) {
	f := newFixture()
	codes, booking := f.addSoldTickets(1)

	first, err := f.svc.Scan(context.Background(), ScanRequest{TicketCode: codes[0]}, f.operator)
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := f.svc.Scan(context.Background(), ScanRequest{TicketCode: codes[0]}, f.operator)
	require.NoError(t, err)

	assert.False(t, second.Success)
	assert.Equal(t, OutcomeAlreadyScanned, second.Code)
	require.NotNil(t, second.ScannedAt)
	assert.Equal(t, first.ScannedAt.Unix(), second.ScannedAt.Unix())
	assert.Equal(t, first.ScannedBy, second.ScannedBy)

	// The counter moved exactly once.
	assert.Equal(t, 1, booking.ScannedTickets)
	assert.Equal(t, []Outcome{OutcomeSuccess, OutcomeAlreadyScanned}, f.repo.scanOutcomes(codes[0]))
}

func TestScan_OutcomePerTicketState(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture) string
		want    Outcome
	}{
		{
			name: "unknown code",
			prepare: func(f *fixture) string {
				return "TKT-DOESNOTEXIST"
			},
			want: OutcomeInvalidTicket,
		},
		{
			name: "unsold hard stock",
			prepare: func(f *fixture) string {
				return f.addHardStock(1)[0]
			},
			want: OutcomeNotActivated,
		},
		{
			name: "pending booking",
			prepare: func(f *fixture) string {
				codes, booking := f.addSoldTickets(1)
				booking.Status = bookings.StatusPending
				return codes[0]
			},
			want: OutcomeBookingNotConfirmed,
		},
		{
			name: "cancelled event",
			prepare: func(f *fixture) string {
				codes, _ := f.addSoldTickets(1)
				f.event.Status = events.StatusCancelled
				return codes[0]
			},
			want: OutcomeEventCancelled,
		},
		{
			name: "ended event",
			prepare: func(f *fixture) string {
				codes, _ := f.addSoldTickets(1)
				f.svc.now = func() time.Time { return f.event.EndsAt.Add(time.Minute) }
				return codes[0]
			},
			want: OutcomeEventEnded,
		},
		{
			name: "no scan permission",
			prepare: func(f *fixture) string {
				codes, _ := f.addSoldTickets(1)
				f.eventSvc.denyScan = true
				return codes[0]
			},
			want: OutcomeNoPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			code := tt.prepare(f)

			result, err := f.svc.Scan(context.Background(), ScanRequest{TicketCode: code}, f.operator)
			require.NoError(t, err)

			assert.False(t, result.Success)
			assert.Equal(t, tt.want, result.Code)
			assert.NotEmpty(t, result.Message)

			// Exactly one audit record per invocation, success or not.
			assert.Equal(t, []Outcome{tt.want}, f.repo.scanOutcomes(code))
		})
	}
}

func TestScan_TamperedGatePayload(t *testing.T) {
	f := newFixture()
	codes, _ := f.addSoldTickets(1)

	ticket, err := f.repo.GetByCode(context.Background(), codes[0])
	require.NoError(t, err)

	payload := f.svc.codes.GatePayload(ticket, "TKG-20260501-TEST01", f.event.Title)
	payload.TicketCode = "TKT-SOMEOTHERONE"
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	result, err := f.svc.Scan(context.Background(), ScanRequest{TicketCode: string(raw)}, f.operator)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, OutcomeInvalidSignature, result.Code)

	// The embedded code ends up in the audit log even though the signature
	// failed.
	assert.Equal(t, []Outcome{OutcomeInvalidSignature}, f.repo.scanOutcomes("TKT-SOMEOTHERONE"))
}

func TestScan_SignedPayloadValidates(t *testing.T) {
	f := newFixture()
	codes, _ := f.addSoldTickets(1)

	ticket, err := f.repo.GetByCode(context.Background(), codes[0])
	require.NoError(t, err)

	payload := f.svc.codes.GatePayload(ticket, "TKG-20260501-TEST01", f.event.Title)
	raw, err := f.svc.codes.EncodeGatePayload(payload)
	require.NoError(t, err)

	result, err := f.svc.Scan(context.Background(), ScanRequest{TicketCode: raw}, f.operator)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestScan_ConcurrentScansResolveToOneSuccess(t *testing.T) {
	f := newFixture()
	codes, booking := f.addSoldTickets(1)

	const attempts = 8
	results := make([]*ScanResult, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := f.svc.Scan(context.Background(), ScanRequest{TicketCode: codes[0]}, f.operator)
			require.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, r := range results {
		if r.Success {
			successes++
		} else {
			assert.Equal(t, OutcomeAlreadyScanned, r.Code)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, booking.ScannedTickets)
	assert.Len(t, f.repo.scanOutcomes(codes[0]), attempts)
}

func TestScan_MultiTicketBookingScansIndependently(t *testing.T) {
	f := newFixture()
	codes, booking := f.addSoldTickets(3)

	for i, code := range codes {
		result, err := f.svc.Scan(context.Background(), ScanRequest{TicketCode: code}, f.operator)
		require.NoError(t, err)
		require.True(t, result.Success, "ticket %d", i)
		require.NotNil(t, result.Booking)
		assert.Equal(t, i+1, result.Booking.ScannedTickets)
	}

	assert.True(t, booking.IsFullyScanned())

	// A fourth presentation of any of the three codes is a re-scan, not a
	// capacity question.
	result, err := f.svc.Scan(context.Background(), ScanRequest{TicketCode: codes[1]}, f.operator)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, OutcomeAlreadyScanned, result.Code)
	assert.Equal(t, 3, booking.ScannedTickets)
}

func TestScan_PublishesEveryAuditRecord(t *testing.T) {
	f := newFixture()
	codes, _ := f.addSoldTickets(1)

	_, err := f.svc.Scan(context.Background(), ScanRequest{TicketCode: codes[0]}, f.operator)
	require.NoError(t, err)
	_, err = f.svc.Scan(context.Background(), ScanRequest{TicketCode: codes[0]}, f.operator)
	require.NoError(t, err)

	assert.Equal(t, 2, f.pub.count())
}

func TestTicketStatus_NeverMutates(t *testing.T) {
	f := newFixture()
	codes, _ := f.addSoldTickets(1)

	for i := 0; i < 3; i++ {
		status, err := f.svc.TicketStatus(context.Background(), codes[0])
		require.NoError(t, err)
		assert.Equal(t, StatusSold, status.Ticket.Status)
		assert.Empty(t, status.ScanHistory)
	}

	// Status reads leave no audit trail.
	assert.Empty(t, f.repo.scanOutcomes(codes[0]))
}
