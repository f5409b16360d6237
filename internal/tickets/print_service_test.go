package tickets

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngMagic is the fixed eight-byte PNG header.
var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestPrintSingle_SealsAndRenders(t *testing.T) {
	f := newFixture()
	code := f.addHardStock(1)[0]

	result, err := f.svc.PrintSingle(context.Background(), code, f.operator)
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.NotNil(t, result.PrintedAt)
	require.NotNil(t, result.Artifact)
	assert.Equal(t, code, result.Artifact.TicketCode)
	assert.True(t, bytes.HasPrefix(result.Artifact.GateCodePNG, pngMagic))
	assert.True(t, bytes.HasPrefix(result.Artifact.ActivationCodePNG, pngMagic))

	ticket, err := f.repo.GetByCode(context.Background(), code)
	require.NoError(t, err)
	assert.True(t, ticket.IsPrinted())
}

func TestPrintSingle_SealIsWriteOnce(t *testing.T) {
	f := newFixture()
	code := f.addHardStock(1)[0]

	first, err := f.svc.PrintSingle(context.Background(), code, f.operator)
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := f.svc.PrintSingle(context.Background(), code, f.operator)
	require.NoError(t, err)

	assert.False(t, second.Success)
	assert.Equal(t, OutcomeAlreadyPrinted, second.Code)
	assert.Nil(t, second.Artifact)
	require.NotNil(t, second.PrintedAt)
	assert.Equal(t, first.PrintedAt.Unix(), second.PrintedAt.Unix())
}

func TestPrintSingle_SoftTicketRejected(t *testing.T) {
	f := newFixture()
	codes, _ := f.addSoldTickets(1)

	_, err := f.svc.PrintSingle(context.Background(), codes[0], f.operator)
	assert.ErrorIs(t, err, ErrWrongTicketType)
}

func TestPrintSingle_SoldHardTicketStillPrintable(t *testing.T) {
	f := newFixture()
	code := f.addHardStock(1)[0]

	// Activation before printing is legal; the print then embeds the
	// booking reference in the gate payload.
	activation, err := f.svc.Activate(context.Background(), ActivationRequest{
		TicketCode:    code,
		PaymentMethod: "CASH",
	}, f.operator)
	require.NoError(t, err)

	result, err := f.svc.PrintSingle(context.Background(), code, f.operator)
	require.NoError(t, err)
	require.True(t, result.Success)

	decoded, payload, err := f.svc.codes.DecodeScannedCode(decodePNGPayload(t, f, result))
	require.NoError(t, err)
	assert.Equal(t, code, decoded)
	require.NotNil(t, payload)
	assert.Equal(t, activation.Booking.BookingRef, payload.BookingReference)
}

func TestPrintBatch_SealsRequestedQuantity(t *testing.T) {
	f := newFixture()
	f.addHardStock(5)

	result, err := f.svc.PrintBatch(context.Background(), PrintBatchRequest{
		EventID:  f.event.ID.String(),
		Quantity: 5,
	}, f.operator)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Succeeded)
	assert.Equal(t, 0, result.Skipped)
	assert.Len(t, result.Artifacts, 5)

	// Every candidate is now sealed; a rerun finds nothing to print.
	rerun, err := f.svc.PrintBatch(context.Background(), PrintBatchRequest{
		EventID:  f.event.ID.String(),
		Quantity: 5,
	}, f.operator)
	require.NoError(t, err)
	assert.Equal(t, 0, rerun.Succeeded)
	assert.Empty(t, rerun.Artifacts)
}

func TestPrintBatch_ConcurrentSealSkipsNotAborts(t *testing.T) {
	f := newFixture()
	codes := f.addHardStock(10)

	// Freeze the candidate list, then let another process seal one of the
	// candidates before the batch reaches it.
	candidates, err := f.repo.ListUnprintedHard(context.Background(), f.event.ID, f.category.ID, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 10)
	f.repo.listOverride = candidates

	_, err = f.repo.SealPrinted(context.Background(), candidates[4].TicketCode, f.operator.ID)
	require.NoError(t, err)

	result, err := f.svc.PrintBatch(context.Background(), PrintBatchRequest{
		EventID:  f.event.ID.String(),
		Quantity: 10,
	}, f.operator)
	require.NoError(t, err)

	assert.Equal(t, 9, result.Succeeded)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Skips, 1)
	assert.Equal(t, candidates[4].TicketCode, result.Skips[0].TicketCode)
	assert.Equal(t, OutcomeAlreadyPrinted, result.Skips[0].Code)
	assert.Len(t, result.Artifacts, 9)

	// All ten ended up sealed exactly once.
	for _, code := range codes {
		ticket, err := f.repo.GetByCode(context.Background(), code)
		require.NoError(t, err)
		assert.True(t, ticket.IsPrinted())
	}
}

// decodePNGPayload regenerates the payload for a just-printed ticket. The
// QR image itself is not decoded; the payload is rebuilt from repository
// state the same way renderArtifacts built it.
func decodePNGPayload(t *testing.T, f *fixture, result *PrintResult) string {
	t.Helper()
	ticket, err := f.repo.GetByCode(context.Background(), result.Artifact.TicketCode)
	require.NoError(t, err)

	var bookingRef string
	if ticket.Booking != nil {
		bookingRef = ticket.Booking.BookingRef
	}
	payload := f.svc.codes.GatePayload(ticket, bookingRef, f.event.Title)
	raw, err := f.svc.codes.EncodeGatePayload(payload)
	require.NoError(t, err)
	return raw
}
