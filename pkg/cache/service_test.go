package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusProjection struct {
	TicketCode string `json:"ticket_code"`
	ScanCount  int    `json:"scan_count"`
}

func newTestService(t *testing.T) (Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(client), mr
}

func TestService_MissReturnsErrCacheMiss(t *testing.T) {
	svc, _ := newTestService(t)

	var dest statusProjection
	err := svc.Get(context.Background(), "absent", &dest)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestService_SetGetRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	stored := statusProjection{TicketCode: "TKT-ABCDEFGHJKLM", ScanCount: 2}
	require.NoError(t, svc.Set(ctx, "ticket:status", stored, time.Minute))

	var dest statusProjection
	require.NoError(t, svc.Get(ctx, "ticket:status", &dest))
	assert.Equal(t, stored, dest)
}

func TestService_EntryExpiresWithTTL(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "ticket:status", statusProjection{ScanCount: 1}, 30*time.Second))
	mr.FastForward(31 * time.Second)

	var dest statusProjection
	assert.ErrorIs(t, svc.Get(ctx, "ticket:status", &dest), ErrCacheMiss)
}

func TestService_DeleteRemovesEntry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "ticket:status", statusProjection{ScanCount: 1}, time.Minute))
	require.NoError(t, svc.Delete(ctx, "ticket:status"))

	var dest statusProjection
	assert.ErrorIs(t, svc.Get(ctx, "ticket:status", &dest), ErrCacheMiss)

	// Deleting an absent key is not an error.
	assert.NoError(t, svc.Delete(ctx, "ticket:status"))
}
