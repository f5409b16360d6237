package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg *Config) *RateLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimiter(client, cfg)
}

func testConfig() *Config {
	return &Config{
		Enabled:         true,
		WindowDuration:  time.Minute,
		DefaultRequests: 3,
		AuthRequests:    2,
		ScanRequests:    5,
	}
}

func TestIsAllowed_DeniesBeyondLimit(t *testing.T) {
	limiter := newTestLimiter(t, testConfig())
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		result, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeDefault)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d fits the window", i)
		assert.Equal(t, 3-i, result.Remaining)
	}

	for i := 4; i <= 10; i++ {
		result, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeDefault)
		require.NoError(t, err)
		assert.False(t, result.Allowed, "request %d must be denied", i)
		assert.Equal(t, 0, result.Remaining)
		assert.Equal(t, 3, result.Limit)
	}
}

func TestIsAllowed_SameInstantBurstStillCounted(t *testing.T) {
	// The whole burst lands within one second; every request must still
	// occupy its own slot in the window.
	limiter := newTestLimiter(t, testConfig())
	ctx := context.Background()

	allowed := 0
	for i := 0; i < 10; i++ {
		result, err := limiter.IsAllowed(ctx, "10.0.0.2", RateLimitTypeDefault)
		require.NoError(t, err)
		if result.Allowed {
			allowed++
		}
	}
	assert.Equal(t, 3, allowed)
}

func TestIsAllowed_ClassesTrackSeparateWindows(t *testing.T) {
	limiter := newTestLimiter(t, testConfig())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := limiter.IsAllowed(ctx, "10.0.0.3", RateLimitTypeAuth)
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}
	denied, err := limiter.IsAllowed(ctx, "10.0.0.3", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.False(t, denied.Allowed)

	// Exhausting auth must not touch the scan window for the same IP.
	scan, err := limiter.IsAllowed(ctx, "10.0.0.3", RateLimitTypeScan)
	require.NoError(t, err)
	assert.True(t, scan.Allowed)
	assert.Equal(t, 4, scan.Remaining)
}

func TestIsAllowed_ClientsTrackSeparateWindows(t *testing.T) {
	limiter := newTestLimiter(t, testConfig())
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := limiter.IsAllowed(ctx, "10.0.0.4", RateLimitTypeDefault)
		require.NoError(t, err)
	}

	result, err := limiter.IsAllowed(ctx, "10.0.0.5", RateLimitTypeDefault)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestIsAllowed_WhitelistedIPBypasses(t *testing.T) {
	cfg := testConfig()
	cfg.WhitelistedIPs = []string{"192.168.0.9"}
	limiter := newTestLimiter(t, cfg)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		result, err := limiter.IsAllowed(ctx, "192.168.0.9", RateLimitTypeDefault)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 3, result.Remaining)
	}
}

func TestIsAllowed_DisabledNeverDenies(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	limiter := newTestLimiter(t, cfg)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		result, err := limiter.IsAllowed(ctx, "10.0.0.6", RateLimitTypeDefault)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}
}
