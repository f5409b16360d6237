package scanguard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests step time deterministically.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advanceTo(offset time.Duration) {
	f.t = time.Unix(0, 0).Add(offset)
}

func newTestSession() (*Session, *fakeClock) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	return NewSessionWithClock(clock.now), clock
}

func TestSession_SuppressionWindow(t *testing.T) {
	s, clock := newTestSession()

	// Decode events for the same code at 0.0s, 0.5s, 1.9s, 2.1s: only the
	// first and last may be forwarded.
	offsets := []struct {
		at      time.Duration
		forward bool
	}{
		{0, true},
		{500 * time.Millisecond, false},
		{1900 * time.Millisecond, false},
		{2100 * time.Millisecond, true},
	}

	for _, step := range offsets {
		clock.advanceTo(step.at)
		got := s.ShouldForward("TKT-AAAA")
		assert.Equal(t, step.forward, got, "decode at %v", step.at)
	}
}

func TestSession_DistinctCodesAlwaysForward(t *testing.T) {
	s, _ := newTestSession()

	require.True(t, s.ShouldForward("TKT-AAAA"))
	assert.True(t, s.ShouldForward("TKT-BBBB"), "a different code is never suppressed")
	assert.True(t, s.ShouldForward("TKT-AAAA"), "switching back resets tracking to the new code")
}

func TestSession_FailureExtendsWindow(t *testing.T) {
	s, clock := newTestSession()

	require.True(t, s.ShouldForward("TKT-AAAA"))
	s.ReportFailure("TKT-AAAA")

	// 2.5s after the failure response: still inside the 3s failure window.
	clock.advanceTo(2500 * time.Millisecond)
	assert.False(t, s.ShouldForward("TKT-AAAA"))

	// Past 3s the operator may retry the same ticket.
	clock.advanceTo(3100 * time.Millisecond)
	assert.True(t, s.ShouldForward("TKT-AAAA"))
}

func TestSession_SuccessKeepsDefaultWindow(t *testing.T) {
	s, clock := newTestSession()

	require.True(t, s.ShouldForward("TKT-AAAA"))
	clock.advanceTo(300 * time.Millisecond)
	s.ReportSuccess("TKT-AAAA")

	// 1.9s after the response: suppressed.
	clock.advanceTo(2100 * time.Millisecond)
	assert.False(t, s.ShouldForward("TKT-AAAA"))

	// 2s after the response: the same physical symbol may be scanned again.
	clock.advanceTo(2400 * time.Millisecond)
	assert.True(t, s.ShouldForward("TKT-AAAA"))
}

func TestSession_ReportForStaleCodeIgnored(t *testing.T) {
	s, clock := newTestSession()

	require.True(t, s.ShouldForward("TKT-AAAA"))
	require.True(t, s.ShouldForward("TKT-BBBB"))

	// A late response for the earlier code must not touch the window that now
	// guards TKT-BBBB.
	s.ReportFailure("TKT-AAAA")
	clock.advanceTo(2100 * time.Millisecond)
	assert.True(t, s.ShouldForward("TKT-BBBB"))
}

func TestSession_ForwardUpdatesStateBeforeResponse(t *testing.T) {
	s, clock := newTestSession()

	require.True(t, s.ShouldForward("TKT-AAAA"))

	// A frame decoded while the validator call is still in flight is
	// suppressed even though no result has been reported yet.
	clock.advanceTo(100 * time.Millisecond)
	assert.False(t, s.ShouldForward("TKT-AAAA"))
}

func TestSession_Reset(t *testing.T) {
	s, _ := newTestSession()

	require.True(t, s.ShouldForward("TKT-AAAA"))
	s.Reset()
	assert.True(t, s.ShouldForward("TKT-AAAA"))
}
