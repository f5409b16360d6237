package scanguard

import (
	"sync"
	"time"
)

// Suppression windows. A continuous scanner produces many decode events per
// second while a symbol remains in frame; the windows rate-limit submissions
// without ever deciding validity.
const (
	DefaultWindow = 2 * time.Second
	FailureWindow = 3 * time.Second
)

// Session guards one continuous decode stream (one scanning device) against
// submitting the same code repeatedly. Each device gets its own Session;
// sessions share no state. Manual-entry submissions bypass the Session
// entirely.
type Session struct {
	mu       sync.Mutex
	lastCode string
	lastSeen time.Time
	window   time.Duration

	now func() time.Time
}

// NewSession creates a suppression session using the wall clock.
func NewSession() *Session {
	return NewSessionWithClock(time.Now)
}

// NewSessionWithClock creates a session with an injected clock.
func NewSessionWithClock(now func() time.Time) *Session {
	return &Session{
		window: DefaultWindow,
		now:    now,
	}
}

// ShouldForward reports whether a decode event for code may be submitted to
// the validator. On a forward decision the advisory state is updated
// immediately, before any network call resolves, so a second frame decoded
// during request latency is suppressed.
func (s *Session) ShouldForward(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if code == s.lastCode && now.Sub(s.lastSeen) < s.window {
		return false
	}

	s.lastCode = code
	s.lastSeen = now
	s.window = DefaultWindow
	return true
}

// ReportSuccess records a SUCCESS response for code. The code stays
// suppressed for the default window measured from the response, which blocks
// the camera's immediate repeat reads while still allowing a deliberate
// re-scan later (re-entry policies).
func (s *Session) ReportSuccess(code string) {
	s.report(code, DefaultWindow)
}

// ReportFailure records a failure response for code. The window is slightly
// longer than on success so the operator can read the error before the same
// faulty ticket can be retried.
func (s *Session) ReportFailure(code string) {
	s.report(code, FailureWindow)
}

func (s *Session) report(code string, window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A response for a code we are no longer tracking must not revive it.
	if code != s.lastCode {
		return
	}
	s.lastSeen = s.now()
	s.window = window
}

// Reset clears the advisory state, e.g. when the operator switches events or
// the scanning session is disposed.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCode = ""
	s.lastSeen = time.Time{}
	s.window = DefaultWindow
}
