// Package session holds the process-wide session token and notifies
// watchers of presence transitions. It is the injectable replacement for
// the ambient token state the rest of the core consumes read-only.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Session is the shared token state. Set and Clear may be called from any
// goroutine, including cross-context signal handlers observing another
// window's login or logout; watcher notification fires only on actual
// presence transitions, so duplicate signals are harmless.
type Session struct {
	mu       sync.Mutex
	token    string
	watchers []func(present bool)
	expiry   *time.Timer
	log      *zap.Logger
}

// New constructs an empty Session.
func New(log *zap.Logger) *Session {
	return &Session{log: log}
}

// Token returns the current token, or "" when no session is present.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Present reports whether a session token is held.
func (s *Session) Present() bool {
	return s.Token() != ""
}

// Watch registers fn to be called on every presence transition. fn runs on
// the goroutine that triggered the transition.
func (s *Session) Watch(fn func(present bool)) {
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
}

// Set installs token. Replacing one token with another does not count as a
// presence transition. When the token is a JWT carrying an exp claim, the
// session schedules its own clearing at expiry, which watchers observe
// exactly like a logout.
func (s *Session) Set(token string) {
	if token == "" {
		s.Clear()
		return
	}

	s.mu.Lock()
	wasPresent := s.token != ""
	s.token = token
	s.stopExpiryLocked()
	if exp, ok := tokenExpiry(token); ok {
		d := time.Until(exp)
		if d <= 0 {
			// Replacing a live token with a dead one ends the session;
			// watchers must observe the logout or the poller outlives it.
			s.token = ""
			watchers := s.watchersLocked()
			s.mu.Unlock()
			s.log.Warn("rejected already-expired session token")
			if wasPresent {
				for _, fn := range watchers {
					fn(false)
				}
			}
			return
		}
		s.expiry = time.AfterFunc(d, s.Clear)
	}
	watchers := s.watchersLocked()
	s.mu.Unlock()

	if !wasPresent {
		for _, fn := range watchers {
			fn(true)
		}
	}
}

// Clear removes the token. Clearing an absent session is a no-op.
func (s *Session) Clear() {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.stopExpiryLocked()
	watchers := s.watchersLocked()
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(false)
	}
}

func (s *Session) watchersLocked() []func(present bool) {
	out := make([]func(present bool), len(s.watchers))
	copy(out, s.watchers)
	return out
}

func (s *Session) stopExpiryLocked() {
	if s.expiry != nil {
		s.expiry.Stop()
		s.expiry = nil
	}
}

// tokenExpiry extracts the exp claim from a JWT without verifying its
// signature; verification belongs to the server. Opaque (non-JWT) tokens
// are accepted without expiry tracking.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
