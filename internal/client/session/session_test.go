package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func signedToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "student",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestSession_SetAndClear(t *testing.T) {
	s := New(zap.NewNop())
	if s.Present() {
		t.Fatal("fresh session must be absent")
	}

	s.Set("opaque-token")
	if !s.Present() || s.Token() != "opaque-token" {
		t.Errorf("token not installed: %q", s.Token())
	}

	s.Clear()
	if s.Present() {
		t.Error("token not cleared")
	}
}

func TestSession_WatcherFiresOnTransitionsOnly(t *testing.T) {
	s := New(zap.NewNop())
	var transitions []bool
	s.Watch(func(present bool) { transitions = append(transitions, present) })

	s.Set("tok-a")
	s.Set("tok-b") // replacement, not a transition
	s.Clear()
	s.Clear() // already absent, no-op

	want := []bool{true, false}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", transitions, want)
		}
	}
}

func TestSession_SetEmptyActsAsClear(t *testing.T) {
	s := New(zap.NewNop())
	var gone bool
	s.Watch(func(present bool) {
		if !present {
			gone = true
		}
	})

	s.Set("tok")
	s.Set("")
	if s.Present() {
		t.Error("empty Set must clear the session")
	}
	if !gone {
		t.Error("watcher not notified of the clear")
	}
}

func TestSession_RejectsExpiredJWT(t *testing.T) {
	s := New(zap.NewNop())
	s.Set(signedToken(t, -time.Hour))
	if s.Present() {
		t.Error("already-expired token must not install a session")
	}
}

func TestSession_ExpiredReplacementNotifiesWatchers(t *testing.T) {
	s := New(zap.NewNop())
	s.Set("opaque-token")

	var transitions []bool
	s.Watch(func(present bool) { transitions = append(transitions, present) })

	// An expired token replacing a live one ends the session; watchers
	// must see the logout transition.
	s.Set(signedToken(t, -time.Hour))
	if s.Present() {
		t.Fatal("expired replacement must clear the session")
	}
	if len(transitions) != 1 || transitions[0] {
		t.Errorf("transitions = %v, want [false]", transitions)
	}
}

func TestSession_ExpiredTokenOnAbsentSessionStaysSilent(t *testing.T) {
	s := New(zap.NewNop())
	var transitions []bool
	s.Watch(func(present bool) { transitions = append(transitions, present) })

	s.Set(signedToken(t, -time.Hour))
	if s.Present() {
		t.Fatal("expired token must not install a session")
	}
	if len(transitions) != 0 {
		t.Errorf("absent session saw transitions %v, want none", transitions)
	}
}

func TestSession_AcceptsValidJWT(t *testing.T) {
	s := New(zap.NewNop())
	s.Set(signedToken(t, time.Hour))
	if !s.Present() {
		t.Error("valid token rejected")
	}
}

func TestSession_AutoClearsAtExpiry(t *testing.T) {
	s := New(zap.NewNop())
	cleared := make(chan struct{}, 1)
	s.Watch(func(present bool) {
		if !present {
			cleared <- struct{}{}
		}
	})

	// Claim timestamps carry second precision, so the effective expiry
	// lands somewhere inside the next second.
	s.Set(signedToken(t, time.Second))
	if !s.Present() {
		t.Fatal("token rejected")
	}

	select {
	case <-cleared:
	case <-time.After(3 * time.Second):
		t.Fatal("session not cleared at token expiry")
	}
	if s.Present() {
		t.Error("token still present after expiry")
	}
}
