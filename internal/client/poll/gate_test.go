package poll

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/events"
	"github.com/campussync/campussync/internal/client/session"
)

func newGateFixture(t *testing.T) (*session.Session, *Poller) {
	t.Helper()
	sess := session.New(zap.NewNop())
	p := New(&fakeChecker{}, events.NewBus(), time.Hour, zap.NewNop())
	t.Cleanup(p.Stop)
	return sess, p
}

func TestGate_FollowsSessionPresence(t *testing.T) {
	sess, p := newGateFixture(t)
	NewGate(sess, p, zap.NewNop())

	if p.Running() {
		t.Fatal("poller must stay stopped without a session")
	}

	sess.Set("tok")
	if !p.Running() {
		t.Error("poller not started on login")
	}

	sess.Clear()
	if p.Running() {
		t.Error("poller not stopped on logout")
	}
}

func TestGate_StartsImmediatelyWithRestoredSession(t *testing.T) {
	sess, p := newGateFixture(t)
	sess.Set("restored-token")

	NewGate(sess, p, zap.NewNop())
	if !p.Running() {
		t.Error("poller not reconciled with an already-present session")
	}
}

func TestGate_TokenReplacementKeepsOnePoller(t *testing.T) {
	sess, p := newGateFixture(t)
	NewGate(sess, p, zap.NewNop())

	sess.Set("tok-a")
	sess.Set("tok-b")
	if !p.Running() {
		t.Error("poller must keep running across token replacement")
	}

	sess.Clear()
	if p.Running() {
		t.Error("single Clear must fully stop the poller")
	}
}
