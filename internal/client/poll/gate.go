package poll

import (
	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/session"
)

// Gate drives the poller's state machine from session presence transitions,
// including transitions signalled by other windows of the same profile.
// Because Poller.Start and Poller.Stop are idempotent, duplicate signals
// (two windows both observing a login) still end with exactly one running
// poller.
type Gate struct {
	poller *Poller
	log    *zap.Logger
}

// NewGate wires the gate to sess and immediately reconciles the poller with
// the current session state, so a client constructed with a restored token
// starts polling right away.
func NewGate(sess *session.Session, poller *Poller, log *zap.Logger) *Gate {
	g := &Gate{poller: poller, log: log}
	sess.Watch(g.onPresence)
	if sess.Present() {
		poller.Start()
	}
	return g
}

func (g *Gate) onPresence(present bool) {
	if present {
		g.log.Debug("session present, starting poller")
		g.poller.Start()
		return
	}
	g.log.Debug("session gone, stopping poller")
	g.poller.Stop()
}
