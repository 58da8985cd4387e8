// Package poll runs the background activity poller and binds its lifecycle
// to the session token via the auth gate.
package poll

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/events"
)

// Checker is the orchestrator surface the poller probes each cycle.
type Checker interface {
	UnreadCount(ctx context.Context) (int, error)
}

// Option configures a Poller.
type Option func(*Poller)

// WithCycleHook registers fn to run at the start of every poll cycle
// (used to flush the pending-mutation queue).
func WithCycleHook(fn func(ctx context.Context)) Option {
	return func(p *Poller) { p.cycleHooks = append(p.cycleHooks, fn) }
}

// WithStopHook registers fn to run when the poller stops (used to clear the
// pending-mutation queue at logout).
func WithStopHook(fn func()) Option {
	return func(p *Poller) { p.stopHooks = append(p.stopHooks, fn) }
}

// Poller is a two-state (stopped/running) repeating timer. On start it runs
// one immediate cycle, then cycles at a fixed interval. A cycle that finds
// unread activity raises the new-activity signal; a failed cycle is
// swallowed. At most one instance of the loop runs at a time.
type Poller struct {
	check    Checker
	bus      *events.Bus
	interval time.Duration
	log      *zap.Logger

	cycleHooks []func(ctx context.Context)
	stopHooks  []func()

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs a stopped Poller.
func New(check Checker, bus *events.Bus, interval time.Duration, log *zap.Logger, opts ...Option) *Poller {
	p := &Poller{check: check, bus: bus, interval: interval, log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start transitions stopped -> running. Starting a running poller is a
// no-op: no duplicate timers are ever created.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	done := make(chan struct{})
	p.done = done
	p.log.Info("poller started", zap.Duration("interval", p.interval))

	go func() {
		defer close(done)
		p.cycle(ctx)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.cycle(ctx)
			}
		}
	}()
}

// Stop transitions running -> stopped and cancels the pending timer. An
// in-flight cycle's result is discarded: no new-activity event fires after
// Stop returns the poller to the stopped state. Stopping a stopped poller
// is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.cancel == nil {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.cancel = nil
	p.done = nil
	hooks := p.stopHooks
	p.mu.Unlock()

	p.log.Info("poller stopped")
	for _, fn := range hooks {
		fn()
	}
}

// Running reports whether the poller loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// cycle runs one poll: flush hooks, probe the unread count, and raise the
// signal when activity is present. Errors are logged and swallowed; the
// poller simply waits for the next tick.
func (p *Poller) cycle(ctx context.Context) {
	for _, fn := range p.cycleHooks {
		fn(ctx)
	}

	count, err := p.check.UnreadCount(ctx)
	if err != nil {
		p.log.Debug("poll cycle failed", zap.Error(err))
		return
	}
	// The token may have been cleared while the probe was in flight; the
	// cancellation check and the publish share the poller mutex so Stop
	// cannot complete between the two.
	p.mu.Lock()
	defer p.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	if count > 0 {
		p.log.Debug("new activity detected", zap.Int("unread", count))
		p.bus.Publish(events.NewActivity)
	}
}
