// Package client wires the sync core together: store, caches, remote API
// client, session, orchestrator, mutation gateway, poller and auth gate.
package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/api"
	"github.com/campussync/campussync/internal/client/cache"
	"github.com/campussync/campussync/internal/client/events"
	"github.com/campussync/campussync/internal/client/poll"
	"github.com/campussync/campussync/internal/client/session"
	"github.com/campussync/campussync/internal/client/store"
	"github.com/campussync/campussync/internal/client/syncer"
	"github.com/campussync/campussync/internal/config"
)

// Client is the assembled sync core. Reads go through Sync, writes through
// Mutations; Events carries the signals UI components subscribe to. The
// poller lifecycle follows Session automatically via the auth gate.
type Client struct {
	Session   *session.Session
	Sync      *syncer.Orchestrator
	Mutations *syncer.Gateway
	Events    *events.Bus
	Poller    *poll.Poller

	api   *api.Client
	store store.Store
	gate  *poll.Gate
	log   *zap.Logger
}

// New assembles a Client from configuration. The local store is file-backed
// unless a redis address is configured.
func New(cfg config.Config, log *zap.Logger) (*Client, error) {
	var (
		st  store.Store
		err error
	)
	if cfg.RedisAddr != "" {
		st, err = store.OpenRedis(cfg.RedisAddr, "campussync:")
	} else {
		st, err = store.OpenFile(cfg.CachePath)
	}
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if cfg.CacheSecret != "" {
		st, err = store.OpenEncrypted(st, cfg.CacheSecret)
		if err != nil {
			return nil, fmt.Errorf("open encrypted store: %w", err)
		}
	}

	sess := session.New(log)
	remote := api.New(cfg.BaseURL, sess, cfg.RequestTimeout, log)
	caches := cache.NewSet(st, log)
	bus := events.NewBus()
	orchestrator := syncer.NewOrchestrator(remote, caches, log)
	gateway := syncer.NewGateway(remote, caches, bus, log)

	poller := poll.New(orchestrator, bus, cfg.PollInterval, log,
		poll.WithCycleHook(gateway.FlushPending),
		poll.WithStopHook(gateway.ClearPending),
	)
	gate := poll.NewGate(sess, poller, log)

	return &Client{
		Session:   sess,
		Sync:      orchestrator,
		Mutations: gateway,
		Events:    bus,
		Poller:    poller,
		api:       remote,
		store:     st,
		gate:      gate,
		log:       log,
	}, nil
}

// Login authenticates against the remote API and installs the returned
// session token, which starts the background poller.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return api.Validationf("username and password are required")
	}
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.api.Post(ctx, "/api/login", body, &out); err != nil {
		return err
	}
	if out.Token == "" {
		return &api.Error{Kind: api.KindMalformed, Message: "login response carried no token"}
	}
	c.Session.Set(out.Token)
	c.log.Info("logged in", zap.String("user", username))
	return nil
}

// Logout tells the server goodbye on a best-effort basis and clears the
// session, which stops the poller and drops any queued mutations.
func (c *Client) Logout(ctx context.Context) {
	if !c.Session.Present() {
		return
	}
	if err := c.api.Post(ctx, "/api/logout", nil, nil); err != nil {
		c.log.Warn("remote logout failed, clearing session anyway", zap.Error(err))
	}
	c.Session.Clear()
	c.log.Info("logged out")
}

// Close stops the poller and releases the local store.
func (c *Client) Close() error {
	c.Poller.Stop()
	return c.store.Close()
}
