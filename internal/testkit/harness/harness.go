// Package harness assembles the session core against an in-process fake
// backend: config, registry, transport, service, store and orchestrator,
// all sharing one manual clock.
package harness

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"authsession/internal/auth/orchestrator"
	"authsession/internal/auth/registry"
	"authsession/internal/auth/service"
	"authsession/internal/auth/store"
	"authsession/internal/auth/transport"
	"authsession/internal/platform/config"
	"authsession/internal/platform/metrics"
	"authsession/internal/testkit/fakebackend"
)

// Clock is a manually advanced clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Options tunes the assembled core. Zero values give a usable default.
type Options struct {
	Provider    fakebackend.ProviderMode
	AccessTTL   time.Duration
	RefreshSkew time.Duration
	Env         map[string]string
	Logger      *slog.Logger
}

// Harness is one signed-out client wired to its own fake backend.
type Harness struct {
	Clock        *Clock
	Backend      *fakebackend.Backend
	Server       *httptest.Server
	Config       config.Client
	Registry     *registry.Registry
	Transport    *transport.Client
	Service      *service.Service
	Store        *store.Store
	Orchestrator *orchestrator.Orchestrator
	Metrics      *metrics.Metrics
	Prometheus   *prometheus.Registry
}

// New starts the fake backend and builds the core against it.
func New(ctx context.Context, opts Options) (*Harness, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clock := NewClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	backendOpts := []fakebackend.Option{fakebackend.WithClock(clock.Now), fakebackend.WithLogger(logger)}
	if opts.AccessTTL > 0 {
		backendOpts = append(backendOpts, fakebackend.WithAccessTTL(opts.AccessTTL))
	}
	backend := fakebackend.New(backendOpts...)
	srv := httptest.NewServer(backend.Handler())

	vars := map[string]string{
		"AUTH_GRAPHQL_ENDPOINT": srv.URL + "/graphql",
		"AUTH_REST_BASE_URL":    srv.URL,
		"AUTH_REQUEST_TIMEOUT":  "5s",
	}
	if opts.RefreshSkew > 0 {
		vars["AUTH_TOKEN_REFRESH_SKEW"] = opts.RefreshSkew.String()
	}
	for k, v := range opts.Env {
		vars[k] = v
	}
	cfg, err := config.FromMap(vars)
	if err != nil {
		srv.Close()
		return nil, err
	}

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	reg, err := registry.Bootstrap(ctx, registry.Dependencies{
		Config: cfg,
		TransportOptions: []transport.Option{
			transport.WithLogger(logger),
			transport.WithMetrics(m),
		},
		ServiceOptions: []service.Option{service.WithLogger(logger)},
	})
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	client, err := registry.Get(reg, registry.TransportKey)
	if err != nil {
		srv.Close()
		return nil, err
	}
	svc, err := registry.Get(reg, registry.AuthServiceKey)
	if err != nil {
		srv.Close()
		return nil, err
	}

	st := store.New()
	orch, err := orchestrator.New(svc, st,
		orchestrator.WithLogger(logger),
		orchestrator.WithMetrics(m),
		orchestrator.WithIdentityProvider(backend.Provider(opts.Provider).WithParam(cfg.Identity.QueryParam)),
		orchestrator.WithIdentityConfig(cfg.Identity),
		orchestrator.WithCredentials(client, cfg.TokenRefreshSkew),
		orchestrator.WithClock(clock.Now),
	)
	if err != nil {
		srv.Close()
		return nil, err
	}

	return &Harness{
		Clock:        clock,
		Backend:      backend,
		Server:       srv,
		Config:       cfg,
		Registry:     reg,
		Transport:    client,
		Service:      svc,
		Store:        st,
		Orchestrator: orch,
		Metrics:      m,
		Prometheus:   promReg,
	}, nil
}

// Close stops the orchestrator's background work and the fake backend.
func (h *Harness) Close() {
	h.Orchestrator.Close()
	h.Server.Close()
}
