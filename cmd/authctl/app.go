package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"authsession/internal/auth/identity"
	"authsession/internal/auth/orchestrator"
	"authsession/internal/auth/registry"
	"authsession/internal/auth/service"
	"authsession/internal/auth/store"
	"authsession/internal/auth/transport"
	"authsession/internal/platform/config"
	"authsession/internal/platform/logger"
	"authsession/internal/platform/metrics"
	"authsession/internal/platform/tracer"
)

const userAgent = "authctl/1.0"

// app is one CLI invocation's session core. Tokens persist in a file between
// invocations; flow state does not, so multi-step flows run inside a single
// command.
type app struct {
	cfg    config.Client
	logger *slog.Logger
	orch   *orchestrator.Orchestrator
	claims *identity.InMemoryClaims
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	tokenFile, err := tokenPath(cfg)
	if err != nil {
		return nil, err
	}
	m := metrics.New(prometheus.NewRegistry())

	reg, err := registry.Bootstrap(ctx, registry.Dependencies{
		Config: cfg,
		TransportOptions: []transport.Option{
			transport.WithLogger(log),
			transport.WithMetrics(m),
			transport.WithTracer(tracer.NewOTel()),
			transport.WithUserAgent(userAgent),
			transport.WithTokenStore(transport.NewFileTokenStore(tokenFile)),
		},
		ServiceOptions: []service.Option{service.WithLogger(log)},
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	client, err := registry.Get(reg, registry.TransportKey)
	if err != nil {
		return nil, err
	}
	svc, err := registry.Get(reg, registry.AuthServiceKey)
	if err != nil {
		return nil, err
	}

	claims := identity.NewInMemoryClaims(cfg.RequestTimeout * 4)
	orch, err := orchestrator.New(svc, store.New(),
		orchestrator.WithLogger(log),
		orchestrator.WithMetrics(m),
		orchestrator.WithIdentityProvider(consoleProvider{}),
		orchestrator.WithClaimStore(claims),
		orchestrator.WithIdentityConfig(cfg.Identity),
		orchestrator.WithCredentials(client, cfg.TokenRefreshSkew),
	)
	if err != nil {
		claims.Close()
		return nil, err
	}
	return &app{cfg: cfg, logger: log, orch: orch, claims: claims}, nil
}

func (a *app) Close() {
	a.orch.Close()
	a.claims.Close()
}

func tokenPath(cfg config.Client) (string, error) {
	if cfg.TokenFile != "" {
		return cfg.TokenFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "authsession", "tokens.json"), nil
}

// consoleProvider hands the verification off to the user: the provider's
// hosted page is opened outside the CLI and its callback URL is pasted back
// into "authctl identity resume".
type consoleProvider struct{}

func (consoleProvider) RequestIdentityVerification(_ context.Context, req identity.Request) (identity.Result, error) {
	fmt.Println(titleStyle.Render("Identity verification requested"))
	printField("Verification id", req.IdentityVerificationID)
	printField("Store", req.StoreID)
	printField("Channel", req.ChannelKey)
	printField("Callback", req.RedirectURL)
	fmt.Println(hintStyle.Render("Complete the check with the provider, then run: authctl identity resume <callback-url>"))
	return identity.Result{IdentityVerificationID: req.IdentityVerificationID, Redirected: true}, nil
}
