package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authsession/internal/auth/models"
	"authsession/internal/platform/config"
	"authsession/internal/platform/logger"
	"authsession/internal/testkit/fakebackend"
)

// demoAccounts are seeded at startup so a client can sign in right away.
var demoAccounts = []fakebackend.AccountSpec{
	{Email: "demo@example.com", Password: "demo-password", Name: "Demo User"},
	{Email: "admin@example.com", Password: "admin-password", Name: "Demo Admin", Role: models.RoleSuperAdmin},
	{
		Email: "shop@example.com", Password: "shop-password", Name: "Demo Shop", Role: models.RoleBusiness,
		Business: &models.Business{Name: "Demo Shop", Number: "1234567891", Verified: true},
	},
}

// main serves the in-memory auth backend over the same GraphQL and REST
// protocol as the real one.
func main() {
	cfg, err := config.MockBackendFromEnv()
	if err != nil {
		logger.New("info", "json").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	backend := fakebackend.New(
		fakebackend.WithLogger(log),
		fakebackend.WithSigningKey(cfg.JWTSecret),
	)
	for _, spec := range demoAccounts {
		if _, err := backend.Seed(spec); err != nil {
			log.Error("failed to seed demo account", "email", spec.Email, "error", err)
			os.Exit(1)
		}
		log.Info("seeded demo account", "email", spec.Email, "role", string(spec.Role))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("starting mock auth backend", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down mock auth backend")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
