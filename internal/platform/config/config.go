package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Client captures everything the session core needs to reach the backend.
type Client struct {
	GraphQLEndpoint  string        `env:"AUTH_GRAPHQL_ENDPOINT" envDefault:"http://localhost:4000/graphql"`
	RESTBaseURL      string        `env:"AUTH_REST_BASE_URL" envDefault:"http://localhost:4000"`
	RequestTimeout   time.Duration `env:"AUTH_REQUEST_TIMEOUT" envDefault:"15s"`
	CacheTTL         time.Duration `env:"AUTH_CACHE_TTL" envDefault:"30s"`
	CacheSize        int           `env:"AUTH_CACHE_SIZE" envDefault:"256"`
	AvatarMaxBytes   int64         `env:"AUTH_AVATAR_MAX_BYTES" envDefault:"5242880"`
	TokenRefreshSkew time.Duration `env:"AUTH_TOKEN_REFRESH_SKEW" envDefault:"1m"`
	TokenFile        string        `env:"AUTH_TOKEN_FILE"`
	Identity         Identity      `envPrefix:"IDENTITY_"`
	Log              Log           `envPrefix:"LOG_"`
}

// Identity configures the third-party identity-verification provider.
// StoreID and ChannelKey override the values served by the backend when set.
type Identity struct {
	StoreID     string `env:"STORE_ID"`
	ChannelKey  string `env:"CHANNEL_KEY"`
	RedirectURL string `env:"REDIRECT_URL" envDefault:"http://localhost:3000/identity/callback"`
	QueryParam  string `env:"QUERY_PARAM" envDefault:"identityVerificationId"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// MockBackend configures the runnable fake backend.
type MockBackend struct {
	Addr      string `env:"MOCK_BACKEND_ADDR" envDefault:":4000"`
	JWTSecret string `env:"MOCK_BACKEND_JWT_SECRET" envDefault:"dev-secret-key-change-in-production"`
	Log       Log    `envPrefix:"LOG_"`
}

// FromEnv parses the process environment.
func FromEnv() (Client, error) {
	return parse(env.Options{})
}

// FromMap parses an explicit environment, used by tests and embedders.
func FromMap(vars map[string]string) (Client, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Client, error) {
	var cfg Client
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Client{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

// MockBackendFromEnv parses the fake backend settings.
func MockBackendFromEnv() (MockBackend, error) {
	var cfg MockBackend
	if err := env.Parse(&cfg); err != nil {
		return MockBackend{}, fmt.Errorf("parse mock backend config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the transport cannot work with.
func (c Client) Validate() error {
	var errs []error
	if err := requireAbsolute("AUTH_GRAPHQL_ENDPOINT", c.GraphQLEndpoint); err != nil {
		errs = append(errs, err)
	}
	if err := requireAbsolute("AUTH_REST_BASE_URL", c.RESTBaseURL); err != nil {
		errs = append(errs, err)
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("AUTH_REQUEST_TIMEOUT must be positive"))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, errors.New("AUTH_CACHE_SIZE must be positive"))
	}
	if c.AvatarMaxBytes <= 0 {
		errs = append(errs, errors.New("AUTH_AVATAR_MAX_BYTES must be positive"))
	}
	if c.Identity.QueryParam == "" {
		errs = append(errs, errors.New("IDENTITY_QUERY_PARAM must not be empty"))
	}
	return errors.Join(errs...)
}

func requireAbsolute(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
	}
	return nil
}
