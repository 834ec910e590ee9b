// Package fakebackend is an in-memory auth backend speaking the same GraphQL
// and REST wire protocol as the real one. Tests, behaviour scenarios and the
// runnable mock server drive the session core against it.
package fakebackend

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
	"authsession/pkg/platform/httputil"
	"authsession/pkg/platform/middleware/auth"
	"authsession/pkg/platform/middleware/device"
	"authsession/pkg/platform/middleware/request"
	"authsession/pkg/platform/middleware/requesttime"
)

const (
	// MaxUploadBytes bounds avatar uploads; larger bodies get 413.
	MaxUploadBytes = 2 << 20

	tempTokenTTL    = 5 * time.Minute
	invitationTTL   = 7 * 24 * time.Hour
	emailChangeTTL  = 30 * time.Minute
	verificationTTL = 30 * time.Minute
)

// Backend holds all fake server state behind one mutex.
type Backend struct {
	mu sync.Mutex

	accounts map[string]*account
	byEmail  map[string]string
	sessions map[string]*session
	refresh  map[string]string
	pending  map[string]tempLogin
	resets   map[string]string
	outbox   []Mail

	invitations      map[string]*models.Invitation
	invitationTokens map[string]string
	verifications    map[string]*verification
	identityConfig   models.IdentityVerificationConfig
	lastRedirect     string

	calls    map[string]int
	gates    map[string]chan struct{}
	failures map[string]*gqlError

	resolvers map[string]resolver
	tokens    *tokenIssuer
	clock     func() time.Time
	logger    *slog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithClock sets the backend's notion of now, used for token expiry and TOTP windows.
func WithClock(clock func() time.Time) Option {
	return func(b *Backend) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// WithSigningKey sets the HMAC key access tokens are signed with.
func WithSigningKey(key string) Option {
	return func(b *Backend) {
		if key != "" {
			b.tokens.signingKey = []byte(key)
		}
	}
}

// WithAccessTTL sets the lifetime of issued access tokens.
func WithAccessTTL(ttl time.Duration) Option {
	return func(b *Backend) {
		if ttl > 0 {
			b.tokens.ttl = ttl
		}
	}
}

// WithIdentityConfig sets the provider channel served by getIdentityVerificationConfig.
func WithIdentityConfig(cfg models.IdentityVerificationConfig) Option {
	return func(b *Backend) { b.identityConfig = cfg }
}

func New(opts ...Option) *Backend {
	b := &Backend{
		accounts:         make(map[string]*account),
		byEmail:          make(map[string]string),
		sessions:         make(map[string]*session),
		refresh:          make(map[string]string),
		pending:          make(map[string]tempLogin),
		resets:           make(map[string]string),
		invitations:      make(map[string]*models.Invitation),
		invitationTokens: make(map[string]string),
		verifications:    make(map[string]*verification),
		identityConfig:   models.IdentityVerificationConfig{StoreID: "store-fake", ChannelKey: "channel-fake"},
		calls:            make(map[string]int),
		gates:            make(map[string]chan struct{}),
		failures:         make(map[string]*gqlError),
		tokens:           newTokenIssuer("fake-backend-signing-key", 15*time.Minute),
		clock:            time.Now,
		logger:           slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.resolvers = b.buildResolvers()
	return b
}

// Handler serves POST /graphql, the avatar upload endpoint and /health.
func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(request.Recovery(b.logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(b.logger))
	r.Use(requesttime.Middleware(b.clock))
	r.Use(device.Device)
	r.Use(auth.Bearer(b, b.logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "auth-backend"})
	})
	r.Post("/graphql", b.handleGraphQL)
	r.With(auth.RequireAuth(b.logger), request.BodyLimit(MaxUploadBytes)).
		Post(transport.AvatarUploadPath, b.handleAvatarUpload)
	return r
}

// Calls reports how many requests for operation have arrived.
func (b *Backend) Calls(operation string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[operation]
}

// Block holds every request for operation until release is called.
func (b *Backend) Block(operation string) (release func()) {
	gate := make(chan struct{})
	b.mu.Lock()
	b.gates[operation] = gate
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if b.gates[operation] == gate {
				delete(b.gates, operation)
			}
			b.mu.Unlock()
			close(gate)
		})
	}
}

// FailNext makes the next request for operation answer with a GraphQL error.
func (b *Backend) FailNext(operation, code, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[operation] = &gqlError{Code: code, Message: message}
}

// enter counts the call, waits at a gate if one is set, and returns any
// injected failure.
func (b *Backend) enter(ctx context.Context, operation string) error {
	b.mu.Lock()
	b.calls[operation]++
	gate := b.gates[operation]
	injected := b.failures[operation]
	delete(b.failures, operation)
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if injected != nil {
		return injected
	}
	return nil
}

func (b *Backend) now(ctx context.Context) time.Time {
	return requesttime.Now(ctx)
}
