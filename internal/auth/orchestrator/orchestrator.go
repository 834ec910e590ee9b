// Package orchestrator is the single writer of the session. It wraps every
// mutating backend operation in a reject-don't-queue guard, drives the
// login, two-factor and identity state machines, and re-syncs the session
// after operations that change who is signed in or what they look like.
package orchestrator

import (
	"errors"
	"log/slog"
	"time"

	"authsession/internal/auth/flow"
	"authsession/internal/auth/identity"
	"authsession/internal/auth/models"
	"authsession/internal/auth/store"
	"authsession/internal/platform/config"
	"authsession/internal/platform/metrics"
	apierrors "authsession/pkg/api-errors"
	"authsession/pkg/platform/sync"
)

// ErrNoSession is returned when a session-dependent call is made while nobody is signed in.
var ErrNoSession = errors.New("no authenticated session")

const (
	// ScopeSession is the guard scope shared by every mutation of one orchestrator.
	ScopeSession = "session"

	twoFactorMirrorKey = "two-factor"
	defaultClaimTTL    = 10 * time.Minute
)

// Orchestrator owns the session store's writer.
type Orchestrator struct {
	svc    AuthService
	view   store.View
	writer *store.Writer

	guard      *sync.FlightGuard
	scope      string
	generation sync.Generation

	login     *flow.LoginMachine
	twoFactor *flow.TwoFactorMachine
	identity  *flow.IdentityMachine

	mirror      flow.Mirror
	provider    identity.Provider
	claims      identity.ClaimStore
	ownClaims   *identity.InMemoryClaims
	identityCfg config.Identity

	credentials CredentialSource
	refreshSkew time.Duration

	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithFlightGuard shares a guard between orchestrators; scope selects the key they contend on.
func WithFlightGuard(guard *sync.FlightGuard, scope string) Option {
	return func(o *Orchestrator) {
		if guard != nil {
			o.guard = guard
		}
		if scope != "" {
			o.scope = scope
		}
	}
}

// WithMirror sets where the two-factor flow is mirrored so it survives a restart.
func WithMirror(m flow.Mirror) Option {
	return func(o *Orchestrator) { o.mirror = m }
}

func WithIdentityProvider(p identity.Provider) Option {
	return func(o *Orchestrator) { o.provider = p }
}

func WithClaimStore(c identity.ClaimStore) Option {
	return func(o *Orchestrator) { o.claims = c }
}

func WithIdentityConfig(cfg config.Identity) Option {
	return func(o *Orchestrator) { o.identityCfg = cfg }
}

// WithCredentials enables EnsureFreshToken. skew is how close to expiry a
// token may get before it is refreshed.
func WithCredentials(src CredentialSource, skew time.Duration) Option {
	return func(o *Orchestrator) {
		o.credentials = src
		o.refreshSkew = skew
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New takes the writer of st; a store can back only one orchestrator.
func New(svc AuthService, st *store.Store, opts ...Option) (*Orchestrator, error) {
	writer, err := st.Writer()
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{
		svc:         svc,
		view:        st.View(),
		writer:      writer,
		guard:       sync.NewFlightGuard(),
		scope:       ScopeSession,
		login:       flow.NewLoginMachine(),
		identity:    flow.NewIdentityMachine(),
		identityCfg: config.Identity{QueryParam: "identityVerificationId"},
		refreshSkew: time.Minute,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.mirror == nil {
		o.mirror = flow.NewMemoryMirror()
	}
	o.twoFactor = flow.NewTwoFactorMachine(o.mirror, twoFactorMirrorKey)
	if o.claims == nil {
		o.ownClaims = identity.NewInMemoryClaims(defaultClaimTTL)
		o.claims = o.ownClaims
	}
	return o, nil
}

// Close stops background work owned by the orchestrator.
func (o *Orchestrator) Close() {
	if o.ownClaims != nil {
		o.ownClaims.Close()
	}
}

// View is the read-only session handed to everything that is not the orchestrator.
func (o *Orchestrator) View() store.View { return o.view }

func (o *Orchestrator) Session() models.Session { return o.view.Snapshot() }

// CurrentUser returns the signed-in user or ErrNoSession.
func (o *Orchestrator) CurrentUser() (*models.User, error) {
	s := o.view.Snapshot()
	if !s.Authenticated() || s.User == nil {
		return nil, ErrNoSession
	}
	return s.User, nil
}

// LoginState reports where the login machine is and the pending handle, if any.
func (o *Orchestrator) LoginState() (flow.LoginState, *flow.PendingLogin) {
	return o.login.State(), o.login.Pending()
}

// TwoFactorState reports the two-factor flow in progress, if any.
func (o *Orchestrator) TwoFactorState() (flow.TwoFactorState, bool) {
	return o.twoFactor.State()
}

// IdentityState reports the identity verification state and its id.
func (o *Orchestrator) IdentityState() (flow.IdentityState, string) {
	return o.identity.State()
}

// noSession is the envelope form of ErrNoSession for guarded operations.
func noSession[T any]() models.Response[T] {
	return models.Fail[T](apierrors.Wrap(ErrNoSession, apierrors.CodeUnauthenticated, "sign in to continue"))
}
