package fakebackend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"authsession/internal/auth/models"
	"authsession/pkg/platform/middleware/auth"
	"authsession/pkg/platform/middleware/device"
	"authsession/pkg/secrets"
)

const tokenIssuerName = "authsession-fake-backend"

// accessClaims are the claims of issued access tokens.
type accessClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	signingKey []byte
	ttl        time.Duration
}

func newTokenIssuer(key string, ttl time.Duration) *tokenIssuer {
	return &tokenIssuer{signingKey: []byte(key), ttl: ttl}
}

func (t *tokenIssuer) issue(userID, sessionID string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuerName,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(t.signingKey)
}

func (t *tokenIssuer) parse(tokenString string, now func() time.Time) (*accessClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return t.signingKey, nil
	}, jwt.WithTimeFunc(now), jwt.WithIssuer(tokenIssuerName))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token expired: %w", err)
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// session is one signed-in device.
type session struct {
	ID        string
	UserID    string
	Device    string
	CreatedAt time.Time
	Revoked   bool
}

// SessionInfo describes an issued session.
type SessionInfo struct {
	ID        string
	Device    string
	CreatedAt time.Time
	Revoked   bool
}

// tempLogin is a first login step waiting for its second factor.
type tempLogin struct {
	UserID        string
	ExpiresAt     time.Time
	EmergencyCode string
}

// ValidateToken implements auth.TokenValidator. Tokens of revoked sessions
// or deleted accounts are rejected.
func (b *Backend) ValidateToken(tokenString string) (*auth.Claims, error) {
	claims, err := b.tokens.parse(tokenString, b.clock)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[claims.SessionID]
	if !ok || s.Revoked || s.UserID != claims.UserID {
		return nil, errors.New("session revoked")
	}
	if _, ok := b.accounts[claims.UserID]; !ok {
		return nil, errors.New("account deleted")
	}
	return &auth.Claims{UserID: claims.UserID, SessionID: claims.SessionID}, nil
}

// signIn opens a session for userID. Callers hold b.mu.
func (b *Backend) signIn(ctx context.Context, userID string) (models.AuthTokens, error) {
	now := b.now(ctx)
	s := &session{ID: uuid.NewString(), UserID: userID, Device: device.Label(ctx), CreatedAt: now}
	access, err := b.tokens.issue(userID, s.ID, now)
	if err != nil {
		return models.AuthTokens{}, err
	}
	refreshToken, err := secrets.Generate()
	if err != nil {
		return models.AuthTokens{}, err
	}
	b.sessions[s.ID] = s
	b.refresh[refreshToken] = s.ID
	return models.AuthTokens{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int(b.tokens.ttl.Seconds()),
	}, nil
}

// rotate issues a new token pair for an existing session and retires
// oldRefresh. Callers hold b.mu.
func (b *Backend) rotate(ctx context.Context, s *session, oldRefresh string) (models.AuthTokens, error) {
	access, err := b.tokens.issue(s.UserID, s.ID, b.now(ctx))
	if err != nil {
		return models.AuthTokens{}, err
	}
	refreshToken, err := secrets.Generate()
	if err != nil {
		return models.AuthTokens{}, err
	}
	delete(b.refresh, oldRefresh)
	b.refresh[refreshToken] = s.ID
	return models.AuthTokens{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int(b.tokens.ttl.Seconds()),
	}, nil
}

// revokeSessions ends every session of userID. Callers hold b.mu.
func (b *Backend) revokeSessions(userID string) {
	for _, s := range b.sessions {
		if s.UserID == userID {
			s.Revoked = true
		}
	}
}

// Sessions lists the sessions issued to email.
func (b *Backend) Sessions(email string) []SessionInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []SessionInfo
	id := b.byEmail[normalizeEmail(email)]
	for _, s := range b.sessions {
		if s.UserID == id {
			out = append(out, SessionInfo{ID: s.ID, Device: s.Device, CreatedAt: s.CreatedAt, Revoked: s.Revoked})
		}
	}
	return out
}

// IssueTokens signs email in directly, bypassing the login flow.
func (b *Backend) IssueTokens(ctx context.Context, email string) (models.AuthTokens, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.byEmail[normalizeEmail(email)]
	if !ok {
		return models.AuthTokens{}, fmt.Errorf("no account for %s", email)
	}
	return b.signIn(ctx, id)
}
