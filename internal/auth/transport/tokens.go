package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"authsession/internal/auth/models"
)

// TokenStore keeps the credentials sent with every request.
type TokenStore interface {
	Load() (models.AuthTokens, error)
	Save(tokens models.AuthTokens) error
	Clear() error
}

// MemoryTokenStore holds tokens for the lifetime of the process.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens models.AuthTokens
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (models.AuthTokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, nil
}

func (s *MemoryTokenStore) Save(tokens models.AuthTokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = models.AuthTokens{}
	return nil
}

// FileTokenStore persists tokens as JSON so a CLI session survives restarts.
// The file is written with owner-only permissions.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load() (models.AuthTokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.AuthTokens{}, nil
	}
	if err != nil {
		return models.AuthTokens{}, fmt.Errorf("read token file: %w", err)
	}
	var tokens models.AuthTokens
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return models.AuthTokens{}, fmt.Errorf("decode token file: %w", err)
	}
	return tokens, nil
}

func (s *FileTokenStore) Save(tokens models.AuthTokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// TokenExpiry reads the exp claim of an access token without verifying its
// signature. The backend remains the authority; this only drives proactive refresh.
func TokenExpiry(accessToken string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, errors.New("access token has no exp claim")
	}
	return exp.Time, nil
}

// ExpiresWithin reports whether the access token expires before now+skew.
// Unparseable tokens count as expiring.
func ExpiresWithin(accessToken string, skew time.Duration, now time.Time) bool {
	exp, err := TokenExpiry(accessToken)
	if err != nil {
		return true
	}
	return !exp.After(now.Add(skew))
}

var (
	_ TokenStore = (*MemoryTokenStore)(nil)
	_ TokenStore = (*FileTokenStore)(nil)
)
