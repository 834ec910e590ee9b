package transport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authsession/internal/auth/models"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()
	tokens, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tokens.AccessToken)

	require.NoError(t, store.Save(models.AuthTokens{AccessToken: "a", RefreshToken: "r"}))
	tokens, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "r", tokens.RefreshToken)

	require.NoError(t, store.Clear())
	tokens, _ = store.Load()
	assert.Equal(t, models.AuthTokens{}, tokens)
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tokens.json")
	store := NewFileTokenStore(path)

	t.Run("missing file reads as signed out", func(t *testing.T) {
		tokens, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, models.AuthTokens{}, tokens)
	})

	t.Run("round trips with owner-only permissions", func(t *testing.T) {
		require.NoError(t, store.Save(models.AuthTokens{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		tokens, err := NewFileTokenStore(path).Load()
		require.NoError(t, err)
		assert.Equal(t, models.AuthTokens{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}, tokens)
	})

	t.Run("clear removes the file and tolerates repeats", func(t *testing.T) {
		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear())
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		_, err := store.Load()
		assert.Error(t, err)
	})
}

func TestExpiresWithin(t *testing.T) {
	now := time.Now()

	assert.False(t, ExpiresWithin(signedToken(t, now.Add(10*time.Minute)), time.Minute, now))
	assert.True(t, ExpiresWithin(signedToken(t, now.Add(30*time.Second)), time.Minute, now))
	assert.True(t, ExpiresWithin(signedToken(t, now.Add(-time.Minute)), 0, now))
	assert.True(t, ExpiresWithin("not-a-jwt", time.Minute, now))

	exp, err := TokenExpiry(signedToken(t, now.Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour).Unix(), exp.Unix())
}
