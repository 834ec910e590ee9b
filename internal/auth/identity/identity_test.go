package identity

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeParam(t *testing.T) {
	loc, err := NewMemoryLocation("https://shop.test/identity/callback?identityVerificationId=iv-1&tab=profile")
	require.NoError(t, err)

	id, ok := TakeParam(loc, "identityVerificationId")
	require.True(t, ok)
	assert.Equal(t, "iv-1", id)

	current := loc.Current()
	assert.Equal(t, "tab=profile", current.RawQuery)
	assert.Equal(t, "/identity/callback", current.Path)

	_, ok = TakeParam(loc, "identityVerificationId")
	assert.False(t, ok, "the parameter is gone after the first read")
	assert.Equal(t, 1, loc.Replacements())
}

func TestTakeParamEmptyValueIsStripped(t *testing.T) {
	loc, err := NewMemoryLocation("https://shop.test/cb?identityVerificationId=")
	require.NoError(t, err)
	_, ok := TakeParam(loc, "identityVerificationId")
	assert.False(t, ok)
	current := loc.Current()
	assert.Empty(t, current.RawQuery)
}

func TestWithParam(t *testing.T) {
	raw, err := WithParam("https://shop.test/cb?x=1", "identityVerificationId", "iv-9")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.test/cb?identityVerificationId=iv-9&x=1", raw)
}

func TestInMemoryClaims(t *testing.T) {
	ctx := context.Background()

	t.Run("first claim wins", func(t *testing.T) {
		claims := NewInMemoryClaims(time.Minute)
		defer claims.Close()

		ok, err := claims.Claim(ctx, "iv-1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = claims.Claim(ctx, "iv-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("released ids can be claimed again", func(t *testing.T) {
		claims := NewInMemoryClaims(time.Minute)
		defer claims.Close()

		_, _ = claims.Claim(ctx, "iv-1")
		require.NoError(t, claims.Release(ctx, "iv-1"))
		ok, _ := claims.Claim(ctx, "iv-1")
		assert.True(t, ok)
	})

	t.Run("claims expire", func(t *testing.T) {
		claims := NewInMemoryClaims(time.Minute)
		defer claims.Close()
		now := time.Now()
		claims.now = func() time.Time { return now }

		_, _ = claims.Claim(ctx, "iv-1")
		now = now.Add(2 * time.Minute)
		ok, _ := claims.Claim(ctx, "iv-1")
		assert.True(t, ok)

		now = now.Add(2 * time.Minute)
		claims.cleanup()
		claims.mu.Lock()
		assert.Empty(t, claims.entries)
		claims.mu.Unlock()
	})

	t.Run("exactly one concurrent claim wins", func(t *testing.T) {
		claims := NewInMemoryClaims(time.Minute)
		defer claims.Close()

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := claims.Claim(ctx, "iv-race"); ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}
