package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apierrors "authsession/pkg/api-errors"
)

func TestGenerate(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)
	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}

func TestDigits(t *testing.T) {
	code, err := Digits(6)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9]{6}$`, code)
}

func TestHashAndVerify(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		hash, err := HashWithCost("correct horse", bcrypt.MinCost)
		require.NoError(t, err)
		assert.NoError(t, Verify("correct horse", hash))
	})

	t.Run("mismatch is unauthenticated", func(t *testing.T) {
		hash, err := HashWithCost("correct horse", bcrypt.MinCost)
		require.NoError(t, err)
		err = Verify("battery staple", hash)
		assert.True(t, apierrors.HasCode(err, apierrors.CodeUnauthenticated))
	})

	t.Run("empty secret is rejected", func(t *testing.T) {
		_, err := Hash("")
		assert.True(t, apierrors.HasCode(err, apierrors.CodeValidation))
	})
}
