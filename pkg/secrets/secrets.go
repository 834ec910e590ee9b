// Package secrets generates and verifies the opaque secrets the fake auth
// backend hands out: refresh tokens, one-time codes and password hashes.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"math/big"

	"golang.org/x/crypto/bcrypt"

	apierrors "authsession/pkg/api-errors"
)

// Generate creates a cryptographically secure random secret.
// Returns a base64-encoded string suitable for tokens sent over URLs.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", apierrors.Wrap(err, apierrors.CodeInternal, "could not generate secret")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Digits returns a uniformly random numeric code of length n, such as the
// 6-digit codes mailed for activation.
func Digits(n int) (string, error) {
	out := make([]byte, n)
	ten := big.NewInt(10)
	for i := range out {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", apierrors.Wrap(err, apierrors.CodeInternal, "could not generate code")
		}
		out[i] = byte('0' + d.Int64())
	}
	return string(out), nil
}

// Hash creates a bcrypt hash of the provided secret at the default cost.
func Hash(secret string) (string, error) {
	return HashWithCost(secret, bcrypt.DefaultCost)
}

// HashWithCost is Hash with an explicit bcrypt cost. In-memory fakes use
// bcrypt.MinCost.
func HashWithCost(secret string, cost int) (string, error) {
	if secret == "" {
		return "", apierrors.New(apierrors.CodeValidation, "secret cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apierrors.New(apierrors.CodeValidation, "secret is too long")
		}
		return "", apierrors.Wrap(err, apierrors.CodeInternal, "could not hash secret")
	}
	return string(hashed), nil
}

// Verify checks if a plaintext secret matches a bcrypt hash.
func Verify(secret, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apierrors.New(apierrors.CodeUnauthenticated, "invalid secret")
		}
		return apierrors.Wrap(err, apierrors.CodeInternal, "could not verify secret")
	}
	return nil
}
