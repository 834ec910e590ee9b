package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "authsession/pkg/api-errors"
)

type codeRequest struct {
	Code string `validate:"required,otp"`
}

type signupRequest struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	PasswordConfirm string `validate:"eqfield=Password"`
	PhoneNumber     string `validate:"omitempty,phone"`
	Role            string `validate:"omitempty,oneof=user business"`
}

func TestValidate(t *testing.T) {
	t.Run("accepts a six digit code", func(t *testing.T) {
		require.NoError(t, Validate(codeRequest{Code: "123456"}))
	})

	t.Run("rejects short codes with a validation error", func(t *testing.T) {
		err := Validate(codeRequest{Code: "12345"})
		require.Error(t, err)
		assert.True(t, apierrors.HasCode(err, apierrors.CodeValidation))
		assert.Equal(t, "code must be a 6-digit code", err.Error())

		var apiErr *apierrors.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "code", apiErr.Details["field"])
	})

	t.Run("reports the first failing field in snake case", func(t *testing.T) {
		err := Validate(signupRequest{Email: "a@b.co", Password: "longenough", PasswordConfirm: "different"})
		require.Error(t, err)
		assert.Equal(t, "password_confirm must match password", err.Error())
	})

	t.Run("checks phone format only when present", func(t *testing.T) {
		base := signupRequest{Email: "a@b.co", Password: "longenough", PasswordConfirm: "longenough"}
		require.NoError(t, Validate(base))

		base.PhoneNumber = "+82 10-1234-5678"
		require.NoError(t, Validate(base))

		base.PhoneNumber = "call me"
		assert.EqualError(t, Validate(base), "phone_number must be a valid phone number")
	})

	t.Run("oneof", func(t *testing.T) {
		err := Validate(signupRequest{Email: "a@b.co", Password: "longenough", PasswordConfirm: "longenough", Role: "root"})
		assert.EqualError(t, err, "role must be one of [user business]")
	})
}
