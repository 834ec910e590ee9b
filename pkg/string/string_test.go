package string

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimStrings(t *testing.T) {
	name, code := "  Ada ", "\t123456\n"
	TrimStrings(&name, &code)
	assert.Equal(t, "Ada", name)
	assert.Equal(t, "123456", code)
}

func TestNormalizeEmail(t *testing.T) {
	email := "  Ada@Example.COM "
	NormalizeEmail(&email)
	assert.Equal(t, "ada@example.com", email)
}

func TestStripSeparators(t *testing.T) {
	assert.Equal(t, "1234567891", StripSeparators(" 123-45-67891 "))
	assert.Equal(t, "01012345678", StripSeparators("010 1234 5678"))
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"PhoneNumber":            "phone_number",
		"IdentityVerificationID": "identity_verification_id",
		"Email":                  "email",
		"TOTPCode":               "totp_code",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToSnakeCase(in), in)
	}
}
