package httpErrors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeForStatus(t *testing.T) {
	cases := map[int]Code{
		http.StatusBadRequest:            CodeBadUserInput,
		http.StatusUnauthorized:          CodeUnauthenticated,
		http.StatusForbidden:             CodeForbidden,
		http.StatusNotFound:              CodeNotFound,
		http.StatusConflict:              CodeConflict,
		http.StatusRequestEntityTooLarge: CodePayloadTooLarge,
		http.StatusTooManyRequests:       CodeRateLimited,
		http.StatusGatewayTimeout:        CodeTimeout,
		http.StatusBadGateway:            CodeInternal,
		http.StatusTeapot:                CodeHTTP,
	}
	for status, want := range cases {
		assert.Equal(t, want, CodeForStatus(status), "status %d", status)
	}
}

func TestParseBody(t *testing.T) {
	t.Run("flat code and message", func(t *testing.T) {
		b := ParseBody([]byte(`{"code":"file_too_large","message":"file exceeds 5MB"}`))
		assert.Equal(t, "file_too_large", b.Code)
		assert.Equal(t, "file exceeds 5MB", b.Message)
	})

	t.Run("nested error object", func(t *testing.T) {
		b := ParseBody([]byte(`{"error":{"code":"unsupported","message":"bad type"}}`))
		assert.Equal(t, "unsupported", b.Code)
		assert.Equal(t, "bad type", b.Message)
	})

	t.Run("error as string", func(t *testing.T) {
		b := ParseBody([]byte(`{"error":"not allowed"}`))
		assert.Empty(t, b.Code)
		assert.Equal(t, "not allowed", b.Message)
	})

	t.Run("plain text", func(t *testing.T) {
		b := ParseBody([]byte("gateway exploded\n"))
		assert.Equal(t, "gateway exploded", b.Message)
	})

	t.Run("empty body", func(t *testing.T) {
		assert.Equal(t, Body{}, ParseBody(nil))
	})
}
