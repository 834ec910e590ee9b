package device

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		assertion func(t *testing.T, result string)
	}{
		{
			name:      "empty user agent returns unknown device",
			userAgent: "",
			assertion: func(t *testing.T, result string) {
				assert.Equal(t, "Unknown Device", result)
			},
		},
		{
			name:      "chrome on desktop",
			userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			assertion: func(t *testing.T, result string) {
				assert.Contains(t, result, "Chrome")
				assert.Contains(t, result, "on")
				assert.NotContains(t, result, "  ")
			},
		},
		{
			name:      "safari on iphone",
			userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			assertion: func(t *testing.T, result string) {
				assert.Contains(t, result, "iPhone")
			},
		},
		{
			name:      "session core client",
			userAgent: "authsession/1.0",
			assertion: func(t *testing.T, result string) {
				assert.Contains(t, result, " on ")
				assert.Equal(t, result, strings.TrimSpace(result))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assertion(t, ParseUserAgent(tt.userAgent))
		})
	}
}

func TestDevice(t *testing.T) {
	var label string
	handler := Device(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		label = Label(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, label, "Firefox")
}

func TestLabelDefault(t *testing.T) {
	assert.Equal(t, "Unknown Device", Label(context.Background()))
}
