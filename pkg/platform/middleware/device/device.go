// Package device labels requests with the client device they came from.
// The fake backend shows the label on each issued session.
package device

import (
	"context"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

type contextKeyLabel struct{}

// Label returns the device label stored by Device, or "Unknown Device".
func Label(ctx context.Context) string {
	if label, ok := ctx.Value(contextKeyLabel{}).(string); ok && label != "" {
		return label
	}
	return "Unknown Device"
}

// WithLabel stores label in ctx.
func WithLabel(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, contextKeyLabel{}, label)
}

// Device derives a label from the User-Agent header.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithLabel(r.Context(), ParseUserAgent(r.Header.Get("User-Agent")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseUserAgent extracts a human-readable device display name from User-Agent string.
// Returns format: "Browser on OS" (e.g., "Chrome on macOS", "Safari on iOS")
func ParseUserAgent(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		platform := ua.Platform()
		if platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}
