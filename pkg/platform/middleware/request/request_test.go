package request

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authsession/pkg/platform/httputil"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"no header", "", false},
		{"client id", "my-request-123", true},
		{"periods and underscores", "trace.span_1234", true},
		{"exactly max length", strings.Repeat("a", MaxRequestIDLength), true},
		{"over max length", strings.Repeat("a", MaxRequestIDLength+1), false},
		{"newline", "valid\ninjected-log-line", false},
		{"spaces", "request id", false},
		{"quotes", `request"id`, false},
		{"angle brackets", "request<id>", false},
		{"null byte", "request\x00id", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFrom(r.Context())
			}))
			req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			echoed := w.Header().Get(HeaderRequestID)
			assert.Equal(t, seen, echoed)
			if tt.keep {
				assert.Equal(t, tt.header, echoed)
			} else {
				assert.NotEqual(t, tt.header, echoed)
				assert.Len(t, echoed, 36, "a UUID replaces the rejected id")
			}
		})
	}
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFrom(context.Background()))
	assert.Equal(t, "req-1", RequestIDFrom(WithRequestID(context.Background(), "req-1")))
}

func TestRecovery(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	handler := RequestID(Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("resolver exploded")
	})))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set(HeaderRequestID, "req-panic")
	w := httptest.NewRecorder()
	require.NotPanics(t, func() { handler.ServeHTTP(w, req) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body httputil.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
	assert.Contains(t, logs.String(), "resolver exploded")
	assert.Contains(t, logs.String(), "req-panic")
}

func TestLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetOperation(r.Context(), "getLoggedInUser")
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))
	assert.Contains(t, logs.String(), `"status":418`)
	assert.Contains(t, logs.String(), `"operation":"getLoggedInUser"`)

	logs.Reset()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, logs.String(), "health checks below 500 are not logged")
}

func TestSetOperationOutsideLoggerIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { SetOperation(context.Background(), "login") })
}
