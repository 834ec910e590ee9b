// Package request holds the HTTP middleware stack of the fake backend:
// panic recovery, request ids, access logging and body limits.
package request

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	apierrors "authsession/pkg/api-errors"
	"authsession/pkg/platform/httputil"
)

// HeaderRequestID is the correlation header the client transport sends.
const HeaderRequestID = "X-Request-ID"

// MaxRequestIDLength bounds a client-supplied request id.
const MaxRequestIDLength = 128

var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

type contextKeyRequestID struct{}

type contextKeyOperation struct{}

// operation is filled in by the handler once it knows which GraphQL
// operation a request carries, and read back by Logger.
type operation struct {
	name string
}

// RequestIDFrom returns the request id stored by RequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID stores id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, id)
}

// SetOperation names the operation of the current request for the access
// log. It is a no-op outside Logger.
func SetOperation(ctx context.Context, name string) {
	if op, ok := ctx.Value(contextKeyOperation{}).(*operation); ok {
		op.name = name
	}
}

// Recovery turns a panicking resolver into a 500 with an INTERNAL_SERVER_ERROR
// body, the same shape every other REST failure has.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					ctx := r.Context()
					logger.ErrorContext(ctx, "panic recovered",
						"error", fmt.Sprint(v),
						"stack", string(debug.Stack()),
						"path", r.URL.Path,
						"request_id", RequestIDFrom(ctx),
					)
					httputil.WriteError(w, apierrors.New(apierrors.CodeInternal, "internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID keeps a valid client-supplied X-Request-ID and mints a UUID
// otherwise. The id is echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if !isValidRequestID(requestID) {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), requestID)))
	})
}

func isValidRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	return validRequestID.MatchString(id)
}

// Logger writes one debug line per request with the GraphQL operation, the
// status and the latency. Health checks are skipped unless they fail.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			op := &operation{}
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), contextKeyOperation{}, op)))

			if r.URL.Path == "/health" && wrapped.statusCode < http.StatusInternalServerError {
				return
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", RequestIDFrom(r.Context()),
			}
			if op.name != "" {
				attrs = append(attrs, "operation", op.name)
			}
			logger.DebugContext(r.Context(), "http request", attrs...)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
