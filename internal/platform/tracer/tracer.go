// Package tracer provides a lightweight tracing abstraction for the session core.
//
// The transport opens one span per backend operation through this interface,
// so the rest of the code never depends on OpenTelemetry APIs directly.
//
// Implementations:
//   - NoopTracer: discards everything
//   - Recorder: keeps finished spans in memory for tests
//   - OTelTracer: OpenTelemetry adapter
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording err when non-nil.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashIdentifier returns a short SHA-256 prefix of an identifier so traces
// can be correlated without exposing the raw value.
func HashIdentifier(v string) string {
	if v == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(v))
	return hex.EncodeToString(hash[:8])
}

// Span names.
const (
	SpanGraphQLQuery    = "graphql.query"
	SpanGraphQLMutation = "graphql.mutation"
	SpanAvatarUpload    = "rest.avatar_upload"
)

// Attribute keys.
const (
	AttrOperation   = "graphql.operation"
	AttrFetchPolicy = "graphql.fetch_policy"
	AttrCacheHit    = "cache.hit"
	AttrStatusCode  = "http.status_code"
	AttrErrorCode   = "error.code"
	AttrRequestID   = "request_id"
	AttrUploadBytes = "upload.bytes"
)
