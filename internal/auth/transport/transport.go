// Package transport talks to the auth backend: GraphQL over HTTP for every
// query and mutation, a REST multipart endpoint for avatar uploads, and the
// credential store that authenticates both.
package transport

import (
	"context"
	"encoding/json"

	"authsession/internal/auth/models"
)

// FetchPolicy controls whether a query may be answered from the local cache.
type FetchPolicy int

const (
	// NetworkOnly always asks the backend. Identity-sensitive reads use it.
	NetworkOnly FetchPolicy = iota
	// CacheFirst answers from the cache while the entry is fresh.
	CacheFirst
)

func (p FetchPolicy) String() string {
	if p == CacheFirst {
		return "cache-first"
	}
	return "network-only"
}

// Operation is a named GraphQL document. Name is both the operation name and
// the root field whose value is returned to the caller.
type Operation struct {
	Name     string
	Document string
}

// Variables are the GraphQL variables of one call.
type Variables map[string]any

// AvatarFile is an image picked for upload.
type AvatarFile struct {
	Name            string
	Content         []byte
	ReplaceExisting bool
}

// ProgressFunc receives the upload progress as a percentage in [0, 100].
type ProgressFunc func(percent int)

// Transport is everything the auth service needs from the wire.
type Transport interface {
	// Query runs a read and returns the raw value of the operation's root field.
	Query(ctx context.Context, op Operation, vars Variables, policy FetchPolicy) (json.RawMessage, error)
	// Mutate runs a write. A successful mutation invalidates cached reads.
	Mutate(ctx context.Context, op Operation, vars Variables) (json.RawMessage, error)
	// UploadAvatar posts the file to the REST upload endpoint.
	UploadAvatar(ctx context.Context, file AvatarFile, progress ProgressFunc) (models.AvatarUpload, error)
	// Credentials returns the stored tokens, zero when signed out.
	Credentials() models.AuthTokens
	// StoreCredentials replaces the stored tokens.
	StoreCredentials(tokens models.AuthTokens) error
	// Reset forgets the stored tokens and every cached read.
	Reset() error
}
