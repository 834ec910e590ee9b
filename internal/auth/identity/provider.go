// Package identity integrates the third-party real-name verification
// provider: the SDK contract, the redirect-return location, and the claim
// store that lets each verification id be verified once.
package identity

import (
	"context"

	"authsession/internal/auth/models"
)

// Request is what the provider SDK needs to open its flow.
type Request struct {
	StoreID                string
	ChannelKey             string
	IdentityVerificationID string
	Customer               models.Customer
	RedirectURL            string
}

// Result is the provider's inline answer. Redirected means the SDK left the
// page and the flow resumes from the redirect URL instead. A non-empty Code
// means the user cancelled or the provider failed.
type Result struct {
	IdentityVerificationID string
	Code                   string
	Message                string
	Redirected             bool
}

// Failed reports whether the provider returned an error code.
func (r Result) Failed() bool {
	return r.Code != ""
}

// Provider runs the provider's own verification UI.
type Provider interface {
	RequestIdentityVerification(ctx context.Context, req Request) (Result, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (Result, error)

func (f ProviderFunc) RequestIdentityVerification(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}
