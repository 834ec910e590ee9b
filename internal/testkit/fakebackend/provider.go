package fakebackend

import (
	"context"

	"authsession/internal/auth/identity"
)

// ProviderMode selects how the fake identity provider answers.
type ProviderMode int

const (
	// ProviderInline verifies the customer and answers in place.
	ProviderInline ProviderMode = iota
	// ProviderRedirect verifies the customer and leaves through the redirect URL.
	ProviderRedirect
	// ProviderCancel behaves like a user closing the provider window.
	ProviderCancel
	// ProviderReject completes the flow but the provider refuses the identity.
	ProviderReject
)

// DefaultIdentityParam is the query parameter the redirect carries the id in.
const DefaultIdentityParam = "identityVerificationId"

// IdentityProvider stands in for the provider SDK. It reports its verdict to
// the backend the way the real provider calls the backend's webhook.
type IdentityProvider struct {
	backend *Backend
	mode    ProviderMode
	param   string
}

// Provider returns an identity provider bound to b.
func (b *Backend) Provider(mode ProviderMode) *IdentityProvider {
	return &IdentityProvider{backend: b, mode: mode, param: DefaultIdentityParam}
}

// WithParam changes the redirect query parameter.
func (p *IdentityProvider) WithParam(param string) *IdentityProvider {
	p.param = param
	return p
}

func (p *IdentityProvider) RequestIdentityVerification(ctx context.Context, req identity.Request) (identity.Result, error) {
	if err := ctx.Err(); err != nil {
		return identity.Result{}, err
	}
	result := identity.Result{IdentityVerificationID: req.IdentityVerificationID}
	if req.StoreID == "" || req.ChannelKey == "" {
		result.Code = "INVALID_CHANNEL"
		result.Message = "The provider channel is not configured"
		return result, nil
	}

	switch p.mode {
	case ProviderCancel:
		result.Code = "USER_CANCELLED"
		result.Message = "The user closed the verification window"
		return result, nil
	case ProviderReject:
		p.backend.completeVerification(req.IdentityVerificationID, req.Customer, false)
		return result, nil
	}

	if !p.backend.completeVerification(req.IdentityVerificationID, req.Customer, true) {
		result.Code = "UNKNOWN_VERIFICATION"
		result.Message = "The identity verification id is unknown"
		return result, nil
	}
	if p.mode == ProviderRedirect {
		redirect, err := identity.WithParam(req.RedirectURL, p.param, req.IdentityVerificationID)
		if err != nil {
			return identity.Result{}, err
		}
		p.backend.mu.Lock()
		p.backend.lastRedirect = redirect
		p.backend.mu.Unlock()
		result.Redirected = true
	}
	return result, nil
}

// LastRedirect returns the address the last redirecting verification sent the user to.
func (b *Backend) LastRedirect() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastRedirect
}

var _ identity.Provider = (*IdentityProvider)(nil)
