package fakebackend

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"authsession/internal/auth/models"
	"authsession/pkg/secrets"
)

// verification is one identity verification id and what the provider
// reported for it.
type verification struct {
	ID         string
	UserID     string
	Status     models.IdentityVerificationStatus
	ExpiresAt  time.Time
	Completed  bool
	Customer   models.Customer
	VerifiedAt *time.Time
}

func (v *verification) view() models.IdentityVerification {
	out := models.IdentityVerification{
		IdentityVerificationID: v.ID,
		Status:                 v.Status,
		VerifiedAt:             v.VerifiedAt,
	}
	if v.Status == models.IdentityVerificationVerified {
		out.VerifiedName = v.Customer.FullName
		out.VerifiedPhoneNumber = v.Customer.PhoneNumber
	}
	return out
}

type verificationVars struct {
	IdentityVerificationID string `json:"identityVerificationId"`
}

func (b *Backend) getIdentityVerificationConfig(_ context.Context, _ json.RawMessage) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.identityConfig, nil
}

// ownVerification finds id among the caller's verifications. Callers hold b.mu.
func (b *Backend) ownVerification(a *account, id string) (*verification, bool) {
	v, ok := b.verifications[id]
	if !ok || v.UserID != a.ID {
		return nil, false
	}
	return v, true
}

func (b *Backend) getIdentityVerification(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[verificationVars](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := b.ownVerification(a, in.IdentityVerificationID)
	if !ok {
		return nil, errNotFound("Identity verification not found")
	}
	return v.view(), nil
}

func (b *Backend) requestIdentityVerification(ctx context.Context, _ json.RawMessage) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	if a.IdentityVerified {
		return failure("ALREADY_VERIFIED", "Your identity is already verified"), nil
	}
	v := &verification{
		ID:        "identity-verification-" + uuid.NewString(),
		UserID:    a.ID,
		Status:    models.IdentityVerificationReady,
		ExpiresAt: b.now(ctx).Add(verificationTTL),
	}
	b.verifications[v.ID] = v
	return success("Identity verification requested", models.IdentityVerificationRequest{
		IdentityVerificationID: v.ID,
		Status:                 v.Status,
		ExpiresAt:              v.ExpiresAt,
	})
}

// verifyIdentityVerification consumes a completed verification. Each id is
// accepted once.
func (b *Backend) verifyIdentityVerification(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[verificationVars](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := b.ownVerification(a, in.IdentityVerificationID)
	if !ok {
		return failure("IDENTITY_VERIFICATION_NOT_FOUND", "Identity verification not found"), nil
	}
	now := b.now(ctx)
	switch {
	case v.Status == models.IdentityVerificationVerified:
		return failure("IDENTITY_VERIFICATION_ALREADY_USED", "This identity verification was already used"), nil
	case v.Status == models.IdentityVerificationFailed:
		return failure("IDENTITY_VERIFICATION_FAILED", "The identity provider rejected the verification"), nil
	case v.Status == models.IdentityVerificationExpired || now.After(v.ExpiresAt):
		v.Status = models.IdentityVerificationExpired
		return failure("IDENTITY_VERIFICATION_EXPIRED", "The identity verification has expired"), nil
	case !v.Completed:
		return failure("IDENTITY_VERIFICATION_PENDING", "The identity verification has not been completed"), nil
	}

	v.Status = models.IdentityVerificationVerified
	v.VerifiedAt = &now
	a.IdentityVerified = true
	a.Phone = v.Customer.PhoneNumber
	a.PhoneVerified = true
	return success("Identity verified", v.view())
}

func (b *Backend) generateVerificationRequest(ctx context.Context, _ json.RawMessage) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.caller(ctx); err != nil {
		return nil, err
	}
	token, err := secrets.Generate()
	if err != nil {
		return nil, err
	}
	return models.VerificationRequestToken{Token: token, ExpiresAt: b.now(ctx).Add(verificationTTL)}, nil
}

func (b *Backend) validateBusinessNumber(_ context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[struct {
		Number string `json:"number"`
	}](vars)
	if err != nil {
		return nil, err
	}
	if !validBusinessNumber(in.Number) {
		return models.BusinessNumberValidation{Valid: false, Status: "INVALID"}, nil
	}
	return models.BusinessNumberValidation{
		Valid:        true,
		BusinessName: "Business " + in.Number[:3] + "-" + in.Number[3:5] + "-" + in.Number[5:],
		Status:       "ACTIVE",
	}, nil
}

// completeVerification records the provider's verdict for id.
func (b *Backend) completeVerification(id string, customer models.Customer, accepted bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.verifications[id]
	if !ok || v.Status != models.IdentityVerificationReady {
		return false
	}
	v.Customer = customer
	v.Completed = true
	if !accepted {
		v.Status = models.IdentityVerificationFailed
	}
	return true
}
