package service

import (
	"context"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
)

func (s *Service) GetIdentityVerificationConfig(ctx context.Context) models.Response[models.IdentityVerificationConfig] {
	return query[models.IdentityVerificationConfig](ctx, s, opGetIdentityVerificationConfig, nil, transport.CacheFirst)
}

// GetIdentityVerification reads the status of one verification, bypassing the cache.
func (s *Service) GetIdentityVerification(ctx context.Context, identityVerificationID string) models.Response[models.IdentityVerification] {
	if err := requireValue("identity_verification_id", identityVerificationID); err != nil {
		return models.Fail[models.IdentityVerification](err)
	}
	return query[models.IdentityVerification](ctx, s, opGetIdentityVerification,
		transport.Variables{"identityVerificationId": identityVerificationID}, transport.NetworkOnly)
}

// RequestIdentityVerification issues the id handed to the provider SDK.
func (s *Service) RequestIdentityVerification(ctx context.Context) models.Response[models.IdentityVerificationRequest] {
	return mutate[models.IdentityVerificationRequest](ctx, s, opRequestIdentityVerification, nil)
}

// VerifyIdentityVerification consumes an identity verification id. The
// backend accepts each id once.
func (s *Service) VerifyIdentityVerification(ctx context.Context, identityVerificationID string) models.Response[models.IdentityVerification] {
	if err := requireValue("identity_verification_id", identityVerificationID); err != nil {
		return models.Fail[models.IdentityVerification](err)
	}
	return mutate[models.IdentityVerification](ctx, s, opVerifyIdentityVerification,
		transport.Variables{"identityVerificationId": identityVerificationID})
}

// GenerateVerificationRequest issues a one-shot token for opening a verification flow.
func (s *Service) GenerateVerificationRequest(ctx context.Context) models.Response[models.VerificationRequestToken] {
	return query[models.VerificationRequestToken](ctx, s, opGenerateVerificationRequest, nil, transport.NetworkOnly)
}

func (s *Service) ValidateBusinessNumber(ctx context.Context, req models.BusinessNumberRequest) models.Response[models.BusinessNumberValidation] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.BusinessNumberValidation](err)
	}
	return query[models.BusinessNumberValidation](ctx, s, opValidateBusinessNumber,
		transport.Variables{"number": req.Number}, transport.CacheFirst)
}
