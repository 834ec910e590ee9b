package service

import (
	"context"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
)

// Get2FAStatus reads the TOTP state of the signed-in account, bypassing the cache.
func (s *Service) Get2FAStatus(ctx context.Context) models.Response[models.TwoFactorStatus] {
	return query[models.TwoFactorStatus](ctx, s, opGet2FAStatus, nil, transport.NetworkOnly)
}

// Generate2FAQR starts enrolment and returns the QR payload.
func (s *Service) Generate2FAQR(ctx context.Context) models.Response[models.TwoFactorSetup] {
	return mutate[models.TwoFactorSetup](ctx, s, opGenerate2FAQR, nil)
}

// Enable2FA confirms enrolment with a code from the authenticator app.
func (s *Service) Enable2FA(ctx context.Context, req models.CodeRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opEnable2FA, transport.Variables{"code": req.Code})
}

// Disable2FA turns TOTP off. Password accounts must send their password; the
// backend re-validates either way.
func (s *Service) Disable2FA(ctx context.Context, password string) models.Response[models.Empty] {
	vars := transport.Variables{}
	if password != "" {
		vars["password"] = password
	}
	return mutate[models.Empty](ctx, s, opDisable2FA, vars)
}
