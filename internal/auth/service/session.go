package service

import (
	"context"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
	apierrors "authsession/pkg/api-errors"
)

// GetLoggedInUser is the identity-sensitive session check; it always bypasses
// the cache. A nil user means the backend sees no session.
func (s *Service) GetLoggedInUser(ctx context.Context) models.Response[*models.User] {
	return query[*models.User](ctx, s, opGetLoggedInUser, nil, transport.NetworkOnly)
}

// LoginStep1 checks the password. Without 2FA the returned tokens are stored
// immediately; with 2FA the result only carries the temporary token.
func (s *Service) LoginStep1(ctx context.Context, req models.LoginRequest) models.Response[models.LoginResult] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.LoginResult](err)
	}
	resp := mutate[models.LoginResult](ctx, s, opLoginStep1, transport.Variables{"input": req})
	if resp.Success && !resp.Data.Requires2FA {
		if err := s.keepTokens(resp.Data.AuthTokens); err != nil {
			return models.Fail[models.LoginResult](err)
		}
	}
	return resp
}

// LoginStep2 exchanges the temporary token and a TOTP code for a session.
func (s *Service) LoginStep2(ctx context.Context, req models.LoginStep2Request) models.Response[models.LoginResult] {
	return s.signIn(ctx, opLoginStep2, &req)
}

// DisableTwoFactorDuringLogin turns 2FA off with an emergency email code and
// completes the pending login.
func (s *Service) DisableTwoFactorDuringLogin(ctx context.Context, req models.DisableTwoFactorDuringLoginRequest) models.Response[models.LoginResult] {
	return s.signIn(ctx, opDisable2FADuringLogin, &req)
}

// RequestEmergencyEmailCode emails the code DisableTwoFactorDuringLogin needs.
func (s *Service) RequestEmergencyEmailCode(ctx context.Context, tempToken string) models.Response[models.Empty] {
	if err := requireValue("temp_token", tempToken); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opRequestEmergencyEmailCode, transport.Variables{"tempToken": tempToken})
}

// signIn runs a mutation whose success payload carries fresh tokens.
func (s *Service) signIn(ctx context.Context, op transport.Operation, req any) models.Response[models.LoginResult] {
	if err := prepare(req); err != nil {
		return models.Fail[models.LoginResult](err)
	}
	resp := mutate[models.LoginResult](ctx, s, op, transport.Variables{"input": req})
	if !resp.Success {
		return resp
	}
	if err := s.keepTokens(resp.Data.AuthTokens); err != nil {
		return models.Fail[models.LoginResult](err)
	}
	return resp
}

// Logout ends the backend session. Local credentials are dropped whatever the outcome.
func (s *Service) Logout(ctx context.Context) models.Response[models.Empty] {
	resp := mutate[models.Empty](ctx, s, opLogout, nil)
	s.forget(ctx, opLogout.Name)
	return resp
}

// LogoutAll ends every session of the account.
func (s *Service) LogoutAll(ctx context.Context) models.Response[models.Empty] {
	resp := mutate[models.Empty](ctx, s, opLogoutAll, nil)
	s.forget(ctx, opLogoutAll.Name)
	return resp
}

// RefreshToken rotates the stored credentials. A backend that does not rotate
// the refresh token keeps the current one.
func (s *Service) RefreshToken(ctx context.Context) models.Response[models.AuthTokens] {
	current := s.transport.Credentials()
	if current.RefreshToken == "" {
		return models.Fail[models.AuthTokens](apierrors.New(apierrors.CodeUnauthenticated, "no refresh token is stored"))
	}
	resp := mutate[models.AuthTokens](ctx, s, opRefreshToken, transport.Variables{"refreshToken": current.RefreshToken})
	if !resp.Success {
		return resp
	}
	if resp.Data.RefreshToken == "" {
		resp.Data.RefreshToken = current.RefreshToken
	}
	if err := s.keepTokens(resp.Data); err != nil {
		return models.Fail[models.AuthTokens](err)
	}
	return resp
}

func (s *Service) RegisterUser(ctx context.Context, req models.RegisterRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opRegisterUser, transport.Variables{"input": req})
}

func (s *Service) VerifyActivationCode(ctx context.Context, req models.ActivationCodeRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opVerifyActivationCode, transport.Variables{"input": req})
}

func (s *Service) ResendActivationCode(ctx context.Context, req models.EmailRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opResendActivationCode, transport.Variables{"email": req.Email})
}

func (s *Service) ForgotPassword(ctx context.Context, req models.EmailRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opForgotPassword, transport.Variables{"email": req.Email})
}

func (s *Service) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opResetPassword, transport.Variables{"input": req})
}

func (s *Service) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opChangePassword, transport.Variables{"input": req})
}
