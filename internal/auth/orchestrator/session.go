package orchestrator

import (
	"context"

	"authsession/internal/auth/flow"
	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
	"authsession/internal/platform/privacy"
	apierrors "authsession/pkg/api-errors"
)

// LoginStart is the outcome of the first login step. Pending is set when a
// second factor is required and must be passed to LoginStep2.
type LoginStart struct {
	Requires2FA bool
	Pending     *flow.PendingLogin
}

// Initialize runs the first session check. Until it returns, the session's
// authentication state is undetermined.
func (o *Orchestrator) Initialize(ctx context.Context) models.Response[*models.User] {
	resp := o.resync(ctx)
	o.writer.MarkInitialized()
	return resp
}

// CheckSession re-reads the signed-in user. It is a read and never contends
// with the mutation guard.
func (o *Orchestrator) CheckSession(ctx context.Context) models.Response[*models.User] {
	return o.Initialize(ctx)
}

// LoginStep1 submits the password. Without 2FA the session is signed in
// immediately; with 2FA the login waits for LoginStep2.
func (o *Orchestrator) LoginStep1(ctx context.Context, req models.LoginRequest) models.Response[LoginStart] {
	return guarded(ctx, o, call{name: "loginStep1", fallback: msgLogin}, func(ctx context.Context) models.Response[LoginStart] {
		if err := o.login.CanStart(); err != nil {
			return models.Fail[LoginStart](err)
		}
		resp := o.svc.LoginStep1(ctx, req)
		if !resp.Success {
			return models.Retype[models.LoginResult, LoginStart](resp)
		}
		if resp.Data.Requires2FA {
			pending, err := o.login.RequireSecondFactor(resp.Data.TempToken, req.Email)
			if err != nil {
				return models.Fail[LoginStart](err)
			}
			o.logger.InfoContext(ctx, "login awaiting second factor", "email", privacy.MaskEmail(req.Email))
			return models.OK(LoginStart{Requires2FA: true, Pending: pending}, resp.Message)
		}
		if err := o.login.PasswordAccepted(); err != nil {
			return models.Fail[LoginStart](err)
		}
		o.resync(ctx)
		o.logger.InfoContext(ctx, "login completed", "email", privacy.MaskEmail(req.Email))
		return models.OK(LoginStart{}, resp.Message)
	})
}

// LoginStep2 completes a pending login with a TOTP code. A wrong code keeps
// the login pending so the user can retry.
func (o *Orchestrator) LoginStep2(ctx context.Context, pending *flow.PendingLogin, code string) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "loginStep2", fallback: msgLoginCode}, func(ctx context.Context) models.Response[models.Empty] {
		if err := o.login.Check(pending); err != nil {
			return models.Fail[models.Empty](err)
		}
		resp := o.svc.LoginStep2(ctx, models.LoginStep2Request{TempToken: pending.TempToken(), Code: code})
		return o.completeSecondFactor(ctx, pending, resp)
	})
}

// DisableTwoFactorDuringLogin is the emergency escape hatch: it turns 2FA
// off with an emailed code and completes the pending login.
func (o *Orchestrator) DisableTwoFactorDuringLogin(ctx context.Context, pending *flow.PendingLogin, emergencyCode string) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "disableTwoFactorDuringLogin", fallback: msgDisableDuringLogin}, func(ctx context.Context) models.Response[models.Empty] {
		if err := o.login.Check(pending); err != nil {
			return models.Fail[models.Empty](err)
		}
		resp := o.svc.DisableTwoFactorDuringLogin(ctx, models.DisableTwoFactorDuringLoginRequest{
			TempToken:     pending.TempToken(),
			EmergencyCode: emergencyCode,
		})
		return o.completeSecondFactor(ctx, pending, resp)
	})
}

func (o *Orchestrator) completeSecondFactor(ctx context.Context, pending *flow.PendingLogin, resp models.Response[models.LoginResult]) models.Response[models.Empty] {
	if !resp.Success {
		return models.Retype[models.LoginResult, models.Empty](resp)
	}
	if err := o.login.SecondFactorAccepted(pending); err != nil {
		return models.Fail[models.Empty](err)
	}
	o.resync(ctx)
	o.logger.InfoContext(ctx, "login completed", "email", privacy.MaskEmail(pending.Email()))
	return models.OK(models.Empty{}, resp.Message)
}

// RequestEmergencyEmailCode mails the code DisableTwoFactorDuringLogin needs.
func (o *Orchestrator) RequestEmergencyEmailCode(ctx context.Context, pending *flow.PendingLogin) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "requestEmergencyEmailCode", fallback: msgEmergencyCode}, func(ctx context.Context) models.Response[models.Empty] {
		if err := o.login.Check(pending); err != nil {
			return models.Fail[models.Empty](err)
		}
		return o.svc.RequestEmergencyEmailCode(ctx, pending.TempToken())
	})
}

// CancelLogin abandons a login waiting for its second factor.
func (o *Orchestrator) CancelLogin() {
	o.login.Cancel()
}

// Logout ends the session on this device. Local credentials are dropped
// even when the backend call fails.
func (o *Orchestrator) Logout(ctx context.Context) models.Response[models.Empty] {
	return o.logout(ctx, "logout", o.svc.Logout)
}

// LogoutAll ends every session of the account.
func (o *Orchestrator) LogoutAll(ctx context.Context) models.Response[models.Empty] {
	return o.logout(ctx, "logoutAll", o.svc.LogoutAll)
}

func (o *Orchestrator) logout(ctx context.Context, name string, fn func(context.Context) models.Response[models.Empty]) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: name, fallback: msgLogout, resync: resyncOnSuccess}, func(ctx context.Context) models.Response[models.Empty] {
		resp := fn(ctx)
		o.signOutLocally()
		return resp
	})
}

// RefreshToken rotates the session tokens.
func (o *Orchestrator) RefreshToken(ctx context.Context) models.Response[models.AuthTokens] {
	return guarded(ctx, o, call{name: "refreshToken", fallback: msgRefresh, resync: resyncOnSuccess}, o.svc.RefreshToken)
}

// EnsureFreshToken refreshes the access token when it expires within the
// configured skew. It is a no-op without credentials or with a fresh token.
func (o *Orchestrator) EnsureFreshToken(ctx context.Context) models.Response[models.AuthTokens] {
	if o.credentials == nil {
		return models.Fail[models.AuthTokens](apierrors.New(apierrors.CodeInvalidFlowState, "no credential source configured"))
	}
	tokens := o.credentials.Credentials()
	if tokens.AccessToken == "" {
		return models.OK(tokens, "no stored session")
	}
	if !transport.ExpiresWithin(tokens.AccessToken, o.refreshSkew, o.now()) {
		return models.OK(tokens, "access token is fresh")
	}
	o.logger.DebugContext(ctx, "access token near expiry, refreshing", "token", privacy.MaskToken(tokens.AccessToken))
	return o.RefreshToken(ctx)
}

func (o *Orchestrator) RegisterUser(ctx context.Context, req models.RegisterRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "registerUser", fallback: msgRegister}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.RegisterUser(ctx, req)
	})
}

func (o *Orchestrator) VerifyActivationCode(ctx context.Context, req models.ActivationCodeRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "verifyActivationCode", fallback: msgActivation}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.VerifyActivationCode(ctx, req)
	})
}

func (o *Orchestrator) ResendActivationCode(ctx context.Context, req models.EmailRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "resendActivationCode", fallback: msgResendActivation}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.ResendActivationCode(ctx, req)
	})
}

func (o *Orchestrator) ForgotPassword(ctx context.Context, req models.EmailRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "forgotPassword", fallback: msgForgotPassword}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.ForgotPassword(ctx, req)
	})
}

func (o *Orchestrator) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "resetPassword", fallback: msgResetPassword}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.ResetPassword(ctx, req)
	})
}

func (o *Orchestrator) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "changePassword", fallback: msgChangePassword}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.ChangePassword(ctx, req)
	})
}
