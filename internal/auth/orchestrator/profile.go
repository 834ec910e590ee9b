package orchestrator

import (
	"context"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
)

func (o *Orchestrator) UpdateUserName(ctx context.Context, req models.UpdateNameRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "updateUserName", fallback: msgUpdateName, resync: resyncOnSuccess}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.UpdateUserName(ctx, req)
	})
}

// RequestEmailChange mails a confirmation code to the new address. The
// pending address shows up on the user after the re-sync.
func (o *Orchestrator) RequestEmailChange(ctx context.Context, req models.EmailChangeRequestInput) models.Response[models.EmailChangeRequest] {
	return guarded(ctx, o, call{name: "requestEmailChange", fallback: msgEmailChange, resync: resyncOnSuccess}, func(ctx context.Context) models.Response[models.EmailChangeRequest] {
		return o.svc.RequestEmailChange(ctx, req)
	})
}

func (o *Orchestrator) VerifyEmailChange(ctx context.Context, req models.VerifyEmailChangeRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "verifyEmailChange", fallback: msgVerifyEmailChange, resync: resyncOnSuccess}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.VerifyEmailChange(ctx, req)
	})
}

func (o *Orchestrator) UpdatePhoneNumber(ctx context.Context, req models.UpdatePhoneRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "updatePhoneNumber", fallback: msgUpdatePhone, resync: resyncOnSuccess}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.UpdatePhoneNumber(ctx, req)
	})
}

func (o *Orchestrator) UpdateBusiness(ctx context.Context, req models.UpdateBusinessRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "updateBusiness", fallback: msgUpdateBusiness, resync: resyncOnSuccess}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.UpdateBusiness(ctx, req)
	})
}

// UploadAvatar validates and uploads a profile image. The session is
// re-read afterwards whether or not the upload succeeded.
func (o *Orchestrator) UploadAvatar(ctx context.Context, file transport.AvatarFile, progress transport.ProgressFunc) models.Response[models.AvatarUpload] {
	return guarded(ctx, o, call{name: "uploadAvatar", fallback: msgUploadAvatar, resync: resyncAlways}, func(ctx context.Context) models.Response[models.AvatarUpload] {
		if _, err := o.CurrentUser(); err != nil {
			return noSession[models.AvatarUpload]()
		}
		return o.svc.UploadAvatar(ctx, file, progress)
	})
}

// DeleteAvatar removes the profile image and re-reads the session either way.
func (o *Orchestrator) DeleteAvatar(ctx context.Context) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "deleteAvatar", fallback: msgDeleteAvatar, resync: resyncAlways}, func(ctx context.Context) models.Response[models.Empty] {
		if _, err := o.CurrentUser(); err != nil {
			return noSession[models.Empty]()
		}
		return o.svc.DeleteAvatar(ctx)
	})
}

// DeleteAccount closes the account and ends the session.
func (o *Orchestrator) DeleteAccount(ctx context.Context, req models.DeleteAccountRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "deleteAccount", fallback: msgDeleteAccount, resync: resyncOnSuccess}, func(ctx context.Context) models.Response[models.Empty] {
		resp := o.svc.DeleteAccount(ctx, req)
		if resp.Success {
			o.signOutLocally()
		}
		return resp
	})
}

func (o *Orchestrator) GetSocialLoginURL(ctx context.Context, provider models.SocialProvider) models.Response[models.SocialLoginURL] {
	return o.svc.GetSocialLoginURL(ctx, provider)
}

func (o *Orchestrator) GetConnectedSocialProviders(ctx context.Context) models.Response[[]models.ConnectedProvider] {
	return o.svc.GetConnectedSocialProviders(ctx)
}

// VerifySocialEmail confirms the email of a social sign-up and signs it in.
func (o *Orchestrator) VerifySocialEmail(ctx context.Context, req models.SocialEmailRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "verifySocialEmail", fallback: msgSocialEmail, resync: resyncOnSuccess}, func(ctx context.Context) models.Response[models.Empty] {
		resp := o.svc.VerifySocialEmail(ctx, req)
		if !resp.Success {
			return models.Retype[models.LoginResult, models.Empty](resp)
		}
		_ = o.login.PasswordAccepted()
		return models.OK(models.Empty{}, resp.Message)
	})
}

func (o *Orchestrator) ResendSocialActivationCode(ctx context.Context, req models.EmailRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "resendSocialActivationCode", fallback: msgSocialResend}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.ResendSocialActivationCode(ctx, req)
	})
}

func (o *Orchestrator) UnlinkSocialAccount(ctx context.Context, provider models.SocialProvider) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "unlinkSocialAccount", fallback: msgUnlinkSocial, resync: resyncOnSuccess}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.UnlinkSocialAccount(ctx, provider)
	})
}
