package service

import (
	"context"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
	apierrors "authsession/pkg/api-errors"
)

func (s *Service) UpdateUserName(ctx context.Context, req models.UpdateNameRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opUpdateUserName, transport.Variables{"name": req.Name})
}

// RequestEmailChange sends a confirmation code to the new address.
func (s *Service) RequestEmailChange(ctx context.Context, req models.EmailChangeRequestInput) models.Response[models.EmailChangeRequest] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.EmailChangeRequest](err)
	}
	return mutate[models.EmailChangeRequest](ctx, s, opRequestEmailChange, transport.Variables{"newEmail": req.NewEmail})
}

func (s *Service) VerifyEmailChange(ctx context.Context, req models.VerifyEmailChangeRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opVerifyEmailChange, transport.Variables{"input": req})
}

func (s *Service) UpdatePhoneNumber(ctx context.Context, req models.UpdatePhoneRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opUpdatePhoneNumber, transport.Variables{"phoneNumber": req.PhoneNumber})
}

func (s *Service) UpdateBusiness(ctx context.Context, req models.UpdateBusinessRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opUpdateBusiness, transport.Variables{"input": req})
}

// UploadAvatar validates the image locally, then posts it to the REST endpoint.
func (s *Service) UploadAvatar(ctx context.Context, file transport.AvatarFile, progress transport.ProgressFunc) models.Response[models.AvatarUpload] {
	if _, err := transport.ValidateAvatar(file, s.avatarMaxBytes); err != nil {
		return models.Fail[models.AvatarUpload](err)
	}
	result, err := s.transport.UploadAvatar(ctx, file, progress)
	if err != nil {
		return models.Fail[models.AvatarUpload](err)
	}
	return models.OK(result, "avatar uploaded")
}

func (s *Service) DeleteAvatar(ctx context.Context) models.Response[models.Empty] {
	return mutate[models.Empty](ctx, s, opDeleteAvatar, nil)
}

// DeleteAccount removes the signed-in account and drops local credentials on success.
func (s *Service) DeleteAccount(ctx context.Context, req models.DeleteAccountRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	resp := mutate[models.Empty](ctx, s, opDeleteAccount, transport.Variables{"input": req})
	if resp.Success {
		s.forget(ctx, opDeleteAccount.Name)
	}
	return resp
}

func (s *Service) GetSocialLoginURL(ctx context.Context, provider models.SocialProvider) models.Response[models.SocialLoginURL] {
	if err := validProvider(provider); err != nil {
		return models.Fail[models.SocialLoginURL](err)
	}
	return query[models.SocialLoginURL](ctx, s, opGetSocialLoginURL, transport.Variables{"provider": provider}, transport.NetworkOnly)
}

func (s *Service) GetConnectedSocialProviders(ctx context.Context) models.Response[[]models.ConnectedProvider] {
	return query[[]models.ConnectedProvider](ctx, s, opGetConnectedSocialProviders, nil, transport.CacheFirst)
}

// VerifySocialEmail confirms the email of a freshly linked social account,
// which signs the account in.
func (s *Service) VerifySocialEmail(ctx context.Context, req models.SocialEmailRequest) models.Response[models.LoginResult] {
	return s.signIn(ctx, opVerifySocialEmail, &req)
}

func (s *Service) ResendSocialActivationCode(ctx context.Context, req models.EmailRequest) models.Response[models.Empty] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opResendSocialActivationCode, transport.Variables{"email": req.Email})
}

func (s *Service) UnlinkSocialAccount(ctx context.Context, provider models.SocialProvider) models.Response[models.Empty] {
	if err := validProvider(provider); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opUnlinkSocialAccount, transport.Variables{"provider": provider})
}

func validProvider(p models.SocialProvider) error {
	if !p.IsValid() {
		return apierrors.New(apierrors.CodeValidation, "unsupported social provider").WithDetail("field", "provider")
	}
	return nil
}
