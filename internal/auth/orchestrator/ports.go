package orchestrator

import (
	"context"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
)

// AuthService is the backend surface the orchestrator drives. It is
// satisfied by *service.Service.
type AuthService interface {
	GetLoggedInUser(ctx context.Context) models.Response[*models.User]
	LoginStep1(ctx context.Context, req models.LoginRequest) models.Response[models.LoginResult]
	LoginStep2(ctx context.Context, req models.LoginStep2Request) models.Response[models.LoginResult]
	DisableTwoFactorDuringLogin(ctx context.Context, req models.DisableTwoFactorDuringLoginRequest) models.Response[models.LoginResult]
	RequestEmergencyEmailCode(ctx context.Context, tempToken string) models.Response[models.Empty]
	Logout(ctx context.Context) models.Response[models.Empty]
	LogoutAll(ctx context.Context) models.Response[models.Empty]
	RefreshToken(ctx context.Context) models.Response[models.AuthTokens]
	RegisterUser(ctx context.Context, req models.RegisterRequest) models.Response[models.Empty]
	VerifyActivationCode(ctx context.Context, req models.ActivationCodeRequest) models.Response[models.Empty]
	ResendActivationCode(ctx context.Context, req models.EmailRequest) models.Response[models.Empty]
	ForgotPassword(ctx context.Context, req models.EmailRequest) models.Response[models.Empty]
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) models.Response[models.Empty]
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) models.Response[models.Empty]

	UpdateUserName(ctx context.Context, req models.UpdateNameRequest) models.Response[models.Empty]
	RequestEmailChange(ctx context.Context, req models.EmailChangeRequestInput) models.Response[models.EmailChangeRequest]
	VerifyEmailChange(ctx context.Context, req models.VerifyEmailChangeRequest) models.Response[models.Empty]
	UpdatePhoneNumber(ctx context.Context, req models.UpdatePhoneRequest) models.Response[models.Empty]
	UpdateBusiness(ctx context.Context, req models.UpdateBusinessRequest) models.Response[models.Empty]
	UploadAvatar(ctx context.Context, file transport.AvatarFile, progress transport.ProgressFunc) models.Response[models.AvatarUpload]
	DeleteAvatar(ctx context.Context) models.Response[models.Empty]
	DeleteAccount(ctx context.Context, req models.DeleteAccountRequest) models.Response[models.Empty]
	GetSocialLoginURL(ctx context.Context, provider models.SocialProvider) models.Response[models.SocialLoginURL]
	GetConnectedSocialProviders(ctx context.Context) models.Response[[]models.ConnectedProvider]
	VerifySocialEmail(ctx context.Context, req models.SocialEmailRequest) models.Response[models.LoginResult]
	ResendSocialActivationCode(ctx context.Context, req models.EmailRequest) models.Response[models.Empty]
	UnlinkSocialAccount(ctx context.Context, provider models.SocialProvider) models.Response[models.Empty]

	Get2FAStatus(ctx context.Context) models.Response[models.TwoFactorStatus]
	Generate2FAQR(ctx context.Context) models.Response[models.TwoFactorSetup]
	Enable2FA(ctx context.Context, req models.CodeRequest) models.Response[models.Empty]
	Disable2FA(ctx context.Context, password string) models.Response[models.Empty]

	GetIdentityVerificationConfig(ctx context.Context) models.Response[models.IdentityVerificationConfig]
	GetIdentityVerification(ctx context.Context, identityVerificationID string) models.Response[models.IdentityVerification]
	RequestIdentityVerification(ctx context.Context) models.Response[models.IdentityVerificationRequest]
	VerifyIdentityVerification(ctx context.Context, identityVerificationID string) models.Response[models.IdentityVerification]
	GenerateVerificationRequest(ctx context.Context) models.Response[models.VerificationRequestToken]
	ValidateBusinessNumber(ctx context.Context, req models.BusinessNumberRequest) models.Response[models.BusinessNumberValidation]

	GetAllUsers(ctx context.Context, filter models.ListUsersFilter) models.Response[models.UserList]
	GetUserByID(ctx context.Context, id string) models.Response[*models.User]
	GetUsersStats(ctx context.Context) models.Response[models.UsersStats]
	GetInvitations(ctx context.Context, filter models.InvitationFilter) models.Response[models.InvitationList]
	VerifyInvitationToken(ctx context.Context, token string) models.Response[models.InvitationTokenInfo]
	InviteUser(ctx context.Context, req models.InviteUserRequest) models.Response[models.Invitation]
	CancelInvitation(ctx context.Context, id string) models.Response[models.Empty]
	ResendInvitation(ctx context.Context, id string) models.Response[models.Invitation]
	AcceptInvitation(ctx context.Context, req models.AcceptInvitationRequest) models.Response[models.LoginResult]
	UpdateUserByAdmin(ctx context.Context, req models.UpdateUserByAdminRequest) models.Response[models.User]
	DeleteUserByAdmin(ctx context.Context, id string) models.Response[models.Empty]
}

// CredentialSource exposes the stored tokens for proactive refresh.
type CredentialSource interface {
	Credentials() models.AuthTokens
}
