package orchestrator

// Default messages stored as the session error when a failure carries none.
const (
	msgSessionCheck       = "Could not load your session."
	msgLogin              = "Sign in failed."
	msgLoginCode          = "The verification code could not be confirmed."
	msgDisableDuringLogin = "Two-factor authentication could not be turned off."
	msgEmergencyCode      = "The emergency code could not be sent."
	msgLogout             = "Sign out failed."
	msgRefresh            = "Your session could not be renewed."
	msgRegister           = "Registration failed."
	msgActivation         = "The activation code could not be verified."
	msgResendActivation   = "The activation code could not be resent."
	msgForgotPassword     = "The password reset email could not be sent."
	msgResetPassword      = "The password could not be reset."
	msgChangePassword     = "The password could not be changed."
	msgUpdateName         = "Your name could not be updated."
	msgEmailChange        = "The email change could not be started."
	msgVerifyEmailChange  = "The new email address could not be confirmed."
	msgUpdatePhone        = "Your phone number could not be updated."
	msgUpdateBusiness     = "Your business details could not be updated."
	msgUploadAvatar       = "The profile image could not be uploaded."
	msgDeleteAvatar       = "The profile image could not be removed."
	msgDeleteAccount      = "Your account could not be deleted."
	msgSocialEmail        = "The social account email could not be verified."
	msgSocialResend       = "The social activation code could not be resent."
	msgUnlinkSocial       = "The social account could not be disconnected."
	msgSetup2FA           = "Two-factor setup could not be started."
	msgEnable2FA          = "Two-factor authentication could not be enabled."
	msgDisable2FA         = "Two-factor authentication could not be disabled."
	msgIdentityRequest    = "Identity verification could not be started."
	msgIdentityVerify     = "Identity verification failed."
	msgListUsers          = "Users could not be loaded."
	msgGetUser            = "The user could not be loaded."
	msgUsersStats         = "User statistics could not be loaded."
	msgListInvitations    = "Invitations could not be loaded."
	msgVerifyInvitation   = "The invitation could not be verified."
	msgInviteUser         = "The invitation could not be sent."
	msgCancelInvitation   = "The invitation could not be cancelled."
	msgResendInvitation   = "The invitation could not be resent."
	msgAcceptInvitation   = "The invitation could not be accepted."
	msgUpdateUser         = "The user could not be updated."
	msgDeleteUser         = "The user could not be deleted."
	msgAdminOverview      = "The admin dashboard could not be loaded."
)
