package fakebackend

import (
	"context"

	"authsession/pkg/platform/middleware/auth"
)

// input is the {"input": ...} variables shape of most mutations.
type input[T any] struct {
	Input T `json:"input"`
}

func (b *Backend) buildResolvers() map[string]resolver {
	return map[string]resolver{
		// session
		"getLoggedInUser":           b.getLoggedInUser,
		"registerUser":              b.registerUser,
		"verifyActivationCode":      b.verifyActivationCode,
		"resendActivationCode":      b.resendActivationCode,
		"loginStep1":                b.loginStep1,
		"loginStep2":                b.loginStep2,
		"disable2FADuringLogin":     b.disable2FADuringLogin,
		"requestEmergencyEmailCode": b.requestEmergencyEmailCode,
		"logout":                    b.logout,
		"logoutAll":                 b.logoutAll,
		"refreshToken":              b.refreshToken,
		"changePassword":            b.changePassword,
		"forgotPassword":            b.forgotPassword,
		"resetPassword":             b.resetPassword,

		// two-factor
		"get2FAStatus":  b.get2FAStatus,
		"generate2FAQR": b.generate2FAQR,
		"enable2FA":     b.enable2FA,
		"disable2FA":    b.disable2FA,

		// profile and social
		"updateUserName":              b.updateUserName,
		"requestEmailChange":          b.requestEmailChange,
		"verifyEmailChange":           b.verifyEmailChange,
		"updatePhoneNumber":           b.updatePhoneNumber,
		"updateBusiness":              b.updateBusiness,
		"deleteAvatar":                b.deleteAvatar,
		"deleteAccount":               b.deleteAccount,
		"getSocialLoginUrl":           b.getSocialLoginURL,
		"getConnectedSocialProviders": b.getConnectedSocialProviders,
		"verifySocialEmail":           b.verifySocialEmail,
		"resendSocialActivationCode":  b.resendSocialActivationCode,
		"unlinkSocialAccount":         b.unlinkSocialAccount,

		// identity
		"getIdentityVerificationConfig": b.getIdentityVerificationConfig,
		"getIdentityVerification":       b.getIdentityVerification,
		"requestIdentityVerification":   b.requestIdentityVerification,
		"verifyIdentityVerification":    b.verifyIdentityVerification,
		"generateVerificationRequest":   b.generateVerificationRequest,
		"validateBusinessNumber":        b.validateBusinessNumber,

		// admin
		"getAllUsers":           b.getAllUsers,
		"getUserById":           b.getUserByID,
		"getUsersStats":         b.getUsersStats,
		"getInvitations":        b.getInvitations,
		"verifyInvitationToken": b.verifyInvitationToken,
		"inviteUser":            b.inviteUser,
		"cancelInvitation":      b.cancelInvitation,
		"resendInvitation":      b.resendInvitation,
		"acceptInvitation":      b.acceptInvitation,
		"updateUserByAdmin":     b.updateUserByAdmin,
		"deleteUserByAdmin":     b.deleteUserByAdmin,
	}
}

// caller returns the signed-in account of the request. Callers hold b.mu.
func (b *Backend) caller(ctx context.Context) (*account, error) {
	claims, ok := auth.ClaimsFrom(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}
	a, ok := b.accounts[claims.UserID]
	if !ok {
		return nil, errUnauthenticated()
	}
	return a, nil
}

// administrator is caller restricted to admin roles. Callers hold b.mu.
func (b *Backend) administrator(ctx context.Context) (*account, error) {
	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	if !a.isAdmin() {
		return nil, errForbidden()
	}
	return a, nil
}
