package models

import (
	"time"

	apierrors "authsession/pkg/api-errors"
)

// Response is the uniform envelope returned by every backend-calling operation.
// Expected failures travel in Error; nothing in the session core panics for them.
type Response[T any] struct {
	Success bool
	Data    T
	Error   *apierrors.Error
	Message string
}

// OK builds a successful envelope.
func OK[T any](data T, message string) Response[T] {
	return Response[T]{Success: true, Data: data, Message: message}
}

// Fail builds a failed envelope from any error via the classifier.
func Fail[T any](err error) Response[T] {
	apiErr := apierrors.Classify(err)
	if apiErr == nil {
		apiErr = apierrors.New(apierrors.CodeUnknown, "operation failed")
	}
	return Response[T]{Success: false, Error: apiErr}
}

// Err returns the envelope's failure as an error, or nil on success.
func (r Response[T]) Err() error {
	if r.Success || r.Error == nil {
		return nil
	}
	return r.Error
}

// Code returns the failure code, or "" on success.
func (r Response[T]) Code() apierrors.Code {
	if r.Error == nil {
		return ""
	}
	return r.Error.Code
}

// MessageOr returns the most specific failure message, falling back to fallback.
func (r Response[T]) MessageOr(fallback string) string {
	if r.Success {
		if r.Message != "" {
			return r.Message
		}
		return fallback
	}
	return apierrors.BestMessage(r.Error, fallback)
}

// Retype carries a failure over to an envelope of another payload type.
func Retype[T, U any](r Response[T]) Response[U] {
	return Response[U]{Success: r.Success, Error: r.Error, Message: r.Message}
}

// Empty is the payload of operations that return nothing besides the outcome.
type Empty struct{}

// LoginResult is the outcome of the first login step.
// When Requires2FA is true, TempToken must be exchanged in the second step.
type LoginResult struct {
	Requires2FA bool   `json:"requires2FA"`
	TempToken   string `json:"tempToken,omitempty"`
	AuthTokens
}

// AuthTokens are the credentials issued on a completed sign-in or refresh.
type AuthTokens struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int    `json:"expiresIn,omitempty"`
}

// TwoFactorSetup is the enrolment payload rendered as a QR code.
type TwoFactorSetup struct {
	QRCode     string `json:"qrCode"`
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
}

// TwoFactorStatus reports whether TOTP is active.
type TwoFactorStatus struct {
	Enabled     bool       `json:"enabled"`
	ActivatedAt *time.Time `json:"activatedAt,omitempty"`
}

// SocialLoginURL is the provider authorisation URL to redirect to.
type SocialLoginURL struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// BusinessNumberValidation reports the registry status of a business number.
type BusinessNumberValidation struct {
	Valid        bool   `json:"valid"`
	BusinessName string `json:"businessName,omitempty"`
	Status       string `json:"status,omitempty"`
}

// VerificationRequestToken is a one-shot token used to open a verification flow.
type VerificationRequestToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EmailChangeRequest reports the pending address awaiting confirmation.
type EmailChangeRequest struct {
	PendingEmail string    `json:"pendingEmail"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// AvatarUpload is the REST upload endpoint's response.
type AvatarUpload struct {
	AvatarURL string `json:"avatarUrl"`
}

// UserList is one page of users for administration.
type UserList struct {
	Users    []User `json:"users"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// UsersStats aggregates account counts for the admin dashboard.
type UsersStats struct {
	Total            int `json:"total"`
	Active           int `json:"active"`
	Admins           int `json:"admins"`
	Business         int `json:"business"`
	Delivery         int `json:"delivery"`
	EmailVerified    int `json:"emailVerified"`
	TwoFactorEnabled int `json:"twoFactorEnabled"`
	PendingInvites   int `json:"pendingInvites"`
}

// InvitationList is one page of invitations.
type InvitationList struct {
	Invitations []Invitation `json:"invitations"`
	Total       int          `json:"total"`
}

// InvitationTokenInfo is what an invitee sees before accepting.
type InvitationTokenInfo struct {
	Valid      bool        `json:"valid"`
	Invitation *Invitation `json:"invitation,omitempty"`
}

// AdminOverview bundles the admin dashboard reads.
type AdminOverview struct {
	Stats       UsersStats
	Users       UserList
	Invitations InvitationList
}
