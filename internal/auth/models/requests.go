package models

import (
	s "authsession/pkg/string"
	"authsession/pkg/validation"
)

// Requests are prepared (normalized then validated) before any network call,
// so malformed input fails with VALIDATION_ERROR without a round-trip.

func normalizeEmail(e *string) { s.NormalizeEmail(e) }

// RegisterRequest creates a new password account.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	Name            string `json:"name" validate:"required,notblank,max=100"`
	PhoneNumber     string `json:"phoneNumber,omitempty" validate:"omitempty,phone"`
	Role            Role   `json:"role,omitempty" validate:"omitempty,oneof=user business delivery"`
	InvitationToken string `json:"invitationToken,omitempty"`
}

func (r *RegisterRequest) Normalize() {
	normalizeEmail(&r.Email)
	s.TrimStrings(&r.Name, &r.PhoneNumber)
}

func (r *RegisterRequest) Validate() error { return validation.Validate(r) }

// ActivationCodeRequest verifies the emailed activation code.
type ActivationCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,otp"`
}

func (r *ActivationCodeRequest) Normalize() {
	normalizeEmail(&r.Email)
	s.TrimStrings(&r.Code)
}

func (r *ActivationCodeRequest) Validate() error { return validation.Validate(r) }

// EmailRequest carries a single address (resend activation, forgot password, social resend).
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *EmailRequest) Normalize() { normalizeEmail(&r.Email) }

func (r *EmailRequest) Validate() error { return validation.Validate(r) }

// LoginRequest is the first login step.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() { normalizeEmail(&r.Email) }

func (r *LoginRequest) Validate() error { return validation.Validate(r) }

// LoginStep2Request exchanges the temporary token and a TOTP code for a session.
type LoginStep2Request struct {
	TempToken string `json:"tempToken" validate:"required"`
	Code      string `json:"code" validate:"required,otp"`
}

func (r *LoginStep2Request) Normalize() { s.TrimStrings(&r.Code) }

func (r *LoginStep2Request) Validate() error { return validation.Validate(r) }

// DisableTwoFactorDuringLoginRequest is the emergency escape hatch from the 2FA step.
type DisableTwoFactorDuringLoginRequest struct {
	TempToken     string `json:"tempToken" validate:"required"`
	EmergencyCode string `json:"emergencyCode" validate:"required,otp"`
}

func (r *DisableTwoFactorDuringLoginRequest) Normalize() { s.TrimStrings(&r.EmergencyCode) }

func (r *DisableTwoFactorDuringLoginRequest) Validate() error { return validation.Validate(r) }

// ChangePasswordRequest rotates the password of the signed-in account.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128,nefield=CurrentPassword"`
}

func (r *ChangePasswordRequest) Validate() error { return validation.Validate(r) }

// ResetPasswordRequest completes a forgot-password flow.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}

func (r *ResetPasswordRequest) Validate() error { return validation.Validate(r) }

// UpdateNameRequest changes the display name.
type UpdateNameRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

func (r *UpdateNameRequest) Normalize() { s.TrimStrings(&r.Name) }

func (r *UpdateNameRequest) Validate() error { return validation.Validate(r) }

// EmailChangeRequestInput starts an email change.
type EmailChangeRequestInput struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
}

func (r *EmailChangeRequestInput) Normalize() { normalizeEmail(&r.NewEmail) }

func (r *EmailChangeRequestInput) Validate() error { return validation.Validate(r) }

// VerifyEmailChangeRequest confirms the pending address.
type VerifyEmailChangeRequest struct {
	Token string `json:"token" validate:"required"`
	Code  string `json:"code" validate:"required,otp"`
}

func (r *VerifyEmailChangeRequest) Validate() error { return validation.Validate(r) }

// UpdatePhoneRequest sets the phone number.
type UpdatePhoneRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
}

func (r *UpdatePhoneRequest) Normalize() { s.TrimStrings(&r.PhoneNumber) }

func (r *UpdatePhoneRequest) Validate() error { return validation.Validate(r) }

// UpdateBusinessRequest replaces the business profile.
type UpdateBusinessRequest struct {
	Name               string `json:"name" validate:"required,notblank,max=200"`
	Number             string `json:"number" validate:"required,numeric,len=10"`
	RepresentativeName string `json:"representativeName,omitempty" validate:"max=100"`
	Address            string `json:"address,omitempty" validate:"max=300"`
}

func (r *UpdateBusinessRequest) Normalize() {
	r.Number = s.StripSeparators(r.Number)
	s.TrimStrings(&r.Name, &r.RepresentativeName, &r.Address)
}

func (r *UpdateBusinessRequest) Validate() error { return validation.Validate(r) }

// DeleteAccountRequest deletes the signed-in account. Password is required
// for password accounts and ignored for social-only accounts.
type DeleteAccountRequest struct {
	Password string `json:"password,omitempty"`
	Reason   string `json:"reason,omitempty" validate:"max=500"`
}

func (r *DeleteAccountRequest) Validate() error { return validation.Validate(r) }

// CodeRequest carries a single 6-digit code.
type CodeRequest struct {
	Code string `json:"code" validate:"required,otp"`
}

func (r *CodeRequest) Normalize() { s.TrimStrings(&r.Code) }

func (r *CodeRequest) Validate() error { return validation.Validate(r) }

// SocialEmailRequest verifies the email of a freshly linked social account.
type SocialEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,otp"`
}

func (r *SocialEmailRequest) Normalize() {
	normalizeEmail(&r.Email)
	s.TrimStrings(&r.Code)
}

func (r *SocialEmailRequest) Validate() error { return validation.Validate(r) }

// Customer is the person an identity verification is requested for.
type Customer struct {
	FullName    string `json:"fullName" validate:"required,notblank"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
}

func (r *Customer) Normalize() { s.TrimStrings(&r.FullName, &r.PhoneNumber) }

func (r *Customer) Validate() error { return validation.Validate(r) }

// InviteUserRequest invites someone to create an account.
type InviteUserRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Role     Role     `json:"role" validate:"required,oneof=user business delivery admin"`
	UserType UserType `json:"userType" validate:"required,oneof=individual business delivery staff"`
}

func (r *InviteUserRequest) Normalize() { normalizeEmail(&r.Email) }

func (r *InviteUserRequest) Validate() error { return validation.Validate(r) }

// UpdateUserByAdminRequest patches a user on behalf of an administrator.
// Nil fields are left unchanged.
type UpdateUserByAdminRequest struct {
	UserID   string  `json:"userId" validate:"required"`
	Name     *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Role     *Role   `json:"role,omitempty" validate:"omitempty,oneof=user business delivery admin super_admin"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (r *UpdateUserByAdminRequest) Validate() error { return validation.Validate(r) }

// AcceptInvitationRequest creates an account from an invitation token.
type AcceptInvitationRequest struct {
	Token    string `json:"token" validate:"required"`
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (r *AcceptInvitationRequest) Normalize() { s.TrimStrings(&r.Name) }

func (r *AcceptInvitationRequest) Validate() error { return validation.Validate(r) }

// ListUsersFilter selects a page of users.
type ListUsersFilter struct {
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Role     Role   `json:"role,omitempty"`
	Search   string `json:"search,omitempty"`
}

// Normalize applies paging defaults.
func (f *ListUsersFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
	s.TrimStrings(&f.Search)
}

// InvitationFilter selects invitations.
type InvitationFilter struct {
	Status   InvitationStatus `json:"status,omitempty"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

// Normalize applies paging defaults.
func (f *InvitationFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
}

// BusinessNumberRequest checks a business registration number.
type BusinessNumberRequest struct {
	Number string `json:"number" validate:"required,numeric,len=10"`
}

func (r *BusinessNumberRequest) Normalize() {
	r.Number = s.StripSeparators(r.Number)
}

func (r *BusinessNumberRequest) Validate() error { return validation.Validate(r) }
