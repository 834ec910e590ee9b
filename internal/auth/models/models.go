package models

import (
	"slices"
	"time"
)

// This file contains the session-side domain models. They are snapshots of
// server state and carry no transport concerns beyond JSON field names.

// Session is the shared authentication state read by every screen.
// IsAuthenticated is nil until the first session check resolves, which is
// distinct from a known logged-out session (false). User is non-nil iff
// IsAuthenticated is true.
type Session struct {
	IsAuthenticated *bool
	User            *User
	IsLoading       bool
	Error           string
	Initialized     bool
}

// Authenticated reports whether the session is known to be logged in.
func (s Session) Authenticated() bool {
	return s.IsAuthenticated != nil && *s.IsAuthenticated
}

// Determined reports whether the first session check has resolved.
func (s Session) Determined() bool {
	return s.IsAuthenticated != nil
}

// Clone returns a deep copy so readers can never mutate the store's state.
func (s Session) Clone() Session {
	out := s
	if s.IsAuthenticated != nil {
		v := *s.IsAuthenticated
		out.IsAuthenticated = &v
	}
	if s.User != nil {
		u := s.User.Clone()
		out.User = &u
	}
	return out
}

// User is the identity and profile snapshot of the signed-in account.
// It is replaced wholesale on every re-sync.
type User struct {
	ID                 string      `json:"id"`
	Email              string      `json:"email"`
	Name               string      `json:"name"`
	PhoneNumber        string      `json:"phoneNumber,omitempty"`
	Role               Role        `json:"role"`
	IsEmailVerified    bool        `json:"isEmailVerified"`
	IsPhoneVerified    bool        `json:"isPhoneVerified"`
	IsBusinessVerified bool        `json:"isBusinessVerified"`
	IsIdentityVerified bool        `json:"isIdentityVerified"`
	IsSocialUser       bool        `json:"isSocialUser"`
	Activation         *Activation `json:"activation,omitempty"`
	Avatar             *Avatar     `json:"avatar,omitempty"`
	Business           *Business   `json:"business,omitempty"`
	Membership         *Membership `json:"membership,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
}

// TwoFactorEnabled reports whether TOTP is active for the account.
func (u *User) TwoFactorEnabled() bool {
	return u != nil && u.Activation != nil && u.Activation.TwoFactorActivated
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	out := u
	if u.Activation != nil {
		a := *u.Activation
		out.Activation = &a
	}
	if u.Avatar != nil {
		a := *u.Avatar
		out.Avatar = &a
	}
	if u.Business != nil {
		b := *u.Business
		out.Business = &b
	}
	if u.Membership != nil {
		m := *u.Membership
		if u.Membership.ExpiresAt != nil {
			t := *u.Membership.ExpiresAt
			m.ExpiresAt = &t
		}
		out.Membership = &m
	}
	return out
}

// Activation tracks pending and completed account activations.
type Activation struct {
	TwoFactorActivated bool   `json:"twoFactorActivated"`
	PendingEmail       string `json:"pendingEmail,omitempty"`
	EmailChangeToken   string `json:"emailChangeToken,omitempty"`
	SocialLinkToken    string `json:"socialLinkToken,omitempty"`
}

// Avatar references the stored profile image.
type Avatar struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Business is the registered business profile attached to a business account.
type Business struct {
	Name               string `json:"name"`
	Number             string `json:"number"`
	RepresentativeName string `json:"representativeName,omitempty"`
	Address            string `json:"address,omitempty"`
	Verified           bool   `json:"verified"`
}

// Membership is the account's subscription tier.
type Membership struct {
	Tier      string     `json:"tier"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Invitation is an admin-issued invitation to create an account.
type Invitation struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	Role         Role             `json:"role"`
	UserType     UserType         `json:"userType"`
	Status       InvitationStatus `json:"status"`
	ExpiresAt    time.Time        `json:"expiresAt"`
	ResentCount  int              `json:"resentCount"`
	LastResentAt *time.Time       `json:"lastResentAt,omitempty"`
	InvitedBy    string           `json:"invitedBy,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// EffectiveStatus reports expired for a pending invitation past its expiry.
func (i Invitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationPending && !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt) {
		return InvitationExpired
	}
	return i.Status
}

// IdentityVerificationRequest is issued by the backend and consumed by exactly one verify call.
type IdentityVerificationRequest struct {
	IdentityVerificationID string                     `json:"identityVerificationId"`
	Status                 IdentityVerificationStatus `json:"status"`
	ExpiresAt              time.Time                  `json:"expiresAt"`
}

// Expired reports whether the request can no longer be verified.
func (r IdentityVerificationRequest) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// IdentityVerification is the verified identity record returned by the backend.
type IdentityVerification struct {
	IdentityVerificationID string                     `json:"identityVerificationId"`
	Status                 IdentityVerificationStatus `json:"status"`
	VerifiedName           string                     `json:"verifiedName,omitempty"`
	VerifiedPhoneNumber    string                     `json:"verifiedPhoneNumber,omitempty"`
	VerifiedAt             *time.Time                 `json:"verifiedAt,omitempty"`
}

// IdentityVerificationConfig carries the provider channel settings.
type IdentityVerificationConfig struct {
	StoreID    string `json:"storeId"`
	ChannelKey string `json:"channelKey"`
}

// ConnectedProvider is a social account linked to the user.
type ConnectedProvider struct {
	Provider    SocialProvider `json:"provider"`
	Email       string         `json:"email,omitempty"`
	ConnectedAt time.Time      `json:"connectedAt"`
}

// HasProvider reports whether p is among the connected providers.
func HasProvider(connected []ConnectedProvider, p SocialProvider) bool {
	return slices.ContainsFunc(connected, func(c ConnectedProvider) bool { return c.Provider == p })
}
