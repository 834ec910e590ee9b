package models

// Role is the account role the backend assigns to a user.
type Role string

const (
	RoleUser       Role = "user"
	RoleBusiness   Role = "business"
	RoleDelivery   Role = "delivery"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleBusiness, RoleDelivery, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// UserType distinguishes invited account kinds.
type UserType string

const (
	UserTypeIndividual UserType = "individual"
	UserTypeBusiness   UserType = "business"
	UserTypeDelivery   UserType = "delivery"
	UserTypeStaff      UserType = "staff"
)

// InvitationStatus is the lifecycle state of an admin invitation.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationCancelled InvitationStatus = "cancelled"
	InvitationExpired   InvitationStatus = "expired"
)

// IsTerminal reports whether no further transition is possible.
func (s InvitationStatus) IsTerminal() bool {
	return s == InvitationAccepted || s == InvitationCancelled || s == InvitationExpired
}

// CanTransitionTo checks if a transition from the current status to the target is valid.
// Valid transitions:
// - pending -> accepted (invitee accepts)
// - pending -> cancelled (admin cancels)
// - pending -> expired (TTL elapses)
// - pending -> pending (resend refreshes expiry)
func (s InvitationStatus) CanTransitionTo(target InvitationStatus) bool {
	if s != InvitationPending {
		return false
	}
	switch target {
	case InvitationPending, InvitationAccepted, InvitationCancelled, InvitationExpired:
		return true
	}
	return false
}

// IdentityVerificationStatus is the provider-side state of a verification id.
type IdentityVerificationStatus string

const (
	IdentityVerificationReady    IdentityVerificationStatus = "READY"
	IdentityVerificationVerified IdentityVerificationStatus = "VERIFIED"
	IdentityVerificationFailed   IdentityVerificationStatus = "FAILED"
	IdentityVerificationExpired  IdentityVerificationStatus = "EXPIRED"
)

// SocialProvider names a supported social login provider.
type SocialProvider string

const (
	ProviderGoogle SocialProvider = "google"
	ProviderKakao  SocialProvider = "kakao"
	ProviderNaver  SocialProvider = "naver"
	ProviderApple  SocialProvider = "apple"
)

func (p SocialProvider) IsValid() bool {
	switch p {
	case ProviderGoogle, ProviderKakao, ProviderNaver, ProviderApple:
		return true
	}
	return false
}
