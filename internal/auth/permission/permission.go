// Package permission derives role and verification facts from a user
// snapshot. The functions are pure and safe to call on every render; a nil
// user is a signed-out session and satisfies nothing.
package permission

import "authsession/internal/auth/models"

// IsAdmin is true for admins and super admins.
func IsAdmin(u *models.User) bool {
	return u != nil && (u.Role == models.RoleAdmin || u.Role == models.RoleSuperAdmin)
}

func IsSuperAdmin(u *models.User) bool {
	return u != nil && u.Role == models.RoleSuperAdmin
}

func IsBusiness(u *models.User) bool {
	return u != nil && u.Role == models.RoleBusiness
}

func IsDelivery(u *models.User) bool {
	return u != nil && u.Role == models.RoleDelivery
}

func IsEmailVerified(u *models.User) bool {
	return u != nil && u.IsEmailVerified
}

func IsPhoneVerified(u *models.User) bool {
	return u != nil && u.IsPhoneVerified
}

func IsBusinessVerified(u *models.User) bool {
	return u != nil && u.IsBusinessVerified
}

func Is2FAEnabled(u *models.User) bool {
	return u.TwoFactorEnabled()
}

// Snapshot bundles every derivation for one user.
type Snapshot struct {
	Admin            bool
	SuperAdmin       bool
	Business         bool
	Delivery         bool
	EmailVerified    bool
	PhoneVerified    bool
	BusinessVerified bool
	TwoFactorEnabled bool
}

// Evaluate computes every derivation at once.
func Evaluate(u *models.User) Snapshot {
	return Snapshot{
		Admin:            IsAdmin(u),
		SuperAdmin:       IsSuperAdmin(u),
		Business:         IsBusiness(u),
		Delivery:         IsDelivery(u),
		EmailVerified:    IsEmailVerified(u),
		PhoneVerified:    IsPhoneVerified(u),
		BusinessVerified: IsBusinessVerified(u),
		TwoFactorEnabled: Is2FAEnabled(u),
	}
}

// FromSession evaluates the session's user.
func FromSession(s models.Session) Snapshot {
	if !s.Authenticated() {
		return Snapshot{}
	}
	return Evaluate(s.User)
}
