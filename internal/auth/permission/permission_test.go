package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"authsession/internal/auth/models"
)

func TestRoles(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		expected Snapshot
	}{
		{"user", models.RoleUser, Snapshot{}},
		{"admin", models.RoleAdmin, Snapshot{Admin: true}},
		{"super admin", models.RoleSuperAdmin, Snapshot{Admin: true, SuperAdmin: true}},
		{"business", models.RoleBusiness, Snapshot{Business: true}},
		{"delivery", models.RoleDelivery, Snapshot{Delivery: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Evaluate(&models.User{Role: tt.role}))
		})
	}
}

func TestVerificationFlags(t *testing.T) {
	u := &models.User{
		IsEmailVerified:    true,
		IsPhoneVerified:    true,
		IsBusinessVerified: true,
		Activation:         &models.Activation{TwoFactorActivated: true},
	}
	assert.True(t, IsEmailVerified(u))
	assert.True(t, IsPhoneVerified(u))
	assert.True(t, IsBusinessVerified(u))
	assert.True(t, Is2FAEnabled(u))

	assert.False(t, Is2FAEnabled(&models.User{}))
}

func TestNilUserSatisfiesNothing(t *testing.T) {
	assert.Equal(t, Snapshot{}, Evaluate(nil))
	assert.False(t, IsAdmin(nil))
	assert.False(t, Is2FAEnabled(nil))
}

func TestFromSession(t *testing.T) {
	yes, no := true, false
	admin := &models.User{Role: models.RoleAdmin}

	assert.True(t, FromSession(models.Session{IsAuthenticated: &yes, User: admin}).Admin)
	assert.False(t, FromSession(models.Session{IsAuthenticated: &no}).Admin)
	assert.False(t, FromSession(models.Session{}).Admin)
}
