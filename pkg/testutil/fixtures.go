package testutil

import (
	"time"

	"github.com/google/uuid"

	"authsession/internal/auth/models"
)

// TestIDs provides pre-generated IDs for deterministic test data.
var TestIDs = struct {
	UserID1       string
	UserID2       string
	InvitationID1 string
	InvitationID2 string
}{
	UserID1:       "11111111-1111-1111-1111-111111111111",
	UserID2:       "22222222-2222-2222-2222-222222222222",
	InvitationID1: "aaaa0000-0000-0000-0000-000000000001",
	InvitationID2: "aaaa0000-0000-0000-0000-000000000002",
}

// FixedTime is the reference instant fixtures are stamped with.
var FixedTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// UserBuilder provides a fluent interface for building test users.
type UserBuilder struct {
	user *models.User
}

// NewUserBuilder creates a new UserBuilder with sensible defaults: an
// activated, password-based account with the user role.
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		user: &models.User{
			ID:              uuid.NewString(),
			Email:           "test@example.com",
			Name:            "Test User",
			Role:            models.RoleUser,
			IsEmailVerified: true,
			CreatedAt:       FixedTime,
		},
	}
}

func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.user.ID = id
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = name
	return b
}

func (b *UserBuilder) WithPhone(phone string) *UserBuilder {
	b.user.PhoneNumber = phone
	return b
}

func (b *UserBuilder) WithRole(role models.Role) *UserBuilder {
	b.user.Role = role
	return b
}

func (b *UserBuilder) Social() *UserBuilder {
	b.user.IsSocialUser = true
	return b
}

func (b *UserBuilder) WithTwoFactor() *UserBuilder {
	if b.user.Activation == nil {
		b.user.Activation = &models.Activation{}
	}
	b.user.Activation.TwoFactorActivated = true
	return b
}

func (b *UserBuilder) WithAvatar(url string) *UserBuilder {
	b.user.Avatar = &models.Avatar{ID: uuid.NewString(), URL: url}
	return b
}

func (b *UserBuilder) Build() *models.User {
	u := b.user.Clone()
	return &u
}

// InvitationBuilder provides a fluent interface for building invitations.
type InvitationBuilder struct {
	inv *models.Invitation
}

// NewInvitationBuilder creates a pending individual-user invitation that
// expires a week after FixedTime.
func NewInvitationBuilder() *InvitationBuilder {
	return &InvitationBuilder{
		inv: &models.Invitation{
			ID:        TestIDs.InvitationID1,
			Email:     "invitee@example.com",
			Role:      models.RoleUser,
			UserType:  models.UserTypeIndividual,
			Status:    models.InvitationPending,
			ExpiresAt: FixedTime.Add(7 * 24 * time.Hour),
			CreatedAt: FixedTime,
		},
	}
}

func (b *InvitationBuilder) WithID(id string) *InvitationBuilder {
	b.inv.ID = id
	return b
}

func (b *InvitationBuilder) WithEmail(email string) *InvitationBuilder {
	b.inv.Email = email
	return b
}

func (b *InvitationBuilder) WithRole(role models.Role, userType models.UserType) *InvitationBuilder {
	b.inv.Role = role
	b.inv.UserType = userType
	return b
}

func (b *InvitationBuilder) WithStatus(status models.InvitationStatus) *InvitationBuilder {
	b.inv.Status = status
	return b
}

func (b *InvitationBuilder) Resent(times int) *InvitationBuilder {
	b.inv.ResentCount = times
	at := FixedTime.Add(time.Duration(times) * time.Hour)
	b.inv.LastResentAt = &at
	return b
}

func (b *InvitationBuilder) Build() models.Invitation {
	return *b.inv
}

// NewTestUser creates a default user with the given id and email.
func NewTestUser(id, email string) *models.User {
	return NewUserBuilder().WithID(id).WithEmail(email).Build()
}
