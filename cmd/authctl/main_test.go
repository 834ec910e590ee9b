package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authsession/internal/auth/identity"
	"authsession/internal/auth/models"
	"authsession/internal/platform/config"
	apierrors "authsession/pkg/api-errors"
	"authsession/pkg/testutil"
)

func TestCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"login"},
		{"logout"},
		{"status"},
		{"2fa", "setup"},
		{"2fa", "disable"},
		{"profile", "email"},
		{"avatar", "upload"},
		{"identity", "resume"},
		{"admin", "invite"},
		{"admin", "overview"},
		{"invitation", "accept"},
		{"password", "reset"},
	} {
		cmd, rest, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest, path)
		assert.NotNil(t, cmd.RunE, path)
	}
}

func TestTokenPath(t *testing.T) {
	explicit, err := tokenPath(config.Client{TokenFile: "/tmp/tokens.json"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tokens.json", explicit)

	t.Setenv("XDG_CONFIG_HOME", "/home/ada/.config")
	t.Setenv("HOME", "/home/ada")
	fallback, err := tokenPath(config.Client{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("authsession", "tokens.json"), filepath.Join(filepath.Base(filepath.Dir(fallback)), filepath.Base(fallback)))
}

func TestOutcome(t *testing.T) {
	assert.NoError(t, outcome(models.OK(models.Empty{}, "done"), "fallback"))

	err := outcome(models.Fail[models.Empty](apierrors.New(apierrors.CodeValidation, "email is required")), "fallback")
	require.Error(t, err)
	assert.Equal(t, "email is required (VALIDATION_ERROR)", err.Error())
}

func TestConsoleProviderHandsOff(t *testing.T) {
	res, err := consoleProvider{}.RequestIdentityVerification(context.Background(), identity.Request{
		IdentityVerificationID: "idv-1",
		StoreID:                "store",
		ChannelKey:             "channel",
	})

	require.NoError(t, err)
	assert.True(t, res.Redirected)
	assert.False(t, res.Failed())
	assert.Equal(t, "idv-1", res.IdentityVerificationID)
}

func TestTables(t *testing.T) {
	users := []models.User{
		*testutil.NewTestUser(testutil.TestIDs.UserID1, "ada@example.com"),
		*testutil.NewUserBuilder().WithID(testutil.TestIDs.UserID2).WithEmail("root@example.com").WithRole(models.RoleSuperAdmin).Build(),
	}
	rendered := usersTable(users)
	assert.Contains(t, rendered, "ada@example.com")
	assert.Contains(t, rendered, "super_admin")
	assert.Equal(t, 1, strings.Count(rendered, "EMAIL"))

	invitations := []models.Invitation{
		testutil.NewInvitationBuilder().Build(),
		testutil.NewInvitationBuilder().
			WithID(testutil.TestIDs.InvitationID2).
			WithEmail("courier@example.com").
			WithRole(models.RoleDelivery, models.UserTypeDelivery).
			Resent(2).
			Build(),
	}
	rendered = invitationsTable(invitations)
	assert.Contains(t, rendered, "invitee@example.com")
	assert.Contains(t, rendered, "courier@example.com")
	assert.Contains(t, rendered, "pending")
}

func TestInviteUserTypesCoverInvitableRoles(t *testing.T) {
	for _, role := range []models.Role{models.RoleUser, models.RoleBusiness, models.RoleDelivery, models.RoleAdmin} {
		req := models.InviteUserRequest{Email: "x@example.com", Role: role, UserType: inviteUserTypes[role]}
		assert.NoError(t, req.Validate(), role)
	}
}
