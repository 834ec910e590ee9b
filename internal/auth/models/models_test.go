package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	apierrors "authsession/pkg/api-errors"
)

type ModelsSuite struct {
	suite.Suite
}

func TestModelsSuite(t *testing.T) {
	suite.Run(t, new(ModelsSuite))
}

func (s *ModelsSuite) TestSessionStates() {
	s.Run("undetermined is distinct from logged out", func() {
		var sess Session
		s.False(sess.Determined())
		s.False(sess.Authenticated())

		no := false
		sess.IsAuthenticated = &no
		s.True(sess.Determined())
		s.False(sess.Authenticated())
	})

	s.Run("clone does not share user or flags", func() {
		yes := true
		sess := Session{IsAuthenticated: &yes, User: &User{ID: "u1", Avatar: &Avatar{URL: "a.png"}, Activation: &Activation{}}}
		cp := sess.Clone()

		cp.User.Avatar.URL = "b.png"
		cp.User.Activation.TwoFactorActivated = true
		*cp.IsAuthenticated = false

		s.Equal("a.png", sess.User.Avatar.URL)
		s.False(sess.User.TwoFactorEnabled())
		s.True(sess.Authenticated())
	})
}

func (s *ModelsSuite) TestTwoFactorEnabled() {
	var nilUser *User
	s.False(nilUser.TwoFactorEnabled())
	s.False((&User{}).TwoFactorEnabled())
	s.True((&User{Activation: &Activation{TwoFactorActivated: true}}).TwoFactorEnabled())
}

func (s *ModelsSuite) TestInvitationStatus() {
	s.Run("only pending can move", func() {
		s.True(InvitationPending.CanTransitionTo(InvitationCancelled))
		s.True(InvitationPending.CanTransitionTo(InvitationPending))
		s.False(InvitationCancelled.CanTransitionTo(InvitationPending))
		s.False(InvitationAccepted.CanTransitionTo(InvitationCancelled))
	})

	s.Run("terminal states", func() {
		s.False(InvitationPending.IsTerminal())
		s.True(InvitationAccepted.IsTerminal())
		s.True(InvitationCancelled.IsTerminal())
		s.True(InvitationExpired.IsTerminal())
	})

	s.Run("pending past expiry reads as expired", func() {
		now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
		inv := Invitation{Status: InvitationPending, ExpiresAt: now.Add(-time.Minute)}
		s.Equal(InvitationExpired, inv.EffectiveStatus(now))

		inv.ExpiresAt = now.Add(time.Hour)
		s.Equal(InvitationPending, inv.EffectiveStatus(now))
	})
}

func (s *ModelsSuite) TestResponseEnvelope() {
	s.Run("ok", func() {
		r := OK(LoginResult{Requires2FA: true}, "welcome")
		s.True(r.Success)
		s.NoError(r.Err())
		s.Equal(apierrors.Code(""), r.Code())
		s.Equal("welcome", r.MessageOr("x"))
	})

	s.Run("fail classifies raw errors", func() {
		r := Fail[Empty](errors.New("boom"))
		s.False(r.Success)
		s.Equal(apierrors.CodeUnknown, r.Code())
		s.Equal("boom", r.MessageOr("fallback"))
	})

	s.Run("retype keeps the failure", func() {
		r := Fail[Empty](apierrors.AlreadyLoading())
		u := Retype[Empty, User](r)
		s.False(u.Success)
		s.Equal(apierrors.CodeAlreadyLoading, u.Code())
	})
}

func (s *ModelsSuite) TestRequestPreparation() {
	s.Run("login normalizes email", func() {
		req := &LoginRequest{Email: "  Someone@Example.COM ", Password: "x"}
		req.Normalize()
		s.Equal("someone@example.com", req.Email)
		s.NoError(req.Validate())
	})

	s.Run("step two requires six digits", func() {
		req := &LoginStep2Request{TempToken: "t", Code: "12a456"}
		s.True(apierrors.HasCode(req.Validate(), apierrors.CodeValidation))
	})

	s.Run("business number strips dashes", func() {
		req := &UpdateBusinessRequest{Name: "Acme", Number: "123-45-67890"}
		req.Normalize()
		s.Equal("1234567890", req.Number)
		s.NoError(req.Validate())
	})

	s.Run("new password must differ", func() {
		req := &ChangePasswordRequest{CurrentPassword: "samesame1", NewPassword: "samesame1"}
		s.Error(req.Validate())
	})

	s.Run("invite rejects unknown roles", func() {
		req := &InviteUserRequest{Email: "a@b.co", Role: "root", UserType: UserTypeStaff}
		s.EqualError(req.Validate(), "role must be one of [user business delivery admin]")
	})

	s.Run("list filter defaults", func() {
		f := &ListUsersFilter{PageSize: 1000}
		f.Normalize()
		s.Equal(1, f.Page)
		s.Equal(20, f.PageSize)
	})
}
