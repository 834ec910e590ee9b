package admin

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"authsession/internal/auth/models"
	"authsession/internal/auth/orchestrator"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Context() context.Context
	Orchestrator() *orchestrator.Orchestrator
	Record(success bool, code, message string)
	GetValue(key string) string
	SetValue(key, value string)
}

// RegisterSteps registers administration step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &adminSteps{tc: tc}

	ctx.Step(`^I invite "([^"]*)" as a (user|business|delivery)$`, steps.invite)
	ctx.Step(`^there should be (\d+) pending invitations?$`, steps.pendingInvitations)
	ctx.Step(`^I cancel the invitation for "([^"]*)"$`, steps.cancelInvitation)
	ctx.Step(`^I resend the invitation for "([^"]*)"$`, steps.resendInvitation)
	ctx.Step(`^I try to delete my own account as an admin$`, steps.deleteSelf)
	ctx.Step(`^the dashboard should show (\d+) users? and (\d+) pending invitations?$`, steps.dashboardShows)
}

type adminSteps struct {
	tc TestContext
}

var userTypes = map[models.Role]models.UserType{
	models.RoleUser:     models.UserTypeIndividual,
	models.RoleBusiness: models.UserTypeBusiness,
	models.RoleDelivery: models.UserTypeDelivery,
}

func invitationKey(email string) string { return "invitation:" + email }

func (s *adminSteps) invite(ctx context.Context, email, role string) error {
	r := models.Role(role)
	resp := s.tc.Orchestrator().InviteUser(s.tc.Context(), models.InviteUserRequest{Email: email, Role: r, UserType: userTypes[r]})
	s.tc.Record(resp.Success, string(resp.Code()), resp.MessageOr(""))
	if resp.Success {
		s.tc.SetValue(invitationKey(email), resp.Data.ID)
	}
	return nil
}

func (s *adminSteps) pendingInvitations(ctx context.Context, n int) error {
	resp := s.tc.Orchestrator().GetInvitations(s.tc.Context(), models.InvitationFilter{Status: models.InvitationPending, Page: 1})
	if !resp.Success {
		return fmt.Errorf("failed to list invitations: %s", resp.MessageOr(""))
	}
	if resp.Data.Total != n {
		return fmt.Errorf("expected %d pending invitations but found %d", n, resp.Data.Total)
	}
	return nil
}

func (s *adminSteps) invitationID(email string) (string, error) {
	id := s.tc.GetValue(invitationKey(email))
	if id == "" {
		return "", fmt.Errorf("no invitation was sent to %s in this scenario", email)
	}
	return id, nil
}

func (s *adminSteps) cancelInvitation(ctx context.Context, email string) error {
	id, err := s.invitationID(email)
	if err != nil {
		return err
	}
	resp := s.tc.Orchestrator().CancelInvitation(s.tc.Context(), id)
	s.tc.Record(resp.Success, string(resp.Code()), resp.MessageOr(""))
	return nil
}

func (s *adminSteps) resendInvitation(ctx context.Context, email string) error {
	id, err := s.invitationID(email)
	if err != nil {
		return err
	}
	resp := s.tc.Orchestrator().ResendInvitation(s.tc.Context(), id)
	s.tc.Record(resp.Success, string(resp.Code()), resp.MessageOr(""))
	return nil
}

func (s *adminSteps) deleteSelf(ctx context.Context) error {
	user, err := s.tc.Orchestrator().CurrentUser()
	if err != nil {
		return err
	}
	resp := s.tc.Orchestrator().DeleteUserByAdmin(s.tc.Context(), user.ID)
	s.tc.Record(resp.Success, string(resp.Code()), resp.MessageOr(""))
	return nil
}

func (s *adminSteps) dashboardShows(ctx context.Context, users, invitations int) error {
	resp := s.tc.Orchestrator().LoadAdminOverview(s.tc.Context())
	if !resp.Success {
		return fmt.Errorf("failed to load the dashboard: %s", resp.MessageOr(""))
	}
	if resp.Data.Stats.Total != users {
		return fmt.Errorf("expected %d users but the dashboard shows %d", users, resp.Data.Stats.Total)
	}
	if resp.Data.Invitations.Total != invitations {
		return fmt.Errorf("expected %d pending invitations but the dashboard shows %d", invitations, resp.Data.Invitations.Total)
	}
	return nil
}
