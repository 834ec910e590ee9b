package identity

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"authsession/internal/auth/flow"
	authidentity "authsession/internal/auth/identity"
	"authsession/internal/auth/models"
	"authsession/internal/auth/orchestrator"
	"authsession/internal/testkit/fakebackend"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Context() context.Context
	Orchestrator() *orchestrator.Orchestrator
	Backend() *fakebackend.Backend
	Record(success bool, code, message string)
}

// RegisterSteps registers identity verification step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &identitySteps{tc: tc}

	ctx.Step(`^I start identity verification as "([^"]*)" with phone "([^"]*)"$`, steps.startVerification)
	ctx.Step(`^the verification should hand over to the provider$`, steps.handedOver)
	ctx.Step(`^I return from the provider (\d+) times$`, steps.returnFromProvider)
	ctx.Step(`^exactly (\d+) verification requests? should reach the backend$`, steps.verificationRequests)
	ctx.Step(`^my identity should be verified$`, steps.identityVerified)
	ctx.Step(`^the identity flow should be "([^"]*)"$`, steps.identityFlowIs)
}

type identitySteps struct {
	tc       TestContext
	location *authidentity.MemoryLocation
}

func (s *identitySteps) startVerification(ctx context.Context, name, phone string) error {
	resp := s.tc.Orchestrator().StartIdentityVerification(s.tc.Context(), models.Customer{FullName: name, PhoneNumber: phone})
	s.tc.Record(resp.Success, string(resp.Code()), resp.MessageOr(""))
	return nil
}

func (s *identitySteps) handedOver(ctx context.Context) error {
	state, _ := s.tc.Orchestrator().IdentityState()
	if state != flow.IdentityAwaitingRedirect {
		return fmt.Errorf("expected the flow to await the provider redirect, got %s", state)
	}
	loc, err := authidentity.NewMemoryLocation(s.tc.Backend().LastRedirect())
	if err != nil {
		return fmt.Errorf("the provider redirect is not a valid URL: %w", err)
	}
	s.location = loc
	return nil
}

// returnFromProvider replays the callback page the way a re-rendering
// component would.
func (s *identitySteps) returnFromProvider(ctx context.Context, times int) error {
	if s.location == nil {
		return fmt.Errorf("no provider redirect was captured")
	}
	for range times {
		resp := s.tc.Orchestrator().ResumeIdentityVerification(s.tc.Context(), s.location)
		if resp.Data.Verification != nil || !resp.Success {
			s.tc.Record(resp.Success, string(resp.Code()), resp.MessageOr(""))
		}
	}
	return nil
}

func (s *identitySteps) verificationRequests(ctx context.Context, n int) error {
	if got := s.tc.Backend().Calls("verifyIdentityVerification"); got != n {
		return fmt.Errorf("expected %d verification requests but the backend saw %d", n, got)
	}
	return nil
}

func (s *identitySteps) identityVerified(ctx context.Context) error {
	user, err := s.tc.Orchestrator().CurrentUser()
	if err != nil {
		return err
	}
	if !user.IsIdentityVerified {
		return fmt.Errorf("expected the session user to be identity verified")
	}
	return nil
}

func (s *identitySteps) identityFlowIs(ctx context.Context, expected string) error {
	state, _ := s.tc.Orchestrator().IdentityState()
	if state.String() != expected {
		return fmt.Errorf("expected the identity flow to be %s but it is %s", expected, state)
	}
	return nil
}
