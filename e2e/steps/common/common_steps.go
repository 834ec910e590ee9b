package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"authsession/internal/auth/models"
	"authsession/internal/auth/orchestrator"
	"authsession/internal/testkit/fakebackend"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Start(mode fakebackend.ProviderMode) error
	Context() context.Context
	Orchestrator() *orchestrator.Orchestrator
	Backend() *fakebackend.Backend
	LastOutcome() (success bool, code, message string)
}

// TOTPSecret is the authenticator secret seeded for two-factor accounts.
const TOTPSecret = "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"

// RegisterSteps registers common step definitions used across features
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	// Background steps
	ctx.Step(`^the auth backend is running$`, steps.backendIsRunning)
	ctx.Step(`^the identity provider redirects back to the app$`, steps.providerRedirects)
	ctx.Step(`^the identity provider is closed by the user$`, steps.providerCancels)
	ctx.Step(`^an account "([^"]*)" with password "([^"]*)"$`, steps.accountExists)
	ctx.Step(`^an account "([^"]*)" with password "([^"]*)" and two-factor enabled$`, steps.accountWithTwoFactor)
	ctx.Step(`^an admin account "([^"]*)" with password "([^"]*)"$`, steps.adminExists)

	// Outcome assertions
	ctx.Step(`^the operation should succeed$`, steps.operationShouldSucceed)
	ctx.Step(`^the operation should fail with code "([^"]*)"$`, steps.operationShouldFailWith)
	ctx.Step(`^the error message should be "([^"]*)"$`, steps.errorMessageShouldBe)
	ctx.Step(`^the session should be authenticated$`, steps.sessionAuthenticated)
	ctx.Step(`^the session should not be authenticated$`, steps.sessionNotAuthenticated)
	ctx.Step(`^the session should not be loading$`, steps.sessionNotLoading)
	ctx.Step(`^log "([^"]*)"$`, steps.logMessage)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) backendIsRunning(ctx context.Context) error {
	return s.tc.Start(fakebackend.ProviderInline)
}

func (s *commonSteps) providerRedirects(ctx context.Context) error {
	return s.tc.Start(fakebackend.ProviderRedirect)
}

func (s *commonSteps) providerCancels(ctx context.Context) error {
	return s.tc.Start(fakebackend.ProviderCancel)
}

func (s *commonSteps) seed(spec fakebackend.AccountSpec) error {
	if _, err := s.tc.Backend().Seed(spec); err != nil {
		return fmt.Errorf("failed to seed %s: %w", spec.Email, err)
	}
	return nil
}

func (s *commonSteps) accountExists(ctx context.Context, email, password string) error {
	return s.seed(fakebackend.AccountSpec{Email: email, Password: password})
}

func (s *commonSteps) accountWithTwoFactor(ctx context.Context, email, password string) error {
	return s.seed(fakebackend.AccountSpec{Email: email, Password: password, TOTPSecret: TOTPSecret})
}

func (s *commonSteps) adminExists(ctx context.Context, email, password string) error {
	return s.seed(fakebackend.AccountSpec{Email: email, Password: password, Role: models.RoleSuperAdmin})
}

func (s *commonSteps) operationShouldSucceed(ctx context.Context) error {
	success, code, message := s.tc.LastOutcome()
	if !success {
		return fmt.Errorf("expected success but got %s: %s", code, message)
	}
	return nil
}

func (s *commonSteps) operationShouldFailWith(ctx context.Context, expected string) error {
	success, code, message := s.tc.LastOutcome()
	if success {
		return fmt.Errorf("expected failure %s but the operation succeeded", expected)
	}
	if code != expected {
		return fmt.Errorf("expected code %s but got %s: %s", expected, code, message)
	}
	return nil
}

func (s *commonSteps) errorMessageShouldBe(ctx context.Context, expected string) error {
	_, _, message := s.tc.LastOutcome()
	if message != expected {
		return fmt.Errorf("expected message %q but got %q", expected, message)
	}
	return nil
}

func (s *commonSteps) sessionAuthenticated(ctx context.Context) error {
	if !s.tc.Orchestrator().Session().Authenticated() {
		return fmt.Errorf("expected an authenticated session")
	}
	return nil
}

func (s *commonSteps) sessionNotAuthenticated(ctx context.Context) error {
	if s.tc.Orchestrator().Session().Authenticated() {
		return fmt.Errorf("expected the session to be signed out")
	}
	return nil
}

func (s *commonSteps) sessionNotLoading(ctx context.Context) error {
	if s.tc.Orchestrator().Session().IsLoading {
		return fmt.Errorf("expected the loading flag to be cleared")
	}
	return nil
}

func (s *commonSteps) logMessage(ctx context.Context, message string) error {
	fmt.Println(message)
	return nil
}
