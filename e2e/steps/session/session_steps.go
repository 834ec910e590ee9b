package session

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/pquerna/otp/totp"

	"authsession/e2e/steps/common"
	"authsession/internal/auth/flow"
	"authsession/internal/auth/models"
	"authsession/internal/auth/orchestrator"
	"authsession/internal/auth/transport"
	"authsession/internal/testkit/fakebackend"
	"authsession/internal/testkit/harness"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Context() context.Context
	Orchestrator() *orchestrator.Orchestrator
	Backend() *fakebackend.Backend
	Clock() *harness.Clock
	Record(success bool, code, message string)
	GetPendingLogin() *flow.PendingLogin
	SetPendingLogin(p *flow.PendingLogin)
}

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// RegisterSteps registers session, two-factor and profile step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &sessionSteps{tc: tc}

	// Login
	ctx.Step(`^I sign in as "([^"]*)" with password "([^"]*)"$`, steps.signIn)
	ctx.Step(`^a second factor should be required$`, steps.secondFactorRequired)
	ctx.Step(`^I submit the current authenticator code$`, steps.submitCurrentCode)
	ctx.Step(`^I submit a wrong authenticator code$`, steps.submitWrongCode)
	ctx.Step(`^I log out$`, steps.logout)
	ctx.Step(`^my access token expires$`, steps.tokenExpires)
	ctx.Step(`^I check my session$`, steps.checkSession)

	// Two-factor setup
	ctx.Step(`^I start two-factor setup twice at the same time$`, steps.startSetupTwice)
	ctx.Step(`^only one setup request should reach the backend$`, steps.oneSetupRequest)
	ctx.Step(`^I start two-factor setup$`, steps.startSetup)
	ctx.Step(`^I confirm two-factor setup with a wrong code$`, steps.confirmSetupWrong)
	ctx.Step(`^the two-factor flow should be at "([^"]*)"$`, steps.twoFactorFlowAt)

	// Avatar
	ctx.Step(`^I upload an avatar$`, steps.uploadAvatar)
	ctx.Step(`^I delete my avatar$`, steps.deleteAvatar)
	ctx.Step(`^my avatar should be set$`, steps.avatarSet)
	ctx.Step(`^my avatar should be cleared$`, steps.avatarCleared)
}

type sessionSteps struct {
	tc TestContext
}

func record[T any](tc TestContext, resp models.Response[T]) {
	tc.Record(resp.Success, string(resp.Code()), resp.MessageOr(""))
}

func (s *sessionSteps) code(offset int) (string, error) {
	at := s.tc.Clock().Now().Add(time.Duration(offset) * 30 * time.Second)
	return totp.GenerateCode(common.TOTPSecret, at)
}

func (s *sessionSteps) signIn(ctx context.Context, email, password string) error {
	resp := s.tc.Orchestrator().LoginStep1(s.tc.Context(), models.LoginRequest{Email: email, Password: password})
	record(s.tc, resp)
	if resp.Success {
		s.tc.SetPendingLogin(resp.Data.Pending)
	}
	return nil
}

func (s *sessionSteps) secondFactorRequired(ctx context.Context) error {
	state, pending := s.tc.Orchestrator().LoginState()
	if state != flow.LoginAwaitingSecondFactor || pending == nil {
		return fmt.Errorf("expected login to await a second factor, got %s", state)
	}
	return nil
}

func (s *sessionSteps) submitCurrentCode(ctx context.Context) error {
	code, err := s.code(0)
	if err != nil {
		return err
	}
	record(s.tc, s.tc.Orchestrator().LoginStep2(s.tc.Context(), s.tc.GetPendingLogin(), code))
	return nil
}

// submitWrongCode uses a code from far outside the accepted window.
func (s *sessionSteps) submitWrongCode(ctx context.Context) error {
	code, err := s.code(-20)
	if err != nil {
		return err
	}
	record(s.tc, s.tc.Orchestrator().LoginStep2(s.tc.Context(), s.tc.GetPendingLogin(), code))
	return nil
}

func (s *sessionSteps) logout(ctx context.Context) error {
	record(s.tc, s.tc.Orchestrator().Logout(s.tc.Context()))
	return nil
}

func (s *sessionSteps) tokenExpires(ctx context.Context) error {
	s.tc.Clock().Advance(time.Hour)
	return nil
}

func (s *sessionSteps) checkSession(ctx context.Context) error {
	record(s.tc, s.tc.Orchestrator().CheckSession(s.tc.Context()))
	return nil
}

func (s *sessionSteps) startSetupTwice(ctx context.Context) error {
	release := s.tc.Backend().Block("generate2FAQR")
	first := make(chan models.Response[models.TwoFactorSetup], 1)
	go func() { first <- s.tc.Orchestrator().StartTwoFactorSetup(s.tc.Context()) }()

	deadline := time.Now().Add(2 * time.Second)
	for s.tc.Backend().Calls("generate2FAQR") == 0 {
		if time.Now().After(deadline) {
			release()
			return fmt.Errorf("the first setup request never reached the backend")
		}
		time.Sleep(5 * time.Millisecond)
	}

	second := s.tc.Orchestrator().StartTwoFactorSetup(s.tc.Context())
	release()
	if resp := <-first; !resp.Success {
		return fmt.Errorf("the first setup call failed: %s", resp.MessageOr(""))
	}
	record(s.tc, second)
	return nil
}

func (s *sessionSteps) oneSetupRequest(ctx context.Context) error {
	if n := s.tc.Backend().Calls("generate2FAQR"); n != 1 {
		return fmt.Errorf("expected 1 setup request but the backend saw %d", n)
	}
	return nil
}

func (s *sessionSteps) startSetup(ctx context.Context) error {
	record(s.tc, s.tc.Orchestrator().StartTwoFactorSetup(s.tc.Context()))
	return nil
}

func (s *sessionSteps) confirmSetupWrong(ctx context.Context) error {
	record(s.tc, s.tc.Orchestrator().ConfirmTwoFactorSetup(s.tc.Context(), "000000"))
	return nil
}

func (s *sessionSteps) twoFactorFlowAt(ctx context.Context, step string) error {
	st, ok := s.tc.Orchestrator().TwoFactorState()
	if !ok {
		return fmt.Errorf("expected the two-factor flow at %s but none is running", step)
	}
	if string(st.Step) != step {
		return fmt.Errorf("expected the two-factor flow at %s but it is at %s", step, st.Step)
	}
	return nil
}

func (s *sessionSteps) uploadAvatar(ctx context.Context) error {
	record(s.tc, s.tc.Orchestrator().UploadAvatar(s.tc.Context(), transport.AvatarFile{Name: "me.png", Content: pngImage}, nil))
	return nil
}

func (s *sessionSteps) deleteAvatar(ctx context.Context) error {
	record(s.tc, s.tc.Orchestrator().DeleteAvatar(s.tc.Context()))
	return nil
}

func (s *sessionSteps) avatarSet(ctx context.Context) error {
	user, err := s.tc.Orchestrator().CurrentUser()
	if err != nil {
		return err
	}
	if user.Avatar == nil || user.Avatar.URL == "" {
		return fmt.Errorf("expected the session user to have an avatar")
	}
	return nil
}

func (s *sessionSteps) avatarCleared(ctx context.Context) error {
	user, err := s.tc.Orchestrator().CurrentUser()
	if err != nil {
		return err
	}
	if user.Avatar != nil {
		return fmt.Errorf("expected no avatar but found %s", user.Avatar.URL)
	}
	return nil
}
