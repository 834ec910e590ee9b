package orchestrator

import (
	"context"
	"strings"

	"authsession/internal/auth/flow"
	"authsession/internal/auth/models"
	apierrors "authsession/pkg/api-errors"
)

// StartTwoFactorSetup requests a QR payload and moves the flow to verify.
// The payload is mirrored so a restarted flow can show it again.
func (o *Orchestrator) StartTwoFactorSetup(ctx context.Context) models.Response[models.TwoFactorSetup] {
	return guarded(ctx, o, call{name: "generate2FAQR", fallback: msgSetup2FA}, func(ctx context.Context) models.Response[models.TwoFactorSetup] {
		if _, err := o.CurrentUser(); err != nil {
			return noSession[models.TwoFactorSetup]()
		}
		if err := o.twoFactor.Transition(flow.SetupState()); err != nil {
			return models.Fail[models.TwoFactorSetup](err)
		}
		resp := o.svc.Generate2FAQR(ctx)
		if !resp.Success {
			return resp
		}
		if err := o.twoFactor.Transition(flow.VerifyState(resp.Data.QRCode)); err != nil {
			return models.Fail[models.TwoFactorSetup](err)
		}
		return resp
	})
}

// ConfirmTwoFactorSetup submits the first TOTP code. A rejected code keeps
// the flow at verify and leaves the user untouched.
func (o *Orchestrator) ConfirmTwoFactorSetup(ctx context.Context, code string) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "enable2FA", fallback: msgEnable2FA, resync: resyncOnSuccess}, func(ctx context.Context) models.Response[models.Empty] {
		if _, err := o.twoFactor.Expect(flow.StepVerify); err != nil {
			return models.Fail[models.Empty](err)
		}
		resp := o.svc.Enable2FA(ctx, models.CodeRequest{Code: code})
		if !resp.Success {
			return resp
		}
		if err := o.twoFactor.Transition(flow.CompleteState()); err != nil {
			return models.Fail[models.Empty](err)
		}
		return resp
	})
}

// StartTwoFactorDisable opens the removal step. Whether a password is
// needed comes from the signed-in user, not from the caller.
func (o *Orchestrator) StartTwoFactorDisable() (flow.TwoFactorState, error) {
	user, err := o.CurrentUser()
	if err != nil {
		return flow.TwoFactorState{}, err
	}
	st := flow.DisableConfirmState(!user.IsSocialUser)
	if err := o.twoFactor.Transition(st); err != nil {
		return flow.TwoFactorState{}, err
	}
	return st, nil
}

// ConfirmTwoFactorDisable turns 2FA off. Password accounts must supply the
// current password; a blank one fails before any request is sent.
func (o *Orchestrator) ConfirmTwoFactorDisable(ctx context.Context, password string) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "disable2FA", fallback: msgDisable2FA, resync: resyncOnSuccess}, func(ctx context.Context) models.Response[models.Empty] {
		user, err := o.CurrentUser()
		if err != nil {
			return noSession[models.Empty]()
		}
		if _, err := o.twoFactor.Expect(flow.StepDisableConfirm); err != nil {
			return models.Fail[models.Empty](err)
		}
		if !user.IsSocialUser && strings.TrimSpace(password) == "" {
			return models.Fail[models.Empty](
				apierrors.New(apierrors.CodeValidation, "password is required").WithDetail("field", "password"),
			)
		}
		resp := o.svc.Disable2FA(ctx, password)
		if !resp.Success {
			return resp
		}
		if err := o.twoFactor.Transition(flow.CompleteState()); err != nil {
			return models.Fail[models.Empty](err)
		}
		return resp
	})
}

// CancelTwoFactor abandons the flow and forgets the mirrored state.
func (o *Orchestrator) CancelTwoFactor() {
	o.twoFactor.Reset()
}

func (o *Orchestrator) Get2FAStatus(ctx context.Context) models.Response[models.TwoFactorStatus] {
	return o.svc.Get2FAStatus(ctx)
}
