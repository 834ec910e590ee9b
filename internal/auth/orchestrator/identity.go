package orchestrator

import (
	"context"

	"authsession/internal/auth/identity"
	"authsession/internal/auth/models"
	apierrors "authsession/pkg/api-errors"
	"authsession/pkg/platform/httputil"
)

// IdentityOutcome reports how far an identity verification got. Redirected
// means the provider took over the page; the flow continues in
// ResumeIdentityVerification. Verification is set once the id is verified.
type IdentityOutcome struct {
	IdentityVerificationID string
	Redirected             bool
	Verification           *models.IdentityVerification
}

// StartIdentityVerification requests a verification id and hands it to the
// provider. An inline provider result is verified before returning.
func (o *Orchestrator) StartIdentityVerification(ctx context.Context, customer models.Customer) models.Response[IdentityOutcome] {
	return guarded(ctx, o, call{name: "requestIdentityVerification", fallback: msgIdentityRequest}, func(ctx context.Context) models.Response[IdentityOutcome] {
		if _, err := o.CurrentUser(); err != nil {
			return noSession[IdentityOutcome]()
		}
		if err := httputil.PrepareRequest(&customer); err != nil {
			return models.Fail[IdentityOutcome](err)
		}
		if o.provider == nil {
			return models.Fail[IdentityOutcome](apierrors.InvalidFlowState("no identity verification provider is configured"))
		}
		channel := o.channelConfig(ctx)
		if !channel.Success {
			return models.Retype[models.IdentityVerificationConfig, IdentityOutcome](channel)
		}

		issued := o.svc.RequestIdentityVerification(ctx)
		if !issued.Success {
			return models.Retype[models.IdentityVerificationRequest, IdentityOutcome](issued)
		}
		id := issued.Data.IdentityVerificationID
		// A new request supersedes any redirect that never came back.
		o.identity.Reset()
		if err := o.identity.Requested(id); err != nil {
			return models.Fail[IdentityOutcome](err)
		}

		result, err := o.provider.RequestIdentityVerification(ctx, identity.Request{
			StoreID:                channel.Data.StoreID,
			ChannelKey:             channel.Data.ChannelKey,
			IdentityVerificationID: id,
			Customer:               customer,
			RedirectURL:            o.identityCfg.RedirectURL,
		})
		if err != nil {
			_ = o.identity.Failed()
			return models.Fail[IdentityOutcome](err)
		}
		if result.Redirected {
			if err := o.identity.Redirected(); err != nil {
				return models.Fail[IdentityOutcome](err)
			}
			return models.OK(IdentityOutcome{IdentityVerificationID: id, Redirected: true}, "continue with the identity provider")
		}
		if result.Failed() {
			_ = o.identity.Failed()
			msg := result.Message
			if msg == "" {
				msg = msgIdentityVerify
			}
			return models.Fail[IdentityOutcome](
				apierrors.New(apierrors.CodeOperationFailed, msg).WithDetail("provider_code", result.Code),
			)
		}
		return o.verifyIdentity(ctx, id)
	})
}

// ResumeIdentityVerification handles the return from a provider redirect.
// The id parameter is stripped from the location before anything else, so a
// repeated call sees no id; the claim store stops any duplicate that raced
// past the strip.
//
// If another operation holds the guard the result is ALREADY_LOADING and no
// verify is sent. The stripped id is then only in the error details under
// "identity_verification_id"; retry with VerifyIdentity once the other
// operation has finished.
func (o *Orchestrator) ResumeIdentityVerification(ctx context.Context, loc identity.Location) models.Response[IdentityOutcome] {
	id, ok := identity.TakeParam(loc, o.identityCfg.QueryParam)
	if !ok {
		return models.OK(IdentityOutcome{}, "no identity verification to resume")
	}
	return o.VerifyIdentity(ctx, id)
}

// VerifyIdentity verifies id at most once per claim window.
func (o *Orchestrator) VerifyIdentity(ctx context.Context, id string) models.Response[IdentityOutcome] {
	resp := guarded(ctx, o, call{name: "verifyIdentityVerification", fallback: msgIdentityVerify}, func(ctx context.Context) models.Response[IdentityOutcome] {
		if id == "" {
			return models.Fail[IdentityOutcome](
				apierrors.New(apierrors.CodeValidation, "identity verification id is required").WithDetail("field", "identityVerificationId"),
			)
		}
		return o.verifyIdentity(ctx, id)
	})
	if resp.Code() == apierrors.CodeAlreadyLoading {
		resp.Error = resp.Error.WithDetail("identity_verification_id", id)
	}
	return resp
}

// verifyIdentity runs inside the guard.
func (o *Orchestrator) verifyIdentity(ctx context.Context, id string) models.Response[IdentityOutcome] {
	claimed, err := o.claims.Claim(ctx, id)
	if err != nil {
		return models.Fail[IdentityOutcome](err)
	}
	if !claimed {
		o.logger.InfoContext(ctx, "identity verification already claimed", "identity_verification_id", id)
		return models.Fail[IdentityOutcome](apierrors.New(apierrors.CodeAlreadyLoading, "this identity verification is already being processed"))
	}
	if err := o.identity.Verifying(id); err != nil {
		o.release(ctx, id)
		return models.Fail[IdentityOutcome](err)
	}

	resp := o.svc.VerifyIdentityVerification(ctx, id)
	if !resp.Success {
		_ = o.identity.Failed()
		if transient(resp.Error) {
			o.release(ctx, id)
		}
		return models.Retype[models.IdentityVerification, IdentityOutcome](resp)
	}
	if err := o.identity.Verified(); err != nil {
		return models.Fail[IdentityOutcome](err)
	}
	o.resync(ctx)
	verification := resp.Data
	return models.OK(IdentityOutcome{IdentityVerificationID: id, Verification: &verification}, resp.Message)
}

func (o *Orchestrator) release(ctx context.Context, id string) {
	if err := o.claims.Release(ctx, id); err != nil {
		o.logger.WarnContext(ctx, "failed to release identity claim", "identity_verification_id", id, "error", err)
	}
}

// transient failures may succeed on retry, so their claim is released.
func transient(err *apierrors.Error) bool {
	if err == nil {
		return false
	}
	switch err.Code {
	case apierrors.CodeNetwork, apierrors.CodeTimeout, apierrors.CodeCancelled:
		return true
	}
	return false
}

// channelConfig prefers locally configured provider settings and falls back
// to the backend's for any that are unset.
func (o *Orchestrator) channelConfig(ctx context.Context) models.Response[models.IdentityVerificationConfig] {
	local := models.IdentityVerificationConfig{StoreID: o.identityCfg.StoreID, ChannelKey: o.identityCfg.ChannelKey}
	if local.StoreID != "" && local.ChannelKey != "" {
		return models.OK(local, "")
	}
	remote := o.svc.GetIdentityVerificationConfig(ctx)
	if !remote.Success {
		return remote
	}
	if local.StoreID == "" {
		local.StoreID = remote.Data.StoreID
	}
	if local.ChannelKey == "" {
		local.ChannelKey = remote.Data.ChannelKey
	}
	return models.OK(local, remote.Message)
}

// CancelIdentityVerification returns the identity flow to idle.
func (o *Orchestrator) CancelIdentityVerification() {
	o.identity.Reset()
}

func (o *Orchestrator) GetIdentityVerificationConfig(ctx context.Context) models.Response[models.IdentityVerificationConfig] {
	return o.svc.GetIdentityVerificationConfig(ctx)
}

func (o *Orchestrator) GetIdentityVerification(ctx context.Context, identityVerificationID string) models.Response[models.IdentityVerification] {
	return o.svc.GetIdentityVerification(ctx, identityVerificationID)
}

func (o *Orchestrator) GenerateVerificationRequest(ctx context.Context) models.Response[models.VerificationRequestToken] {
	return o.svc.GenerateVerificationRequest(ctx)
}

func (o *Orchestrator) ValidateBusinessNumber(ctx context.Context, req models.BusinessNumberRequest) models.Response[models.BusinessNumberValidation] {
	return o.svc.ValidateBusinessNumber(ctx, req)
}
