package orchestrator

import (
	"context"
	"fmt"
	"time"

	"authsession/internal/auth/flow"
	"authsession/internal/auth/models"
	"authsession/internal/platform/metrics"
	apierrors "authsession/pkg/api-errors"
)

// resyncPolicy says when a guarded operation re-syncs the session.
type resyncPolicy int

const (
	resyncNever resyncPolicy = iota
	resyncOnSuccess
	// resyncAlways also re-syncs after a failure that reached the backend.
	resyncAlways
)

type call struct {
	name     string
	fallback string
	resync   resyncPolicy
}

// guarded runs fn under the flight guard. A rejected call returns
// ALREADY_LOADING and leaves the session untouched. Otherwise the session
// is marked loading, failures are recorded with their best message, and the
// loading flag is cleared on every exit path including a panic.
func guarded[T any](ctx context.Context, o *Orchestrator, c call, fn func(context.Context) models.Response[T]) (resp models.Response[T]) {
	release, ok := o.guard.TryEnter(o.scope)
	if !ok {
		o.metrics.IncrementLockRejections(c.name)
		o.logger.DebugContext(ctx, "operation rejected, another is in flight", "operation", c.name)
		return models.Response[T]{Error: apierrors.AlreadyLoading()}
	}
	defer release()

	start := time.Now()
	o.writer.Begin()
	defer func() {
		if r := recover(); r != nil {
			o.logger.ErrorContext(ctx, "operation panicked", "operation", c.name, "panic", fmt.Sprint(r))
			resp = models.Fail[T](apierrors.FromPanic(r))
			o.writer.Fail(resp.MessageOr(c.fallback))
		}
		outcome := metrics.OutcomeSuccess
		if !resp.Success {
			outcome = metrics.OutcomeFailure
		}
		o.metrics.ObserveOperation(c.name, outcome, time.Since(start))
		o.writer.Finish()
	}()

	resp = fn(ctx)
	if !resp.Success {
		if resp.Error == nil {
			resp.Error = apierrors.New(apierrors.CodeUnknown, c.fallback)
		} else if resp.Error.Message == "" {
			resp.Error.Message = c.fallback
		}
		o.writer.Fail(resp.MessageOr(c.fallback))
		o.logger.WarnContext(ctx, "operation failed",
			"operation", c.name,
			"error_code", string(resp.Error.Code),
		)
		if c.resync == resyncAlways && reachedBackend(resp.Error) {
			o.resync(ctx)
		}
		return resp
	}
	if c.resync != resyncNever {
		o.resync(ctx)
	}
	return resp
}

// reachedBackend is false for failures decided before any request was sent.
func reachedBackend(err *apierrors.Error) bool {
	switch err.Code {
	case apierrors.CodeValidation, apierrors.CodeInvalidFlowState, apierrors.CodeAlreadyLoading:
		return false
	}
	return true
}

// resync re-reads the signed-in user and applies it unless a newer re-sync
// has already been applied.
func (o *Orchestrator) resync(ctx context.Context) models.Response[*models.User] {
	tag := o.generation.Next()
	resp := o.svc.GetLoggedInUser(ctx)
	o.applySession(ctx, tag, resp)
	return resp
}

func (o *Orchestrator) applySession(ctx context.Context, tag uint64, resp models.Response[*models.User]) {
	applied := o.generation.Apply(tag, func() {
		switch {
		case resp.Success:
			o.writer.SetUser(resp.Data)
			if resp.Data == nil {
				o.sessionEnded()
			}
		case resp.Code() == apierrors.CodeUnauthenticated:
			o.writer.SignOut()
			o.sessionEnded()
		default:
			// A failed check keeps a determined state and resolves an undetermined one to signed out.
			o.writer.Fail(resp.MessageOr(msgSessionCheck))
			if !o.view.Snapshot().Determined() {
				o.writer.SignOut()
			}
		}
	})
	o.metrics.IncrementResync(applied)
	if !applied {
		o.logger.DebugContext(ctx, "discarding stale session re-sync", "generation", tag)
		return
	}
	o.metrics.SetAuthenticated(o.view.Snapshot().Authenticated())
}

// sessionEnded returns a completed login to idle. A login waiting for its
// second factor has no session yet and is left alone.
func (o *Orchestrator) sessionEnded() {
	if o.login.State() == flow.LoginAuthenticated {
		o.login.SignedOut()
	}
}

// signOutLocally drops the session without asking the backend and
// invalidates any re-sync still in flight.
func (o *Orchestrator) signOutLocally() {
	o.generation.Apply(o.generation.Next(), func() {
		o.writer.SignOut()
		o.login.SignedOut()
	})
	o.twoFactor.Reset()
	o.identity.Reset()
	o.metrics.SetAuthenticated(false)
}
