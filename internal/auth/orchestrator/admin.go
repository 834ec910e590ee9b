package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"authsession/internal/auth/models"
	apierrors "authsession/pkg/api-errors"
)

// withDefault gives an unguarded read's failure the operation's default message.
func withDefault[T any](resp models.Response[T], fallback string) models.Response[T] {
	if !resp.Success && resp.Error != nil && resp.Error.Message == "" {
		resp.Error.Message = fallback
	}
	return resp
}

// Admin reads are not guarded; they may overlap a mutation in flight.

func (o *Orchestrator) GetAllUsers(ctx context.Context, filter models.ListUsersFilter) models.Response[models.UserList] {
	return withDefault(o.svc.GetAllUsers(ctx, filter), msgListUsers)
}

func (o *Orchestrator) GetUserByID(ctx context.Context, id string) models.Response[*models.User] {
	return withDefault(o.svc.GetUserByID(ctx, id), msgGetUser)
}

func (o *Orchestrator) GetUsersStats(ctx context.Context) models.Response[models.UsersStats] {
	return withDefault(o.svc.GetUsersStats(ctx), msgUsersStats)
}

func (o *Orchestrator) GetInvitations(ctx context.Context, filter models.InvitationFilter) models.Response[models.InvitationList] {
	return withDefault(o.svc.GetInvitations(ctx, filter), msgListInvitations)
}

func (o *Orchestrator) VerifyInvitationToken(ctx context.Context, token string) models.Response[models.InvitationTokenInfo] {
	return withDefault(o.svc.VerifyInvitationToken(ctx, token), msgVerifyInvitation)
}

// LoadAdminOverview fetches the dashboard reads concurrently. The first
// failure cancels the rest and is returned.
func (o *Orchestrator) LoadAdminOverview(ctx context.Context) models.Response[models.AdminOverview] {
	var overview models.AdminOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp := o.svc.GetUsersStats(gctx)
		overview.Stats = resp.Data
		return resp.Err()
	})
	g.Go(func() error {
		resp := o.svc.GetAllUsers(gctx, models.ListUsersFilter{Page: 1})
		overview.Users = resp.Data
		return resp.Err()
	})
	g.Go(func() error {
		resp := o.svc.GetInvitations(gctx, models.InvitationFilter{Status: models.InvitationPending, Page: 1})
		overview.Invitations = resp.Data
		return resp.Err()
	})
	if err := g.Wait(); err != nil {
		return withDefault(models.Fail[models.AdminOverview](err), msgAdminOverview)
	}
	return models.OK(overview, "")
}

func (o *Orchestrator) InviteUser(ctx context.Context, req models.InviteUserRequest) models.Response[models.Invitation] {
	return guarded(ctx, o, call{name: "inviteUser", fallback: msgInviteUser}, func(ctx context.Context) models.Response[models.Invitation] {
		return o.svc.InviteUser(ctx, req)
	})
}

func (o *Orchestrator) CancelInvitation(ctx context.Context, id string) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "cancelInvitation", fallback: msgCancelInvitation}, func(ctx context.Context) models.Response[models.Empty] {
		return o.svc.CancelInvitation(ctx, id)
	})
}

// ResendInvitation surfaces the backend's rejection for invitations that
// are no longer pending.
func (o *Orchestrator) ResendInvitation(ctx context.Context, id string) models.Response[models.Invitation] {
	return guarded(ctx, o, call{name: "resendInvitation", fallback: msgResendInvitation}, func(ctx context.Context) models.Response[models.Invitation] {
		return o.svc.ResendInvitation(ctx, id)
	})
}

// AcceptInvitation creates the invited account and signs it in.
func (o *Orchestrator) AcceptInvitation(ctx context.Context, req models.AcceptInvitationRequest) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "acceptInvitation", fallback: msgAcceptInvitation, resync: resyncOnSuccess}, func(ctx context.Context) models.Response[models.Empty] {
		resp := o.svc.AcceptInvitation(ctx, req)
		if !resp.Success {
			return models.Retype[models.LoginResult, models.Empty](resp)
		}
		_ = o.login.PasswordAccepted()
		return models.OK(models.Empty{}, resp.Message)
	})
}

// UpdateUserByAdmin re-syncs the session when an admin edits their own account.
func (o *Orchestrator) UpdateUserByAdmin(ctx context.Context, req models.UpdateUserByAdminRequest) models.Response[models.User] {
	return guarded(ctx, o, call{name: "updateUserByAdmin", fallback: msgUpdateUser}, func(ctx context.Context) models.Response[models.User] {
		resp := o.svc.UpdateUserByAdmin(ctx, req)
		if resp.Success && o.isSelf(req.UserID) {
			o.resync(ctx)
		}
		return resp
	})
}

func (o *Orchestrator) DeleteUserByAdmin(ctx context.Context, id string) models.Response[models.Empty] {
	return guarded(ctx, o, call{name: "deleteUserByAdmin", fallback: msgDeleteUser}, func(ctx context.Context) models.Response[models.Empty] {
		if o.isSelf(id) {
			return models.Fail[models.Empty](
				apierrors.New(apierrors.CodeValidation, "use account deletion to remove your own account").WithDetail("field", "id"),
			)
		}
		return o.svc.DeleteUserByAdmin(ctx, id)
	})
}

func (o *Orchestrator) isSelf(userID string) bool {
	user, err := o.CurrentUser()
	return err == nil && user.ID == userID
}
