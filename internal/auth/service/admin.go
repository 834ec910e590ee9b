package service

import (
	"context"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
)

type invitationPayload struct {
	Invitation models.Invitation `json:"invitation"`
}

type userPayload struct {
	User models.User `json:"user"`
}

// GetAllUsers lists users. Listings tolerate staleness and are served cache-first.
func (s *Service) GetAllUsers(ctx context.Context, filter models.ListUsersFilter) models.Response[models.UserList] {
	filter.Normalize()
	return query[models.UserList](ctx, s, opGetAllUsers, transport.Variables{"filter": filter}, transport.CacheFirst)
}

// GetUserByID fetches one user for an admin detail view, bypassing the cache.
func (s *Service) GetUserByID(ctx context.Context, id string) models.Response[*models.User] {
	if err := requireValue("id", id); err != nil {
		return models.Fail[*models.User](err)
	}
	return query[*models.User](ctx, s, opGetUserByID, transport.Variables{"id": id}, transport.NetworkOnly)
}

func (s *Service) GetUsersStats(ctx context.Context) models.Response[models.UsersStats] {
	return query[models.UsersStats](ctx, s, opGetUsersStats, nil, transport.CacheFirst)
}

func (s *Service) GetInvitations(ctx context.Context, filter models.InvitationFilter) models.Response[models.InvitationList] {
	filter.Normalize()
	return query[models.InvitationList](ctx, s, opGetInvitations, transport.Variables{"filter": filter}, transport.CacheFirst)
}

// VerifyInvitationToken resolves the invitation behind an emailed token.
func (s *Service) VerifyInvitationToken(ctx context.Context, token string) models.Response[models.InvitationTokenInfo] {
	if err := requireValue("token", token); err != nil {
		return models.Fail[models.InvitationTokenInfo](err)
	}
	return query[models.InvitationTokenInfo](ctx, s, opVerifyInvitationToken, transport.Variables{"token": token}, transport.NetworkOnly)
}

func (s *Service) InviteUser(ctx context.Context, req models.InviteUserRequest) models.Response[models.Invitation] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.Invitation](err)
	}
	return unwrapInvitation(mutate[invitationPayload](ctx, s, opInviteUser, transport.Variables{"input": req}))
}

func (s *Service) CancelInvitation(ctx context.Context, id string) models.Response[models.Empty] {
	if err := requireValue("id", id); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opCancelInvitation, transport.Variables{"id": id})
}

// ResendInvitation re-sends a pending invitation. The backend rejects
// invitations that are accepted, cancelled or expired.
func (s *Service) ResendInvitation(ctx context.Context, id string) models.Response[models.Invitation] {
	if err := requireValue("id", id); err != nil {
		return models.Fail[models.Invitation](err)
	}
	return unwrapInvitation(mutate[invitationPayload](ctx, s, opResendInvitation, transport.Variables{"id": id}))
}

// AcceptInvitation creates the invited account and signs it in.
func (s *Service) AcceptInvitation(ctx context.Context, req models.AcceptInvitationRequest) models.Response[models.LoginResult] {
	return s.signIn(ctx, opAcceptInvitation, &req)
}

func (s *Service) UpdateUserByAdmin(ctx context.Context, req models.UpdateUserByAdminRequest) models.Response[models.User] {
	if err := prepare(&req); err != nil {
		return models.Fail[models.User](err)
	}
	resp := mutate[userPayload](ctx, s, opUpdateUserByAdmin, transport.Variables{"input": req})
	if !resp.Success {
		return models.Retype[userPayload, models.User](resp)
	}
	return models.OK(resp.Data.User, resp.Message)
}

func (s *Service) DeleteUserByAdmin(ctx context.Context, id string) models.Response[models.Empty] {
	if err := requireValue("id", id); err != nil {
		return models.Fail[models.Empty](err)
	}
	return mutate[models.Empty](ctx, s, opDeleteUserByAdmin, transport.Variables{"id": id})
}

func unwrapInvitation(resp models.Response[invitationPayload]) models.Response[models.Invitation] {
	if !resp.Success {
		return models.Retype[invitationPayload, models.Invitation](resp)
	}
	return models.OK(resp.Data.Invitation, resp.Message)
}
