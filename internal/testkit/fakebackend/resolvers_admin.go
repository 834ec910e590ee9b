package fakebackend

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"authsession/internal/auth/models"
	"authsession/pkg/secrets"
)

type idVars struct {
	ID string `json:"id"`
}

func (b *Backend) getAllUsers(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[struct {
		Filter models.ListUsersFilter `json:"filter"`
	}](vars)
	if err != nil {
		return nil, err
	}
	filter := in.Filter
	filter.Normalize()

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.administrator(ctx); err != nil {
		return nil, err
	}

	search := strings.ToLower(filter.Search)
	var matched []*account
	for _, a := range b.accounts {
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if search != "" && !strings.Contains(a.Email, search) && !strings.Contains(strings.ToLower(a.Name), search) {
			continue
		}
		matched = append(matched, a)
	}
	slices.SortFunc(matched, func(x, y *account) int {
		if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(x.Email, y.Email)
	})

	users := []models.User{}
	start := (filter.Page - 1) * filter.PageSize
	for i := start; i < len(matched) && i < start+filter.PageSize; i++ {
		users = append(users, matched[i].view())
	}
	return models.UserList{Users: users, Total: len(matched), Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (b *Backend) getUserByID(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[idVars](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.administrator(ctx); err != nil {
		return nil, err
	}
	a, ok := b.accounts[in.ID]
	if !ok {
		return nil, errNotFound("User not found")
	}
	return a.view(), nil
}

func (b *Backend) getUsersStats(ctx context.Context, _ json.RawMessage) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.administrator(ctx); err != nil {
		return nil, err
	}

	var stats models.UsersStats
	for _, a := range b.accounts {
		stats.Total++
		if a.Active {
			stats.Active++
		}
		if a.isAdmin() {
			stats.Admins++
		}
		switch a.Role {
		case models.RoleBusiness:
			stats.Business++
		case models.RoleDelivery:
			stats.Delivery++
		}
		if a.EmailVerified {
			stats.EmailVerified++
		}
		if a.TOTPSecret != "" {
			stats.TwoFactorEnabled++
		}
	}
	now := b.now(ctx)
	for _, inv := range b.invitations {
		if inv.EffectiveStatus(now) == models.InvitationPending {
			stats.PendingInvites++
		}
	}
	return stats, nil
}

// invitationView reports expiry as a status.
func invitationView(inv *models.Invitation, now time.Time) models.Invitation {
	out := *inv
	out.Status = inv.EffectiveStatus(now)
	return out
}

func (b *Backend) getInvitations(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[struct {
		Filter models.InvitationFilter `json:"filter"`
	}](vars)
	if err != nil {
		return nil, err
	}
	filter := in.Filter
	filter.Normalize()

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.administrator(ctx); err != nil {
		return nil, err
	}

	now := b.now(ctx)
	var matched []models.Invitation
	for _, inv := range b.invitations {
		view := invitationView(inv, now)
		if filter.Status != "" && view.Status != filter.Status {
			continue
		}
		matched = append(matched, view)
	}
	slices.SortFunc(matched, func(x, y models.Invitation) int {
		if c := y.CreatedAt.Compare(x.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(x.Email, y.Email)
	})

	page := []models.Invitation{}
	start := (filter.Page - 1) * filter.PageSize
	for i := start; i < len(matched) && i < start+filter.PageSize; i++ {
		page = append(page, matched[i])
	}
	return models.InvitationList{Invitations: page, Total: len(matched)}, nil
}

// verifyInvitationToken is public: invitees are not signed in yet.
func (b *Backend) verifyInvitationToken(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[struct {
		Token string `json:"token"`
	}](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	inv, ok := b.invitationByToken(in.Token)
	if !ok {
		return models.InvitationTokenInfo{Valid: false}, nil
	}
	view := invitationView(inv, b.now(ctx))
	return models.InvitationTokenInfo{Valid: view.Status == models.InvitationPending, Invitation: &view}, nil
}

// invitationByToken resolves an emailed token. Callers hold b.mu.
func (b *Backend) invitationByToken(token string) (*models.Invitation, bool) {
	id, ok := b.invitationTokens[token]
	if !ok {
		return nil, false
	}
	inv, ok := b.invitations[id]
	return inv, ok
}

// mailInvitation issues a fresh token for inv, retiring older ones. Callers hold b.mu.
func (b *Backend) mailInvitation(inv *models.Invitation) error {
	token, err := secrets.Generate()
	if err != nil {
		return err
	}
	for t, id := range b.invitationTokens {
		if id == inv.ID {
			delete(b.invitationTokens, t)
		}
	}
	b.invitationTokens[token] = inv.ID
	b.deliver(inv.Email, MailInvitation, token)
	return nil
}

func (b *Backend) inviteUser(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.InviteUserRequest]](vars)
	if err != nil {
		return nil, err
	}
	req := in.Input
	b.mu.Lock()
	defer b.mu.Unlock()

	admin, err := b.administrator(ctx)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)
	if _, exists := b.lookup(email); exists {
		return failure("EMAIL_ALREADY_EXISTS", "An account with this email already exists"), nil
	}
	now := b.now(ctx)
	for _, inv := range b.invitations {
		if inv.Email == email && inv.EffectiveStatus(now) == models.InvitationPending {
			return nil, errBadInput("A pending invitation already exists for " + email)
		}
	}
	if req.Role == models.RoleAdmin && admin.Role != models.RoleSuperAdmin {
		return nil, &gqlError{Code: "FORBIDDEN", Message: "Only super administrators can invite administrators"}
	}

	inv := &models.Invitation{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      req.Role,
		UserType:  req.UserType,
		Status:    models.InvitationPending,
		ExpiresAt: now.Add(invitationTTL),
		InvitedBy: admin.ID,
		CreatedAt: now,
	}
	if err := b.mailInvitation(inv); err != nil {
		return nil, err
	}
	b.invitations[inv.ID] = inv
	return success("Invitation sent to "+email, map[string]any{"invitation": *inv})
}

func (b *Backend) cancelInvitation(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[idVars](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.administrator(ctx); err != nil {
		return nil, err
	}
	inv, ok := b.invitations[in.ID]
	if !ok {
		return nil, errNotFound("Invitation not found")
	}
	if !inv.EffectiveStatus(b.now(ctx)).CanTransitionTo(models.InvitationCancelled) {
		return failure("INVALID_INVITATION_STATE", "Only pending invitations can be cancelled"), nil
	}
	inv.Status = models.InvitationCancelled
	return success("Invitation cancelled", nil)
}

// resendInvitation refreshes the expiry of a pending invitation and mails a new token.
func (b *Backend) resendInvitation(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[idVars](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.administrator(ctx); err != nil {
		return nil, err
	}
	inv, ok := b.invitations[in.ID]
	if !ok {
		return nil, errNotFound("Invitation not found")
	}
	now := b.now(ctx)
	if !inv.EffectiveStatus(now).CanTransitionTo(models.InvitationPending) {
		return failure("INVALID_INVITATION_STATE", "Only pending invitations can be resent"), nil
	}
	if err := b.mailInvitation(inv); err != nil {
		return nil, err
	}
	inv.ExpiresAt = now.Add(invitationTTL)
	inv.ResentCount++
	inv.LastResentAt = &now
	return success("Invitation resent", map[string]any{"invitation": *inv})
}

func (b *Backend) acceptInvitation(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.AcceptInvitationRequest]](vars)
	if err != nil {
		return nil, err
	}
	req := in.Input
	b.mu.Lock()
	defer b.mu.Unlock()

	inv, ok := b.invitationByToken(req.Token)
	now := b.now(ctx)
	if !ok || inv.EffectiveStatus(now) != models.InvitationPending {
		return failure("INVALID_INVITATION", "The invitation is invalid or has expired"), nil
	}
	if _, exists := b.lookup(inv.Email); exists {
		return failure("EMAIL_ALREADY_EXISTS", "An account with this email already exists"), nil
	}
	a := &account{
		ID:            uuid.NewString(),
		Email:         inv.Email,
		Name:          req.Name,
		Role:          inv.Role,
		CreatedAt:     now,
		Active:        true,
		EmailVerified: true,
	}
	if err := a.setPassword(req.Password); err != nil {
		return nil, err
	}
	b.insert(a)
	inv.Status = models.InvitationAccepted
	delete(b.invitationTokens, req.Token)

	tokens, err := b.signIn(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return success("Welcome aboard", models.LoginResult{AuthTokens: tokens})
}

func (b *Backend) updateUserByAdmin(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.UpdateUserByAdminRequest]](vars)
	if err != nil {
		return nil, err
	}
	req := in.Input
	b.mu.Lock()
	defer b.mu.Unlock()

	admin, err := b.administrator(ctx)
	if err != nil {
		return nil, err
	}
	target, ok := b.accounts[req.UserID]
	if !ok {
		return nil, errNotFound("User not found")
	}
	touchesSuper := target.Role == models.RoleSuperAdmin || (req.Role != nil && *req.Role == models.RoleSuperAdmin)
	if touchesSuper && admin.Role != models.RoleSuperAdmin {
		return nil, &gqlError{Code: "FORBIDDEN", Message: "Only super administrators can manage super administrators"}
	}
	if req.Name != nil {
		target.Name = *req.Name
	}
	if req.Role != nil {
		target.Role = *req.Role
	}
	if req.IsActive != nil {
		target.Active = *req.IsActive
		if !target.Active {
			b.revokeSessions(target.ID)
		}
	}
	return success("User updated", map[string]any{"user": target.view()})
}

func (b *Backend) deleteUserByAdmin(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[idVars](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	admin, err := b.administrator(ctx)
	if err != nil {
		return nil, err
	}
	if in.ID == admin.ID {
		return failure("CANNOT_DELETE_SELF", "You cannot delete your own account here"), nil
	}
	target, ok := b.accounts[in.ID]
	if !ok {
		return nil, errNotFound("User not found")
	}
	if target.Role == models.RoleSuperAdmin && admin.Role != models.RoleSuperAdmin {
		return nil, &gqlError{Code: "FORBIDDEN", Message: "Only super administrators can manage super administrators"}
	}
	b.remove(target)
	return success("User deleted", nil)
}
