package fakebackend

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"authsession/internal/auth/models"
	"authsession/pkg/platform/middleware/auth"
	"authsession/pkg/secrets"
)

type emailVars struct {
	Email string `json:"email"`
}

// getLoggedInUser answers null for anonymous requests.
func (b *Backend) getLoggedInUser(ctx context.Context, _ json.RawMessage) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.caller(ctx)
	if err != nil {
		return nil, nil
	}
	return a.view(), nil
}

func (b *Backend) registerUser(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.RegisterRequest]](vars)
	if err != nil {
		return nil, err
	}
	req := in.Input
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.lookup(req.Email); exists {
		return failure("EMAIL_ALREADY_EXISTS", "An account with this email already exists"), nil
	}
	code, err := secrets.Digits(6)
	if err != nil {
		return nil, err
	}
	a := &account{
		ID:             uuid.NewString(),
		Email:          normalizeEmail(req.Email),
		Name:           req.Name,
		Phone:          req.PhoneNumber,
		Role:           models.RoleUser,
		CreatedAt:      b.now(ctx),
		ActivationCode: code,
	}
	if req.Role == models.RoleBusiness || req.Role == models.RoleDelivery {
		a.Role = req.Role
	}
	if err := a.setPassword(req.Password); err != nil {
		return nil, err
	}
	b.insert(a)
	b.deliver(a.Email, MailActivation, code)
	return success("Registration successful. Check your email for the activation code", nil)
}

func (b *Backend) verifyActivationCode(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.ActivationCodeRequest]](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.lookup(in.Input.Email)
	if !ok || a.ActivationCode == "" || a.ActivationCode != in.Input.Code {
		return failure("INVALID_CODE", "The activation code is invalid"), nil
	}
	a.ActivationCode = ""
	a.Active = true
	a.EmailVerified = true
	return success("Account activated", nil)
}

func (b *Backend) resendActivationCode(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[emailVars](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.lookup(in.Email)
	if !ok {
		return failure("USER_NOT_FOUND", "No account is registered with this email"), nil
	}
	if a.Active {
		return failure("ALREADY_ACTIVATED", "The account is already active"), nil
	}
	code, err := secrets.Digits(6)
	if err != nil {
		return nil, err
	}
	a.ActivationCode = code
	b.deliver(a.Email, MailActivation, code)
	return success("Activation code sent", nil)
}

func (b *Backend) loginStep1(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.LoginRequest]](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.lookup(in.Input.Email)
	if !ok || !a.checkPassword(in.Input.Password) {
		return failure("INVALID_CREDENTIALS", "Invalid email or password"), nil
	}
	if !a.Active {
		return failure("ACCOUNT_NOT_ACTIVATED", "Activate your account before signing in"), nil
	}
	if a.TOTPSecret != "" {
		tempToken, err := secrets.Generate()
		if err != nil {
			return nil, err
		}
		b.pending[tempToken] = tempLogin{UserID: a.ID, ExpiresAt: b.now(ctx).Add(tempTokenTTL)}
		return success("Two-factor authentication required", models.LoginResult{Requires2FA: true, TempToken: tempToken})
	}
	tokens, err := b.signIn(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return success("Login successful", models.LoginResult{AuthTokens: tokens})
}

// pendingLogin resolves a temp token. Callers hold b.mu.
func (b *Backend) pendingLogin(ctx context.Context, tempToken string) (tempLogin, *account, bool) {
	p, ok := b.pending[tempToken]
	if !ok {
		return tempLogin{}, nil, false
	}
	if b.now(ctx).After(p.ExpiresAt) {
		delete(b.pending, tempToken)
		return tempLogin{}, nil, false
	}
	a, ok := b.accounts[p.UserID]
	if !ok {
		delete(b.pending, tempToken)
		return tempLogin{}, nil, false
	}
	return p, a, true
}

func expiredLogin() map[string]any {
	return failure("INVALID_TEMP_TOKEN", "The login session has expired. Sign in again")
}

func (b *Backend) loginStep2(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.LoginStep2Request]](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	_, a, ok := b.pendingLogin(ctx, in.Input.TempToken)
	if !ok {
		return expiredLogin(), nil
	}
	if !validTOTP(in.Input.Code, a.TOTPSecret, b.now(ctx)) {
		return failure("INVALID_2FA_CODE", "The verification code is invalid"), nil
	}
	delete(b.pending, in.Input.TempToken)
	tokens, err := b.signIn(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return success("Login successful", models.LoginResult{AuthTokens: tokens})
}

func (b *Backend) requestEmergencyEmailCode(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[struct {
		TempToken string `json:"tempToken"`
	}](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	p, a, ok := b.pendingLogin(ctx, in.TempToken)
	if !ok {
		return expiredLogin(), nil
	}
	code, err := secrets.Digits(6)
	if err != nil {
		return nil, err
	}
	p.EmergencyCode = code
	b.pending[in.TempToken] = p
	b.deliver(a.Email, MailEmergency, code)
	return success("Emergency code sent to your email", nil)
}

func (b *Backend) disable2FADuringLogin(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.DisableTwoFactorDuringLoginRequest]](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	p, a, ok := b.pendingLogin(ctx, in.Input.TempToken)
	if !ok {
		return expiredLogin(), nil
	}
	if p.EmergencyCode == "" || p.EmergencyCode != in.Input.EmergencyCode {
		return failure("INVALID_EMERGENCY_CODE", "The emergency code is invalid"), nil
	}
	delete(b.pending, in.Input.TempToken)
	a.TOTPSecret = ""
	a.TwoFactorAt = nil
	tokens, err := b.signIn(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return success("Two-factor authentication disabled", models.LoginResult{AuthTokens: tokens})
}

func (b *Backend) logout(ctx context.Context, _ json.RawMessage) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	claims, ok := auth.ClaimsFrom(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}
	if s, ok := b.sessions[claims.SessionID]; ok {
		s.Revoked = true
	}
	return success("Logged out", nil)
}

func (b *Backend) logoutAll(ctx context.Context, _ json.RawMessage) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	b.revokeSessions(a.ID)
	return success("Logged out of every device", nil)
}

func (b *Backend) refreshToken(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[struct {
		RefreshToken string `json:"refreshToken"`
	}](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	sessionID, ok := b.refresh[in.RefreshToken]
	if !ok {
		return nil, errUnauthenticated()
	}
	s, ok := b.sessions[sessionID]
	if !ok || s.Revoked {
		delete(b.refresh, in.RefreshToken)
		return nil, errUnauthenticated()
	}
	if _, ok := b.accounts[s.UserID]; !ok {
		return nil, errUnauthenticated()
	}
	tokens, err := b.rotate(ctx, s, in.RefreshToken)
	if err != nil {
		return nil, err
	}
	return success("Token refreshed", tokens)
}

func (b *Backend) changePassword(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.ChangePasswordRequest]](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	if !a.checkPassword(in.Input.CurrentPassword) {
		return failure("INVALID_PASSWORD", "The current password is incorrect"), nil
	}
	if err := a.setPassword(in.Input.NewPassword); err != nil {
		return nil, err
	}
	return success("Password changed", nil)
}

// forgotPassword answers the same way whether or not the account exists.
func (b *Backend) forgotPassword(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[emailVars](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if a, ok := b.lookup(in.Email); ok && a.hasPassword() {
		token, err := secrets.Generate()
		if err != nil {
			return nil, err
		}
		b.resets[token] = a.ID
		b.deliver(a.Email, MailPasswordReset, token)
	}
	return success("If the email is registered, a reset link has been sent", nil)
}

func (b *Backend) resetPassword(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.ResetPasswordRequest]](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	userID, ok := b.resets[in.Input.Token]
	a, exists := b.accounts[userID]
	if !ok || !exists {
		return failure("INVALID_RESET_TOKEN", "The reset link is invalid or has already been used"), nil
	}
	if err := a.setPassword(in.Input.NewPassword); err != nil {
		return nil, err
	}
	delete(b.resets, in.Input.Token)
	b.revokeSessions(a.ID)
	return success("Password reset. Sign in with your new password", nil)
}
