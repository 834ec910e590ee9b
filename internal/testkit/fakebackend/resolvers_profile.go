package fakebackend

import (
	"context"
	"encoding/json"
	"slices"

	"authsession/internal/auth/models"
	"authsession/pkg/secrets"
)

type providerVars struct {
	Provider models.SocialProvider `json:"provider"`
}

func (b *Backend) get2FAStatus(ctx context.Context, _ json.RawMessage) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	return models.TwoFactorStatus{Enabled: a.TOTPSecret != "", ActivatedAt: a.TwoFactorAt}, nil
}

// generate2FAQR starts enrolment. A second call replaces the pending secret.
func (b *Backend) generate2FAQR(ctx context.Context, _ json.RawMessage) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	if a.TOTPSecret != "" {
		return failure("TWO_FACTOR_ALREADY_ENABLED", "Two-factor authentication is already enabled"), nil
	}
	key, err := newTOTPKey(a.Email)
	if err != nil {
		return nil, err
	}
	qr, err := qrDataURL(key)
	if err != nil {
		return nil, err
	}
	a.PendingTOTPSecret = key.Secret()
	return success("Scan the QR code with your authenticator app", models.TwoFactorSetup{
		QRCode:     qr,
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
	})
}

func (b *Backend) enable2FA(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[models.CodeRequest](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	if a.PendingTOTPSecret == "" {
		return failure("TWO_FACTOR_NOT_INITIATED", "Generate a QR code first"), nil
	}
	now := b.now(ctx)
	if !validTOTP(in.Code, a.PendingTOTPSecret, now) {
		return failure("INVALID_2FA_CODE", "The verification code is invalid"), nil
	}
	a.TOTPSecret = a.PendingTOTPSecret
	a.PendingTOTPSecret = ""
	a.TwoFactorAt = &now
	return success("Two-factor authentication enabled", nil)
}

// disable2FA re-validates the password of password accounts whatever the
// client decided.
func (b *Backend) disable2FA(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[struct {
		Password string `json:"password"`
	}](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	if a.TOTPSecret == "" {
		return failure("TWO_FACTOR_NOT_ENABLED", "Two-factor authentication is not enabled"), nil
	}
	if !a.Social && !a.checkPassword(in.Password) {
		return failure("INVALID_PASSWORD", "The password is incorrect"), nil
	}
	a.TOTPSecret = ""
	a.TwoFactorAt = nil
	return success("Two-factor authentication disabled", nil)
}

func (b *Backend) updateUserName(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[struct {
		Name string `json:"name"`
	}](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	a.Name = in.Name
	return success("Name updated", nil)
}

func (b *Backend) requestEmailChange(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[models.EmailChangeRequestInput](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	newEmail := normalizeEmail(in.NewEmail)
	if _, taken := b.lookup(newEmail); taken {
		return failure("EMAIL_ALREADY_EXISTS", "An account with this email already exists"), nil
	}
	token, err := secrets.Generate()
	if err != nil {
		return nil, err
	}
	code, err := secrets.Digits(6)
	if err != nil {
		return nil, err
	}
	a.PendingEmail = newEmail
	a.EmailChangeToken = token
	a.EmailChangeCode = code
	a.EmailChangeExpires = b.now(ctx).Add(emailChangeTTL)
	b.deliver(newEmail, MailEmailChange, code)
	return success("A confirmation code was sent to the new address", models.EmailChangeRequest{
		PendingEmail: newEmail,
		ExpiresAt:    a.EmailChangeExpires,
	})
}

func (b *Backend) verifyEmailChange(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.VerifyEmailChangeRequest]](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	if a.EmailChangeToken == "" || a.EmailChangeToken != in.Input.Token || a.EmailChangeCode != in.Input.Code {
		return failure("INVALID_CODE", "The confirmation code is invalid"), nil
	}
	if b.now(ctx).After(a.EmailChangeExpires) {
		return failure("CODE_EXPIRED", "The confirmation code has expired"), nil
	}
	if _, taken := b.lookup(a.PendingEmail); taken {
		return failure("EMAIL_ALREADY_EXISTS", "An account with this email already exists"), nil
	}
	delete(b.byEmail, a.Email)
	a.Email = a.PendingEmail
	a.EmailVerified = true
	a.PendingEmail, a.EmailChangeToken, a.EmailChangeCode = "", "", ""
	b.byEmail[a.Email] = a.ID
	return success("Email changed", nil)
}

func (b *Backend) updatePhoneNumber(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[models.UpdatePhoneRequest](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	if a.Phone != in.PhoneNumber {
		a.Phone = in.PhoneNumber
		a.PhoneVerified = false
	}
	return success("Phone number updated", nil)
}

func (b *Backend) updateBusiness(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.UpdateBusinessRequest]](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	if !validBusinessNumber(in.Input.Number) {
		return failure("INVALID_BUSINESS_NUMBER", "The business registration number is invalid"), nil
	}
	a.Business = &models.Business{
		Name:               in.Input.Name,
		Number:             in.Input.Number,
		RepresentativeName: in.Input.RepresentativeName,
		Address:            in.Input.Address,
		Verified:           true,
	}
	return success("Business profile updated", nil)
}

func (b *Backend) deleteAvatar(ctx context.Context, _ json.RawMessage) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	if a.Avatar == nil {
		return failure("AVATAR_NOT_FOUND", "There is no avatar to delete"), nil
	}
	a.Avatar = nil
	return success("Avatar deleted", nil)
}

func (b *Backend) deleteAccount(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.DeleteAccountRequest]](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	if a.hasPassword() && !a.checkPassword(in.Input.Password) {
		return failure("INVALID_PASSWORD", "The password is incorrect"), nil
	}
	b.remove(a)
	b.logger.InfoContext(ctx, "account deleted", "user_id", a.ID, "reason", in.Input.Reason)
	return success("Account deleted", nil)
}

func (b *Backend) getSocialLoginURL(_ context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[providerVars](vars)
	if err != nil {
		return nil, err
	}
	if !in.Provider.IsValid() {
		return nil, errBadInput("Unsupported social provider")
	}
	state, err := secrets.Generate()
	if err != nil {
		return nil, err
	}
	return models.SocialLoginURL{
		URL:   "https://accounts.example.test/oauth/" + string(in.Provider) + "?state=" + state,
		State: state,
	}, nil
}

func (b *Backend) getConnectedSocialProviders(ctx context.Context, _ json.RawMessage) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(a.Providers)
	if out == nil {
		out = []models.ConnectedProvider{}
	}
	return out, nil
}

// verifySocialEmail activates a freshly linked social account and signs it in.
func (b *Backend) verifySocialEmail(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[input[models.SocialEmailRequest]](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.lookup(in.Input.Email)
	if !ok || a.SocialActivationCode == "" || a.SocialActivationCode != in.Input.Code {
		return failure("INVALID_CODE", "The verification code is invalid"), nil
	}
	a.SocialActivationCode = ""
	a.Active = true
	a.EmailVerified = true
	tokens, err := b.signIn(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return success("Email verified", models.LoginResult{AuthTokens: tokens})
}

func (b *Backend) resendSocialActivationCode(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[emailVars](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.lookup(in.Email)
	if !ok || !a.Social {
		return failure("USER_NOT_FOUND", "No social account is registered with this email"), nil
	}
	if a.Active {
		return failure("ALREADY_ACTIVATED", "The account is already active"), nil
	}
	code, err := secrets.Digits(6)
	if err != nil {
		return nil, err
	}
	a.SocialActivationCode = code
	b.deliver(a.Email, MailSocialActivation, code)
	return success("Verification code sent", nil)
}

// unlinkSocialAccount refuses to remove the last way to sign in.
func (b *Backend) unlinkSocialAccount(ctx context.Context, vars json.RawMessage) (any, error) {
	in, err := bind[providerVars](vars)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.caller(ctx)
	if err != nil {
		return nil, err
	}
	if !models.HasProvider(a.Providers, in.Provider) {
		return failure("PROVIDER_NOT_LINKED", "This provider is not linked to your account"), nil
	}
	if !a.hasPassword() && len(a.Providers) == 1 {
		return failure("LAST_LOGIN_METHOD", "Set a password before unlinking your only sign-in method"), nil
	}
	a.Providers = slices.DeleteFunc(a.Providers, func(c models.ConnectedProvider) bool {
		return c.Provider == in.Provider
	})
	return success("Social account unlinked", nil)
}
