package fakebackend

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"authsession/internal/auth/models"
	"authsession/pkg/secrets"
)

const totpIssuer = "authsession"

// account is the backend-side record behind a models.User.
type account struct {
	ID           string
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	Role         models.Role
	CreatedAt    time.Time

	Active           bool
	EmailVerified    bool
	PhoneVerified    bool
	IdentityVerified bool

	Social               bool
	Providers            []models.ConnectedProvider
	SocialActivationCode string

	ActivationCode    string
	TOTPSecret        string
	PendingTOTPSecret string
	TwoFactorAt       *time.Time

	PendingEmail       string
	EmailChangeToken   string
	EmailChangeCode    string
	EmailChangeExpires time.Time

	Avatar   *models.Avatar
	Business *models.Business
}

func (a *account) hasPassword() bool { return a.PasswordHash != "" }

func (a *account) isAdmin() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleSuperAdmin
}

func (a *account) checkPassword(password string) bool {
	return a.hasPassword() && password != "" && secrets.Verify(password, a.PasswordHash) == nil
}

func (a *account) setPassword(password string) error {
	hash, err := secrets.HashWithCost(password, bcrypt.MinCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

// view renders the account the way getLoggedInUser reports it.
func (a *account) view() models.User {
	u := models.User{
		ID:                 a.ID,
		Email:              a.Email,
		Name:               a.Name,
		PhoneNumber:        a.Phone,
		Role:               a.Role,
		IsEmailVerified:    a.EmailVerified,
		IsPhoneVerified:    a.PhoneVerified,
		IsBusinessVerified: a.Business != nil && a.Business.Verified,
		IsIdentityVerified: a.IdentityVerified,
		IsSocialUser:       a.Social,
		CreatedAt:          a.CreatedAt,
		Activation: &models.Activation{
			TwoFactorActivated: a.TOTPSecret != "",
			PendingEmail:       a.PendingEmail,
			EmailChangeToken:   a.EmailChangeToken,
		},
	}
	if a.Avatar != nil {
		av := *a.Avatar
		u.Avatar = &av
	}
	if a.Business != nil {
		biz := *a.Business
		u.Business = &biz
	}
	return u
}

// AccountSpec describes an account created directly by Seed.
type AccountSpec struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     models.Role
	// Social marks a social-only account. Providers defaults to google.
	Social    bool
	Providers []models.SocialProvider
	// TOTPSecret enables two-factor authentication with this base32 secret.
	TOTPSecret string
	// Inactive leaves the account waiting for its emailed activation code.
	Inactive bool
	Business *models.Business
}

// Seed creates an account and returns its user view.
func (b *Backend) Seed(spec AccountSpec) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	email := normalizeEmail(spec.Email)
	if _, exists := b.byEmail[email]; exists {
		return models.User{}, fmt.Errorf("account %s already exists", email)
	}
	now := b.clock()
	a := &account{
		ID:            uuid.NewString(),
		Email:         email,
		Name:          spec.Name,
		Phone:         spec.Phone,
		Role:          spec.Role,
		CreatedAt:     now,
		Active:        !spec.Inactive,
		EmailVerified: !spec.Inactive,
		Social:        spec.Social,
		TOTPSecret:    spec.TOTPSecret,
		Business:      spec.Business,
	}
	if a.Role == "" {
		a.Role = models.RoleUser
	}
	if a.Name == "" {
		a.Name = strings.Split(email, "@")[0]
	}
	if a.TOTPSecret != "" {
		a.TwoFactorAt = &now
	}
	if spec.Password != "" {
		if err := a.setPassword(spec.Password); err != nil {
			return models.User{}, err
		}
	}
	providers := spec.Providers
	if spec.Social && len(providers) == 0 {
		providers = []models.SocialProvider{models.ProviderGoogle}
	}
	for _, p := range providers {
		a.Providers = append(a.Providers, models.ConnectedProvider{Provider: p, Email: email, ConnectedAt: now})
	}
	if spec.Inactive {
		code, err := secrets.Digits(6)
		if err != nil {
			return models.User{}, err
		}
		if spec.Social {
			a.SocialActivationCode = code
			b.deliver(email, MailSocialActivation, code)
		} else {
			a.ActivationCode = code
			b.deliver(email, MailActivation, code)
		}
	}
	b.insert(a)
	return a.view(), nil
}

// insert indexes a. Callers hold b.mu.
func (b *Backend) insert(a *account) {
	b.accounts[a.ID] = a
	b.byEmail[a.Email] = a.ID
}

// remove deletes a and ends its sessions. Callers hold b.mu.
func (b *Backend) remove(a *account) {
	b.revokeSessions(a.ID)
	delete(b.accounts, a.ID)
	delete(b.byEmail, a.Email)
}

// lookup finds an account by email. Callers hold b.mu.
func (b *Backend) lookup(email string) (*account, bool) {
	id, ok := b.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, false
	}
	a, ok := b.accounts[id]
	return a, ok
}

// Account returns the current user view of the account behind email.
func (b *Backend) Account(email string) (models.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.lookup(email)
	if !ok {
		return models.User{}, false
	}
	return a.view(), true
}

// TwoFactorSecrets returns the active and the pending enrolment TOTP secret of email.
func (b *Backend) TwoFactorSecrets(email string) (active, pending string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.lookup(email)
	if !ok {
		return "", ""
	}
	return a.TOTPSecret, a.PendingTOTPSecret
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MailKind names the purpose of an outgoing mail.
type MailKind string

const (
	MailActivation       MailKind = "activation"
	MailSocialActivation MailKind = "social_activation"
	MailPasswordReset    MailKind = "password_reset"
	MailEmailChange      MailKind = "email_change"
	MailEmergency        MailKind = "emergency_code"
	MailInvitation       MailKind = "invitation"
)

// Mail is a message the backend would have sent. Code carries the code or
// token the recipient needs.
type Mail struct {
	To   string
	Kind MailKind
	Code string
}

// deliver appends to the outbox. Callers hold b.mu.
func (b *Backend) deliver(to string, kind MailKind, code string) {
	b.outbox = append(b.outbox, Mail{To: normalizeEmail(to), Kind: kind, Code: code})
}

// LastCode returns the code of the newest mail of kind sent to email.
func (b *Backend) LastCode(email string, kind MailKind) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	to := normalizeEmail(email)
	for _, m := range slices.Backward(b.outbox) {
		if m.To == to && m.Kind == kind {
			return m.Code, true
		}
	}
	return "", false
}

// Outbox returns a copy of every mail sent so far.
func (b *Backend) Outbox() []Mail {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.outbox)
}

func newTOTPKey(email string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: email,
		Period:      30,
		Algorithm:   otp.AlgorithmSHA1,
	})
}

// qrDataURL renders the key's otpauth URL as a PNG data URL.
func qrDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(200, 200)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// validTOTP accepts codes from the current and adjacent 30s windows.
func validTOTP(code, secret string, now time.Time) bool {
	if secret == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, now.UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// validBusinessNumber applies the Korean business registration checksum.
func validBusinessNumber(number string) bool {
	if len(number) != 10 {
		return false
	}
	weights := [9]int{1, 3, 7, 1, 3, 7, 1, 3, 5}
	var d [10]int
	for i, r := range number {
		if r < '0' || r > '9' {
			return false
		}
		d[i] = int(r - '0')
	}
	sum := 0
	for i, w := range weights {
		sum += d[i] * w
	}
	sum += d[8] * 5 / 10
	return (10-sum%10)%10 == d[9]
}
