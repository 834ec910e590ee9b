// Package flow holds the finite-state machines behind the multi-step
// security protocols: login with an optional second factor, two-factor
// enrolment and removal, and third-party identity verification.
package flow

import (
	"fmt"
	"sync"

	apierrors "authsession/pkg/api-errors"
)

// LoginState enumerates the states of a login attempt.
type LoginState int

const (
	LoginIdle LoginState = iota
	LoginAwaitingSecondFactor
	LoginAuthenticated
)

func (s LoginState) String() string {
	switch s {
	case LoginIdle:
		return "idle"
	case LoginAwaitingSecondFactor:
		return "awaiting-2fa"
	case LoginAuthenticated:
		return "authenticated"
	}
	return fmt.Sprintf("LoginState(%d)", int(s))
}

// LoginEvent drives the login machine.
type LoginEvent int

const (
	// LoginPasswordAccepted: step one succeeded for an account without 2FA.
	LoginPasswordAccepted LoginEvent = iota
	// LoginSecondFactorRequired: step one succeeded and a TOTP code is due.
	LoginSecondFactorRequired
	// LoginSecondFactorAccepted: step two or the emergency disable succeeded.
	LoginSecondFactorAccepted
	// LoginCancelled: the user abandoned the pending second factor.
	LoginCancelled
	// LoginSignedOut: the session ended.
	LoginSignedOut
)

var loginTransitions = map[LoginState]map[LoginEvent]LoginState{
	LoginIdle: {
		LoginPasswordAccepted:     LoginAuthenticated,
		LoginSecondFactorRequired: LoginAwaitingSecondFactor,
		LoginSignedOut:            LoginIdle,
	},
	LoginAwaitingSecondFactor: {
		LoginSecondFactorAccepted: LoginAuthenticated,
		LoginCancelled:            LoginIdle,
		LoginSignedOut:            LoginIdle,
	},
	LoginAuthenticated: {
		LoginPasswordAccepted:     LoginAuthenticated,
		LoginSecondFactorRequired: LoginAwaitingSecondFactor,
		LoginSignedOut:            LoginIdle,
	},
}

// PendingLogin is the handle returned when the first step requires a second
// factor. Only the handle issued by the machine can complete the login.
type PendingLogin struct {
	tempToken string
	email     string
}

// TempToken is the short-lived token the second step exchanges.
func (p *PendingLogin) TempToken() string { return p.tempToken }

// Email is the address the login was started for.
func (p *PendingLogin) Email() string { return p.email }

// LoginMachine tracks one login attempt at a time.
type LoginMachine struct {
	mu      sync.Mutex
	state   LoginState
	pending *PendingLogin
}

func NewLoginMachine() *LoginMachine {
	return &LoginMachine{}
}

func (m *LoginMachine) State() LoginState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pending returns the outstanding second-factor handle, if any.
func (m *LoginMachine) Pending() *PendingLogin {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// CanStart reports whether a new first step may begin. A login that is
// waiting for its second factor must be completed or cancelled first.
func (m *LoginMachine) CanStart() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == LoginAwaitingSecondFactor {
		return apierrors.InvalidFlowState("a login is waiting for its verification code; cancel it before starting another")
	}
	return nil
}

// PasswordAccepted completes a login that needs no second factor.
func (m *LoginMachine) PasswordAccepted() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fire(LoginPasswordAccepted)
}

// RequireSecondFactor moves to awaiting-2fa and issues the handle for step two.
func (m *LoginMachine) RequireSecondFactor(tempToken, email string) (*PendingLogin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fire(LoginSecondFactorRequired); err != nil {
		return nil, err
	}
	m.pending = &PendingLogin{tempToken: tempToken, email: email}
	return m.pending, nil
}

// Check verifies that p is the live handle of a login awaiting its second factor.
func (m *LoginMachine) Check(p *PendingLogin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.check(p)
}

// SecondFactorAccepted completes the login p belongs to.
func (m *LoginMachine) SecondFactorAccepted(p *PendingLogin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(p); err != nil {
		return err
	}
	if err := m.fire(LoginSecondFactorAccepted); err != nil {
		return err
	}
	m.pending = nil
	return nil
}

// Cancel abandons a pending second factor. It is a no-op in other states.
func (m *LoginMachine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != LoginAwaitingSecondFactor {
		return
	}
	_ = m.fire(LoginCancelled)
	m.pending = nil
}

// SignedOut returns the machine to idle from any state.
func (m *LoginMachine) SignedOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.fire(LoginSignedOut)
	m.pending = nil
}

func (m *LoginMachine) check(p *PendingLogin) error {
	if m.state != LoginAwaitingSecondFactor || m.pending == nil {
		return apierrors.InvalidFlowState("no login is waiting for a verification code")
	}
	if p == nil || p != m.pending {
		return apierrors.InvalidFlowState("the login attempt has expired; sign in again")
	}
	return nil
}

func (m *LoginMachine) fire(event LoginEvent) error {
	next, ok := loginTransitions[m.state][event]
	if !ok {
		return apierrors.InvalidFlowState(fmt.Sprintf("login cannot handle event %d in state %s", event, m.state))
	}
	m.state = next
	return nil
}
