package flow

import (
	"fmt"
	"sync"

	apierrors "authsession/pkg/api-errors"
)

// IdentityState enumerates the states of an identity verification.
type IdentityState int

const (
	IdentityIdle IdentityState = iota
	// IdentityRequested: the backend issued an id; the provider SDK has control.
	IdentityRequested
	// IdentityAwaitingRedirect: the provider left via a full-page redirect.
	IdentityAwaitingRedirect
	// IdentityVerifying: the single verify call for the id is in flight.
	IdentityVerifying
	IdentityVerified
	IdentityFailed
)

func (s IdentityState) String() string {
	switch s {
	case IdentityIdle:
		return "idle"
	case IdentityRequested:
		return "requested"
	case IdentityAwaitingRedirect:
		return "awaiting-redirect"
	case IdentityVerifying:
		return "verifying"
	case IdentityVerified:
		return "verified"
	case IdentityFailed:
		return "failed"
	}
	return fmt.Sprintf("IdentityState(%d)", int(s))
}

var identityTransitions = map[IdentityState][]IdentityState{
	IdentityIdle:             {IdentityRequested, IdentityVerifying},
	IdentityRequested:        {IdentityVerifying, IdentityAwaitingRedirect, IdentityFailed, IdentityIdle},
	IdentityAwaitingRedirect: {IdentityVerifying, IdentityIdle},
	IdentityVerifying:        {IdentityVerified, IdentityFailed},
	IdentityVerified:         {IdentityIdle, IdentityRequested, IdentityVerifying},
	IdentityFailed:           {IdentityIdle, IdentityRequested, IdentityVerifying},
}

// IdentityMachine tracks the verification of one identity verification id.
// The idle -> verifying edge exists for redirect returns, which arrive in a
// fresh process that never saw the request.
type IdentityMachine struct {
	mu    sync.Mutex
	state IdentityState
	id    string
}

func NewIdentityMachine() *IdentityMachine {
	return &IdentityMachine{}
}

// State returns the state and the id it concerns.
func (m *IdentityMachine) State() (IdentityState, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.id
}

// Requested records the id issued by the backend.
func (m *IdentityMachine) Requested(id string) error {
	return m.move(IdentityRequested, id)
}

// Redirected records that the provider left the page.
func (m *IdentityMachine) Redirected() error {
	return m.move(IdentityAwaitingRedirect, "")
}

// Verifying records that the verify call for id has started. It fails when
// a different id is already being verified.
func (m *IdentityMachine) Verifying(id string) error {
	return m.move(IdentityVerifying, id)
}

func (m *IdentityMachine) Verified() error {
	return m.move(IdentityVerified, "")
}

func (m *IdentityMachine) Failed() error {
	return m.move(IdentityFailed, "")
}

// Reset returns to idle from any state.
func (m *IdentityMachine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = IdentityIdle
	m.id = ""
}

func (m *IdentityMachine) move(next IdentityState, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := false
	for _, s := range identityTransitions[m.state] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return apierrors.InvalidFlowState(fmt.Sprintf("identity verification cannot move from %s to %s", m.state, next))
	}
	if id != "" && m.id != "" && id != m.id && (m.state == IdentityRequested || m.state == IdentityAwaitingRedirect) {
		return apierrors.InvalidFlowState("identity verification id does not match the pending request")
	}
	m.state = next
	if id != "" {
		m.id = id
	}
	if next == IdentityIdle {
		m.id = ""
	}
	return nil
}
