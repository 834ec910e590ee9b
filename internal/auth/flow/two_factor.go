package flow

import (
	"fmt"
	"sync"

	apierrors "authsession/pkg/api-errors"
)

// TwoFactorStep is the tag of TwoFactorState.
type TwoFactorStep string

const (
	StepSetup          TwoFactorStep = "setup"
	StepVerify         TwoFactorStep = "verify"
	StepDisableConfirm TwoFactorStep = "disable_confirm"
	StepComplete       TwoFactorStep = "complete"
)

// TwoFactorState is a tagged union: QRCode is set only for StepVerify and
// NeedsPassword only for StepDisableConfirm. Build values with the
// constructors below.
type TwoFactorState struct {
	Step          TwoFactorStep `json:"step"`
	QRCode        string        `json:"qrCode,omitempty"`
	NeedsPassword bool          `json:"needsPassword,omitempty"`
}

func SetupState() TwoFactorState { return TwoFactorState{Step: StepSetup} }

func VerifyState(qrCode string) TwoFactorState {
	return TwoFactorState{Step: StepVerify, QRCode: qrCode}
}

func DisableConfirmState(needsPassword bool) TwoFactorState {
	return TwoFactorState{Step: StepDisableConfirm, NeedsPassword: needsPassword}
}

func CompleteState() TwoFactorState { return TwoFactorState{Step: StepComplete} }

// valid reports whether the payload fields agree with the tag.
func (s TwoFactorState) valid() bool {
	switch s.Step {
	case StepSetup, StepComplete:
		return s.QRCode == "" && !s.NeedsPassword
	case StepVerify:
		return s.QRCode != "" && !s.NeedsPassword
	case StepDisableConfirm:
		return s.QRCode == ""
	}
	return false
}

// stepNone is the absence of a flow.
const stepNone TwoFactorStep = ""

var twoFactorTransitions = map[TwoFactorStep][]TwoFactorStep{
	stepNone:           {StepSetup, StepDisableConfirm},
	StepSetup:          {StepVerify, StepSetup},
	StepVerify:         {StepComplete, StepVerify, StepSetup},
	StepDisableConfirm: {StepComplete, StepDisableConfirm},
	StepComplete:       {StepSetup, StepDisableConfirm},
}

// TwoFactorMachine holds the enrolment or removal flow in progress. Every
// state change is written through to the mirror, and a new machine
// rehydrates from it, so a QR payload survives a remount.
type TwoFactorMachine struct {
	mu     sync.Mutex
	state  *TwoFactorState
	mirror Mirror
	key    string
}

// NewTwoFactorMachine restores any state mirrored under key.
func NewTwoFactorMachine(mirror Mirror, key string) *TwoFactorMachine {
	if mirror == nil {
		mirror = NewMemoryMirror()
	}
	m := &TwoFactorMachine{mirror: mirror, key: key}
	if saved, ok := mirror.Load(key); ok && saved.valid() {
		m.state = &saved
	}
	return m
}

// State returns the current state, or false when no flow is active.
func (m *TwoFactorMachine) State() (TwoFactorState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return TwoFactorState{}, false
	}
	return *m.state, true
}

// Active reports whether the flow sits at step.
func (m *TwoFactorMachine) Active(step TwoFactorStep) bool {
	st, ok := m.State()
	return ok && st.Step == step
}

// Transition moves to next if the transition table allows it.
func (m *TwoFactorMachine) Transition(next TwoFactorState) error {
	if !next.valid() {
		return apierrors.InvalidFlowState(fmt.Sprintf("malformed two-factor state %q", next.Step))
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current := stepNone
	if m.state != nil {
		current = m.state.Step
	}
	allowed := false
	for _, step := range twoFactorTransitions[current] {
		if step == next.Step {
			allowed = true
			break
		}
	}
	if !allowed {
		return apierrors.InvalidFlowState(fmt.Sprintf("two-factor flow cannot move from %q to %q", current, next.Step))
	}
	m.state = &next
	m.mirror.Save(m.key, next)
	return nil
}

// Expect fails unless the flow sits at step.
func (m *TwoFactorMachine) Expect(step TwoFactorStep) (TwoFactorState, error) {
	st, ok := m.State()
	if !ok || st.Step != step {
		have := stepNone
		if ok {
			have = st.Step
		}
		return TwoFactorState{}, apierrors.InvalidFlowState(fmt.Sprintf("two-factor flow is at %q, expected %q", have, step))
	}
	return st, nil
}

// Reset discards the flow and its mirror entry.
func (m *TwoFactorMachine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	m.mirror.Clear(m.key)
}
