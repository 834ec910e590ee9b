package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "authsession/pkg/api-errors"
)

func TestLoginMachine(t *testing.T) {
	t.Run("password only login", func(t *testing.T) {
		m := NewLoginMachine()
		require.NoError(t, m.CanStart())
		require.NoError(t, m.PasswordAccepted())
		assert.Equal(t, LoginAuthenticated, m.State())
	})

	t.Run("second factor requires the issued handle", func(t *testing.T) {
		m := NewLoginMachine()
		pending, err := m.RequireSecondFactor("tmp-1", "kim@example.com")
		require.NoError(t, err)
		assert.Equal(t, LoginAwaitingSecondFactor, m.State())
		assert.Equal(t, "tmp-1", pending.TempToken())

		forged := &PendingLogin{tempToken: "tmp-1"}
		assert.True(t, apierrors.HasCode(m.SecondFactorAccepted(forged), apierrors.CodeInvalidFlowState))
		assert.Equal(t, LoginAwaitingSecondFactor, m.State())

		require.NoError(t, m.SecondFactorAccepted(pending))
		assert.Equal(t, LoginAuthenticated, m.State())
		assert.Nil(t, m.Pending())

		assert.True(t, apierrors.HasCode(m.Check(pending), apierrors.CodeInvalidFlowState), "handle is consumed")
	})

	t.Run("new login while awaiting second factor is refused", func(t *testing.T) {
		m := NewLoginMachine()
		_, err := m.RequireSecondFactor("tmp-1", "kim@example.com")
		require.NoError(t, err)

		assert.True(t, apierrors.HasCode(m.CanStart(), apierrors.CodeInvalidFlowState))
		assert.Error(t, m.PasswordAccepted())

		m.Cancel()
		assert.Equal(t, LoginIdle, m.State())
		assert.NoError(t, m.CanStart())
	})

	t.Run("second step while idle is refused", func(t *testing.T) {
		m := NewLoginMachine()
		assert.True(t, apierrors.HasCode(m.Check(nil), apierrors.CodeInvalidFlowState))
	})

	t.Run("sign out resets from any state", func(t *testing.T) {
		m := NewLoginMachine()
		_, _ = m.RequireSecondFactor("tmp", "a@b.c")
		m.SignedOut()
		assert.Equal(t, LoginIdle, m.State())
		assert.Nil(t, m.Pending())
	})
}

func TestTwoFactorMachine(t *testing.T) {
	t.Run("setup flow", func(t *testing.T) {
		m := NewTwoFactorMachine(NewMemoryMirror(), "2fa")
		require.NoError(t, m.Transition(SetupState()))
		require.NoError(t, m.Transition(VerifyState("qr")))
		st, ok := m.State()
		require.True(t, ok)
		assert.Equal(t, "qr", st.QRCode)

		require.NoError(t, m.Transition(VerifyState("qr")), "a rejected code stays in verify")
		require.NoError(t, m.Transition(CompleteState()))
		assert.True(t, m.Active(StepComplete))
	})

	t.Run("illegal transitions are refused", func(t *testing.T) {
		m := NewTwoFactorMachine(nil, "2fa")
		err := m.Transition(VerifyState("qr"))
		assert.True(t, apierrors.HasCode(err, apierrors.CodeInvalidFlowState))

		require.NoError(t, m.Transition(DisableConfirmState(true)))
		assert.Error(t, m.Transition(VerifyState("qr")))
	})

	t.Run("malformed states are refused", func(t *testing.T) {
		m := NewTwoFactorMachine(nil, "2fa")
		require.NoError(t, m.Transition(SetupState()))
		assert.Error(t, m.Transition(TwoFactorState{Step: StepVerify}))
	})

	t.Run("QR payload survives a remount through the mirror", func(t *testing.T) {
		mirror := NewMemoryMirror()
		first := NewTwoFactorMachine(mirror, "2fa")
		require.NoError(t, first.Transition(SetupState()))
		require.NoError(t, first.Transition(VerifyState("qr-payload")))

		second := NewTwoFactorMachine(mirror, "2fa")
		st, err := second.Expect(StepVerify)
		require.NoError(t, err)
		assert.Equal(t, "qr-payload", st.QRCode)

		second.Reset()
		_, ok := mirror.Load("2fa")
		assert.False(t, ok)
		_, ok = NewTwoFactorMachine(mirror, "2fa").State()
		assert.False(t, ok)
	})

	t.Run("expect reports the current step", func(t *testing.T) {
		m := NewTwoFactorMachine(nil, "2fa")
		_, err := m.Expect(StepDisableConfirm)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected")
	})
}

func TestIdentityMachine(t *testing.T) {
	t.Run("inline completion", func(t *testing.T) {
		m := NewIdentityMachine()
		require.NoError(t, m.Requested("iv-1"))
		require.NoError(t, m.Verifying("iv-1"))
		require.NoError(t, m.Verified())
		st, id := m.State()
		assert.Equal(t, IdentityVerified, st)
		assert.Equal(t, "iv-1", id)
	})

	t.Run("redirect return in a fresh machine", func(t *testing.T) {
		m := NewIdentityMachine()
		require.NoError(t, m.Verifying("iv-2"))
		assert.True(t, apierrors.HasCode(m.Verifying("iv-2"), apierrors.CodeInvalidFlowState), "second verify is refused")
		require.NoError(t, m.Failed())
	})

	t.Run("mismatched id is refused", func(t *testing.T) {
		m := NewIdentityMachine()
		require.NoError(t, m.Requested("iv-1"))
		require.NoError(t, m.Redirected())
		assert.Error(t, m.Verifying("iv-other"))
	})

	t.Run("reset", func(t *testing.T) {
		m := NewIdentityMachine()
		require.NoError(t, m.Requested("iv-1"))
		m.Reset()
		st, id := m.State()
		assert.Equal(t, IdentityIdle, st)
		assert.Empty(t, id)
	})
}
