package orchestrator

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"authsession/internal/auth/models"
	"authsession/internal/auth/store"
	apierrors "authsession/pkg/api-errors"
	"authsession/pkg/testutil"
)

// stubService implements only what a test touches; any other call panics
// on the nil embedded interface.
type stubService struct {
	AuthService
	mock.Mock
}

func (s *stubService) GetLoggedInUser(ctx context.Context) models.Response[*models.User] {
	args := s.Called(ctx)
	return args.Get(0).(models.Response[*models.User])
}

func (s *stubService) UpdateUserName(ctx context.Context, req models.UpdateNameRequest) models.Response[models.Empty] {
	args := s.Called(ctx, req)
	if fn, ok := args.Get(0).(func()); ok {
		fn()
	}
	return args.Get(1).(models.Response[models.Empty])
}

func newTestOrchestrator(t *testing.T, svc AuthService) *Orchestrator {
	t.Helper()
	o, err := New(svc, store.New())
	require.NoError(t, err)
	t.Cleanup(o.Close)
	return o
}

func signedIn() models.Response[*models.User] {
	return models.OK(testutil.NewUserBuilder().WithID("user-1").WithEmail("ada@example.com").WithName("Ada").Build(), "")
}

func TestGuardRecoversPanics(t *testing.T) {
	svc := new(stubService)
	svc.On("GetLoggedInUser", mock.Anything).Return(signedIn())
	svc.On("UpdateUserName", mock.Anything, mock.Anything).
		Return(func() { panic("resolver exploded") }, models.Response[models.Empty]{}).Once()
	o := newTestOrchestrator(t, svc)
	require.True(t, o.Initialize(context.Background()).Success)

	resp := o.UpdateUserName(context.Background(), models.UpdateNameRequest{Name: "Ada L."})

	assert.False(t, resp.Success)
	assert.Equal(t, apierrors.CodeUnknown, resp.Code())
	assert.Equal(t, "resolver exploded", resp.Error.Message)
	session := o.Session()
	assert.False(t, session.IsLoading)
	assert.Equal(t, "resolver exploded", session.Error)
	assert.True(t, session.Authenticated())

	release, ok := o.guard.TryEnter(o.scope)
	require.True(t, ok, "the guard must be released after a panic")
	release()
}

func TestGuardFillsMissingFailureMessage(t *testing.T) {
	svc := new(stubService)
	svc.On("GetLoggedInUser", mock.Anything).Return(signedIn())
	svc.On("UpdateUserName", mock.Anything, mock.Anything).
		Return(nil, models.Response[models.Empty]{Error: &apierrors.Error{Code: apierrors.CodeOperationFailed}}).Once()
	svc.On("UpdateUserName", mock.Anything, mock.Anything).
		Return(nil, models.Response[models.Empty]{}).Once()
	o := newTestOrchestrator(t, svc)
	require.True(t, o.Initialize(context.Background()).Success)

	blank := o.UpdateUserName(context.Background(), models.UpdateNameRequest{Name: "Ada L."})
	assert.Equal(t, apierrors.CodeOperationFailed, blank.Code())
	assert.Equal(t, msgUpdateName, blank.Error.Message)

	missing := o.UpdateUserName(context.Background(), models.UpdateNameRequest{Name: "Ada L."})
	assert.Equal(t, apierrors.CodeUnknown, missing.Code())
	assert.Equal(t, msgUpdateName, o.Session().Error)
}

func TestFailedCheckResolvesUndeterminedSessionToSignedOut(t *testing.T) {
	svc := new(stubService)
	svc.On("GetLoggedInUser", mock.Anything).
		Return(models.Fail[*models.User](apierrors.New(apierrors.CodeNetwork, "unable to reach the server"))).Once()
	o := newTestOrchestrator(t, svc)

	resp := o.Initialize(context.Background())

	assert.False(t, resp.Success)
	session := o.Session()
	assert.True(t, session.Initialized)
	assert.True(t, session.Determined())
	assert.False(t, session.Authenticated())
	assert.Equal(t, "unable to reach the server", session.Error)
}

func TestFailedCheckKeepsDeterminedSession(t *testing.T) {
	svc := new(stubService)
	svc.On("GetLoggedInUser", mock.Anything).Return(signedIn()).Once()
	svc.On("GetLoggedInUser", mock.Anything).
		Return(models.Fail[*models.User](apierrors.New(apierrors.CodeTimeout, "the request timed out"))).Once()
	o := newTestOrchestrator(t, svc)
	require.True(t, o.Initialize(context.Background()).Success)

	o.CheckSession(context.Background())

	session := o.Session()
	assert.True(t, session.Authenticated())
	assert.Equal(t, "user-1", session.User.ID)
	assert.Equal(t, "the request timed out", session.Error)
}

func TestUnauthenticatedCheckSignsOut(t *testing.T) {
	svc := new(stubService)
	svc.On("GetLoggedInUser", mock.Anything).Return(signedIn()).Once()
	svc.On("GetLoggedInUser", mock.Anything).
		Return(models.Fail[*models.User](apierrors.New(apierrors.CodeUnauthenticated, "session expired"))).Once()
	o := newTestOrchestrator(t, svc)
	require.True(t, o.Initialize(context.Background()).Success)

	o.CheckSession(context.Background())

	assert.False(t, o.Session().Authenticated())
	assert.Nil(t, o.Session().User)
}

func TestConcurrentMutationsReachTheServiceOnce(t *testing.T) {
	hold := make(chan struct{})
	svc := new(stubService)
	svc.On("GetLoggedInUser", mock.Anything).Return(signedIn())
	svc.On("UpdateUserName", mock.Anything, mock.Anything).
		Return(func() { <-hold }, models.OK(models.Empty{}, "")).Once()
	o := newTestOrchestrator(t, svc)
	require.True(t, o.Initialize(context.Background()).Success)

	const callers = 16
	var returned atomic.Int32
	go func() {
		defer close(hold)
		assert.Eventually(t, func() bool { return returned.Load() == callers-1 }, 2*time.Second, time.Millisecond)
	}()

	result := testutil.RunConcurrent(callers, func(int) error {
		defer returned.Add(1)
		return o.UpdateUserName(context.Background(), models.UpdateNameRequest{Name: "Ada L."}).Err()
	})

	assert.Equal(t, int32(1), result.Successes)
	assert.Equal(t, int32(callers-1), result.Rejections)
	assert.Zero(t, result.Failures)
	svc.AssertNumberOfCalls(t, "UpdateUserName", 1)
	assert.False(t, o.Session().IsLoading)
}

func TestNewerResyncWaitsForOlderWrite(t *testing.T) {
	o := newTestOrchestrator(t, new(stubService))
	ctx := context.Background()
	older := o.generation.Next()
	newer := o.generation.Next()
	olderUser := testutil.NewUserBuilder().WithID("user-1").WithName("Ada").Build()
	newerUser := testutil.NewUserBuilder().WithID("user-1").WithName("Ada Lovelace").Build()

	done := make(chan struct{})
	var fired, overtook atomic.Bool
	unsubscribe := o.View().Subscribe(func(s models.Session) {
		if s.User == nil || s.User.Name != "Ada" || !fired.CompareAndSwap(false, true) {
			return
		}
		go func() {
			defer close(done)
			o.applySession(ctx, newer, models.OK(newerUser, ""))
		}()
		runtime.Gosched()
		select {
		case <-done:
			overtook.Store(true)
		default:
		}
	})
	defer unsubscribe()

	o.applySession(ctx, older, models.OK(olderUser, ""))
	<-done

	assert.False(t, overtook.Load(), "the newer re-sync must wait for the older write to finish")
	assert.Equal(t, "Ada Lovelace", o.Session().User.Name)
	assert.Equal(t, newer, o.generation.Latest())
}
