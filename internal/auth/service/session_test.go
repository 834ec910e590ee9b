package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
	apierrors "authsession/pkg/api-errors"
)

func (s *ServiceSuite) TestGetLoggedInUser() {
	s.T().Run("always bypasses the cache", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Query(gomock.Any(), opGetLoggedInUser, gomock.Nil(), transport.NetworkOnly).
			Return(s.payload(map[string]any{"id": "u-1", "email": "kim@example.com", "role": "admin"}), nil)

		resp := s.service.GetLoggedInUser(context.Background())
		require.True(t, resp.Success)
		require.NotNil(t, resp.Data)
		assert.Equal(t, "u-1", resp.Data.ID)
		assert.Equal(t, models.RoleAdmin, resp.Data.Role)
	})

	s.T().Run("null user is a successful signed-out answer", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Query(gomock.Any(), opGetLoggedInUser, gomock.Any(), gomock.Any()).
			Return(s.payload(nil), nil)

		resp := s.service.GetLoggedInUser(context.Background())
		require.True(t, resp.Success)
		assert.Nil(t, resp.Data)
	})

	s.T().Run("protocol error is classified", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Query(gomock.Any(), opGetLoggedInUser, gomock.Any(), gomock.Any()).
			Return(nil, apierrors.GraphQLErrors{{Message: "Not signed in", Extensions: map[string]any{"code": "UNAUTHENTICATED"}}})

		resp := s.service.GetLoggedInUser(context.Background())
		require.False(t, resp.Success)
		assert.Equal(t, apierrors.CodeUnauthenticated, resp.Code())
		assert.Equal(t, "Not signed in", resp.Error.Message)
	})
}

func (s *ServiceSuite) TestLoginStep1() {
	req := models.LoginRequest{Email: "  Kim@Example.com ", Password: "correct horse"}

	s.T().Run("without 2FA stores the issued tokens", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opLoginStep1, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ transport.Operation, vars transport.Variables) (json.RawMessage, error) {
				input, ok := vars["input"].(models.LoginRequest)
				require.True(t, ok)
				assert.Equal(t, "kim@example.com", input.Email)
				return s.payload(map[string]any{"success": true, "requires2FA": false, "accessToken": "a", "refreshToken": "r"}), nil
			})
		s.mockTransport.EXPECT().StoreCredentials(models.AuthTokens{AccessToken: "a", RefreshToken: "r"}).Return(nil)

		resp := s.service.LoginStep1(context.Background(), req)
		require.True(t, resp.Success)
		assert.False(t, resp.Data.Requires2FA)
	})

	s.T().Run("with 2FA returns the temp token and stores nothing", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opLoginStep1, gomock.Any()).
			Return(s.payload(map[string]any{"success": true, "requires2FA": true, "tempToken": "tmp-1"}), nil)

		resp := s.service.LoginStep1(context.Background(), req)
		require.True(t, resp.Success)
		assert.True(t, resp.Data.Requires2FA)
		assert.Equal(t, "tmp-1", resp.Data.TempToken)
	})

	s.T().Run("invalid input never reaches the network", func(t *testing.T) {
		resp := s.service.LoginStep1(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x"})
		require.False(t, resp.Success)
		assert.Equal(t, apierrors.CodeValidation, resp.Code())
		assert.Equal(t, "email", resp.Error.Details["field"])
	})

	s.T().Run("business failure maps to OPERATION_FAILED", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opLoginStep1, gomock.Any()).
			Return(s.payload(map[string]any{"success": false, "message": "Invalid email or password"}), nil)

		resp := s.service.LoginStep1(context.Background(), req)
		require.False(t, resp.Success)
		assert.Equal(t, apierrors.CodeOperationFailed, resp.Code())
		assert.Equal(t, "Invalid email or password", resp.MessageOr("login failed"))
	})

	s.T().Run("business failure keeps a server supplied code", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opLoginStep1, gomock.Any()).
			Return(s.payload(map[string]any{"success": false, "code": "account_locked", "message": "Locked"}), nil)

		resp := s.service.LoginStep1(context.Background(), req)
		assert.Equal(t, apierrors.Code("ACCOUNT_LOCKED"), resp.Code())
	})

	s.T().Run("token store failure fails the login", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opLoginStep1, gomock.Any()).
			Return(s.payload(map[string]any{"success": true, "accessToken": "a"}), nil)
		s.mockTransport.EXPECT().StoreCredentials(gomock.Any()).Return(errors.New("disk full"))

		resp := s.service.LoginStep1(context.Background(), req)
		require.False(t, resp.Success)
		assert.Equal(t, apierrors.CodeInternal, resp.Code())
	})
}

func (s *ServiceSuite) TestLoginStep2() {
	s.T().Run("stores tokens on success", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opLoginStep2, gomock.Any()).
			Return(s.payload(map[string]any{"success": true, "accessToken": "a2", "refreshToken": "r2"}), nil)
		s.mockTransport.EXPECT().StoreCredentials(models.AuthTokens{AccessToken: "a2", RefreshToken: "r2"}).Return(nil)

		resp := s.service.LoginStep2(context.Background(), models.LoginStep2Request{TempToken: "tmp", Code: "123456"})
		assert.True(t, resp.Success)
	})

	s.T().Run("malformed code is rejected locally", func(t *testing.T) {
		resp := s.service.LoginStep2(context.Background(), models.LoginStep2Request{TempToken: "tmp", Code: "12ab"})
		assert.Equal(t, apierrors.CodeValidation, resp.Code())
	})
}

func (s *ServiceSuite) TestLogout() {
	s.T().Run("clears credentials after success", func(t *testing.T) {
		s.mockTransport.EXPECT().Mutate(gomock.Any(), opLogout, gomock.Any()).Return(s.payload(map[string]any{"success": true}), nil)
		s.mockTransport.EXPECT().Reset().Return(nil)

		assert.True(t, s.service.Logout(context.Background()).Success)
	})

	s.T().Run("clears credentials even when the backend fails", func(t *testing.T) {
		s.mockTransport.EXPECT().Mutate(gomock.Any(), opLogoutAll, gomock.Any()).Return(nil, context.DeadlineExceeded)
		s.mockTransport.EXPECT().Reset().Return(nil)

		resp := s.service.LogoutAll(context.Background())
		require.False(t, resp.Success)
		assert.Equal(t, apierrors.CodeTimeout, resp.Code())
	})
}

func (s *ServiceSuite) TestRefreshToken() {
	s.T().Run("no stored refresh token", func(t *testing.T) {
		s.mockTransport.EXPECT().Credentials().Return(models.AuthTokens{})

		resp := s.service.RefreshToken(context.Background())
		assert.Equal(t, apierrors.CodeUnauthenticated, resp.Code())
	})

	s.T().Run("keeps the refresh token when not rotated", func(t *testing.T) {
		s.mockTransport.EXPECT().Credentials().Return(models.AuthTokens{AccessToken: "old", RefreshToken: "r"})
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opRefreshToken, transport.Variables{"refreshToken": "r"}).
			Return(s.payload(map[string]any{"success": true, "accessToken": "new", "expiresIn": 900}), nil)
		s.mockTransport.EXPECT().StoreCredentials(models.AuthTokens{AccessToken: "new", RefreshToken: "r", ExpiresIn: 900}).Return(nil)

		resp := s.service.RefreshToken(context.Background())
		require.True(t, resp.Success)
		assert.Equal(t, "new", resp.Data.AccessToken)
	})
}

func (s *ServiceSuite) TestPasswordOperations() {
	s.T().Run("change password requires a different new password", func(t *testing.T) {
		resp := s.service.ChangePassword(context.Background(), models.ChangePasswordRequest{
			CurrentPassword: "same-password",
			NewPassword:     "same-password",
		})
		assert.Equal(t, apierrors.CodeValidation, resp.Code())
	})

	s.T().Run("forgot password sends the normalized email", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opForgotPassword, transport.Variables{"email": "kim@example.com"}).
			Return(s.payload(map[string]any{"success": true, "message": "Check your inbox"}), nil)

		resp := s.service.ForgotPassword(context.Background(), models.EmailRequest{Email: "KIM@example.com"})
		require.True(t, resp.Success)
		assert.Equal(t, "Check your inbox", resp.Message)
	})
}
