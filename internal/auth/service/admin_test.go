package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
	apierrors "authsession/pkg/api-errors"
)

func (s *ServiceSuite) TestAdminReads() {
	s.T().Run("user listing applies paging defaults and is cache-first", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Query(gomock.Any(), opGetAllUsers, gomock.Any(), transport.CacheFirst).
			DoAndReturn(func(_ context.Context, _ transport.Operation, vars transport.Variables, _ transport.FetchPolicy) (json.RawMessage, error) {
				filter := vars["filter"].(models.ListUsersFilter)
				assert.Equal(t, 1, filter.Page)
				assert.Equal(t, 20, filter.PageSize)
				return s.payload(map[string]any{"users": []any{}, "total": 0, "page": 1, "pageSize": 20}), nil
			})

		resp := s.service.GetAllUsers(context.Background(), models.ListUsersFilter{PageSize: 1000})
		assert.True(t, resp.Success)
	})

	s.T().Run("user detail bypasses the cache", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Query(gomock.Any(), opGetUserByID, transport.Variables{"id": "u-9"}, transport.NetworkOnly).
			Return(s.payload(map[string]any{"id": "u-9"}), nil)

		resp := s.service.GetUserByID(context.Background(), "u-9")
		require.True(t, resp.Success)
		assert.Equal(t, "u-9", resp.Data.ID)
	})

	s.T().Run("stats are cache-first", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Query(gomock.Any(), opGetUsersStats, gomock.Any(), transport.CacheFirst).
			Return(s.payload(map[string]any{"total": 12, "admins": 2}), nil)

		resp := s.service.GetUsersStats(context.Background())
		require.True(t, resp.Success)
		assert.Equal(t, 12, resp.Data.Total)
	})
}

func (s *ServiceSuite) TestInvitations() {
	s.T().Run("invite unwraps the created invitation", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opInviteUser, gomock.Any()).
			Return(s.payload(map[string]any{
				"success":    true,
				"message":    "Invitation sent",
				"invitation": map[string]any{"id": "inv-1", "email": "new@example.com", "status": "pending"},
			}), nil)

		resp := s.service.InviteUser(context.Background(), models.InviteUserRequest{
			Email: "new@example.com", Role: models.RoleUser, UserType: models.UserTypeIndividual,
		})
		require.True(t, resp.Success)
		assert.Equal(t, "inv-1", resp.Data.ID)
		assert.Equal(t, models.InvitationPending, resp.Data.Status)
		assert.Equal(t, "Invitation sent", resp.Message)
	})

	s.T().Run("duplicate invite surfaces the server message verbatim", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opInviteUser, gomock.Any()).
			Return(nil, apierrors.GraphQLErrors{{
				Message:    "An invitation is already pending for new@example.com",
				Extensions: map[string]any{"code": "BAD_USER_INPUT"},
			}})

		resp := s.service.InviteUser(context.Background(), models.InviteUserRequest{
			Email: "new@example.com", Role: models.RoleUser, UserType: models.UserTypeIndividual,
		})
		require.False(t, resp.Success)
		assert.Equal(t, "An invitation is already pending for new@example.com", resp.Error.Message)
	})

	s.T().Run("resend of a cancelled invitation is a failure", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opResendInvitation, transport.Variables{"id": "inv-2"}).
			Return(s.payload(map[string]any{"success": false, "message": "Cannot resend a cancelled invitation"}), nil)

		resp := s.service.ResendInvitation(context.Background(), "inv-2")
		require.False(t, resp.Success)
		assert.Equal(t, apierrors.CodeOperationFailed, resp.Code())
	})

	s.T().Run("accepting stores the issued tokens", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opAcceptInvitation, gomock.Any()).
			Return(s.payload(map[string]any{"success": true, "accessToken": "a", "refreshToken": "r"}), nil)
		s.mockTransport.EXPECT().StoreCredentials(models.AuthTokens{AccessToken: "a", RefreshToken: "r"}).Return(nil)

		resp := s.service.AcceptInvitation(context.Background(), models.AcceptInvitationRequest{
			Token: "tok", Name: "Lee", Password: "long-enough-pw",
		})
		assert.True(t, resp.Success)
	})

	s.T().Run("ids are required", func(t *testing.T) {
		assert.Equal(t, apierrors.CodeValidation, s.service.CancelInvitation(context.Background(), "").Code())
		assert.Equal(t, apierrors.CodeValidation, s.service.DeleteUserByAdmin(context.Background(), "").Code())
	})
}

func (s *ServiceSuite) TestUpdateUserByAdmin() {
	name := "Park"
	s.mockTransport.EXPECT().
		Mutate(gomock.Any(), opUpdateUserByAdmin, gomock.Any()).
		Return(s.payload(map[string]any{"success": true, "user": map[string]any{"id": "u-3", "name": "Park"}}), nil)

	resp := s.service.UpdateUserByAdmin(context.Background(), models.UpdateUserByAdminRequest{UserID: "u-3", Name: &name})
	require.True(s.T(), resp.Success)
	assert.Equal(s.T(), "Park", resp.Data.Name)
}
