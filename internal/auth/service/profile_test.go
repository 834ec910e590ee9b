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

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR-fake-image")

func (s *ServiceSuite) TestUploadAvatar() {
	s.T().Run("valid image is uploaded", func(t *testing.T) {
		file := transport.AvatarFile{Name: "me.png", Content: pngBytes, ReplaceExisting: true}
		s.mockTransport.EXPECT().
			UploadAvatar(gomock.Any(), file, gomock.Any()).
			Return(models.AvatarUpload{AvatarURL: "https://cdn.test/me.png"}, nil)

		resp := s.service.UploadAvatar(context.Background(), file, nil)
		require.True(t, resp.Success)
		assert.Equal(t, "https://cdn.test/me.png", resp.Data.AvatarURL)
	})

	s.T().Run("non-image is rejected before upload", func(t *testing.T) {
		resp := s.service.UploadAvatar(context.Background(), transport.AvatarFile{Name: "a.png", Content: []byte("hello")}, nil)
		assert.Equal(t, apierrors.CodeValidation, resp.Code())
	})

	s.T().Run("oversized image is rejected before upload", func(t *testing.T) {
		big := make([]byte, 2048)
		copy(big, pngBytes)
		resp := s.service.UploadAvatar(context.Background(), transport.AvatarFile{Name: "big.png", Content: big}, nil)
		assert.Equal(t, apierrors.CodeValidation, resp.Code())
	})
}

func (s *ServiceSuite) TestDeleteAvatar() {
	s.T().Run("no avatar present is a structured failure", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opDeleteAvatar, gomock.Any()).
			Return(s.payload(map[string]any{"success": false, "message": "No avatar to delete"}), nil)

		resp := s.service.DeleteAvatar(context.Background())
		require.False(t, resp.Success)
		assert.Equal(t, "No avatar to delete", resp.Error.Message)
	})
}

func (s *ServiceSuite) TestDeleteAccount() {
	s.T().Run("success forgets local credentials", func(t *testing.T) {
		s.mockTransport.EXPECT().Mutate(gomock.Any(), opDeleteAccount, gomock.Any()).Return(s.payload(map[string]any{"success": true}), nil)
		s.mockTransport.EXPECT().Reset().Return(nil)

		assert.True(t, s.service.DeleteAccount(context.Background(), models.DeleteAccountRequest{Password: "pw"}).Success)
	})

	s.T().Run("failure keeps local credentials", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opDeleteAccount, gomock.Any()).
			Return(nil, apierrors.GraphQLErrors{{Message: "Incorrect password", Extensions: map[string]any{"code": "BAD_USER_INPUT"}}})

		resp := s.service.DeleteAccount(context.Background(), models.DeleteAccountRequest{Password: "wrong"})
		assert.Equal(t, apierrors.CodeBadUserInput, resp.Code())
	})
}

func (s *ServiceSuite) TestProfileUpdates() {
	s.T().Run("business number dashes are stripped", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opUpdateBusiness, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ transport.Operation, vars transport.Variables) (json.RawMessage, error) {
				input := vars["input"].(models.UpdateBusinessRequest)
				assert.Equal(t, "1234567890", input.Number)
				return s.payload(map[string]any{"success": true}), nil
			})

		resp := s.service.UpdateBusiness(context.Background(), models.UpdateBusinessRequest{Name: "Shop", Number: "123-45-67890"})
		assert.True(t, resp.Success)
	})

	s.T().Run("blank name is rejected", func(t *testing.T) {
		resp := s.service.UpdateUserName(context.Background(), models.UpdateNameRequest{Name: "   "})
		assert.Equal(t, apierrors.CodeValidation, resp.Code())
	})

	s.T().Run("email change returns the pending address", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opRequestEmailChange, transport.Variables{"newEmail": "new@example.com"}).
			Return(s.payload(map[string]any{"success": true, "pendingEmail": "new@example.com"}), nil)

		resp := s.service.RequestEmailChange(context.Background(), models.EmailChangeRequestInput{NewEmail: "New@Example.com"})
		require.True(t, resp.Success)
		assert.Equal(t, "new@example.com", resp.Data.PendingEmail)
	})
}

func (s *ServiceSuite) TestSocialAccounts() {
	s.T().Run("unknown provider is rejected", func(t *testing.T) {
		resp := s.service.UnlinkSocialAccount(context.Background(), models.SocialProvider("myspace"))
		assert.Equal(t, apierrors.CodeValidation, resp.Code())
	})

	s.T().Run("connected providers are served cache-first", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Query(gomock.Any(), opGetConnectedSocialProviders, gomock.Any(), transport.CacheFirst).
			Return(s.payload([]map[string]any{{"provider": "kakao"}}), nil)

		resp := s.service.GetConnectedSocialProviders(context.Background())
		require.True(t, resp.Success)
		assert.True(t, models.HasProvider(resp.Data, models.ProviderKakao))
	})
}
