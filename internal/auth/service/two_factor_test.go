package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
	apierrors "authsession/pkg/api-errors"
)

func (s *ServiceSuite) TestTwoFactor() {
	s.T().Run("generate returns the QR payload", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opGenerate2FAQR, gomock.Any()).
			Return(s.payload(map[string]any{"success": true, "qrCode": "data:image/png;base64,AAA", "secret": "JBSWY3DP"}), nil)

		resp := s.service.Generate2FAQR(context.Background())
		require.True(t, resp.Success)
		assert.Equal(t, "data:image/png;base64,AAA", resp.Data.QRCode)
	})

	s.T().Run("enable with wrong code surfaces the server message", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opEnable2FA, transport.Variables{"code": "000000"}).
			Return(s.payload(map[string]any{"success": false, "message": "Invalid verification code"}), nil)

		resp := s.service.Enable2FA(context.Background(), models.CodeRequest{Code: "000000"})
		require.False(t, resp.Success)
		assert.Equal(t, "Invalid verification code", resp.Error.Message)
	})

	s.T().Run("disable without password omits the variable", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opDisable2FA, transport.Variables{}).
			Return(s.payload(map[string]any{"success": true}), nil)

		assert.True(t, s.service.Disable2FA(context.Background(), "").Success)
	})

	s.T().Run("status is never cached", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Query(gomock.Any(), opGet2FAStatus, gomock.Any(), transport.NetworkOnly).
			Return(s.payload(map[string]any{"enabled": true}), nil)

		resp := s.service.Get2FAStatus(context.Background())
		require.True(t, resp.Success)
		assert.True(t, resp.Data.Enabled)
	})

	s.T().Run("emergency code needs a temp token", func(t *testing.T) {
		resp := s.service.RequestEmergencyEmailCode(context.Background(), "")
		assert.Equal(t, apierrors.CodeValidation, resp.Code())
	})
}

func (s *ServiceSuite) TestIdentityVerification() {
	s.T().Run("request returns the verification id", func(t *testing.T) {
		s.mockTransport.EXPECT().
			Mutate(gomock.Any(), opRequestIdentityVerification, gomock.Any()).
			Return(s.payload(map[string]any{"success": true, "identityVerificationId": "iv-1", "status": "READY"}), nil)

		resp := s.service.RequestIdentityVerification(context.Background())
		require.True(t, resp.Success)
		assert.Equal(t, "iv-1", resp.Data.IdentityVerificationID)
		assert.Equal(t, models.IdentityVerificationReady, resp.Data.Status)
	})

	s.T().Run("verify requires an id", func(t *testing.T) {
		resp := s.service.VerifyIdentityVerification(context.Background(), " ")
		assert.Equal(t, apierrors.CodeValidation, resp.Code())
	})

	s.T().Run("business number is validated locally", func(t *testing.T) {
		resp := s.service.ValidateBusinessNumber(context.Background(), models.BusinessNumberRequest{Number: "12-34"})
		assert.Equal(t, apierrors.CodeValidation, resp.Code())
	})
}
