package service

//go:generate mockgen -source=../transport/transport.go -destination=../transport/mocks/transport_mock.go -package=mocks Transport

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"authsession/internal/auth/transport/mocks"
)

type ServiceSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockTransport *mocks.MockTransport
	service       *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockTransport = mocks.NewMockTransport(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.mockTransport, WithLogger(logger), WithAvatarMaxBytes(1024))
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// payload encodes v as the raw root field value the transport would return.
func (s *ServiceSuite) payload(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	require.NoError(s.T(), err)
	return raw
}
