// Package service adapts the auth backend to the session core. Every method
// issues exactly one backend operation and reports the outcome through
// models.Response; it never touches session state.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
	apierrors "authsession/pkg/api-errors"
	"authsession/pkg/platform/httputil"
)

const defaultAvatarMaxBytes = 5 << 20

type Service struct {
	transport      transport.Transport
	logger         *slog.Logger
	avatarMaxBytes int64
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAvatarMaxBytes bounds avatar uploads. Non-positive values keep the default.
func WithAvatarMaxBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.avatarMaxBytes = n
		}
	}
}

func New(t transport.Transport, opts ...Option) *Service {
	svc := &Service{
		transport:      t,
		avatarMaxBytes: defaultAvatarMaxBytes,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// outcome is the status part every mutation payload carries.
type outcome struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func query[T any](ctx context.Context, s *Service, op transport.Operation, vars transport.Variables, policy transport.FetchPolicy) models.Response[T] {
	raw, err := s.transport.Query(ctx, op, vars, policy)
	if err != nil {
		return models.Fail[T](err)
	}
	var out T
	if err := decode(raw, &out); err != nil {
		return models.Fail[T](err)
	}
	return models.OK(out, "")
}

// mutate runs op and maps a {success:false} payload to OPERATION_FAILED, or
// to the payload's own code when it carries one.
func mutate[T any](ctx context.Context, s *Service, op transport.Operation, vars transport.Variables) models.Response[T] {
	raw, err := s.transport.Mutate(ctx, op, vars)
	if err != nil {
		return models.Fail[T](err)
	}
	var status outcome
	if err := decode(raw, &status); err != nil {
		return models.Fail[T](err)
	}
	if status.Success != nil && !*status.Success {
		code := apierrors.CodeOperationFailed
		if c := apierrors.NormalizeCode(status.Code); c != "" {
			code = c
		}
		msg := status.Message
		if msg == "" {
			msg = "the operation could not be completed"
		}
		return models.Fail[T](apierrors.New(code, msg))
	}
	var out T
	if err := decode(raw, &out); err != nil {
		return models.Fail[T](err)
	}
	return models.OK(out, status.Message)
}

func decode(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apierrors.Wrap(err, apierrors.CodeInternal, "the server returned an unexpected payload")
	}
	return nil
}

// prepare normalizes and validates req so malformed input never reaches the network.
func prepare(req any) error {
	return httputil.PrepareRequest(req)
}

func requireValue(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apierrors.New(apierrors.CodeValidation, field+" is required").WithDetail("field", field)
	}
	return nil
}

// keepTokens stores credentials carried by a successful sign-in payload.
func (s *Service) keepTokens(tokens models.AuthTokens) error {
	if tokens.AccessToken == "" {
		return nil
	}
	if err := s.transport.StoreCredentials(tokens); err != nil {
		return apierrors.Wrap(err, apierrors.CodeInternal, "failed to store credentials")
	}
	return nil
}

// forget drops local credentials. It is best-effort: the backend session is
// already gone or unreachable when it runs.
func (s *Service) forget(ctx context.Context, op string) {
	if err := s.transport.Reset(); err != nil {
		s.logger.WarnContext(ctx, "failed to clear local credentials", "operation", op, "error", err)
	}
}
