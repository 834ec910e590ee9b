package apierrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"

	httpErrors "authsession/pkg/http-errors"
)

// APIErrorsSuite tests the canonical error shape and the classifier.
//
// Every backend-calling operation funnels failures through Classify, so the
// mapping from each failure shape to exactly one code must stay stable.
type APIErrorsSuite struct {
	suite.Suite
}

func TestAPIErrorsSuite(t *testing.T) {
	suite.Run(t, new(APIErrorsSuite))
}

func (s *APIErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "user not found"}
		s.Equal("user not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeNotFound}
		s.Equal("NOT_FOUND", err.Error())
	})
}

func (s *APIErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		s.True(errors.Is(New(CodeAlreadyLoading, "a"), AlreadyLoading()))
	})

	s.Run("does not match different codes", func() {
		s.False(errors.Is(New(CodeTimeout, "x"), New(CodeNetwork, "x")))
	})

	s.Run("works through a wrapping chain", func() {
		inner := New(CodeUnauthenticated, "original")
		wrapped := fmt.Errorf("outer: %w", inner)
		s.True(errors.Is(wrapped, &Error{Code: CodeUnauthenticated}))
		s.True(HasCode(wrapped, CodeUnauthenticated))
	})
}

func (s *APIErrorsSuite) TestWrapPreservesCode() {
	inner := New(CodeBadUserInput, "email taken")
	wrapped := Wrap(inner, CodeInternal, "register failed")
	s.Equal(CodeBadUserInput, wrapped.Code)
	s.Equal("register failed", wrapped.Message)
	s.ErrorIs(wrapped, inner)

	plain := Wrap(errors.New("boom"), CodeInternal, "register failed")
	s.Equal(CodeInternal, plain.Code)
}

func (s *APIErrorsSuite) TestClassifyGraphQL() {
	s.Run("uses extensions code and keeps every message", func() {
		err := GraphQLErrors{
			{Message: "Invitation already pending", Extensions: map[string]any{"code": "bad_user_input"}},
			{Message: "second"},
		}
		got := Classify(err)
		s.Equal(CodeBadUserInput, got.Code)
		s.Equal("Invitation already pending", got.Message)
		s.Equal([]string{"Invitation already pending", "second"}, got.Details[DetailGraphQLErrors])
	})

	s.Run("falls back to GRAPHQL_ERROR without extensions", func() {
		got := Classify(GraphQLErrors{{Message: "syntax"}})
		s.Equal(CodeGraphQL, got.Code)
	})

	s.Run("wrapped graphql errors are still recognised", func() {
		got := Classify(fmt.Errorf("query: %w", GraphQLErrors{{Message: "nope", Extensions: map[string]any{"code": "FORBIDDEN"}}}))
		s.Equal(CodeForbidden, got.Code)
	})
}

func (s *APIErrorsSuite) TestClassifyHTTP() {
	s.Run("structured body wins over status", func() {
		got := Classify(&httpErrors.StatusError{StatusCode: 400, Body: []byte(`{"code":"FILE_TOO_LARGE","message":"too big"}`)})
		s.Equal(Code("FILE_TOO_LARGE"), got.Code)
		s.Equal("too big", got.Message)
		s.Equal(400, got.Details["status"])
	})

	s.Run("status maps when body is empty", func() {
		got := Classify(&httpErrors.StatusError{StatusCode: 401})
		s.Equal(CodeUnauthenticated, got.Code)
		s.Equal("request failed with status 401", got.Message)
	})
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func (s *APIErrorsSuite) TestClassifyNetwork() {
	s.Run("context cancellation", func() {
		s.Equal(CodeCancelled, Classify(context.Canceled).Code)
	})

	s.Run("deadline", func() {
		s.Equal(CodeTimeout, Classify(fmt.Errorf("do: %w", context.DeadlineExceeded)).Code)
	})

	s.Run("net timeout", func() {
		s.Equal(CodeTimeout, Classify(&url.Error{Op: "Post", URL: "http://x", Err: timeoutErr{}}).Code)
	})

	s.Run("connection refused", func() {
		err := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}
		got := Classify(err)
		s.Equal(CodeNetwork, got.Code)
		s.ErrorIs(got, err)
	})
}

func (s *APIErrorsSuite) TestClassifyUnknown() {
	s.Nil(Classify(nil))
	got := Classify(errors.New("weird"))
	s.Equal(CodeUnknown, got.Code)
	s.Equal("weird", got.Message)

	panicked := FromPanic("kaboom")
	s.Equal(CodeUnknown, panicked.Code)
	s.Equal("kaboom", panicked.Message)
}

func (s *APIErrorsSuite) TestBestMessage() {
	s.Equal("fallback", BestMessage(nil, "fallback"))
	s.Equal("structured", BestMessage(New(CodeInternal, "structured"), "fallback"))

	gql := &Error{Code: CodeGraphQL, Details: map[string]any{DetailGraphQLErrors: []string{"first", "second"}}}
	s.Equal("first", BestMessage(gql, "fallback"))
	s.Equal("fallback", BestMessage(&Error{Code: CodeInternal}, "fallback"))
}
