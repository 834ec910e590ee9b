package apierrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	httpErrors "authsession/pkg/http-errors"
)

// DetailGraphQLErrors holds every message of a GraphQL error list, in order.
const DetailGraphQLErrors = "graphql_errors"

// GraphQLError is one entry of a GraphQL response "errors" array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLErrors is the protocol-level failure list returned alongside (or instead of) data.
type GraphQLErrors []GraphQLError

func (g GraphQLErrors) Error() string {
	if len(g) == 0 {
		return "graphql: empty error list"
	}
	if len(g) == 1 {
		return "graphql: " + g[0].Message
	}
	return fmt.Sprintf("graphql: %s (and %d more)", g[0].Message, len(g)-1)
}

// Classify normalizes any failure into exactly one *Error.
// A nil error classifies to nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var gqlErrs GraphQLErrors
	if errors.As(err, &gqlErrs) {
		return FromGraphQL(gqlErrs)
	}

	var statusErr *httpErrors.StatusError
	if errors.As(err, &statusErr) {
		return FromHTTP(statusErr)
	}

	if netErr := FromNetwork(err); netErr != nil {
		return netErr
	}

	return &Error{Code: CodeUnknown, Message: err.Error(), Err: err}
}

// FromGraphQL maps a GraphQL error list. The first entry decides the code and message;
// all messages are kept in Details.
func FromGraphQL(errs GraphQLErrors) *Error {
	if len(errs) == 0 {
		return &Error{Code: CodeGraphQL, Message: "the server returned an empty error list"}
	}
	first := errs[0]
	code := CodeGraphQL
	if raw, ok := first.Extensions["code"].(string); ok {
		if c := NormalizeCode(raw); c != "" {
			code = c
		}
	}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Message)
	}
	details := map[string]any{DetailGraphQLErrors: messages}
	if field, ok := first.Extensions["field"].(string); ok && field != "" {
		details["field"] = field
	}
	msg := first.Message
	if msg == "" {
		msg = string(code)
	}
	return &Error{Code: code, Message: msg, Details: details, Err: errs}
}

// FromHTTP maps a non-2xx HTTP response, preferring a structured error body when present.
func FromHTTP(se *httpErrors.StatusError) *Error {
	body := httpErrors.ParseBody(se.Body)
	code := Code(httpErrors.CodeForStatus(se.StatusCode))
	if c := NormalizeCode(body.Code); c != "" {
		code = c
	}
	msg := body.Message
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", se.StatusCode)
	}
	return &Error{
		Code:    code,
		Message: msg,
		Details: map[string]any{"status": se.StatusCode},
		Err:     se,
	}
}

// FromNetwork maps transport-level failures. It returns nil when err is not one.
func FromNetwork(err error) *Error {
	switch {
	case errors.Is(err, context.Canceled):
		return &Error{Code: CodeCancelled, Message: "the request was cancelled", Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: CodeTimeout, Message: "the request timed out", Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Code: CodeTimeout, Message: "the request timed out", Err: err}
	}
	var urlErr *url.Error
	var opErr *net.OpError
	if errors.As(err, &urlErr) || errors.As(err, &opErr) || errors.As(err, &netErr) {
		return &Error{Code: CodeNetwork, Message: "unable to reach the server, check your connection", Err: err}
	}
	return nil
}

// FromPanic wraps a recovered panic value.
func FromPanic(v any) *Error {
	if err, ok := v.(error); ok {
		return &Error{Code: CodeUnknown, Message: err.Error(), Err: err}
	}
	return &Error{Code: CodeUnknown, Message: fmt.Sprint(v)}
}

// FirstGraphQLMessage returns the first GraphQL message recorded in Details, if any.
func (e *Error) FirstGraphQLMessage() string {
	if e == nil {
		return ""
	}
	msgs, ok := e.Details[DetailGraphQLErrors].([]string)
	if !ok || len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

// BestMessage picks the most specific message available: the structured message,
// then the first GraphQL message, then fallback.
func BestMessage(e *Error, fallback string) string {
	if e == nil {
		return fallback
	}
	if e.Message != "" {
		return e.Message
	}
	if m := e.FirstGraphQLMessage(); m != "" {
		return m
	}
	return fallback
}
