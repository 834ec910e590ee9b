package apierrors

import (
	"errors"
	"strings"
)

// Code is a stable error category surfaced to callers of the session core.
// Server-defined codes from GraphQL extensions are carried verbatim.
type Code string

const (
	// Client-side lock rejection. Not a backend failure.
	CodeAlreadyLoading Code = "ALREADY_LOADING"

	// Transport failures.
	CodeNetwork   Code = "NETWORK_ERROR"
	CodeTimeout   Code = "TIMEOUT"
	CodeCancelled Code = "CANCELLED"
	CodeHTTP      Code = "HTTP_ERROR"

	// Protocol-level failures (GraphQL extensions.code or HTTP status class).
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeBadUserInput    Code = "BAD_USER_INPUT"
	CodeInternal        Code = "INTERNAL_SERVER_ERROR"
	CodeGraphQL         Code = "GRAPHQL_ERROR"

	// Business-rule and client-side failures.
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeOperationFailed  Code = "OPERATION_FAILED"
	CodeInvalidFlowState Code = "INVALID_FLOW_STATE"
	CodeUnknown          Code = "UNKNOWN_ERROR"
)

// Error is the canonical failure shape produced by the classifier.
// It is created per failed operation, surfaced once and discarded.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new error wrapping an existing one.
// If the wrapped error is already an *Error, its code is preserved.
func Wrap(err error, code Code, msg string) *Error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Details: existing.Details, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// WithDetail returns a copy of e carrying an extra detail entry.
func (e *Error) WithDetail(key string, value any) *Error {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

// HasCode checks if err is an *Error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// AlreadyLoading is returned when a mutation is rejected because another is in flight.
func AlreadyLoading() *Error {
	return New(CodeAlreadyLoading, "another operation is already in progress")
}

// InvalidFlowState is returned when a flow is driven out of order.
func InvalidFlowState(msg string) *Error {
	return New(CodeInvalidFlowState, msg)
}

// NormalizeCode upper-cases and trims a server supplied code.
func NormalizeCode(raw string) Code {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return Code(strings.ToUpper(raw))
}
