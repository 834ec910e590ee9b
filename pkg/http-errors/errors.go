package httpErrors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Code values mirror the session core's error codes so the classifier can adopt them directly.
type Code string

const (
	CodeBadUserInput    Code = "BAD_USER_INPUT"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodePayloadTooLarge Code = "PAYLOAD_TOO_LARGE"
	CodeRateLimited     Code = "RATE_LIMITED"
	CodeTimeout         Code = "TIMEOUT"
	CodeInternal        Code = "INTERNAL_SERVER_ERROR"
	CodeHTTP            Code = "HTTP_ERROR"
)

// StatusError is a non-2xx HTTP response captured by the transport.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d", e.StatusCode)
}

// CodeForStatus maps an HTTP status to a stable code.
func CodeForStatus(status int) Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeBadUserInput
	case http.StatusUnauthorized:
		return CodeUnauthenticated
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusRequestEntityTooLarge:
		return CodePayloadTooLarge
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return CodeTimeout
	}
	if status >= 500 {
		return CodeInternal
	}
	return CodeHTTP
}

// Body is the structured part of an HTTP error body, when the server sent one.
type Body struct {
	Code    string
	Message string
}

// ParseBody extracts a code and message from the error body shapes the backend emits:
// {"code","message"}, {"error":{"code","message"}}, {"error":"...","message":"..."}
// and plain text.
func ParseBody(raw []byte) Body {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return Body{}
	}

	var flat struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal([]byte(trimmed), &flat); err != nil {
		if len(trimmed) > 200 {
			trimmed = trimmed[:200]
		}
		return Body{Message: trimmed}
	}

	out := Body{Code: flat.Code, Message: flat.Message}
	if len(flat.Error) == 0 {
		return out
	}
	var nested struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(flat.Error, &nested); err == nil {
		if out.Code == "" {
			out.Code = nested.Code
		}
		if out.Message == "" {
			out.Message = nested.Message
		}
		return out
	}
	var asString string
	if err := json.Unmarshal(flat.Error, &asString); err == nil && out.Message == "" {
		out.Message = asString
	}
	return out
}
