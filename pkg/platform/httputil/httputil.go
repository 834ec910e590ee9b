// Package httputil holds the JSON plumbing shared by the client's request
// preparation and the fake backend's REST endpoints.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	apierrors "authsession/pkg/api-errors"
)

// Codes the REST upload endpoint answers with besides the shared ones.
const (
	CodeAvatarExists         apierrors.Code = "AVATAR_EXISTS"
	CodePayloadTooLarge      apierrors.Code = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMediaType apierrors.Code = "UNSUPPORTED_MEDIA_TYPE"
	CodeUnavailable          apierrors.Code = "UNAVAILABLE"
)

// ErrorBody is the REST error shape the client's HTTP classifier parses.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError renders err as {"code","message"} with a status derived from its code.
// Anything that is not an *apierrors.Error is a 500 with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *apierrors.Error
	if errors.As(err, &apiErr) {
		WriteJSON(w, StatusForCode(apiErr.Code), ErrorBody{Code: string(apiErr.Code), Message: apiErr.Error()})
		return
	}
	WriteJSON(w, http.StatusInternalServerError, ErrorBody{
		Code:    string(apierrors.CodeInternal),
		Message: "internal server error",
	})
}

// StatusForCode translates error codes to HTTP status codes.
func StatusForCode(code apierrors.Code) int {
	switch code {
	case apierrors.CodeValidation, apierrors.CodeBadUserInput:
		return http.StatusBadRequest
	case apierrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apierrors.CodeForbidden:
		return http.StatusForbidden
	case apierrors.CodeNotFound:
		return http.StatusNotFound
	case CodeAvatarExists:
		return http.StatusConflict
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case apierrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes a JSON request body into T. A malformed body is a
// BAD_USER_INPUT error; the caller decides how to render it.
func DecodeJSON[T any](r *http.Request) (*T, error) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apierrors.Wrap(err, apierrors.CodeBadUserInput, "invalid request body")
	}
	return &req, nil
}
