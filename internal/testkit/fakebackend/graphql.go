package fakebackend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"authsession/pkg/platform/httputil"
	"authsession/pkg/platform/middleware/request"
)

// resolver answers one GraphQL root field. Its result is the field's value.
type resolver func(ctx context.Context, vars json.RawMessage) (any, error)

type graphQLRequest struct {
	Query         string          `json:"query"`
	OperationName string          `json:"operationName"`
	Variables     json.RawMessage `json:"variables"`
}

// gqlError becomes one entry of the response's errors array.
type gqlError struct {
	Code    string
	Message string
}

func (e *gqlError) Error() string { return e.Message }

func errUnauthenticated() error {
	return &gqlError{Code: "UNAUTHENTICATED", Message: "Authentication required"}
}

func errForbidden() error {
	return &gqlError{Code: "FORBIDDEN", Message: "Administrator access required"}
}

func errBadInput(msg string) error {
	return &gqlError{Code: "BAD_USER_INPUT", Message: msg}
}

func errNotFound(msg string) error {
	return &gqlError{Code: "NOT_FOUND", Message: msg}
}

// failure is the {success:false} payload of a mutation rejected by a business rule.
func failure(code, message string) map[string]any {
	return map[string]any{"success": false, "code": code, "message": message}
}

// success is the flat {success:true, message, ...fields} mutation payload.
// fields must marshal to a JSON object, or be nil.
func success(message string, fields any) (map[string]any, error) {
	out := map[string]any{}
	if fields != nil {
		raw, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
	}
	out["success"] = true
	out["message"] = message
	return out, nil
}

// bind decodes the variables of a request into T.
func bind[T any](vars json.RawMessage) (T, error) {
	var out T
	if len(vars) == 0 || string(vars) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(vars, &out); err != nil {
		return out, errBadInput("Variables do not match the operation")
	}
	return out, nil
}

func (b *Backend) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[graphQLRequest](r)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []map[string]any{{"message": "Malformed GraphQL request", "extensions": map[string]any{"code": "BAD_REQUEST"}}},
		})
		return
	}
	ctx := r.Context()
	name := req.OperationName
	request.SetOperation(ctx, name)

	if err := b.enter(ctx, name); err != nil {
		b.writeGraphQLError(w, r, name, err)
		return
	}
	resolve, ok := b.resolvers[name]
	if !ok {
		b.writeGraphQLError(w, r, name, &gqlError{Code: "GRAPHQL_VALIDATION_FAILED", Message: "Cannot query field \"" + name + "\""})
		return
	}
	data, err := resolve(ctx, req.Variables)
	if err != nil {
		b.writeGraphQLError(w, r, name, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": map[string]any{name: data}})
}

func (b *Backend) writeGraphQLError(w http.ResponseWriter, r *http.Request, name string, err error) {
	var ge *gqlError
	if !errors.As(err, &ge) {
		b.logger.ErrorContext(r.Context(), "resolver failed", "operation", name, "error", err)
		ge = &gqlError{Code: "INTERNAL_SERVER_ERROR", Message: "Internal server error"}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"data": nil,
		"errors": []map[string]any{{
			"message":    ge.Message,
			"path":       []string{name},
			"extensions": map[string]any{"code": ge.Code},
		}},
	})
}
