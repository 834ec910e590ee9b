package httputil

import (
	"errors"

	apierrors "authsession/pkg/api-errors"
)

// Validatable is implemented by request types that support validation.
type Validatable interface {
	Validate() error
}

// Normalizable is implemented by request types that trim or canonicalise
// their fields before validation.
type Normalizable interface {
	Normalize()
}

// PrepareRequest normalizes and validates a request before it is sent, so an
// invalid request never reaches the network. Validation failures that are not
// already *apierrors.Error become VALIDATION_ERROR.
func PrepareRequest(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	v, ok := req.(Validatable)
	if !ok {
		return nil
	}
	err := v.Validate()
	if err == nil {
		return nil
	}
	var apiErr *apierrors.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return apierrors.Wrap(err, apierrors.CodeValidation, err.Error())
}
