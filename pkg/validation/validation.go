package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "authsession/pkg/api-errors"
	s "authsession/pkg/string"
)

var (
	otpPattern   = regexp.MustCompile(`^[0-9]{6}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\- ]{6,18}[0-9]$`)
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		return otpPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate validates a struct and returns a VALIDATION_ERROR naming the first bad field.
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		apiErr := apierrors.New(apierrors.CodeValidation, ErrorMessage(err))
		if field := firstField(err); field != "" {
			apiErr = apiErr.WithDetail("field", field)
		}
		return apiErr
	}
	return nil
}

func firstField(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return ""
	}
	return s.ToSnakeCase(validationErrs[0].StructField())
}

// ErrorMessage converts a validator error into a human-readable message
func ErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request"
	}

	fe := validationErrs[0]
	fieldName := fe.Field()
	if fieldName == "" {
		fieldName = fe.StructField()
	}
	field := s.ToSnakeCase(fieldName)

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "url":
		return fmt.Sprintf("%s must be a valid url", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "otp":
		return fmt.Sprintf("%s must be a 6-digit code", field)
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", field)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, s.ToSnakeCase(fe.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
