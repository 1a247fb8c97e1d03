package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// BaseError is a structured error carrying a stable machine-readable code
// alongside the human-readable message.
type BaseError struct {
	Code      string
	Message   string
	LocaleKey string
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError constructs a BaseError.
func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

// NewFieldRequiredError reports a missing required field on an inbound payload.
func NewFieldRequiredError(field, localeKey string) *BaseError {
	return &BaseError{
		Code:      "FIELD_REQUIRED",
		Message:   fmt.Sprintf("field %q is required", field),
		LocaleKey: localeKey,
	}
}

// ValidationErrors maps field names to their validation failures.
type ValidationErrors map[string]error

// ProcessValidatorErrors converts go-playground validator errors into
// BaseErrors keyed by struct field. localeKeyFor may return "" when the
// field has no translation entry.
func ProcessValidatorErrors(errs validator.ValidationErrors, localeKeyFor func(field string) string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fieldErr := range errs {
		field := fieldErr.Field()
		localeKey := ""
		if localeKeyFor != nil {
			localeKey = localeKeyFor(field)
		}
		switch fieldErr.Tag() {
		case "required":
			out[field] = NewFieldRequiredError(field, localeKey)
		default:
			out[field] = NewError(
				"FIELD_INVALID",
				fmt.Sprintf("field %q failed on the %q rule", field, fieldErr.Tag()),
				localeKey,
			)
		}
	}
	return out
}

// Messages flattens validation errors into plain per-field messages for
// API responses.
func (v ValidationErrors) Messages() map[string]string {
	out := make(map[string]string, len(v))
	for field, err := range v {
		out[field] = err.Error()
	}
	return out
}
