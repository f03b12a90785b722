package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct runs tag-based validation and converts the first violation into a
// field-level *Error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &Error{
			Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
			Message: "failed " + fe.Tag() + " check",
		}
	}
	return err
}

// IsValidationError reports whether err is (or wraps) a field-level Error.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}
