package validator

import (
	"github.com/go-playground/validator/v10"

	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
)

var validate = validator.New()

// ValidateStruct runs struct tag validation and maps failures to a
// validation error carrying per-field details.
func ValidateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, fieldErr := range validateErrs {
				details[fieldErr.Field()] = fieldErr.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
