package common

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags on a request payload and folds failures into
// the validation error class so handlers map them to 400.
func Validate(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return Errorf("%v: %w", err, ErrValidation)
	}
	return nil
}
