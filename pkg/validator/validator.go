package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator using go-playground/validator,
// so handlers can validate bound requests with struct tags.
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	return &CustomValidator{v: validator.New()}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
