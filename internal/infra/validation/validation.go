// Package validation configures the struct validator shared by the use cases.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// TagBasicEmail checks the loose local@domain.tld shape accepted at signup.
const TagBasicEmail = "basic_email"

var basicEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation(TagBasicEmail, isBasicEmail)

	return v
}

// IsBasicEmail reports whether s has the local@domain.tld shape.
func IsBasicEmail(s string) bool {
	return basicEmailPattern.MatchString(s)
}

func isBasicEmail(fl validator.FieldLevel) bool {
	return IsBasicEmail(fl.Field().String())
}
