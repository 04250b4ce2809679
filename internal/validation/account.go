package validation

import (
	"strings"

	apperrors "github.com/spec-kit/employee-directory/pkg/util"
)

// MinPasswordLength is the shortest accepted account password.
const MinPasswordLength = 8

// Registration checks a sign-up payload and returns the trimmed name and
// normalized email.
func Registration(name, email, password string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	var errs []apperrors.FieldError
	if name == "" {
		errs = append(errs, apperrors.FieldError{Field: "name", Message: "Name is required"})
	}
	if !emailPattern.MatchString(email) {
		errs = append(errs, apperrors.FieldError{Field: "email", Message: "Valid email is required"})
	}
	if len(password) < MinPasswordLength {
		errs = append(errs, apperrors.FieldError{Field: "password", Message: "Password must be at least 8 characters"})
	}
	if len(errs) > 0 {
		return "", "", apperrors.NewValidationError(errs)
	}
	return name, email, nil
}
