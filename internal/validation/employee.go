// Package validation normalizes and checks caller-supplied fields before they
// reach any service logic or storage.
package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spec-kit/employee-directory/internal/domain"
	apperrors "github.com/spec-kit/employee-directory/pkg/util"
)

// MaxSalary is the largest salary storage holds (NUMERIC(14,2)).
const MaxSalary = 999999999999.99

var (
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// EmployeeInput is the raw create/update payload.
type EmployeeInput struct {
	Name        string
	Email       string
	Phone       string
	Designation string
	Salary      *float64
}

// NormalizeEmail case-folds and trims an email address for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email, after normalization, has a local part and domain.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(NormalizeEmail(email))
}

// Employee validates in and returns the normalized fields. All field problems
// are reported together in a single ValidationFailed error.
func Employee(in EmployeeInput) (domain.EmployeeFields, error) {
	fields := domain.EmployeeFields{
		Name:        strings.TrimSpace(in.Name),
		Email:       NormalizeEmail(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Designation: strings.TrimSpace(in.Designation),
	}

	var errs []apperrors.FieldError
	if fields.Name == "" {
		errs = append(errs, apperrors.FieldError{Field: "name", Message: "Name is required"})
	}
	if !emailPattern.MatchString(fields.Email) {
		errs = append(errs, apperrors.FieldError{Field: "email", Message: "Valid email is required"})
	}
	if !phonePattern.MatchString(fields.Phone) {
		errs = append(errs, apperrors.FieldError{Field: "phone", Message: "Phone must be a valid 10-digit number"})
	}
	if fields.Designation == "" {
		errs = append(errs, apperrors.FieldError{Field: "designation", Message: "Designation is required"})
	}
	switch {
	case in.Salary == nil || math.IsNaN(*in.Salary) || math.IsInf(*in.Salary, 0):
		errs = append(errs, apperrors.FieldError{Field: "salary", Message: "Salary must be a number"})
	case *in.Salary < 0:
		errs = append(errs, apperrors.FieldError{Field: "salary", Message: "Salary cannot be negative"})
	case roundCents(*in.Salary) > MaxSalary:
		errs = append(errs, apperrors.FieldError{Field: "salary", Message: "Salary must not exceed 999999999999.99"})
	default:
		fields.Salary = roundCents(*in.Salary)
	}

	if len(errs) > 0 {
		return domain.EmployeeFields{}, apperrors.NewValidationError(errs)
	}
	return fields, nil
}

// roundCents rounds a non-negative v to two decimal places, half up, on its
// shortest decimal form. That is the text pgx sends for NUMERIC columns, so
// the result equals what Postgres stores.
func roundCents(v float64) float64 {
	whole, frac, _ := strings.Cut(strconv.FormatFloat(v, 'f', -1, 64), ".")
	if len(frac) <= 2 {
		return v
	}
	rounded, err := strconv.ParseFloat(whole+"."+frac[:2], 64)
	if err != nil {
		return v
	}
	if frac[2] >= '5' {
		rounded, _ = strconv.ParseFloat(strconv.FormatFloat(rounded+0.01, 'f', 2, 64), 64)
	}
	return rounded
}
