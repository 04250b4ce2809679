package service

import (
	"context"
	"errors"

	"github.com/spec-kit/employee-directory/internal/domain"
	"github.com/spec-kit/employee-directory/internal/repository"
	"github.com/spec-kit/employee-directory/internal/validation"
	apperrors "github.com/spec-kit/employee-directory/pkg/util"
)

const duplicateEmailMessage = "Employee with this email already exists"

// EmailLookup finds the employee currently holding an email, if any.
type EmailLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
}

// UniquenessEnforcer keeps employee emails unique across the directory.
//
// Reserve is an early check that gives callers a clean Conflict in the
// common case. It cannot close the race between two concurrent writers; the
// storage unique index does, and Translate turns its violation into the same
// Conflict.
type UniquenessEnforcer struct {
	employees EmailLookup
}

// NewUniquenessEnforcer builds an enforcer over the given lookup.
func NewUniquenessEnforcer(employees EmailLookup) *UniquenessEnforcer {
	return &UniquenessEnforcer{employees: employees}
}

// Reserve fails with Conflict when another employee already holds email.
// excludeID names the record being updated, which may keep its own email.
func (u *UniquenessEnforcer) Reserve(ctx context.Context, email, excludeID string) error {
	email = validation.NormalizeEmail(email)
	existing, err := u.employees.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.MapError(err)
	}
	if excludeID != "" && existing.ID == excludeID {
		return nil
	}
	return duplicateEmail(email)
}

// Translate maps a storage uniqueness violation for email onto Conflict and
// leaves every other error to the generic mapping.
func (u *UniquenessEnforcer) Translate(err error, email string) error {
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return duplicateEmail(validation.NormalizeEmail(email))
	}
	return apperrors.MapError(err)
}

func duplicateEmail(email string) error {
	return apperrors.NewConflict(duplicateEmailMessage, map[string]any{"email": email})
}
