package repository

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/spec-kit/employee-directory/pkg/util"
)

var (
	// ErrNotFound is returned when no record has the requested id or email.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a write violates an email unique constraint.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrUnavailable wraps connection-level storage failures.
	ErrUnavailable = apperrors.ErrUnavailable
)

const pgUniqueViolation = "23505"

const (
	employeesEmailConstraint = "employees_email_lower_key"
	usersEmailConstraint     = "users_email_lower_key"
)

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

// classify maps driver errors onto the repository sentinels. Errors Postgres
// reported itself are returned unchanged; network and pool failures become
// ErrUnavailable and timeouts become context.DeadlineExceeded.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// validID reports whether id can name a stored record. Malformed ids can never
// match anything and are reported as not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
