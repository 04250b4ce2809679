package auth

import (
	"sort"
	"strings"

	"github.com/spec-kit/employee-directory/internal/domain"
	apperrors "github.com/spec-kit/employee-directory/pkg/util"
)

// RoleSet is the set of roles allowed to perform an operation.
// The empty set admits any authenticated principal.
type RoleSet map[domain.Role]struct{}

// Roles builds a RoleSet from role constants.
func Roles(roles ...domain.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

var (
	// AnyAuthenticated admits every authenticated principal.
	AnyAuthenticated = Roles()
	// AdminOnly admits administrators.
	AdminOnly = Roles(domain.RoleAdmin)
)

// Contains reports whether r is in the set.
func (s RoleSet) Contains(r domain.Role) bool {
	_, ok := s[r]
	return ok
}

// Names returns the role names in sorted order.
func (s RoleSet) Names() []string {
	names := make([]string, 0, len(s))
	for r := range s {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return names
}

// Check decides whether principal may perform an operation requiring one of
// the required roles. A nil error means allow.
func Check(principal *domain.Principal, required RoleSet) error {
	if principal == nil {
		return apperrors.NewUnauthenticated("Authentication required")
	}
	if len(required) == 0 || required.Contains(principal.Role) {
		return nil
	}
	names := required.Names()
	return apperrors.NewForbidden(
		"Access denied. Only "+strings.Join(names, ", ")+" can perform this action.",
		map[string]any{"required_roles": names},
	)
}
