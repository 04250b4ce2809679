package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/employee-directory/internal/domain"
	apperrors "github.com/spec-kit/employee-directory/pkg/util"
)

func TestCheck(t *testing.T) {
	admin := &domain.Principal{UserID: "u1", Role: domain.RoleAdmin}
	staff := &domain.Principal{UserID: "u2", Role: domain.RoleStaff}

	tests := []struct {
		name      string
		principal *domain.Principal
		required  RoleSet
		wantCode  string
	}{
		{name: "absent principal is unauthenticated", principal: nil, required: AnyAuthenticated, wantCode: apperrors.CodeUnauthenticated},
		{name: "absent principal on admin route is unauthenticated", principal: nil, required: AdminOnly, wantCode: apperrors.CodeUnauthenticated},
		{name: "empty set admits staff", principal: staff, required: AnyAuthenticated},
		{name: "empty set admits admin", principal: admin, required: AnyAuthenticated},
		{name: "admin passes admin gate", principal: admin, required: AdminOnly},
		{name: "staff denied admin gate", principal: staff, required: AdminOnly, wantCode: apperrors.CodeForbidden},
		{name: "unknown role denied", principal: &domain.Principal{Role: domain.Role("Admin")}, required: AdminOnly, wantCode: apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.principal, tt.required)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestCheckForbiddenListsRequiredRoles(t *testing.T) {
	err := Check(&domain.Principal{Role: domain.RoleStaff}, Roles(domain.RoleAdmin))
	de := apperrors.ToDomainError(err)
	assert.Equal(t, []string{"admin"}, de.Details["required_roles"])
	assert.Equal(t, "Access denied. Only admin can perform this action.", de.Message)
}
