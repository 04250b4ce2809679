package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/employee-directory/internal/api/http"
	"github.com/spec-kit/employee-directory/internal/api/http/handlers"
	"github.com/spec-kit/employee-directory/internal/auth"
	"github.com/spec-kit/employee-directory/internal/config"
	"github.com/spec-kit/employee-directory/internal/observability"
	"github.com/spec-kit/employee-directory/internal/repository"
	"github.com/spec-kit/employee-directory/internal/service"
	apperrors "github.com/spec-kit/employee-directory/pkg/util"
	"github.com/spec-kit/employee-directory/pkg/view"
)

func startServer(t *testing.T) string {
	t.Helper()
	logger := zap.NewNop()
	users := repository.NewMemoryUserRepository()
	employees := repository.NewMemoryEmployeeRepository(users)
	authService := service.NewAuthService(config.AuthConfig{
		JWTSecret:      "client-test",
		AccessTokenTTL: time.Hour,
		BcryptCost:     bcrypt.MinCost,
	}, users, logger)
	_, err := authService.EnsureAdmin(context.Background(), "Root", "root@example.com", "changeme123")
	require.NoError(t, err)

	app := httptransport.NewApp(httptransport.ServerConfig{
		Name:    "client-test",
		Logger:  logger,
		Metrics: observability.NewMetrics(),
		Routes: httptransport.RouteConfig{
			Health: handlers.NewHealthHandler("client-test", "dev", nil),
			Auth:   handlers.NewAuthHandler(authService),
			Employees: handlers.NewEmployeesHandler(
				service.NewEmployeeService(service.EmployeeDependencies{EmployeeRepo: employees}),
				service.NewDirectoryService(service.DirectoryDependencies{EmployeeRepo: employees}),
			),
			AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), users),
		},
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestClientRoundTrip(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	staff := New(baseURL)
	require.NoError(t, staff.Register(ctx, "Sam", "sam@example.com", "password1"))

	for _, in := range []view.Input{
		{Name: "Amy", Email: "amy@x.com", Phone: "1234567890", Designation: "Engineer", Salary: 500},
		{Name: "Bob", Email: "bob@x.com", Phone: "1234567890", Designation: "Designer", Salary: 400},
		{Name: "Cid", Email: "cid@x.com", Phone: "1234567890", Designation: "Engineer", Salary: 600},
	} {
		_, err := staff.Create(ctx, in)
		require.NoError(t, err)
	}

	page, err := staff.List(ctx, view.Query{Sort: "salary", Order: "desc", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)
	require.Len(t, page.Employees, 2)
	assert.Equal(t, "Cid", page.Employees[0].Name)
	require.NotNil(t, page.Employees[0].CreatedBy)
	assert.Equal(t, "Sam", page.Employees[0].CreatedBy.Name)

	_, err = staff.Create(ctx, view.Input{Name: "Dup", Email: "AMY@x.com", Phone: "1234567890", Designation: "X", Salary: 1})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeConflict, de.Code)
	assert.Equal(t, "Employee with this email already exists", de.Message)

	victim := page.Employees[1]
	err = staff.Delete(ctx, victim.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "got %v", err)

	admin := New(baseURL)
	require.NoError(t, admin.Login(ctx, "root@example.com", "changeme123"))
	require.NoError(t, admin.Delete(ctx, victim.ID))

	_, err = staff.Get(ctx, victim.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), "got %v", err)
}

func TestClientWithoutTokenIsUnauthenticated(t *testing.T) {
	baseURL := startServer(t)
	_, err := New(baseURL).List(context.Background(), view.Query{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated), "got %v", err)
}

func TestClientUnreachableServerIsUnavailable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = New("http://"+addr, WithTimeout(time.Second)).List(context.Background(), view.Query{})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeUnavailable, de.Code)
	assert.True(t, de.Retryable)
}

func TestDirectoryOverClient(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	c := New(baseURL)
	require.NoError(t, c.Register(ctx, "Sam", "sam@example.com", "password1"))
	d := view.New(c)

	_, err := d.Create(ctx, view.Input{Name: "zed", Email: "zed@x.com", Phone: "1234567890", Designation: "Engineer", Salary: 1})
	require.NoError(t, err)
	_, err = d.Create(ctx, view.Input{Name: "Ann", Email: "ann@x.com", Phone: "1234567890", Designation: "Manager", Salary: 2})
	require.NoError(t, err)

	page, err := d.Load(ctx, view.Query{})
	require.NoError(t, err)
	require.Len(t, page.Employees, 2)

	sorted, err := d.Resort("name", "desc")
	require.NoError(t, err)
	assert.Equal(t, "zed", sorted[0].Name)

	counts := view.DesignationCounts(sorted)
	assert.Equal(t, []view.DesignationCount{{Designation: "Engineer", Count: 1}, {Designation: "Manager", Count: 1}}, counts)

	_, err = d.Create(ctx, view.Input{Name: "Bea", Email: "bea@x.com", Phone: "1234567890", Designation: "Manager", Salary: 3})
	require.NoError(t, err)
	page, err = d.Load(ctx, view.Query{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total, "mutation forces a fresh query")
	assert.Equal(t, []string{"zed", "Bea", "Ann"}, []string{page.Employees[0].Name, page.Employees[1].Name, page.Employees[2].Name})

	var pages []string
	page, err = d.Load(ctx, view.Query{Limit: 1})
	require.NoError(t, err)
	pages = append(pages, page.Employees[0].Name)
	for n := 2; n <= page.Pages; n++ {
		next, err := d.GoTo(ctx, n)
		require.NoError(t, err)
		require.Len(t, next.Employees, 1)
		pages = append(pages, next.Employees[0].Name)
	}
	assert.Equal(t, []string{"zed", "Bea", "Ann"}, pages, "paging keeps the active sort")
}
