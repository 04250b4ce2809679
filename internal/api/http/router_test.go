package http

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/employee-directory/internal/api/dto"
	"github.com/spec-kit/employee-directory/internal/api/http/handlers"
	"github.com/spec-kit/employee-directory/internal/auth"
	"github.com/spec-kit/employee-directory/internal/config"
	"github.com/spec-kit/employee-directory/internal/observability"
	"github.com/spec-kit/employee-directory/internal/repository"
	"github.com/spec-kit/employee-directory/internal/service"
)

type testServer struct {
	app        *fiber.App
	adminToken string
	staffToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	users := repository.NewMemoryUserRepository()
	employees := repository.NewMemoryEmployeeRepository(users)
	authService := service.NewAuthService(config.AuthConfig{
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
		BcryptCost:     bcrypt.MinCost,
	}, users, logger)

	_, err := authService.EnsureAdmin(ctx, "Root", "root@example.com", "changeme123")
	require.NoError(t, err)
	_, adminToken, _, err := authService.Login(ctx, "root@example.com", "changeme123")
	require.NoError(t, err)
	_, staffToken, _, err := authService.Register(ctx, "Sam", "sam@example.com", "password1")
	require.NoError(t, err)

	app := NewApp(ServerConfig{
		Name:           "test",
		RequestTimeout: time.Second,
		Logger:         logger,
		Metrics:        metrics,
		Routes: RouteConfig{
			Health: handlers.NewHealthHandler("test", "dev", nil),
			Auth:   handlers.NewAuthHandler(authService),
			Employees: handlers.NewEmployeesHandler(
				service.NewEmployeeService(service.EmployeeDependencies{EmployeeRepo: employees, Metrics: metrics, Logger: logger}),
				service.NewDirectoryService(service.DirectoryDependencies{EmployeeRepo: employees, Metrics: metrics, Logger: logger}),
			),
			AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), users),
		},
	})
	return &testServer{app: app, adminToken: adminToken, staffToken: staffToken}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

type employeeEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    dto.EmployeeResponse `json:"data"`
}

type listEnvelope struct {
	Success    bool                   `json:"success"`
	Data       []dto.EmployeeResponse `json:"data"`
	Pagination dto.Pagination         `json:"pagination"`
}

func ada() map[string]any {
	return map[string]any{
		"name":        "Ada",
		"email":       "ada@x.com",
		"phone":       "1234567890",
		"designation": "Engineer",
		"salary":      1000,
	}
}

func decodeError(t *testing.T, body []byte) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.False(t, resp.Success)
	return resp
}

func TestCreateThenDuplicate(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/employees", s.staffToken, ada())
	require.Equal(t, http.StatusCreated, status, string(body))
	var created employeeEnvelope
	require.NoError(t, json.Unmarshal(body, &created))
	assert.True(t, created.Success)
	assert.Equal(t, "Employee created successfully", created.Message)
	assert.NotEmpty(t, created.Data.ID)
	require.NotNil(t, created.Data.CreatedBy)
	assert.Equal(t, "Sam", created.Data.CreatedBy.Name)

	dup := ada()
	dup["name"] = "Someone Else"
	dup["email"] = "ADA@x.com"
	status, body = s.do(t, http.MethodPost, "/employees", s.staffToken, dup)
	assert.Equal(t, http.StatusBadRequest, status)
	errResp := decodeError(t, body)
	assert.Equal(t, "CONFLICT", errResp.Error.Code)
	assert.Equal(t, "Employee with this email already exists", errResp.Message)
}

func TestCreateValidationFailure(t *testing.T) {
	s := newTestServer(t)
	bad := ada()
	bad["phone"] = "123"
	bad["salary"] = -5

	status, body := s.do(t, http.MethodPost, "/employees", s.staffToken, bad)
	assert.Equal(t, http.StatusBadRequest, status)
	errResp := decodeError(t, body)
	assert.Equal(t, "VALIDATION_FAILED", errResp.Error.Code)
	fields, ok := errResp.Error.Details["errors"].([]any)
	require.True(t, ok)
	assert.Len(t, fields, 2)
}

func TestEmployeesRequireAuthentication(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", decodeError(t, body).Error.Code)

	status, _ = s.do(t, http.MethodGet, "/employees", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestListPaginationEnvelope(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{"Cid", "Amy", "Bob"} {
		in := ada()
		in["name"] = name
		in["email"] = name + "@x.com"
		status, body := s.do(t, http.MethodPost, "/employees", s.staffToken, in)
		require.Equal(t, http.StatusCreated, status, string(body))
	}

	status, body := s.do(t, http.MethodGet, "/employees?page=2&limit=2&sort=name&order=asc", s.staffToken, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var list listEnvelope
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Cid", list.Data[0].Name)
	assert.Equal(t, dto.Pagination{Total: 3, Page: 2, Pages: 2, Limit: 2}, list.Pagination)

	status, body = s.do(t, http.MethodGet, "/employees?page=3&limit=2", s.staffToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Empty(t, list.Data)
	assert.Equal(t, 3, list.Pagination.Total)

	status, body = s.do(t, http.MethodGet, "/employees?search=AMY", s.staffToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Amy", list.Data[0].Name)
}

func TestListHugePageIsEmpty(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodPost, "/employees", s.staffToken, ada())
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = s.do(t, http.MethodGet, "/employees?page=9223372036854775807&limit=20", s.staffToken, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var list listEnvelope
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Empty(t, list.Data)
	assert.Equal(t, dto.Pagination{Total: 1, Page: math.MaxInt64, Pages: 1, Limit: 20}, list.Pagination)
}

func TestCreateAcceptsNumericStringSalary(t *testing.T) {
	s := newTestServer(t)
	in := ada()
	in["salary"] = "1000.555"
	status, body := s.do(t, http.MethodPost, "/employees", s.staffToken, in)
	require.Equal(t, http.StatusCreated, status, string(body))
	var created employeeEnvelope
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, 1000.56, created.Data.Salary)

	for _, salary := range []any{"abc", "", true, nil, "1e3"} {
		in := ada()
		in["email"] = "other@x.com"
		in["salary"] = salary
		status, body := s.do(t, http.MethodPost, "/employees", s.staffToken, in)
		require.Equal(t, http.StatusBadRequest, status, salary)
		errResp := decodeError(t, body)
		assert.Equal(t, "VALIDATION_FAILED", errResp.Error.Code, salary)
		fields, ok := errResp.Error.Details["errors"].([]any)
		require.True(t, ok)
		require.Len(t, fields, 1)
		assert.Equal(t, "salary", fields[0].(map[string]any)["field"])
	}
}

func TestListRejectsBadParams(t *testing.T) {
	s := newTestServer(t)
	for _, q := range []string{"page=abc", "limit=0", "page=-1", "sort=phone", "order=sideways", "limit=101"} {
		status, body := s.do(t, http.MethodGet, "/employees?"+q, s.staffToken, nil)
		assert.Equal(t, http.StatusBadRequest, status, q)
		assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, body).Error.Code, q)
	}
}

func TestGetUpdateDelete(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodPost, "/employees", s.staffToken, ada())
	require.Equal(t, http.StatusCreated, status)
	var created employeeEnvelope
	require.NoError(t, json.Unmarshal(body, &created))
	path := "/employees/" + created.Data.ID

	status, _ = s.do(t, http.MethodGet, path, s.staffToken, nil)
	assert.Equal(t, http.StatusOK, status)

	update := ada()
	update["designation"] = "Manager"
	status, body = s.do(t, http.MethodPut, path, s.staffToken, update)
	require.Equal(t, http.StatusOK, status, string(body))
	var updated employeeEnvelope
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "Manager", updated.Data.Designation)

	status, body = s.do(t, http.MethodDelete, path, s.staffToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", decodeError(t, body).Error.Code)

	status, _ = s.do(t, http.MethodGet, path, s.staffToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodDelete, path, s.adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = s.do(t, http.MethodGet, path, s.staffToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Employee not found", decodeError(t, body).Message)

	status, _ = s.do(t, http.MethodDelete, path, s.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "sam@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", decodeError(t, body).Error.Code)

	status, body = s.do(t, http.MethodGet, "/auth/me", s.adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var me struct {
		Data dto.UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, "admin", me.Data.Role)

	status, _ = s.do(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestOpsEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body := s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "employee_directory_http_requests_total")

	status, body = s.do(t, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decodeError(t, body).Error.Code)
}
