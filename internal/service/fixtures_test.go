package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/employee-directory/internal/directory"
	"github.com/spec-kit/employee-directory/internal/domain"
	"github.com/spec-kit/employee-directory/internal/events"
	"github.com/spec-kit/employee-directory/internal/repository"
	"github.com/spec-kit/employee-directory/internal/validation"
)

type fixture struct {
	users     *repository.MemoryUserRepository
	employees *repository.MemoryEmployeeRepository
	admin     *domain.Principal
	staff     *domain.Principal

	mu        sync.Mutex
	published []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{users: repository.NewMemoryUserRepository()}
	f.employees = repository.NewMemoryEmployeeRepository(f.users)
	f.admin = f.addUser(t, "Root", "root@example.com", domain.RoleAdmin)
	f.staff = f.addUser(t, "Sam", "sam@example.com", domain.RoleStaff)
	return f
}

func (f *fixture) addUser(t *testing.T, name, email string, role domain.Role) *domain.Principal {
	t.Helper()
	u := &domain.User{Name: name, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return &domain.Principal{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (f *fixture) dispatcher() events.Dispatcher {
	d := events.NewInMemoryDispatcher()
	record := func(_ context.Context, e events.Event) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.published = append(f.published, e)
		return nil
	}
	d.Subscribe(events.EventEmployeeCreated, record)
	d.Subscribe(events.EventEmployeeUpdated, record)
	d.Subscribe(events.EventEmployeeDeleted, record)
	return d
}

func (f *fixture) employeeService(repo repository.EmployeeRepository) *EmployeeService {
	if repo == nil {
		repo = f.employees
	}
	return NewEmployeeService(EmployeeDependencies{EmployeeRepo: repo, Dispatcher: f.dispatcher()})
}

func input(name, email string, salary float64) validation.EmployeeInput {
	return validation.EmployeeInput{
		Name:        name,
		Email:       email,
		Phone:       "1234567890",
		Designation: "Engineer",
		Salary:      &salary,
	}
}

// countingRepo records every storage call that reaches it.
type countingRepo struct {
	repository.EmployeeRepository
	calls atomic.Int32
}

func (r *countingRepo) Create(ctx context.Context, e *domain.Employee) error {
	r.calls.Add(1)
	return r.EmployeeRepository.Create(ctx, e)
}

func (r *countingRepo) Update(ctx context.Context, e *domain.Employee) error {
	r.calls.Add(1)
	return r.EmployeeRepository.Update(ctx, e)
}

func (r *countingRepo) Delete(ctx context.Context, id string) error {
	r.calls.Add(1)
	return r.EmployeeRepository.Delete(ctx, id)
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	r.calls.Add(1)
	return r.EmployeeRepository.GetByID(ctx, id)
}

func (r *countingRepo) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	r.calls.Add(1)
	return r.EmployeeRepository.GetByEmail(ctx, email)
}

func (r *countingRepo) GetEntry(ctx context.Context, id string) (*domain.EmployeeEntry, error) {
	r.calls.Add(1)
	return r.EmployeeRepository.GetEntry(ctx, id)
}

func (r *countingRepo) List(ctx context.Context, p directory.Params) ([]domain.EmployeeEntry, int, error) {
	r.calls.Add(1)
	return r.EmployeeRepository.List(ctx, p)
}

// blindLookupRepo hides existing emails from the pre-check so that only the
// storage constraint can catch a duplicate.
type blindLookupRepo struct {
	repository.EmployeeRepository
}

func (blindLookupRepo) GetByEmail(context.Context, string) (*domain.Employee, error) {
	return nil, repository.ErrNotFound
}
