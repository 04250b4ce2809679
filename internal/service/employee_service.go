package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/auth"
	"github.com/spec-kit/employee-directory/internal/domain"
	"github.com/spec-kit/employee-directory/internal/events"
	"github.com/spec-kit/employee-directory/internal/observability"
	"github.com/spec-kit/employee-directory/internal/repository"
	"github.com/spec-kit/employee-directory/internal/validation"
	apperrors "github.com/spec-kit/employee-directory/pkg/util"
)

// EmployeeService runs employee mutations and single-record reads.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	unique     *UniquenessEnforcer
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	timeout    time.Duration
	now        func() time.Time
}

// EmployeeDependencies bundles collaborators for the employee service.
type EmployeeDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	// QueryTimeout bounds the storage calls of one operation. Zero means no bound.
	QueryTimeout time.Duration
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:  deps.EmployeeRepo,
		unique:     NewUniquenessEnforcer(deps.EmployeeRepo),
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		timeout:    deps.QueryTimeout,
		now:        time.Now,
	}
}

// Create validates input and stores a new employee owned by principal.
func (s *EmployeeService) Create(ctx context.Context, principal *domain.Principal, input validation.EmployeeInput) (entry *domain.EmployeeEntry, err error) {
	defer func() { s.record("create", err) }()

	if err := auth.Check(principal, auth.AnyAuthenticated); err != nil {
		return nil, err
	}
	fields, err := validation.Employee(input)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.unique.Reserve(ctx, fields.Email, ""); err != nil {
		return nil, err
	}

	employee := &domain.Employee{CreatedBy: principal.UserID}
	employee.Apply(fields)
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, s.unique.Translate(err, fields.Email)
	}

	s.publish(ctx, events.EventEmployeeCreated, employee.ID, principal)
	return &domain.EmployeeEntry{
		Employee: *employee,
		Creator:  &domain.Creator{ID: principal.UserID, Name: principal.Name, Email: principal.Email},
	}, nil
}

// Get returns one employee with its creator.
func (s *EmployeeService) Get(ctx context.Context, principal *domain.Principal, id string) (*domain.EmployeeEntry, error) {
	if err := auth.Check(principal, auth.AnyAuthenticated); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	entry, err := s.employees.GetEntry(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, id)
	}
	return entry, nil
}

// Update replaces every mutable field of the employee with id.
func (s *EmployeeService) Update(ctx context.Context, principal *domain.Principal, id string, input validation.EmployeeInput) (entry *domain.EmployeeEntry, err error) {
	defer func() { s.record("update", err) }()

	if err := auth.Check(principal, auth.AnyAuthenticated); err != nil {
		return nil, err
	}
	fields, err := validation.Employee(input)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, id)
	}
	if validation.NormalizeEmail(employee.Email) != fields.Email {
		if err := s.unique.Reserve(ctx, fields.Email, employee.ID); err != nil {
			return nil, err
		}
	}

	employee.Apply(fields)
	if err := s.employees.Update(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, s.unique.Translate(err, fields.Email)
	}

	s.publish(ctx, events.EventEmployeeUpdated, employee.ID, principal)

	entry, err = s.employees.GetEntry(ctx, employee.ID)
	if err != nil {
		return nil, notFoundOr(err, id)
	}
	return entry, nil
}

// Delete removes the employee with id. Only admins may delete.
func (s *EmployeeService) Delete(ctx context.Context, principal *domain.Principal, id string) (err error) {
	defer func() { s.record("delete", err) }()

	if err := auth.Check(principal, auth.AdminOnly); err != nil {
		return err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if _, err := s.employees.GetByID(ctx, id); err != nil {
		return notFoundOr(err, id)
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return notFoundOr(err, id)
	}

	s.publish(ctx, events.EventEmployeeDeleted, id, principal)
	return nil
}

func (s *EmployeeService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *EmployeeService) publish(ctx context.Context, typ events.EventType, employeeID string, actor *domain.Principal) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:         uuid.NewString(),
		Type:       typ,
		EmployeeID: employeeID,
		ActorID:    actor.UserID,
		Timestamp:  s.now().UTC(),
	}
	// The mutation is committed; a failing subscriber leaves cached pages
	// stale until their TTL expires.
	if err := s.dispatcher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Error("publish employee event",
			zap.String("event", string(typ)),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}

func (s *EmployeeService) record(operation string, err error) {
	if err == nil {
		s.metrics.RecordMutation(operation, "ok")
		return
	}
	s.metrics.RecordMutation(operation, apperrors.ToDomainError(err).Code)
}

func notFound(id string) error {
	return apperrors.NewNotFound("Employee", map[string]any{"id": id})
}

func notFoundOr(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(id)
	}
	return apperrors.MapError(err)
}
