package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/employee-directory/internal/directory"
	"github.com/spec-kit/employee-directory/internal/domain"
)

// MemoryEmployeeRepository keeps employees in process memory. The email
// index is updated under the same lock as the records, which gives it the
// same atomic uniqueness guarantee as the Postgres unique index.
type MemoryEmployeeRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.Employee
	byEmail map[string]string
	users   UserFinder
	now     func() time.Time
}

// UserFinder resolves creators for the read-time join.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// NewMemoryEmployeeRepository builds an empty store. users may be nil, in
// which case entries carry no creator.
func NewMemoryEmployeeRepository(users UserFinder) *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{
		byID:    make(map[string]domain.Employee),
		byEmail: make(map[string]string),
		users:   users,
		now:     time.Now,
	}
}

func emailKey(email string) string {
	return strings.ToLower(email)
}

func (r *MemoryEmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := newID()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(employee.Email)
	if _, taken := r.byEmail[key]; taken {
		return ErrDuplicateEmail
	}
	now := r.now().UTC()
	employee.ID = id
	employee.CreatedAt = now
	employee.UpdatedAt = now
	r.byID[id] = *employee
	r.byEmail[key] = id
	return nil
}

func (r *MemoryEmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[employee.ID]
	if !ok {
		return ErrNotFound
	}
	oldKey, newKey := emailKey(existing.Email), emailKey(employee.Email)
	if owner, taken := r.byEmail[newKey]; taken && owner != employee.ID {
		return ErrDuplicateEmail
	}

	existing.Apply(domain.EmployeeFields{
		Name:        employee.Name,
		Email:       employee.Email,
		Phone:       employee.Phone,
		Designation: employee.Designation,
		Salary:      employee.Salary,
	})
	existing.UpdatedAt = r.now().UTC()
	delete(r.byEmail, oldKey)
	r.byEmail[newKey] = existing.ID
	r.byID[existing.ID] = existing
	*employee = existing
	return nil
}

func (r *MemoryEmployeeRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, emailKey(existing.Email))
	return nil
}

func (r *MemoryEmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (r *MemoryEmployeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, ErrNotFound
	}
	e := r.byID[id]
	return &e, nil
}

func (r *MemoryEmployeeRepository) GetEntry(ctx context.Context, id string) (*domain.EmployeeEntry, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry := domain.EmployeeEntry{Employee: *e}
	if err := r.resolveCreator(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *MemoryEmployeeRepository) List(ctx context.Context, params directory.Params) ([]domain.EmployeeEntry, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	snapshot := make([]domain.EmployeeEntry, 0, len(r.byID))
	for _, e := range r.byID {
		snapshot = append(snapshot, domain.EmployeeEntry{Employee: e})
	}
	r.mu.RUnlock()

	page, total := directory.Apply(snapshot, params)
	for i := range page {
		if err := r.resolveCreator(ctx, &page[i]); err != nil {
			return nil, 0, err
		}
	}
	return page, total, nil
}

func (r *MemoryEmployeeRepository) resolveCreator(ctx context.Context, entry *domain.EmployeeEntry) error {
	if r.users == nil || entry.CreatedBy == "" {
		return nil
	}
	user, err := r.users.GetByID(ctx, entry.CreatedBy)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	entry.Creator = user.Creator()
	return nil
}
