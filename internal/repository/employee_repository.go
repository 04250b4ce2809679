package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/employee-directory/internal/directory"
	"github.com/spec-kit/employee-directory/internal/domain"
)

// EmployeeRepository is the storage collaborator for employee records.
// Implementations must enforce email uniqueness atomically on Create and
// Update and report violations as ErrDuplicateEmail.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Update(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	GetEntry(ctx context.Context, id string) (*domain.EmployeeEntry, error)
	List(ctx context.Context, params directory.Params) ([]domain.EmployeeEntry, int, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository returns a Postgres-backed implementation.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (id, name, email, phone, designation, salary, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING salary, created_at, updated_at`

	id, err := newID()
	if err != nil {
		return err
	}
	err = r.pool.QueryRow(ctx, query,
		id,
		employee.Name,
		employee.Email,
		employee.Phone,
		employee.Designation,
		employee.Salary,
		employee.CreatedBy,
	).Scan(&employee.Salary, &employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, employeesEmailConstraint) {
			return ErrDuplicateEmail
		}
		return classify(err)
	}
	employee.ID = id
	return nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employees
        SET name=$1, email=$2, phone=$3, designation=$4, salary=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING salary, created_by, created_at, updated_at`

	if !validID(employee.ID) {
		return ErrNotFound
	}
	err := r.pool.QueryRow(ctx, query,
		employee.Name,
		employee.Email,
		employee.Phone,
		employee.Designation,
		employee.Salary,
		employee.ID,
	).Scan(&employee.Salary, &employee.CreatedBy, &employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, employeesEmailConstraint) {
			return ErrDuplicateEmail
		}
		return classify(err)
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return classify(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	const query = `
        SELECT id, name, email, phone, designation, salary, created_by, created_at, updated_at
        FROM employees WHERE id=$1`

	if !validID(id) {
		return nil, ErrNotFound
	}
	return r.scanEmployee(r.pool.QueryRow(ctx, query, id))
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	const query = `
        SELECT id, name, email, phone, designation, salary, created_by, created_at, updated_at
        FROM employees WHERE lower(email)=lower($1)`

	return r.scanEmployee(r.pool.QueryRow(ctx, query, email))
}

func (r *employeeRepository) GetEntry(ctx context.Context, id string) (*domain.EmployeeEntry, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query, args, err := buildEntryQuery(id)
	if err != nil {
		return nil, fmt.Errorf("build entry query: %w", err)
	}
	entry, err := scanEntry(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, classify(err)
	}
	return entry, nil
}

// List runs the page and count queries concurrently. Both see committed
// rows only; a write landing between them can make total and page disagree
// by that one row, which the next query corrects.
func (r *employeeRepository) List(ctx context.Context, params directory.Params) ([]domain.EmployeeEntry, int, error) {
	listSQL, listArgs, err := buildListQuery(params)
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}
	countSQL, countArgs, err := buildCountQuery(params)
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var (
		entries []domain.EmployeeEntry
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.pool.Query(gctx, listSQL, listArgs...)
		if err != nil {
			return classify(err)
		}
		defer rows.Close()
		for rows.Next() {
			entry, err := scanEntry(rows)
			if err != nil {
				return classify(err)
			}
			entries = append(entries, *entry)
		}
		return classify(rows.Err())
	})
	g.Go(func() error {
		return classify(r.pool.QueryRow(gctx, countSQL, countArgs...).Scan(&total))
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if entries == nil {
		entries = []domain.EmployeeEntry{}
	}
	return entries, total, nil
}

func (r *employeeRepository) scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	if err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.Phone,
		&e.Designation,
		&e.Salary,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, classify(err)
	}
	return &e, nil
}

func scanEntry(row pgx.Row) (*domain.EmployeeEntry, error) {
	var (
		entry       domain.EmployeeEntry
		creatorName *string
		creatorMail *string
	)
	if err := row.Scan(
		&entry.ID,
		&entry.Name,
		&entry.Email,
		&entry.Phone,
		&entry.Designation,
		&entry.Salary,
		&entry.CreatedBy,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		&creatorName,
		&creatorMail,
	); err != nil {
		return nil, err
	}
	if creatorName != nil && creatorMail != nil {
		entry.Creator = &domain.Creator{ID: entry.CreatedBy, Name: *creatorName, Email: *creatorMail}
	}
	return &entry, nil
}
