package domain

import "time"

// Employee is one staff record in the directory.
type Employee struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Designation string
	Salary      float64
	// CreatedBy is the id of the user that created the record. Never updated.
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeFields are the mutable fields of an employee, already normalized.
type EmployeeFields struct {
	Name        string
	Email       string
	Phone       string
	Designation string
	Salary      float64
}

// Apply copies the mutable fields onto e. ID and CreatedBy are left alone.
func (e *Employee) Apply(f EmployeeFields) {
	e.Name = f.Name
	e.Email = f.Email
	e.Phone = f.Phone
	e.Designation = f.Designation
	e.Salary = f.Salary
}

// Creator is the display identity of the user behind Employee.CreatedBy,
// resolved at read time.
type Creator struct {
	ID    string
	Name  string
	Email string
}

// EmployeeEntry is an employee together with its resolved creator.
type EmployeeEntry struct {
	Employee
	Creator *Creator
}
