package dto

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/employee-directory/internal/directory"
	"github.com/spec-kit/employee-directory/internal/domain"
	"github.com/spec-kit/employee-directory/internal/validation"
)

// EmployeeRequest is the create and update payload.
type EmployeeRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Designation string `json:"designation"`
	Salary      Salary `json:"salary"`
}

var numericText = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// Salary accepts a JSON number or a numeric string such as "1000". Any other
// value decodes as absent so validation reports it against the salary field.
type Salary struct {
	Value *float64
}

func (s *Salary) UnmarshalJSON(data []byte) error {
	s.Value = nil
	text := string(bytes.TrimSpace(data))
	if strings.HasPrefix(text, `"`) {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return nil
		}
		text = strings.TrimSpace(unquoted)
		if !numericText.MatchString(text) {
			return nil
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	s.Value = &v
	return nil
}

// Input converts the payload for validation.
func (r EmployeeRequest) Input() validation.EmployeeInput {
	return validation.EmployeeInput{
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Designation: r.Designation,
		Salary:      r.Salary.Value,
	}
}

// CreatorResponse identifies the account that created an employee.
type CreatorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EmployeeResponse is the wire form of an employee entry. CreatedBy is null
// when the creating account no longer exists.
type EmployeeResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	Designation string           `json:"designation"`
	Salary      float64          `json:"salary"`
	CreatedBy   *CreatorResponse `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Pagination describes where a listing page sits in the filtered set.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// NewEmployeeResponse maps a domain entry.
func NewEmployeeResponse(e *domain.EmployeeEntry) EmployeeResponse {
	resp := EmployeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Phone:       e.Phone,
		Designation: e.Designation,
		Salary:      e.Salary,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Creator != nil {
		resp.CreatedBy = &CreatorResponse{ID: e.Creator.ID, Name: e.Creator.Name, Email: e.Creator.Email}
	}
	return resp
}

// NewEmployeeList maps a directory page to its entries and pagination block.
func NewEmployeeList(page directory.Page) ([]EmployeeResponse, Pagination) {
	items := make([]EmployeeResponse, 0, len(page.Entries))
	for i := range page.Entries {
		items = append(items, NewEmployeeResponse(&page.Entries[i]))
	}
	return items, Pagination{
		Total: page.Total,
		Page:  page.Page,
		Pages: page.Pages,
		Limit: page.PageSize,
	}
}

// Envelope is the success body shared by every endpoint.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
