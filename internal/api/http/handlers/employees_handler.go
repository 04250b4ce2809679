package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-directory/internal/api/dto"
	"github.com/spec-kit/employee-directory/internal/auth"
	"github.com/spec-kit/employee-directory/internal/directory"
	"github.com/spec-kit/employee-directory/internal/service"
	apperrors "github.com/spec-kit/employee-directory/pkg/util"
)

// EmployeesHandler manages the employee directory endpoints.
type EmployeesHandler struct {
	employees *service.EmployeeService
	directory *service.DirectoryService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees *service.EmployeeService, directory *service.DirectoryService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees, directory: directory}
}

// Create POST /employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	entry, err := h.employees.Create(c.UserContext(), principal, req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.Envelope{
		Success: true,
		Message: "Employee created successfully",
		Data:    dto.NewEmployeeResponse(entry),
	})
}

// List GET /employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	query, err := parseDirectoryQuery(c)
	if err != nil {
		return err
	}

	page, err := h.directory.Query(c.UserContext(), principal, query)
	if err != nil {
		return err
	}
	items, pagination := dto.NewEmployeeList(page)
	return c.JSON(dto.Envelope{Success: true, Data: items, Pagination: &pagination})
}

// Get GET /employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	entry, err := h.employees.Get(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Success: true, Data: dto.NewEmployeeResponse(entry)})
}

// Update PUT /employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	entry, err := h.employees.Update(c.UserContext(), principal, c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{
		Success: true,
		Message: "Employee updated successfully",
		Data:    dto.NewEmployeeResponse(entry),
	})
}

// Delete DELETE /employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.employees.Delete(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Success: true, Message: "Employee deleted successfully"})
}

// parseDirectoryQuery reads search, page, limit, sort and order. Range and
// enum checks happen in the directory package.
func parseDirectoryQuery(c *fiber.Ctx) (directory.Query, error) {
	query := directory.Query{
		Search:        c.Query("search"),
		SortKey:       c.Query("sort"),
		SortDirection: c.Query("order"),
	}
	var err error
	if query.Page, err = optionalInt(c, "page"); err != nil {
		return directory.Query{}, err
	}
	if query.PageSize, err = optionalInt(c, "limit"); err != nil {
		return directory.Query{}, err
	}
	return query, nil
}

func optionalInt(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewInvalidArgument(name+" must be an integer", map[string]any{name: raw})
	}
	return &v, nil
}

func invalidBody() error {
	return apperrors.NewInvalidArgument("invalid request body", nil)
}
