// Package client talks to the directory HTTP API. Client satisfies
// view.Backend, so a view.Directory can run against a remote server.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/spec-kit/employee-directory/internal/api/dto"
	apperrors "github.com/spec-kit/employee-directory/pkg/util"
	"github.com/spec-kit/employee-directory/pkg/view"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultTimeout = 10 * time.Second

// Client is an authenticated API client. It is safe for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds each request when the context carries no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New builds a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope[T any] struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       T               `json:"data"`
	Pagination *dto.Pagination `json:"pagination"`
}

// Register creates a staff account and keeps its token for later calls.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	return c.authenticate(ctx, "/auth/register", dto.RegisterRequest{Name: name, Email: email, Password: password})
}

// Login authenticates and keeps the issued token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/auth/login", dto.LoginRequest{Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) error {
	var resp envelope[dto.AuthResponse]
	if err := c.do(ctx, fiber.MethodPost, path, body, &resp); err != nil {
		return err
	}
	c.mu.Lock()
	c.token = resp.Data.Token
	c.mu.Unlock()
	return nil
}

// List fetches one directory page.
func (c *Client) List(ctx context.Context, q view.Query) (view.Page, error) {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}
	if q.Order != "" {
		values.Set("order", q.Order)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	path := "/employees"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp envelope[[]view.Employee]
	if err := c.do(ctx, fiber.MethodGet, path, nil, &resp); err != nil {
		return view.Page{}, err
	}
	page := view.Page{Employees: resp.Data}
	if page.Employees == nil {
		page.Employees = []view.Employee{}
	}
	if p := resp.Pagination; p != nil {
		page.Total, page.Page, page.Pages, page.Limit = p.Total, p.Page, p.Pages, p.Limit
	}
	return page, nil
}

// Get fetches one employee.
func (c *Client) Get(ctx context.Context, id string) (view.Employee, error) {
	var resp envelope[view.Employee]
	err := c.do(ctx, fiber.MethodGet, "/employees/"+url.PathEscape(id), nil, &resp)
	return resp.Data, err
}

// Create stores a new employee.
func (c *Client) Create(ctx context.Context, in view.Input) (view.Employee, error) {
	var resp envelope[view.Employee]
	err := c.do(ctx, fiber.MethodPost, "/employees", in, &resp)
	return resp.Data, err
}

// Update replaces an employee's fields.
func (c *Client) Update(ctx context.Context, id string, in view.Input) (view.Employee, error) {
	var resp envelope[view.Employee]
	err := c.do(ctx, fiber.MethodPut, "/employees/"+url.PathEscape(id), in, &resp)
	return resp.Data, err
}

// Delete removes an employee. The server only allows admins to delete.
func (c *Client) Delete(ctx context.Context, id string) error {
	var resp envelope[struct{}]
	return c.do(ctx, fiber.MethodDelete, "/employees/"+url.PathEscape(id), nil, &resp)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	agent.JSONEncoder(json.Marshal).JSONDecoder(json.Unmarshal).Timeout(timeout)

	c.mu.RLock()
	if c.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	c.mu.RUnlock()
	if body != nil {
		agent.JSON(body)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("prepare %s %s: %w", method, path, err)
	}

	status, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return apperrors.NewUnavailable(fmt.Errorf("%s %s: %w", method, path, errs[0]))
	}
	if status >= fiber.StatusBadRequest {
		return decodeError(status, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeError rebuilds the server's DomainError from an error envelope.
func decodeError(status int, raw []byte) error {
	var resp dto.ErrorResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Error.Code == "" {
		return apperrors.NewDomainError(apperrors.CodeInternal, fmt.Sprintf("unexpected status %d", status), status, nil)
	}
	de := apperrors.NewDomainError(resp.Error.Code, resp.Message, status, resp.Error.Details)
	de.Retryable = resp.Error.Retryable
	return de
}
