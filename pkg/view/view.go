// Package view keeps a client-side projection of one directory page.
//
// The loaded page can be filtered and re-sorted locally without a round
// trip. Moving to another page goes back to the server with the active sort,
// since order must be applied before pagination. A successful mutation
// discards the loaded page so the next Load re-queries.
package view

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/employee-directory/internal/directory"
	"github.com/spec-kit/employee-directory/internal/domain"
)

// Employee is a directory record as the client sees it.
type Employee struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Designation string    `json:"designation"`
	Salary      float64   `json:"salary"`
	CreatedBy   *Creator  `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Creator identifies the account that created an employee.
type Creator struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Input is the create and update payload.
type Input struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Designation string  `json:"designation"`
	Salary      float64 `json:"salary"`
}

// Query selects a server page. Zero values take the server defaults.
type Query struct {
	Search string
	Sort   string
	Order  string
	Page   int
	Limit  int
}

// Page is one server page and its position in the filtered set.
type Page struct {
	Employees []Employee
	Total     int
	Page      int
	Pages     int
	Limit     int
}

// Backend is the server the projection reads from and writes through.
type Backend interface {
	List(ctx context.Context, q Query) (Page, error)
	Create(ctx context.Context, in Input) (Employee, error)
	Update(ctx context.Context, id string, in Input) (Employee, error)
	Delete(ctx context.Context, id string) error
}

// Directory is the projection. It is safe for concurrent use.
type Directory struct {
	backend Backend

	mu     sync.Mutex
	query  Query
	loaded *Page
	// Active order once Resort has been called. Later server queries carry it.
	sortKey directory.SortKey
	sortDir directory.SortDirection
}

// New builds an empty projection over backend.
func New(backend Backend) *Directory {
	return &Directory{backend: backend}
}

// Load returns the page for q, reusing the loaded page when q is unchanged
// and nothing was mutated since it was fetched. A q without a sort takes the
// active local sort; a q with one replaces it.
func (d *Directory) Load(ctx context.Context, q Query) (Page, error) {
	d.mu.Lock()
	if q.Sort == "" && d.sortKey != "" {
		q.Sort, q.Order = string(d.sortKey), string(d.sortDir)
	}
	if d.loaded != nil && d.query == q {
		page := clonePage(*d.loaded)
		d.mu.Unlock()
		return page, nil
	}
	d.mu.Unlock()

	page, err := d.backend.List(ctx, q)
	if err != nil {
		return Page{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.query = q
	if q.Sort != "" {
		d.sortKey, _ = directory.ParseSortKey(q.Sort)
		d.sortDir, _ = directory.ParseSortDirection(q.Order)
	}
	stored := clonePage(page)
	d.loaded = &stored
	d.sortLoaded()
	return clonePage(stored), nil
}

// GoTo fetches another page of the current query from the server, ordered
// by the active sort.
func (d *Directory) GoTo(ctx context.Context, page int) (Page, error) {
	d.mu.Lock()
	q := d.query
	if d.sortKey != "" {
		q.Sort, q.Order = string(d.sortKey), string(d.sortDir)
	}
	d.mu.Unlock()
	q.Page = page
	return d.Load(ctx, q)
}

// Current returns the loaded page, if any.
func (d *Directory) Current() (Page, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded == nil {
		return Page{}, false
	}
	return clonePage(*d.loaded), true
}

// Resort reorders the loaded page by key and direction using the server's
// ordering rules. Only the loaded records move; the order becomes active for
// the next GoTo or Load.
func (d *Directory) Resort(key, dir string) ([]Employee, error) {
	sortKey, err := directory.ParseSortKey(key)
	if err != nil {
		return nil, err
	}
	sortDir, err := directory.ParseSortDirection(dir)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.sortKey, d.sortDir = sortKey, sortDir
	if d.loaded == nil {
		return []Employee{}, nil
	}
	d.sortLoaded()
	return slices.Clone(d.loaded.Employees), nil
}

// ToggleSort resorts by key, flipping the direction when key is already the
// local sort key and starting ascending otherwise.
func (d *Directory) ToggleSort(key string) ([]Employee, error) {
	sortKey, err := directory.ParseSortKey(key)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	dir := directory.Asc
	if d.sortKey == sortKey && d.sortDir == directory.Asc {
		dir = directory.Desc
	}
	d.mu.Unlock()
	return d.Resort(string(sortKey), string(dir))
}

// Filter returns the loaded records matching term in their current order,
// using the server's search rules. The loaded page itself is unchanged.
func (d *Directory) Filter(term string) []Employee {
	term = strings.TrimSpace(term)
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []Employee{}
	if d.loaded == nil {
		return out
	}
	for _, e := range d.loaded.Employees {
		if directory.Matches(e.record(), term) {
			out = append(out, e)
		}
	}
	return out
}

// sortLoaded applies the local order. The caller holds d.mu.
func (d *Directory) sortLoaded() {
	if d.loaded == nil || d.sortKey == "" {
		return
	}
	key, dir := d.sortKey, d.sortDir
	slices.SortStableFunc(d.loaded.Employees, func(a, b Employee) int {
		return directory.Compare(a.record(), b.record(), key, dir)
	})
}

// Create stores a new employee and discards the loaded page.
func (d *Directory) Create(ctx context.Context, in Input) (Employee, error) {
	e, err := d.backend.Create(ctx, in)
	if err != nil {
		return Employee{}, err
	}
	d.invalidate()
	return e, nil
}

// Update replaces an employee and discards the loaded page.
func (d *Directory) Update(ctx context.Context, id string, in Input) (Employee, error) {
	e, err := d.backend.Update(ctx, id, in)
	if err != nil {
		return Employee{}, err
	}
	d.invalidate()
	return e, nil
}

// Delete removes an employee and discards the loaded page.
func (d *Directory) Delete(ctx context.Context, id string) error {
	if err := d.backend.Delete(ctx, id); err != nil {
		return err
	}
	d.invalidate()
	return nil
}

func (d *Directory) invalidate() {
	d.mu.Lock()
	d.loaded = nil
	d.mu.Unlock()
}

func (e Employee) record() domain.Employee {
	return domain.Employee{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Designation: e.Designation,
		Salary:      e.Salary,
	}
}

func clonePage(p Page) Page {
	p.Employees = slices.Clone(p.Employees)
	if p.Employees == nil {
		p.Employees = []Employee{}
	}
	return p
}
