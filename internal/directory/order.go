package directory

import (
	"cmp"
	"sort"
	"strings"

	"github.com/spec-kit/employee-directory/internal/domain"
)

// Matches reports whether e matches search: a case-insensitive substring of
// name, email or designation. An empty search matches everything.
func Matches(e domain.Employee, search string) bool {
	if search == "" {
		return true
	}
	term := strings.ToLower(search)
	return strings.Contains(strings.ToLower(e.Name), term) ||
		strings.Contains(strings.ToLower(e.Email), term) ||
		strings.Contains(strings.ToLower(e.Designation), term)
}

// Compare orders a and b by key in direction dir. Equal keys fall back to id
// ascending regardless of direction, which makes the order total.
func Compare(a, b domain.Employee, key SortKey, dir SortDirection) int {
	var c int
	switch key {
	case SortBySalary:
		c = cmp.Compare(a.Salary, b.Salary)
	case SortByEmail:
		c = strings.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
	case SortByDesignation:
		c = strings.Compare(strings.ToLower(a.Designation), strings.ToLower(b.Designation))
	default:
		c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
	if dir == Desc {
		c = -c
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Sort orders entries in place.
func Sort(entries []domain.EmployeeEntry, key SortKey, dir SortDirection) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Compare(entries[i].Employee, entries[j].Employee, key, dir) < 0
	})
}

// Apply filters, sorts and slices entries according to p. It returns the
// page slice and the number of entries matching the filter. The input slice
// is not modified.
func Apply(entries []domain.EmployeeEntry, p Params) ([]domain.EmployeeEntry, int) {
	matched := make([]domain.EmployeeEntry, 0, len(entries))
	for _, e := range entries {
		if Matches(e.Employee, p.Search) {
			matched = append(matched, e)
		}
	}
	Sort(matched, p.SortKey, p.SortDirection)

	total := len(matched)
	start := p.Offset()
	if start < 0 || start >= total {
		return []domain.EmployeeEntry{}, total
	}
	end := start + p.PageSize
	if end > total || end < start {
		end = total
	}
	return matched[start:end], total
}
