package directory

import "github.com/spec-kit/employee-directory/internal/domain"

// Page is one ordered slice of the filtered employee set.
type Page struct {
	Entries  []domain.EmployeeEntry `json:"entries"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
	Pages    int                    `json:"pages"`
}

// NewPage assembles a Page for params from the page slice and the filtered total.
func NewPage(entries []domain.EmployeeEntry, total int, p Params) Page {
	if entries == nil {
		entries = []domain.EmployeeEntry{}
	}
	return Page{
		Entries:  entries,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		Pages:    PageCount(total, p.PageSize),
	}
}

// PageCount is ceil(total/pageSize).
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
