// Package directory defines how employee listings are filtered, ordered and
// paginated. The rules here are shared by every storage backend and by the
// client-side view so that all of them agree on a single total order.
package directory

import (
	"math"
	"strings"

	apperrors "github.com/spec-kit/employee-directory/pkg/util"
)

// SortKey names the field a listing is ordered by.
type SortKey string

const (
	SortByName        SortKey = "name"
	SortByEmail       SortKey = "email"
	SortByDesignation SortKey = "designation"
	SortBySalary      SortKey = "salary"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ParseSortKey validates a sort key. The empty string selects name.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByName, nil
	case SortByName, SortByEmail, SortByDesignation, SortBySalary:
		return k, nil
	}
	return "", apperrors.NewInvalidArgument("unsupported sort key", map[string]any{"sort": s})
}

// ParseSortDirection validates a direction. The empty string selects asc.
func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Asc, nil
	case Asc, Desc:
		return d, nil
	}
	return "", apperrors.NewInvalidArgument("unsupported sort direction", map[string]any{"order": s})
}

// Query is the caller-supplied listing request. Nil page fields take defaults.
type Query struct {
	Search        string
	SortKey       string
	SortDirection string
	Page          *int
	PageSize      *int
}

// Params is a validated listing request.
type Params struct {
	Search        string
	SortKey       SortKey
	SortDirection SortDirection
	Page          int
	PageSize      int
}

// Params validates q and fills in defaults.
func (q Query) Params() (Params, error) {
	key, err := ParseSortKey(q.SortKey)
	if err != nil {
		return Params{}, err
	}
	dir, err := ParseSortDirection(q.SortDirection)
	if err != nil {
		return Params{}, err
	}

	p := Params{
		Search:        strings.TrimSpace(q.Search),
		SortKey:       key,
		SortDirection: dir,
		Page:          DefaultPage,
		PageSize:      DefaultPageSize,
	}
	if q.Page != nil {
		if *q.Page < 1 {
			return Params{}, apperrors.NewInvalidArgument("page must be a positive integer", map[string]any{"page": *q.Page})
		}
		p.Page = *q.Page
	}
	if q.PageSize != nil {
		if *q.PageSize < 1 || *q.PageSize > MaxPageSize {
			return Params{}, apperrors.NewInvalidArgument("limit must be between 1 and 100", map[string]any{"limit": *q.PageSize})
		}
		p.PageSize = *q.PageSize
	}
	return p, nil
}

// Offset is the number of matching records skipped before this page. It
// saturates at math.MaxInt for pages too far out to address, which every
// backend treats as past the end.
func (p Params) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}
