package view

import (
	"sort"
	"strings"
)

// UnknownDesignation labels records without a designation.
const UnknownDesignation = "Unknown"

// DesignationCount is one bar of the designation chart.
type DesignationCount struct {
	Designation string
	Count       int
}

// DesignationCounts groups employees by designation, ordered by designation.
func DesignationCounts(employees []Employee) []DesignationCount {
	counts := make(map[string]int)
	for _, e := range employees {
		d := strings.TrimSpace(e.Designation)
		if d == "" {
			d = UnknownDesignation
		}
		counts[d]++
	}

	out := make([]DesignationCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DesignationCount{Designation: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Designation < out[j].Designation })
	return out
}
