package domain

import "strings"

// TypeAll disables the category clause of a filter.
const TypeAll = "All"

// Filter combines a category, a price ceiling and a free-text query.
// Type equal to TypeAll (or empty) matches every category. MaxPrice is an
// inclusive upper bound; zero or negative means no ceiling. Query matches as a
// case-insensitive substring of the title or the location.
type Filter struct {
	Type     string
	MaxPrice float64
	Query    string
}

// ApplyFilter returns the subsequence of properties satisfying every clause of
// the filter, preserving the input order. It never mutates the input and an
// empty or fully filtered-out collection yields an empty slice.
func ApplyFilter(properties []*Property, f Filter) []*Property {
	query := strings.ToLower(f.Query)
	matched := make([]*Property, 0, len(properties))
	for _, p := range properties {
		if f.Type != "" && f.Type != TypeAll && string(p.Type) != f.Type {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Location), query) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}
