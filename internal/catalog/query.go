package catalog

import (
	"slices"
	"sort"

	"github.com/lukman83/baydeals/internal/models"
)

// Filter selects deals. Empty fields match everything.
type Filter struct {
	Store    string
	Category string
	City     string
	HotOnly  bool
	// ActiveOn keeps deals whose window contains this YYYY-MM-DD date.
	ActiveOn string
}

func (f Filter) Match(d models.Deal) bool {
	if f.Store != "" && d.StoreID != f.Store {
		return false
	}
	if f.Category != "" && d.CategoryID != f.Category {
		return false
	}
	if f.City != "" && !slices.Contains(d.Locations, f.City) {
		return false
	}
	if f.HotOnly && !d.IsHot {
		return false
	}
	if f.ActiveOn != "" && (f.ActiveOn < d.StartDate || f.ActiveOn > d.ExpiryDate) {
		return false
	}
	return true
}

// Apply returns the matching deals in catalog order.
func (f Filter) Apply(deals []models.Deal) []models.Deal {
	out := []models.Deal{}
	for _, d := range deals {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

// CategoryCount is the number of deals in one category.
type CategoryCount struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// CountByCategory counts deals per category, most populated first; ties
// sort by id.
func CountByCategory(deals []models.Deal) []CategoryCount {
	counts := make(map[string]int)
	for _, d := range deals {
		counts[d.CategoryID]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, CategoryCount{ID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	return out
}
