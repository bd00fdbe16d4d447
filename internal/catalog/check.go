package catalog

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/lukman83/baydeals/internal/category"
	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/pipeline"
)

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Check reports every catalog invariant violation, one line per problem.
// Ids must run 001, 002, ... per store in list order.
func Check(deals []models.Deal) []string {
	var problems []string
	add := func(d models.Deal, format string, args ...any) {
		problems = append(problems, fmt.Sprintf("[%s] %s", d.ID, fmt.Sprintf(format, args...)))
	}

	known := category.IDs()
	counters := make(map[string]int)
	for _, d := range deals {
		if d.StoreID == "" {
			add(d, "missing storeId")
		}
		counters[d.StoreID]++
		if want := pipeline.DealID(d.StoreID, counters[d.StoreID]); d.ID != want {
			add(d, "id out of sequence, want %s", want)
		}
		if len(strings.TrimSpace(d.Title)) < 3 {
			add(d, "title is missing or too short")
		}
		if !(d.SalePrice > 0) || d.OriginalPrice < d.SalePrice {
			add(d, "prices must satisfy originalPrice >= salePrice > 0 (got %.2f, %.2f)", d.OriginalPrice, d.SalePrice)
		}
		if !isoDateRe.MatchString(d.StartDate) || !isoDateRe.MatchString(d.ExpiryDate) {
			add(d, "dates must be YYYY-MM-DD (got %q, %q)", d.StartDate, d.ExpiryDate)
		} else if d.StartDate >= d.ExpiryDate {
			add(d, "startDate %s is not before expiryDate %s", d.StartDate, d.ExpiryDate)
		}
		if len(d.Locations) == 0 {
			add(d, "no locations")
		}
		if !slices.Contains(known, d.CategoryID) {
			add(d, "unknown categoryId %q", d.CategoryID)
		}
	}
	return problems
}
