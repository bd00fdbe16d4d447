// Package validate is the gate between dialect parsing and translation.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lukman83/baydeals/internal/models"
	"go.uber.org/zap"
)

// maxLogged is how many error strings are logged before summarising.
const maxLogged = 5

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Result holds the candidates that passed and one joined error string per
// rejected candidate.
type Result struct {
	Valid  []models.Candidate
	Errors []string
}

// Validate checks every candidate and never fails. Every problem with a
// candidate is reported, not only the first.
func Validate(logger *zap.Logger, candidates []models.Candidate) Result {
	var res Result
	for _, c := range candidates {
		issues := Issues(c)
		if len(issues) == 0 {
			res.Valid = append(res.Valid, c)
			continue
		}
		res.Errors = append(res.Errors, fmt.Sprintf("[%s] %s", label(c.Title), strings.Join(issues, "; ")))
	}

	if len(res.Errors) > 0 && logger != nil {
		logger.Info(fmt.Sprintf("Validation: %d valid, %d invalid", len(res.Valid), len(res.Errors)))
		for _, e := range res.Errors[:min(len(res.Errors), maxLogged)] {
			logger.Info("  - " + e)
		}
		if len(res.Errors) > maxLogged {
			logger.Info(fmt.Sprintf("  ... and %d more", len(res.Errors)-maxLogged))
		}
	}
	return res
}

// Issues lists what is wrong with c. An empty slice means c is valid.
func Issues(c models.Candidate) []string {
	var issues []string

	if len(strings.TrimSpace(c.Title)) < 3 {
		issues = append(issues, "title is missing or too short")
	}
	if !positive(c.OriginalPrice) {
		issues = append(issues, fmt.Sprintf("invalid originalPrice: %v", c.OriginalPrice))
	}
	if !positive(c.SalePrice) {
		issues = append(issues, fmt.Sprintf("invalid salePrice: %v", c.SalePrice))
	}
	if c.OriginalPrice < c.SalePrice {
		issues = append(issues, fmt.Sprintf("originalPrice (%v) < salePrice (%v)", c.OriginalPrice, c.SalePrice))
	}
	if !isoDateRe.MatchString(c.StartDate) {
		issues = append(issues, fmt.Sprintf("invalid startDate: %s", c.StartDate))
	}
	if !isoDateRe.MatchString(c.ExpiryDate) {
		issues = append(issues, fmt.Sprintf("invalid expiryDate: %s", c.ExpiryDate))
	}
	if c.StartDate != "" && c.ExpiryDate != "" && c.StartDate >= c.ExpiryDate {
		issues = append(issues, fmt.Sprintf("expiryDate (%s) must be after startDate (%s)", c.ExpiryDate, c.StartDate))
	}
	return issues
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func label(title string) string {
	if title == "" {
		return "unknown"
	}
	r := []rune(title)
	if len(r) > 50 {
		return string(r[:50])
	}
	return title
}
