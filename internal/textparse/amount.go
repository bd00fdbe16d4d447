// Package textparse holds the price and date heuristics shared by the store
// dialects: amount extraction, tagged price quotes, and weekly-ad date ranges.
package textparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	dollarAmountRe = regexp.MustCompile(`\$[\d,.]+`)
	numberPrefixRe = regexp.MustCompile(`^\d*\.?\d+|^\d+\.?`)
)

// ParseAmount reads a currency amount like "$1,299.99" or "4.5". Like a
// lenient float parser it stops at the first character that cannot extend
// the number, so "1.2.3" reads as 1.2. ok is false when no number is present.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	m := numberPrefixRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(m, "."), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// DollarAmounts returns every "$X" amount in text, in order of appearance.
func DollarAmounts(text string) []float64 {
	var out []float64
	for _, m := range dollarAmountRe.FindAllString(text, -1) {
		if v, ok := ParseAmount(m); ok {
			out = append(out, v)
		}
	}
	return out
}

// Round2 rounds to cents, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Accept is the acceptance rule every dialect applies to a resolved price
// pair: both positive and a real discount.
func Accept(original, sale float64) bool {
	return original > 0 && sale > 0 && original > sale
}
