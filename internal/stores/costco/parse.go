package costco

import (
	"regexp"
	"sort"

	"github.com/lukman83/baydeals/internal/textparse"
)

var offRe = regexp.MustCompile(`(?i)\$?([\d,.]+)\s*off`)

// ParsePrice reads a tile's price text. With two or more dollar amounts the
// two largest are the original and sale prices; a single amount followed
// by "$X off" is the sale price with X added back for the original.
func ParsePrice(text string) (textparse.Quote, bool) {
	amounts := textparse.DollarAmounts(text)
	if len(amounts) == 0 {
		return textparse.Quote{}, false
	}
	if len(amounts) >= 2 {
		sorted := append([]float64(nil), amounts...)
		sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
		if !textparse.Accept(sorted[0], sorted[1]) {
			return textparse.Quote{}, false
		}
		return textparse.ResolvedQuote(sorted[0], sorted[1]), true
	}
	m := offRe.FindStringSubmatch(text)
	if m == nil {
		return textparse.Quote{}, false
	}
	off, ok := textparse.ParseAmount(m[1])
	if !ok {
		return textparse.Quote{}, false
	}
	original := textparse.Round2(amounts[0] + off)
	if !textparse.Accept(original, amounts[0]) {
		return textparse.Quote{}, false
	}
	return textparse.ResolvedQuote(original, amounts[0]), true
}

// ParseDates reads "M/D/YY - M/D/YY" or "M/D/YYYY through M/D/YYYY".
func ParseDates(text string) (textparse.DateRange, bool) {
	return textparse.ParseSlashRange(text, true)
}
