package hmart

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lukman83/baydeals/internal/textparse"
)

// ContentType says how the weekly ad page presents its deals.
type ContentType string

const (
	Structured ContentType = "structured"
	ImageBased ContentType = "image-based"
)

var structuredIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)class="[^"]*product[-_]?(grid|item|summary|card|list)[^"]*"`),
	regexp.MustCompile(`(?i)class="[^"]*vtex[-_]?product`),
	regexp.MustCompile(`(?i)class="[^"]*price[^"]*"[^>]*>\s*\$[\d,.]+`),
	regexp.MustCompile(`(?i)data-testid="product`),
}

// DetectContentType reports whether html carries product markup or only
// flyer images.
func DetectContentType(html string) ContentType {
	for _, re := range structuredIndicators {
		if re.MatchString(html) {
			return Structured
		}
	}
	return ImageBased
}

var (
	xForYRe   = regexp.MustCompile(`(?i)(\d+)\s+for\s+\$?([\d,.]+)`)
	perUnitRe = regexp.MustCompile(`(?i)\$?([\d,.]+)\s*/\s*(?:lb|oz|ea|pk|ct|kg)\b`)
	eachRe    = regexp.MustCompile(`(?i)\$?([\d,.]+)\s*ea\b`)
	pctOffRe  = regexp.MustCompile(`(?i)(\d+)%\s*off`)
	simpleRe  = regexp.MustCompile(`\$?([\d,.]+)`)
	unitRe    = regexp.MustCompile(`(?i)/\s*(lb|oz|ea|pk|ct|kg)\b`)
)

// ParsePrice reads a price label. Rules apply in order: "N for $Y",
// "$X/unit", "$X ea", "N% off", then a bare "$X". Everything but the
// percentage yields a sale-only quote.
func ParsePrice(text string) (textparse.Quote, bool) {
	if text == "" {
		return textparse.Quote{}, false
	}
	if m := xForYRe.FindStringSubmatch(text); m != nil {
		qty, _ := strconv.Atoi(m[1])
		total, _ := textparse.ParseAmount(m[2])
		if qty > 0 && total > 0 {
			return textparse.SaleOnlyQuote(textparse.PerUnit(qty, total)), true
		}
	}
	for _, re := range []*regexp.Regexp{perUnitRe, eachRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if sale, ok := textparse.ParseAmount(m[1]); ok && sale > 0 {
				return textparse.SaleOnlyQuote(sale), true
			}
		}
	}
	if m := pctOffRe.FindStringSubmatch(text); m != nil {
		if pct, _ := strconv.Atoi(m[1]); pct > 0 && pct <= 100 {
			return textparse.PercentOffQuote(pct), true
		}
	}
	if m := simpleRe.FindStringSubmatch(text); m != nil {
		if sale, ok := textparse.ParseAmount(m[1]); ok && sale > 0 {
			return textparse.SaleOnlyQuote(sale), true
		}
	}
	return textparse.Quote{}, false
}

// Unit reads "/lb", "/ea" and the like from a price label.
func Unit(priceText string) string {
	if m := unitRe.FindStringSubmatch(priceText); m != nil {
		return "/" + strings.ToLower(m[1])
	}
	return ""
}
