package safeway

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lukman83/baydeals/internal/textparse"
)

var (
	wasNowRe = regexp.MustCompile(`(?i)was\s+\$?([\d,.]+)\s*now\s+\$?([\d,.]+)`)
	xForYRe  = regexp.MustCompile(`(?i)(\d+)\s+for\s+\$?([\d,.]+)`)
	clubRe   = regexp.MustCompile(`(?i)club\s+price\s+\$?([\d,.]+)`)
	eachRe   = regexp.MustCompile(`(?i)\$?([\d,.]+)\s*ea\b`)
	saveRe   = regexp.MustCompile(`(?i)save\s+\$?([\d,.]+)`)
	bogoRe   = regexp.MustCompile(`(?i)buy\s+(\d+)\s+get\s+(\d+)\s+free`)

	// Price labels in the order a tile's text is searched for them.
	priceTextPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)was\s+\$[\d,.]+\s*now\s+\$[\d,.]+`),
		regexp.MustCompile(`(?i)\d+\s+for\s+\$[\d,.]+`),
		regexp.MustCompile(`(?i)club\s+price\s+\$[\d,.]+`),
		regexp.MustCompile(`(?i)\$[\d,.]+\s*ea\b`),
		regexp.MustCompile(`(?i)save\s+\$[\d,.]+`),
		bogoRe,
		regexp.MustCompile(`\$[\d,.]+`),
	}

	// Lines that are price or promo labels rather than product names.
	labelLineRe = regexp.MustCompile(`(?i)^(?:\$|\d+\s*for\s*\$|save|club|buy|was)`)

	dollarRe    = regexp.MustCompile(`\$([\d,.]+)`)
	bareNumRe   = regexp.MustCompile(`\$?([\d,.]+)`)
	slashDateRe = regexp.MustCompile(`\d{1,2}/\d{1,2}`)
)

// ParsePrice reads a Safeway price label:
//
//	Was $5.99 Now $3.99  resolved
//	2 for $5             sale-only, per unit
//	CLUB PRICE $4.49     sale-only
//	$3.99 ea             sale-only
//	Save $2.00           savings
//	Buy 2 Get 1 Free     needs a reference price
func ParsePrice(text string) (textparse.Quote, bool) {
	if text == "" {
		return textparse.Quote{}, false
	}
	if m := wasNowRe.FindStringSubmatch(text); m != nil {
		original, ok1 := textparse.ParseAmount(m[1])
		sale, ok2 := textparse.ParseAmount(m[2])
		if ok1 && ok2 && original > 0 && sale > 0 {
			return textparse.ResolvedQuote(original, sale), true
		}
	}
	if m := xForYRe.FindStringSubmatch(text); m != nil {
		qty, _ := strconv.Atoi(m[1])
		total, _ := textparse.ParseAmount(m[2])
		if qty > 0 && total > 0 {
			return textparse.SaleOnlyQuote(textparse.PerUnit(qty, total)), true
		}
	}
	for _, re := range []*regexp.Regexp{clubRe, eachRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if sale, ok := textparse.ParseAmount(m[1]); ok && sale > 0 {
				return textparse.SaleOnlyQuote(sale), true
			}
		}
	}
	if m := saveRe.FindStringSubmatch(text); m != nil {
		if amount, ok := textparse.ParseAmount(m[1]); ok && amount > 0 {
			return textparse.SavingsQuote(amount), true
		}
	}
	if m := bogoRe.FindStringSubmatch(text); m != nil {
		buy, _ := strconv.Atoi(m[1])
		free, _ := strconv.Atoi(m[2])
		return textparse.BuyGetFreeQuote(buy, free), true
	}
	return textparse.Quote{}, false
}

// ExtractPriceText returns the first price label found in a tile's text.
func ExtractPriceText(text string) string {
	for _, re := range priceTextPatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// ExtractTitle returns the first line that reads like a product name.
func ExtractTitle(lines []string) string {
	for _, line := range lines {
		if len(line) >= 3 && len(line) <= maxTitleLen && !labelLineRe.MatchString(line) {
			return line
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return truncate(lines[0])
}

// ReferencePrice finds the regular unit price in a tile's remaining text,
// preferring a dollar amount over a bare number.
func ReferencePrice(promo string) (float64, bool) {
	for _, re := range []*regexp.Regexp{dollarRe, bareNumRe} {
		if m := re.FindStringSubmatch(promo); m != nil {
			if v, ok := textparse.ParseAmount(m[1]); ok && v > 0 {
				return v, true
			}
		}
	}
	return 0, false
}

// ParseDates reads "MM/DD/YY - MM/DD/YY" or, inferring the year from now,
// "Valid MM/DD - MM/DD".
func ParseDates(text string, now time.Time) (textparse.DateRange, bool) {
	if r, ok := textparse.ParseSlashRange(text, false); ok {
		return r, true
	}
	return textparse.ParseSlashRangeNoYear(text, now)
}

// Week is the Safeway ad week, Wednesday through Tuesday.
func Week(now time.Time) textparse.DateRange {
	return textparse.WeekWindow(now, time.Wednesday)
}

func hasDate(text string) bool {
	return slashDateRe.MatchString(text)
}

// remainder is text with the title and price label removed.
func remainder(text, title, priceText string) string {
	text = strings.Replace(text, title, "", 1)
	text = strings.Replace(text, priceText, "", 1)
	return strings.Join(strings.Fields(text), " ")
}

func truncate(s string) string {
	if len(s) > maxTitleLen {
		return s[:maxTitleLen]
	}
	return s
}
