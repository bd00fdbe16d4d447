package sprouts

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/textparse"
)

// Item is one deal read out of a weekly-ad heading blob.
type Item struct {
	Name      string
	Price     float64
	PromoText string
	Size      string
	ImageURL  string
}

var (
	bogoNameRe      = regexp.MustCompile(`(?:Buy \d+, get \d+ (?:free|\d+% off))([A-Z][^★]+?)(?:★|$)`)
	origPriceNameRe = regexp.MustCompile(`Original Price:[^$]*\$[\d,.]+(?:\s*/\s*\w+)?(.+?)(?:★|$)`)
	fallbackNameRe  = regexp.MustCompile(`\$\d[\d,.]*([A-Z][A-Za-z' &\-]+(?:\s+[A-Z][A-Za-z' &\-]+)*)`)
	namePriceRe     = regexp.MustCompile(`(?i)^(?:per\s+\w+)?\$[\d,.]+`)

	currentPriceRe = regexp.MustCompile(`(?i)Current price:\s*\$?([\d,.]+)`)
	origPriceRe    = regexp.MustCompile(`(?i)Original Price:[^$]*\$([\d,.]+)`)
	sizeRe         = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(oz|lb|ct|fl oz|gal|qt|pt|pk|count|each|container)\b`)

	bogoFreeRe    = regexp.MustCompile(`(?i)buy\s+(\d+)[,.]?\s*get\s+(\d+)\s+free`)
	bogoPercentRe = regexp.MustCompile(`(?i)buy\s+\d+[,.]?\s*get\s+\d+\s+(\d+)%\s*off`)
	wasRe         = regexp.MustCompile(`(?i)was\s+\$?([\d,.]+)`)
	saveRe        = regexp.MustCompile(`(?i)save\s+\$?([\d,.]+)`)
	percentOffRe  = regexp.MustCompile(`(?i)(\d+)%\s*off`)
	unitRe        = regexp.MustCompile(`(?i)(lb|oz|ct|gal|each|pk)`)
)

// ParseBlob reads a heading's text, e.g.
//
//	OrganicCurrent price: $6.99$699Buy 1, get 1 50% offOrganic Strawberries★★★★★(502)1 lb container
//
// ok is false when the blob has no name, no current price or no promotion.
func ParseBlob(blob string) (Item, bool) {
	blob = strings.TrimSpace(blob)
	if len(blob) < 10 || !strings.Contains(blob, "$") {
		return Item{}, false
	}

	name := extractName(blob)
	if len(name) < 3 {
		return Item{}, false
	}

	m := currentPriceRe.FindStringSubmatch(blob)
	if m == nil {
		return Item{}, false
	}
	price, ok := textparse.ParseAmount(m[1])
	if !ok || price <= 0 {
		return Item{}, false
	}

	var promo string
	if m := bogoFreeRe.FindString(blob); m != "" {
		promo = m
	} else if m := bogoPercentRe.FindString(blob); m != "" {
		promo = m
	} else if m := origPriceRe.FindStringSubmatch(blob); m != nil {
		promo = "was $" + m[1]
	}
	if promo == "" {
		return Item{}, false
	}

	var size string
	if m := sizeRe.FindStringSubmatch(blob); m != nil {
		size = m[1] + " " + m[2]
	}

	name = strings.TrimSpace(namePriceRe.ReplaceAllString(name, ""))
	if len(name) < 3 {
		return Item{}, false
	}
	return Item{Name: name, Price: price, PromoText: promo, Size: size}, true
}

func extractName(blob string) string {
	for _, re := range []*regexp.Regexp{bogoNameRe, origPriceNameRe, fallbackNameRe} {
		if m := re.FindStringSubmatch(blob); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name
			}
		}
	}
	return ""
}

// Resolve turns a promotion into an (original, sale) pair plus a short
// description. Rules apply in order: buy-N-get-M free, buy-N-get-M X% off,
// was $X, save $X, X% off.
func Resolve(price float64, promo, size string) (original, sale float64, desc string, ok bool) {
	each := size
	if each == "" {
		each = "each"
	}

	switch {
	case bogoFreeRe.MatchString(promo):
		m := bogoFreeRe.FindStringSubmatch(promo)
		buy, _ := strconv.Atoi(m[1])
		free, _ := strconv.Atoi(m[2])
		original = price
		sale = textparse.FromBuyGetFree(price, buy, free)
		desc = fmt.Sprintf("Buy %d get %d free (%s)", buy, free, each)
	case bogoPercentRe.MatchString(promo):
		pct, _ := strconv.Atoi(bogoPercentRe.FindStringSubmatch(promo)[1])
		original = price
		sale = textparse.Round2(price * (2 - float64(pct)/100) / 2)
		desc = fmt.Sprintf("Buy 1 get 1 %d%% off (%s)", pct, each)
	case wasRe.MatchString(promo):
		was, _ := textparse.ParseAmount(wasRe.FindStringSubmatch(promo)[1])
		original, sale = was, price
		desc = fmt.Sprintf("Was $%.2f, now $%.2f (%s)", original, sale, each)
	case saveRe.MatchString(promo):
		savings, _ := textparse.ParseAmount(saveRe.FindStringSubmatch(promo)[1])
		original, sale = textparse.Round2(price+savings), price
		desc = fmt.Sprintf("Save $%.2f (%s)", savings, each)
	case percentOffRe.MatchString(promo):
		pct, _ := strconv.Atoi(percentOffRe.FindStringSubmatch(promo)[1])
		original, sale = textparse.FromPercentOff(price, pct), price
		desc = fmt.Sprintf("%d%% off (%s)", pct, each)
	default:
		return 0, 0, "", false
	}

	if !textparse.Accept(original, sale) {
		return 0, 0, "", false
	}
	return original, sale, desc, true
}

// Unit derives "/lb", "/oz" and the like from a size string.
func Unit(size string) string {
	if m := unitRe.FindStringSubmatch(size); m != nil {
		return "/" + strings.ToLower(m[1])
	}
	return ""
}

// ToCandidate applies Resolve and fills in the ad week's dates.
func ToCandidate(it Item, week textparse.DateRange) (models.Candidate, bool) {
	original, sale, desc, ok := Resolve(it.Price, it.PromoText, it.Size)
	if !ok {
		return models.Candidate{}, false
	}
	title := it.Name
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen]
	}
	return models.Candidate{
		Title:         title,
		Description:   desc,
		OriginalPrice: original,
		SalePrice:     sale,
		Unit:          Unit(it.Size),
		StartDate:     week.Start,
		ExpiryDate:    week.Expiry,
		CategoryHints: []string{},
		Details:       fmt.Sprintf("Sprouts Farmers Market weekly special. %s.", it.PromoText),
		ImageURL:      it.ImageURL,
	}, true
}
