// Package safeway scrapes the Safeway weekly ad.
package safeway

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lukman83/baydeals/internal/fetch"
	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/retailer"
	"github.com/lukman83/baydeals/internal/textparse"
)

const (
	ID   = "safeway"
	Name = "Safeway"
	URL  = "https://www.safeway.com/weeklyad/"

	details     = "Safeway weekly ad special."
	maxTitleLen = 200
	// headerScanLimit bounds how many elements per date selector are read.
	headerScanLimit = 5
)

var locations = []string{
	"san_jose", "sunnyvale", "santa_clara", "cupertino", "milpitas", "mountain_view",
	"los_altos", "campbell", "saratoga", "los_gatos", "palo_alto", "menlo_park",
	"redwood_city", "san_mateo", "foster_city", "burlingame", "san_bruno", "south_sf",
	"daly_city", "san_carlos", "belmont", "san_francisco", "fremont", "newark",
	"union_city", "hayward", "san_leandro", "alameda", "oakland", "berkeley",
	"richmond", "walnut_creek", "concord", "pleasanton", "dublin", "livermore",
	"san_ramon", "danville",
}

var (
	dateSelectors = []string{
		`[class*="date"]`,
		`[class*="valid"]`,
		".weekly-ad-header",
		".ad-dates",
		"h1", "h2", "h3",
	}

	tileSelectors = []string{
		".weekly-ad-item",
		`[data-testid="product-card"]`,
		".grid-item-container",
		".product-card",
		`[class*="deal"]`,
		`[class*="offer"]`,
		`[class*="product"]`,
		"article",
	}

	multiBuyRe  = regexp.MustCompile(`(?i)\d\s*for\s*\$`)
	promoWordRe = regexp.MustCompile(`(?i)save|free|off`)
	genericHint = regexp.MustCompile(`(?i)save|free`)
)

// Item is one deal tile. PromoText is the tile's text outside the title
// and price label; it supplies the reference price for BOGO offers.
type Item struct {
	Title     string
	PriceText string
	PromoText string
	ImageURL  string
}

type Scraper struct {
	deps retailer.Deps
}

func New(deps retailer.Deps) *Scraper {
	return &Scraper{deps: deps.WithDefaults()}
}

func (s *Scraper) ID() string          { return ID }
func (s *Scraper) Name() string        { return Name }
func (s *Scraper) Locations() []string { return append([]string(nil), locations...) }

func (s *Scraper) Scrape(ctx context.Context) ([]models.Candidate, error) {
	page, err := s.deps.Fetcher.Fetch(ctx, fetch.Request{
		URL:          URL,
		Settle:       5 * time.Second,
		SettleJitter: 2 * time.Second,
		ScrollSteps:  5,
		ScrollStep:   800,
	})
	if err != nil {
		return nil, err
	}

	now := s.deps.Clock.Now()
	week, ok := ParseDates(DateHeader(page.Doc), now)
	if !ok {
		week = Week(now)
	}

	items := s.extractItems(page.Doc)
	s.deps.Logger.Info(fmt.Sprintf("  Extracted %d items from page", len(items)))

	var out []models.Candidate
	for _, it := range items {
		if c, ok := s.ToCandidate(it, week); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// DateHeader returns the first header text that carries a M/D date.
func DateHeader(doc *goquery.Document) string {
	for _, sel := range dateSelectors {
		var found string
		doc.Find(sel).EachWithBreak(func(i int, el *goquery.Selection) bool {
			if i >= headerScanLimit {
				return false
			}
			if text := el.Text(); hasDate(text) {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func (s *Scraper) extractItems(doc *goquery.Document) []Item {
	selector, tiles, ok := fetch.FirstMatch(doc, tileSelectors, 3)
	if !ok {
		s.deps.Logger.Info("  No deal tiles found with known selectors, scanning page")
		return extractGeneric(doc)
	}
	s.deps.Logger.Info(fmt.Sprintf("  Using selector: %s (%d items)", selector, tiles.Length()))

	seen := make(map[string]bool)
	var items []Item
	tiles.Each(func(_ int, tile *goquery.Selection) {
		text := fetch.InnerText(tile)
		if len(text) < 5 {
			return
		}
		if !strings.Contains(text, "$") && !multiBuyRe.MatchString(text) && !promoWordRe.MatchString(text) {
			return
		}
		title := ExtractTitle(fetch.Lines(text))
		if len(title) < 3 || seen[title] {
			return
		}
		priceText := ExtractPriceText(text)
		if priceText == "" {
			return
		}
		seen[title] = true
		items = append(items, Item{
			Title:     title,
			PriceText: priceText,
			PromoText: remainder(text, title, priceText),
			ImageURL:  tile.Find("img").First().AttrOr("src", ""),
		})
	})
	return items
}

// extractGeneric scans every block for a heading next to a price when no
// tile selector matches.
func extractGeneric(doc *goquery.Document) []Item {
	seen := make(map[string]bool)
	var items []Item
	doc.Find("div, article, section, li").Each(func(_ int, el *goquery.Selection) {
		// A block holding several headings is a container, not a deal.
		if el.Find("h2, h3, h4").Length() > 1 {
			return
		}
		text := fetch.InnerText(el)
		if len(text) < 10 || len(text) > 500 {
			return
		}
		if !strings.Contains(text, "$") && !multiBuyRe.MatchString(text) && !genericHint.MatchString(text) {
			return
		}
		title := strings.TrimSpace(el.Find(`h2, h3, h4, [class*="title"], [class*="name"]`).First().Text())
		if len(title) < 3 || len(title) > maxTitleLen || seen[title] {
			return
		}
		priceText := ExtractPriceText(text)
		if priceText == "" {
			return
		}
		seen[title] = true
		items = append(items, Item{
			Title:     title,
			PriceText: priceText,
			PromoText: remainder(text, title, priceText),
			ImageURL:  el.Find("img").First().AttrOr("src", ""),
		})
	})
	return items
}

// ToCandidate resolves a tile's price label into a candidate.
func (s *Scraper) ToCandidate(it Item, week textparse.DateRange) (models.Candidate, bool) {
	q, ok := ParsePrice(it.PriceText)
	if !ok {
		return models.Candidate{}, false
	}

	var original, sale float64
	var desc string
	switch q.Kind {
	case textparse.Resolved:
		original, sale = q.Original, q.Sale
		desc = fmt.Sprintf("Was $%.2f, now $%.2f", original, sale)
	case textparse.NeedsReference:
		ref, ok := ReferencePrice(it.PromoText)
		if !ok {
			return models.Candidate{}, false
		}
		original = ref
		sale = textparse.FromBuyGetFree(ref, q.Buy, q.Free)
		desc = fmt.Sprintf("Buy %d get %d free", q.Buy, q.Free)
	case textparse.Savings:
		original, sale = s.deps.Rules.FromSavings(q.Amount)
		desc = fmt.Sprintf("Save $%.2f", q.Amount)
	case textparse.SaleOnly:
		sale = q.Sale
		original = s.deps.Rules.EstimateOriginal(sale)
		desc = fmt.Sprintf("Club price $%.2f", sale)
	default:
		return models.Candidate{}, false
	}

	if !textparse.Accept(original, sale) {
		return models.Candidate{}, false
	}
	return models.Candidate{
		Title:         truncate(it.Title),
		Description:   desc,
		OriginalPrice: original,
		SalePrice:     sale,
		StartDate:     week.Start,
		ExpiryDate:    week.Expiry,
		CategoryHints: []string{},
		Details:       details,
		ImageURL:      it.ImageURL,
	}, true
}
