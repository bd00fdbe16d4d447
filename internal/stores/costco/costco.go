// Package costco scrapes Costco's warehouse savings page.
package costco

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lukman83/baydeals/internal/fetch"
	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/retailer"
	"go.uber.org/zap"
)

const (
	ID   = "costco"
	Name = "Costco"
	URL  = "https://www.costco.com/warehouse-savings.html"

	description = "Costco warehouse savings"
	details     = "Costco warehouse savings. Member only."
	maxTitleLen = 200
)

var locations = []string{
	"san_jose", "sunnyvale", "mountain_view", "redwood_city",
	"san_francisco", "daly_city", "south_sf", "fremont",
	"hayward", "richmond", "danville", "livermore", "gilroy", "foster_city",
}

// Tile selectors Costco has used over time, most specific first.
var tileSelectors = []string{
	".product-tile-set .product-tile",
	".product-list .product",
	`[data-testid="product-tile"]`,
	".warehouse-savings-item",
	".col-xs-6.col-md-4",
	".product-img-holder",
	`div[class*="product"]`,
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
		Settle:       3 * time.Second,
		SettleJitter: 2 * time.Second,
		ScrollSteps:  2,
	})
	if err != nil {
		return nil, err
	}

	items := s.extractItems(page.Doc)
	s.deps.Logger.Info(fmt.Sprintf("  Found %d raw items on page", len(items)))

	var out []models.Candidate
	for _, it := range items {
		if c, ok := parseItem(it); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

type rawItem struct {
	title string
	text  string
}

func (s *Scraper) extractItems(doc *goquery.Document) []rawItem {
	selector, tiles, ok := fetch.FirstMatch(doc, tileSelectors, 1)
	if !ok {
		s.deps.Logger.Info("  No product tiles found with known selectors")
		return nil
	}
	s.deps.Logger.Info(fmt.Sprintf("  Using selector: %s (%d items)", selector, tiles.Length()))

	var items []rawItem
	tiles.Each(func(_ int, tile *goquery.Selection) {
		text := fetch.InnerText(tile)
		lines := fetch.Lines(text)
		if len(lines) > 2 {
			lines = lines[:2]
		}
		title := strings.TrimSpace(strings.Join(lines, " "))
		if len(title) < 5 {
			return
		}
		if len(title) > maxTitleLen {
			title = title[:maxTitleLen]
		}
		items = append(items, rawItem{title: title, text: text})
	})
	return items
}

func parseItem(it rawItem) (models.Candidate, bool) {
	q, ok := ParsePrice(it.text)
	if !ok {
		return models.Candidate{}, false
	}
	dates, ok := ParseDates(it.text)
	if !ok {
		return models.Candidate{}, false
	}
	return models.Candidate{
		Title:         it.title,
		Description:   description,
		OriginalPrice: q.Original,
		SalePrice:     q.Sale,
		StartDate:     dates.Start,
		ExpiryDate:    dates.Expiry,
		CategoryHints: []string{},
		Details:       details,
	}, true
}
