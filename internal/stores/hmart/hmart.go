// Package hmart scrapes the H Mart Northern California weekly ad. The page
// is either a product grid or a set of flyer images; flyers are read
// through OCR when enabled.
package hmart

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lukman83/baydeals/internal/fetch"
	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/retailer"
	"github.com/lukman83/baydeals/internal/textparse"
)

const (
	ID   = "hmart"
	Name = "H Mart"
	URL  = "https://www.hmart.com/weekly-ads/northern-california"

	details     = "H Mart weekly ad special."
	maxTitleLen = 200
)

var locations = []string{
	"san_jose", "santa_clara", "milpitas", "fremont", "oakland", "san_francisco",
}

var productSelectors = []string{
	".vtex-product-summary",
	`[class*="product-summary"]`,
	`[class*="productSummary"]`,
	".product-item",
	".product-card",
	`[data-testid="product"]`,
	`[class*="product"]`,
	"article",
}

var (
	titleSelectors = []string{"h2", "h3", "h4", `[class*="name"]`, `[class*="title"]`}
	priceSelectors = []string{`[class*="price"]`, `[class*="Price"]`, "span", ".price"}

	priceHintRe     = regexp.MustCompile(`(?i)\$|for|%`)
	tilePriceRe     = regexp.MustCompile(`\$[\d,.]+(?:\s*/\s*\w+)?`)
	genericPriceRe  = regexp.MustCompile(`(?i)\$[\d,.]+(?:\s*/\s*\w+)?|\d+\s+for\s+\$[\d,.]+`)
	multiBuyRe      = regexp.MustCompile(`(?i)\d\s*for\s*\$`)
	flyerKeywordsRe = regexp.MustCompile(`(?i)weekly|flyer|ad|circular`)
)

// Item is one product tile.
type Item struct {
	Title     string
	PriceText string
	ImageURL  string
}

type Scraper struct {
	deps     retailer.Deps
	flyerOCR bool
}

type Option func(*Scraper)

// WithFlyerOCR reads image-based ads through the OCR reader.
func WithFlyerOCR(enabled bool) Option {
	return func(s *Scraper) { s.flyerOCR = enabled }
}

func New(deps retailer.Deps, opts ...Option) *Scraper {
	s := &Scraper{deps: deps.WithDefaults()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scraper) ID() string          { return ID }
func (s *Scraper) Name() string        { return Name }
func (s *Scraper) Locations() []string { return append([]string(nil), locations...) }

// Week is the H Mart ad week, Friday through Thursday.
func Week(now time.Time) textparse.DateRange {
	return textparse.WeekWindow(now, time.Friday)
}

func (s *Scraper) Scrape(ctx context.Context) ([]models.Candidate, error) {
	log := s.deps.Logger
	page, err := s.deps.Fetcher.Fetch(ctx, fetch.Request{
		URL:          URL,
		Settle:       5 * time.Second,
		SettleJitter: 2 * time.Second,
		ScrollSteps:  3,
		ScrollStep:   600,
	})
	if err != nil {
		return nil, err
	}

	week := Week(s.deps.Clock.Now())
	contentType := DetectContentType(page.HTML)
	log.Info(fmt.Sprintf("  Content type: %s", contentType))

	if contentType == ImageBased {
		return s.scrapeFlyers(ctx, page.Doc, week), nil
	}

	items := s.extractStructured(page.Doc)
	log.Info(fmt.Sprintf("  Extracted %d structured deals", len(items)))

	var out []models.Candidate
	for _, it := range items {
		if c, ok := s.ToCandidate(it, week); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Scraper) scrapeFlyers(ctx context.Context, doc *goquery.Document, week textparse.DateRange) []models.Candidate {
	log := s.deps.Logger
	log.Info("  H Mart ads appear to be image-based flyers.")
	urls := FlyerImages(doc)
	if len(urls) > 0 {
		log.Info(fmt.Sprintf("  Found %d flyer image(s)", len(urls)))
	}
	if !s.flyerOCR || s.deps.OCR == nil {
		return nil
	}

	var out []models.Candidate
	for _, u := range urls {
		for _, d := range s.deps.OCR.Flyer(ctx, u) {
			out = append(out, models.Candidate{
				Title:         truncate(d.Title),
				Description:   fmt.Sprintf("H Mart weekly special: $%.2f", d.SalePrice),
				OriginalPrice: d.OriginalPrice,
				SalePrice:     d.SalePrice,
				Unit:          d.Unit,
				StartDate:     week.Start,
				ExpiryDate:    week.Expiry,
				CategoryHints: d.CategoryHints,
				Details:       details,
			})
		}
	}
	log.Info(fmt.Sprintf("  Extracted %d deals from flyers via OCR", len(out)))
	return out
}

// FlyerImages returns image sources that look like weekly ad pages.
func FlyerImages(doc *goquery.Document) []string {
	var urls []string
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr("src", "")
		if src == "" {
			return
		}
		width, _ := strconv.Atoi(img.AttrOr("width", ""))
		if flyerKeywordsRe.MatchString(src) || flyerKeywordsRe.MatchString(img.AttrOr("alt", "")) || width > 400 {
			urls = append(urls, src)
		}
	})
	return urls
}

func (s *Scraper) extractStructured(doc *goquery.Document) []Item {
	selector, tiles, ok := fetch.FirstMatch(doc, productSelectors, 3)
	if !ok {
		s.deps.Logger.Info("  No structured product elements found")
		return extractGeneric(doc)
	}
	s.deps.Logger.Info(fmt.Sprintf("  Using selector: %s (%d items)", selector, tiles.Length()))

	seen := make(map[string]bool)
	var items []Item
	tiles.Each(func(_ int, tile *goquery.Selection) {
		text := tile.Text()
		if len(text) < 5 {
			return
		}
		title := firstText(tile, titleSelectors, nil)
		if len(title) < 3 || seen[title] {
			return
		}
		priceText := firstText(tile, priceSelectors, priceHintRe)
		if priceText == "" {
			priceText = tilePriceRe.FindString(text)
		}
		if priceText == "" {
			return
		}
		seen[title] = true
		items = append(items, Item{
			Title:     title,
			PriceText: priceText,
			ImageURL:  tile.Find("img").First().AttrOr("src", ""),
		})
	})
	return items
}

// firstText returns the trimmed text of the first element matching the
// earliest selector that yields non-empty text accepted by filter.
func firstText(tile *goquery.Selection, selectors []string, filter *regexp.Regexp) string {
	for _, sel := range selectors {
		el := tile.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(el.Text())
		if text != "" && (filter == nil || filter.MatchString(text)) {
			return text
		}
	}
	return ""
}

// extractGeneric scans every block for a heading next to a price when the
// page uses none of the known product classes.
func extractGeneric(doc *goquery.Document) []Item {
	seen := make(map[string]bool)
	var items []Item
	doc.Find("div, article, section, li").Each(func(_ int, el *goquery.Selection) {
		text := strings.TrimSpace(el.Text())
		if len(text) < 10 || len(text) > 500 {
			return
		}
		if !strings.Contains(text, "$") && !multiBuyRe.MatchString(text) {
			return
		}
		title := strings.TrimSpace(el.Find(`h2, h3, h4, [class*="title"], [class*="name"]`).First().Text())
		if len(title) < 3 || len(title) > maxTitleLen || seen[title] {
			return
		}
		price := genericPriceRe.FindString(text)
		if price == "" {
			return
		}
		seen[title] = true
		items = append(items, Item{
			Title:     title,
			PriceText: price,
			ImageURL:  el.Find("img").First().AttrOr("src", ""),
		})
	})
	return items
}

// ToCandidate prices a tile. The page shows only the sale price, so the
// original is estimated with the markup rule; percent-off labels have no
// reference price and are skipped.
func (s *Scraper) ToCandidate(it Item, week textparse.DateRange) (models.Candidate, bool) {
	q, ok := ParsePrice(it.PriceText)
	if !ok || q.Kind != textparse.SaleOnly {
		return models.Candidate{}, false
	}
	sale := q.Sale
	original := s.deps.Rules.EstimateOriginal(sale)
	if !textparse.Accept(original, sale) {
		return models.Candidate{}, false
	}
	return models.Candidate{
		Title:         truncate(it.Title),
		Description:   fmt.Sprintf("H Mart weekly special: $%.2f", sale),
		OriginalPrice: original,
		SalePrice:     sale,
		Unit:          Unit(it.PriceText),
		StartDate:     week.Start,
		ExpiryDate:    week.Expiry,
		CategoryHints: []string{},
		Details:       details,
		ImageURL:      it.ImageURL,
	}, true
}

func truncate(title string) string {
	if len(title) > maxTitleLen {
		return title[:maxTitleLen]
	}
	return title
}
