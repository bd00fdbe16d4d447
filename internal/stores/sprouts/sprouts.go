// Package sprouts scrapes the Sprouts Farmers Market weekly ad.
package sprouts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lukman83/baydeals/internal/fetch"
	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/retailer"
	"github.com/lukman83/baydeals/internal/textparse"
)

const (
	ID   = "sprouts"
	Name = "Sprouts Farmers Market"
	URL  = "https://www.sprouts.com/weekly-ad/"

	maxTitleLen = 200
	// imageSearchDepth bounds how far up from a heading we look for its
	// product image.
	imageSearchDepth = 4
)

var locations = []string{
	"san_jose", "sunnyvale", "santa_clara", "mountain_view", "san_mateo", "fremont",
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

// Week is the Sprouts ad week, Wednesday through Tuesday.
func Week(now time.Time) textparse.DateRange {
	return textparse.WeekWindow(now, time.Wednesday)
}

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

	items := extractItems(page.Doc)
	s.deps.Logger.Info(fmt.Sprintf("  Extracted %d items from page", len(items)))

	week := Week(s.deps.Clock.Now())
	var out []models.Candidate
	for _, it := range items {
		if c, ok := ToCandidate(it, week); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// The ad uses hashed class names that change between builds; each h3 holds
// one deal's full text.
func extractItems(doc *goquery.Document) []Item {
	seen := make(map[string]bool)
	var items []Item
	doc.Find("h3").Each(func(_ int, h3 *goquery.Selection) {
		it, ok := ParseBlob(h3.Text())
		if !ok || seen[it.Name] {
			return
		}
		seen[it.Name] = true
		it.ImageURL = nearbyImage(h3)
		items = append(items, it)
	})
	return items
}

func nearbyImage(sel *goquery.Selection) string {
	p := sel.Parent()
	for range imageSearchDepth {
		// Stop once the ancestor spans other deals.
		if p.Length() == 0 || p.Find("h3").Length() > 1 {
			break
		}
		img := p.Find("img").First()
		for _, attr := range []string{"src", "data-src"} {
			if src, ok := img.Attr(attr); ok && strings.HasPrefix(src, "http") {
				return src
			}
		}
		p = p.Parent()
	}
	return ""
}
