// Package ranch99 scrapes the 99 Ranch Market weekly ad. The ad is a set of
// flyer images, so every section is read through OCR.
package ranch99

import (
	"context"
	"fmt"
	"time"

	"github.com/lukman83/baydeals/internal/fetch"
	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/retailer"
	"github.com/lukman83/baydeals/internal/textparse"
	"github.com/lukman83/baydeals/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	ID   = "ranch99"
	Name = "99 Ranch Market"
	URL  = "https://h5.awsprod.99ranch.com/stores/ad/1009"
)

var locations = []string{
	"san_jose", "milpitas", "cupertino", "mountain_view", "daly_city",
	"fremont", "newark", "richmond", "union_city", "foster_city",
	"concord", "dublin", "pleasanton",
}

type Scraper struct {
	deps        retailer.Deps
	concurrency int
}

type Option func(*Scraper)

// WithOCRConcurrency sets how many flyer images are read at once.
func WithOCRConcurrency(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func New(deps retailer.Deps, opts ...Option) *Scraper {
	s := &Scraper{deps: deps.WithDefaults(), concurrency: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scraper) ID() string          { return ID }
func (s *Scraper) Name() string        { return Name }
func (s *Scraper) Locations() []string { return append([]string(nil), locations...) }

func (s *Scraper) Scrape(ctx context.Context) ([]models.Candidate, error) {
	log := s.deps.Logger
	page, err := s.deps.Fetcher.Fetch(ctx, fetch.Request{
		URL:          URL,
		Settle:       3 * time.Second,
		SettleJitter: 2 * time.Second,
	})
	switch {
	case errors.HasCode(err, errors.CodeBrowser):
		log.Info(fmt.Sprintf("  [ranch99] Browser launch failed: %v", err))
		return nil, nil
	case errors.IsKnownBlock(err):
		log.Info(fmt.Sprintf("  [ranch99] Blocked or connection error: %v", err))
		return nil, nil
	case err != nil:
		return nil, err
	}

	sections := ExtractSections(page.Doc)
	log.Info(fmt.Sprintf("  Found %d ad sections", len(sections)))
	if len(sections) == 0 {
		return nil, nil
	}
	if s.deps.OCR == nil {
		log.Info("  [ranch99] No OCR reader configured, skipping flyers")
		return nil, nil
	}

	now := s.deps.Clock.Now()
	type job struct {
		section Section
		dates   textparse.DateRange
	}
	var jobs []job
	for _, sec := range sections {
		dates, ok := ParseDates(sec.Date, now)
		if !ok && sec.Date != "" {
			log.Info(fmt.Sprintf("  Skipping section %q: unparseable date %q", sec.Name, sec.Date))
			continue
		}
		if sec.ImageURL == "" {
			continue
		}
		if !ok {
			dates = FallbackWeek(now)
		}
		jobs = append(jobs, job{section: sec, dates: dates})
	}

	results := make([][]models.OcrDeal, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = s.deps.OCR.Flyer(gctx, j.section.ImageURL)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []models.Candidate
	for i, j := range jobs {
		for _, d := range results[i] {
			out = append(out, toCandidate(d, j.dates, j.section.Name))
		}
	}
	log.Info(fmt.Sprintf("  Extracted %d total deals via OCR", len(out)), zap.Int("sections", len(jobs)))
	return out, nil
}

func toCandidate(d models.OcrDeal, dates textparse.DateRange, section string) models.Candidate {
	return models.Candidate{
		Title:         d.Title,
		Description:   "99 Ranch " + section,
		OriginalPrice: d.OriginalPrice,
		SalePrice:     d.SalePrice,
		Unit:          d.Unit,
		StartDate:     dates.Start,
		ExpiryDate:    dates.Expiry,
		CategoryHints: d.CategoryHints,
		Details:       "99 Ranch Market weekly special - " + section,
	}
}
