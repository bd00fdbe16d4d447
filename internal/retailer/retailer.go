// Package retailer defines the capability every store scraper implements
// and the registry drivers look scrapers up in.
package retailer

import (
	"context"
	"time"

	"github.com/lukman83/baydeals/internal/fetch"
	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/textparse"
	"go.uber.org/zap"
)

// Scraper extracts raw deal candidates from one retailer's weekly ad.
// Scrape returns candidates in page order; validation, translation and
// shaping into Deals happen in the pipeline.
type Scraper interface {
	ID() string
	Name() string
	Locations() []string
	Scrape(ctx context.Context) ([]models.Candidate, error)
}

// Clock returns the current time. Scrapers take one so that week windows
// and year inference are deterministic under test.
type Clock func() time.Time

// Now returns c(), or time.Now when c is nil.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Info is the serialisable description of a registered store.
type Info struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Locations []string `json:"locations"`
}

func Describe(s Scraper) Info {
	return Info{ID: s.ID(), Name: s.Name(), Locations: s.Locations()}
}

// FlyerReader reads deals off a flyer image. It never fails; problems
// yield an empty result.
type FlyerReader interface {
	Flyer(ctx context.Context, imageURL string) []models.OcrDeal
}

// Deps are the collaborators every store scraper is built from.
type Deps struct {
	Fetcher fetch.Fetcher
	// OCR may be nil for stores that do not read flyer images.
	OCR    FlyerReader
	Rules  textparse.Rules
	Clock  Clock
	Logger *zap.Logger
}

// WithDefaults fills in a nop logger and default price rules.
func (d Deps) WithDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Rules == (textparse.Rules{}) {
		d.Rules = textparse.DefaultRules()
	}
	return d
}
