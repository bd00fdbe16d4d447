// Package pipeline turns one store's raw candidates into catalog deals:
// fetch with retry, validate, translate, then shape into Deals.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lukman83/baydeals/internal/category"
	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/retailer"
	"github.com/lukman83/baydeals/internal/retry"
	"github.com/lukman83/baydeals/internal/textparse"
	"github.com/lukman83/baydeals/internal/validate"
	"github.com/lukman83/baydeals/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultHotThreshold is the dollar savings at which a deal is hot.
	DefaultHotThreshold = 5.0
	// FetchRetries is the retry budget for a store's scrape step.
	FetchRetries = 2
)

// Translator fills the Chinese fields of validated candidates. It must
// return one result per input, in order, and never fail.
type Translator interface {
	TranslateBatch(ctx context.Context, candidates []models.Candidate) []models.TranslatedCandidate
}

// Runner runs the shared pipeline for any retailer.Scraper.
type Runner struct {
	translator   Translator
	logger       *zap.Logger
	retry        retry.Options
	hotThreshold float64
}

type Option func(*Runner)

// WithRetryOptions replaces the scrape retry policy. MaxRetries defaults
// to FetchRetries.
func WithRetryOptions(opts retry.Options) Option {
	return func(r *Runner) { r.retry = opts }
}

func WithHotThreshold(v float64) Option {
	return func(r *Runner) {
		if v > 0 {
			r.hotThreshold = v
		}
	}
}

func New(translator Translator, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		translator:   translator,
		logger:       logger,
		retry:        retry.Options{MaxRetries: FetchRetries},
		hotThreshold: DefaultHotThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.retry.MaxRetries <= 0 {
		r.retry.MaxRetries = FetchRetries
	}
	return r
}

// Run scrapes one store and returns its deals with ids numbered from 001.
// Known block errors (timeouts, resets, navigation failures, robots.txt)
// are logged and yield no deals; any other scrape error is returned.
func (r *Runner) Run(ctx context.Context, s retailer.Scraper) ([]models.Deal, error) {
	logger := r.logger.With(zap.String("store", s.ID()), zap.String("run_id", uuid.NewString()))
	logger.Info(fmt.Sprintf("[%s] Starting scrape...", s.ID()))
	retailer.ReportProgress(ctx, fmt.Sprintf("Scraping %s...", s.Name()))

	raw, err := retry.Do(ctx, logger, r.retry, s.Scrape)
	if err != nil {
		if errors.IsKnownBlock(err) {
			logger.Warn("  Blocked or connection error, skipping store", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	logger.Info(fmt.Sprintf("  Scraped %d raw deals", len(raw)))

	res := validate.Validate(logger, raw)
	if len(res.Errors) > 0 {
		logger.Info(fmt.Sprintf("  %d deals failed validation", len(res.Errors)))
	}
	if len(res.Valid) == 0 {
		logger.Info("  No valid deals to process")
		return nil, nil
	}

	retailer.ReportProgress(ctx, fmt.Sprintf("Translating %d %s deals...", len(res.Valid), s.Name()))
	translated := r.translate(ctx, res.Valid)

	locations := s.Locations()
	deals := make([]models.Deal, len(translated))
	for i, c := range translated {
		deals[i] = r.toDeal(s.ID(), locations, c, i)
	}
	logger.Info(fmt.Sprintf("  Produced %d final deals", len(deals)))
	return deals, nil
}

func (r *Runner) translate(ctx context.Context, valid []models.Candidate) []models.TranslatedCandidate {
	if r.translator != nil {
		if out := r.translator.TranslateBatch(ctx, valid); len(out) == len(valid) {
			return out
		}
		r.logger.Warn("Translator returned a short batch, using English text")
	}
	out := make([]models.TranslatedCandidate, len(valid))
	for i, c := range valid {
		out[i] = models.TranslatedCandidate{
			Candidate: c,
			TranslatedFields: models.TranslatedFields{
				TitleZh:       c.Title,
				DescriptionZh: c.Description,
				UnitZh:        c.Unit,
				DetailsZh:     c.Details,
			},
		}
	}
	return out
}

func (r *Runner) toDeal(storeID string, locations []string, c models.TranslatedCandidate, index int) models.Deal {
	return models.Deal{
		ID:            DealID(storeID, index+1),
		StoreID:       storeID,
		CategoryID:    category.Assign(c.Title, c.CategoryHints...),
		Title:         c.Title,
		TitleZh:       c.TitleZh,
		Description:   c.Description,
		DescriptionZh: c.DescriptionZh,
		OriginalPrice: c.OriginalPrice,
		SalePrice:     c.SalePrice,
		Unit:          c.Unit,
		UnitZh:        c.UnitZh,
		StartDate:     c.StartDate,
		ExpiryDate:    c.ExpiryDate,
		IsHot:         textparse.Round2(c.OriginalPrice-c.SalePrice) >= r.hotThreshold,
		Locations:     locations,
		Details:       c.Details,
		DetailsZh:     c.DetailsZh,
		ImageURL:      c.ImageURL,
	}
}

// DealID formats the per-store sequential id, e.g. "costco-007".
func DealID(storeID string, n int) string {
	return fmt.Sprintf("%s-%03d", storeID, n)
}
