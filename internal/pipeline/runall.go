package pipeline

import (
	"context"
	"fmt"

	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/retailer"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Result is one store's outcome in a multi-store run.
type Result struct {
	StoreID string
	Deals   []models.Deal
	Err     error
}

// RunAll runs every scraper and never lets one store's failure stop the
// others. Stores run one at a time unless concurrency > 1. Results are in
// scraper order either way.
func (r *Runner) RunAll(ctx context.Context, scrapers []retailer.Scraper, concurrency int) []Result {
	results := make([]Result, len(scrapers))
	run := func(i int) {
		s := scrapers[i]
		deals, err := r.Run(ctx, s)
		if err != nil {
			r.logger.Error(fmt.Sprintf("[%s] FAILED: %v", s.ID(), err))
		}
		results[i] = Result{StoreID: s.ID(), Deals: deals, Err: err}
	}

	if concurrency <= 1 {
		for i := range scrapers {
			if ctx.Err() != nil {
				results[i] = Result{StoreID: scrapers[i].ID(), Err: ctx.Err()}
				continue
			}
			run(i)
		}
		return results
	}

	p := pool.New().WithMaxGoroutines(concurrency)
	for i := range scrapers {
		p.Go(func() { run(i) })
	}
	p.Wait()
	return results
}

// AllDeals concatenates the deals of every result in order.
func AllDeals(results []Result) []models.Deal {
	var out []models.Deal
	for _, res := range results {
		out = append(out, res.Deals...)
	}
	return out
}

// Summary renders one line per store: "costco: 12 deals" or
// "costco: FAILED (message)" with the message cut to 60 characters.
func Summary(results []Result) []string {
	lines := make([]string, len(results))
	for i, res := range results {
		if res.Err != nil {
			msg := res.Err.Error()
			if len(msg) > 60 {
				msg = msg[:60]
			}
			lines[i] = fmt.Sprintf("%s: FAILED (%s)", res.StoreID, msg)
			continue
		}
		lines[i] = fmt.Sprintf("%s: %d deals", res.StoreID, len(res.Deals))
	}
	return lines
}

// LogSummary writes Summary to logger.
func LogSummary(logger *zap.Logger, results []Result) {
	logger.Info("=== Summary ===")
	for _, line := range Summary(results) {
		logger.Info("  " + line)
	}
}
