package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lukman83/baydeals/internal/catalog"
	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/pipeline"
	"github.com/lukman83/baydeals/internal/retailer"
	"github.com/lukman83/baydeals/internal/ui"
	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape one store and merge its deals into the catalog",
	RunE:  runScrape,
}

var scrapeAllCmd = &cobra.Command{
	Use:   "scrape-all",
	Short: "Scrape every store and merge the deals into the catalog",
	RunE:  runScrapeAll,
}

func init() {
	scrapeCmd.Flags().String("store", "", "Store id (see `baydeals stores`)")
	scrapeCmd.Flags().Bool("dry-run", false, "Print deals instead of merging them")
	_ = scrapeCmd.MarkFlagRequired("store")

	scrapeAllCmd.Flags().Int("concurrency", 0, "Stores scraped at once (default from $DEALS_MAX_CONCURRENT)")
	scrapeAllCmd.Flags().Bool("dry-run", false, "Print deals instead of merging them")

	rootCmd.AddCommand(scrapeCmd, scrapeAllCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	storeID, _ := cmd.Flags().GetString("store")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.registry.Get(storeID)
	if err != nil {
		return err
	}

	spin := newSpinner()
	spin.Start(fmt.Sprintf("Scraping %s...", s.Name()))
	ctx := retailer.WithProgress(cmd.Context(), spin.Update)
	deals, err := a.runner.Run(ctx, s)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("scrape %s failed: %w", storeID, err)
	}

	return finish(cmd.OutOrStdout(), deals, dryRun)
}

func runScrapeAll(cmd *cobra.Command, args []string) error {
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if concurrency <= 0 {
		concurrency = cfg.MaxConcurrent
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	spin := newSpinner()
	spin.Start("Scraping all stores...")
	ctx := retailer.WithProgress(cmd.Context(), spin.Update)
	results := a.runner.RunAll(ctx, a.registry.All(), concurrency)
	spin.Stop()

	pipeline.LogSummary(logger, results)
	return finish(cmd.OutOrStdout(), pipeline.AllDeals(results), dryRun)
}

// finish prints or merges the scraped deals.
func finish(w io.Writer, deals []models.Deal, dryRun bool) error {
	if dryRun {
		if deals == nil {
			deals = []models.Deal{}
		}
		return writeJSON(w, deals)
	}
	if len(deals) == 0 {
		fmt.Fprintln(w, "No deals scraped. catalog unchanged.")
		return nil
	}
	st, err := catalog.MergeFile(cfg.CatalogPath, deals, time.Now(), logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Merged %d deals into %s (%d kept + %d new)\n", st.Total, cfg.CatalogPath, st.Kept, st.New)
	return nil
}

// newSpinner draws on stderr only when logs go elsewhere; otherwise the
// log lines already show progress.
func newSpinner() *ui.Spinner {
	if cfg.LogFile == "" {
		return ui.NewSpinner(io.Discard)
	}
	return ui.NewSpinner(os.Stderr)
}
