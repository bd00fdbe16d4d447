package cmd

import (
	"fmt"

	"github.com/lukman83/baydeals/internal/catalog"
	"github.com/spf13/cobra"
)

var dealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "List deals in the catalog",
	RunE:  runDeals,
}

func init() {
	dealsCmd.Flags().String("store", "", "Only deals from this store id")
	dealsCmd.Flags().String("category", "", "Only deals in this category id")
	dealsCmd.Flags().String("city", "", "Only deals offered in this city")
	dealsCmd.Flags().Bool("hot", false, "Only hot deals")
	dealsCmd.Flags().String("active-on", "", "Only deals running on this YYYY-MM-DD date")
	dealsCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(dealsCmd)
}

func runDeals(cmd *cobra.Command, args []string) error {
	var f catalog.Filter
	f.Store, _ = cmd.Flags().GetString("store")
	f.Category, _ = cmd.Flags().GetString("category")
	f.City, _ = cmd.Flags().GetString("city")
	f.HotOnly, _ = cmd.Flags().GetBool("hot")
	f.ActiveOn, _ = cmd.Flags().GetString("active-on")
	format, _ := cmd.Flags().GetString("format")

	deals, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	deals = f.Apply(deals)

	w := cmd.OutOrStdout()
	switch format {
	case "table":
		if len(deals) == 0 {
			fmt.Fprintln(w, "No deals found.")
			return nil
		}
		printDealsTable(w, deals)
		return nil
	case "json":
		return writeJSON(w, deals)
	default:
		return fmt.Errorf("unknown format %q (want json or table)", format)
	}
}
