package cmd

import (
	"fmt"

	"github.com/lukman83/baydeals/internal/catalog"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Count catalog deals per category",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().String("store", "", "Only count deals from this store id")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	store, _ := cmd.Flags().GetString("store")

	deals, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	deals = catalog.Filter{Store: store}.Apply(deals)

	w := cmd.OutOrStdout()
	counts := catalog.CountByCategory(deals)
	if len(counts) == 0 {
		fmt.Fprintln(w, "No categories found.")
		return nil
	}

	fmt.Fprintf(w, "Categories (%d deals):\n\n", len(deals))
	for i, c := range counts {
		fmt.Fprintf(w, " %2d. %-20s  (%d deals)\n", i+1, formatCategory(c.ID), c.Count)
	}
	return nil
}
