package cmd

import (
	"fmt"

	"github.com/lukman83/baydeals/internal/catalog"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the catalog's ids, prices, dates and locations",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	deals, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	problems := catalog.Check(deals)
	for _, p := range problems {
		fmt.Fprintln(w, p)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s: %d problems in %d deals", cfg.CatalogPath, len(problems), len(deals))
	}
	fmt.Fprintf(w, "%s: %d deals OK\n", cfg.CatalogPath, len(deals))
	return nil
}
