package cmd

import (
	"fmt"
	"time"

	"github.com/lukman83/baydeals/internal/catalog"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [deals.json]",
	Short: "Merge a deal array file into the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	fresh, err := catalog.Load(args[0])
	if err != nil {
		return err
	}
	if len(fresh) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s has no deals. catalog unchanged.\n", args[0])
		return nil
	}
	st, err := catalog.MergeFile(cfg.CatalogPath, fresh, time.Now(), logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Merged %d deals into %s (%d kept + %d new)\n", st.Total, cfg.CatalogPath, st.Kept, st.New)
	return nil
}
