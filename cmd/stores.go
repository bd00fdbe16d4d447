package cmd

import (
	"fmt"
	"strings"

	"github.com/lukman83/baydeals/internal/retailer"
	"github.com/spf13/cobra"
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "List the stores that can be scraped",
	Args:  cobra.NoArgs,
	RunE:  runStores,
}

func init() {
	storesCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(storesCmd)
}

func runStores(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	infos := make([]retailer.Info, 0)
	for _, s := range a.registry.All() {
		infos = append(infos, retailer.Describe(s))
	}

	w := cmd.OutOrStdout()
	if format == "json" {
		return writeJSON(w, infos)
	}
	for _, info := range infos {
		fmt.Fprintf(w, "%-10s %s (%d locations)\n", info.ID, info.Name, len(info.Locations))
		fmt.Fprintf(w, "           %s\n", truncate(strings.Join(info.Locations, ", "), 100))
	}
	return nil
}
