package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the translation and OCR caches",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every entry of one cache",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheClearCmd.Flags().String("kind", "", "Cache to clear: translations, ocr")
	_ = cacheClearCmd.MarkFlagRequired("kind")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")

	c, err := openCaches(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	store, err := c.Get(kind)
	if err != nil {
		return err
	}
	if err := store.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clear %s cache: %w", kind, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s cache (%s)\n", kind, cfg.CacheBackend)
	return nil
}
