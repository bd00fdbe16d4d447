package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lukman83/baydeals/config"
	"github.com/lukman83/baydeals/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "baydeals",
	Short: "Bay Area grocery weekly-ad deal scraper & MCP server",
	Long: "Scrapes weekly ads from Bay Area grocery stores, normalizes them into a deal catalog\n" +
		"and serves the catalog over MCP and HTTP.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		l, err := logging.NewLogger(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("catalog", "", "Path to the deal catalog (default from $DEALS_CATALOG or data/deals.json)")
	rootCmd.PersistentFlags().String("cache-dir", "", "Directory for the file caches")
	rootCmd.PersistentFlags().String("cache-backend", "", "Cache backend: file, memory, redis")
	rootCmd.PersistentFlags().String("fetcher", "", "Page fetcher: browser, http")
	rootCmd.PersistentFlags().String("delay-profile", "", "Delay profile: cautious, normal, aggressive, off")
	rootCmd.PersistentFlags().Bool("respect-robots", true, "Respect robots.txt rules")
	rootCmd.PersistentFlags().String("proxy-file", "", "Path to proxy list file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Override from flags
	flags := rootCmd.PersistentFlags()
	if v, _ := flags.GetString("catalog"); v != "" {
		cfg.CatalogPath = v
	}
	if v, _ := flags.GetString("cache-dir"); v != "" {
		cfg.CacheDir = v
	}
	if v, _ := flags.GetString("cache-backend"); v != "" {
		cfg.CacheBackend = v
	}
	if v, _ := flags.GetString("fetcher"); v != "" {
		cfg.Fetcher = v
	}
	if v, _ := flags.GetString("delay-profile"); v != "" {
		cfg.DelayProfile = v
	}
	if v, _ := flags.GetBool("respect-robots"); !v {
		cfg.RespectRobots = false
	}
	if v, _ := flags.GetString("proxy-file"); v != "" {
		cfg.ProxyFile = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := flags.GetString("log-file"); v != "" {
		cfg.LogFile = v
	}
}
