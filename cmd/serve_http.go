package cmd

import (
	"fmt"

	mcpserver "github.com/lukman83/baydeals/mcp"
	"github.com/spf13/cobra"
)

var serveHTTPCmd = &cobra.Command{
	Use:   "serve-http",
	Short: "Start MCP HTTP server",
	Long:  "Start the MCP server over HTTP for remote access, alongside the /deals feed for the display frontend.",
	RunE:  runServeHTTP,
}

func init() {
	serveHTTPCmd.Flags().String("port", "", "HTTP port (default from $PORT or 8080)")
	rootCmd.AddCommand(serveHTTPCmd)
}

func runServeHTTP(cmd *cobra.Command, args []string) error {
	svc, closeApp, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	port := cfg.HTTPPort
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}

	return mcpserver.ServeHTTP(svc, mcpserver.HTTPOptions{
		Addr:        fmt.Sprintf(":%s", port),
		APIKey:      cfg.APIKey,
		CORSOrigins: cfg.CORSOrigins,
	})
}
