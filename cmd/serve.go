package cmd

import (
	"fmt"

	mcpserver "github.com/lukman83/baydeals/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, closeApp, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting baydeals MCP server on stdio...")

	if err := mcpserver.Serve(svc); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

// newService builds the MCP service over a freshly wired app.
func newService(cmd *cobra.Command) (*mcpserver.Service, func(), error) {
	a, err := newApp(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	svc := &mcpserver.Service{
		CatalogPath: cfg.CatalogPath,
		Registry:    a.registry,
		Runner:      a.runner,
		Logger:      logger,
	}
	return svc, a.Close, nil
}
