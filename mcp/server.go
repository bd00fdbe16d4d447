// Package mcp exposes the deal catalog and store scrapers as MCP tools,
// over stdio or HTTP.
package mcp

import (
	"context"
	"sync"
	"time"

	"github.com/lukman83/baydeals/internal/catalog"
	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/pipeline"
	"github.com/lukman83/baydeals/internal/retailer"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	serverName    = "baydeals"
	serverVersion = "1.0.0"
)

// Service is what the tools and HTTP routes operate on.
type Service struct {
	CatalogPath string
	Registry    *retailer.Registry
	Runner      *pipeline.Runner
	Logger      *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time

	// Scrapes share translation and OCR caches, so they run one at a time.
	scrapeMu sync.Mutex
}

func (svc *Service) now() time.Time {
	if svc.Now == nil {
		return time.Now()
	}
	return svc.Now()
}

func (svc *Service) logger() *zap.Logger {
	if svc.Logger == nil {
		return zap.NewNop()
	}
	return svc.Logger
}

// Deals loads the catalog and applies f.
func (svc *Service) Deals(f catalog.Filter) ([]models.Deal, error) {
	deals, err := catalog.Load(svc.CatalogPath)
	if err != nil {
		return nil, err
	}
	return f.Apply(deals), nil
}

// Scrape runs one store through the pipeline and, when merge is set and
// deals were found, merges them into the catalog.
func (svc *Service) Scrape(ctx context.Context, storeID string, merge bool) ([]models.Deal, bool, error) {
	scraper, err := svc.Registry.Get(storeID)
	if err != nil {
		return nil, false, err
	}

	svc.scrapeMu.Lock()
	defer svc.scrapeMu.Unlock()

	deals, err := svc.Runner.Run(ctx, scraper)
	if err != nil {
		return nil, false, err
	}
	if !merge || len(deals) == 0 {
		return deals, false, nil
	}
	if _, err := catalog.MergeFile(svc.CatalogPath, deals, svc.now(), svc.logger()); err != nil {
		return deals, false, err
	}
	return deals, true, nil
}

// NewServer creates the MCP server with all tools registered.
func NewServer(svc *Service) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	registerTools(s, svc)
	return s
}

// Serve starts the MCP stdio server with all tools registered.
func Serve(svc *Service) error {
	return server.ServeStdio(NewServer(svc))
}
