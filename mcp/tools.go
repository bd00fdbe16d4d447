package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lukman83/baydeals/internal/catalog"
	"github.com/lukman83/baydeals/internal/category"
	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/retailer"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(s *server.MCPServer, svc *Service) {
	// list_deals
	dealsTool := mcp.NewTool("list_deals",
		mcp.WithDescription("List current grocery deals from the catalog"),
		mcp.WithString("store",
			mcp.Description("Store id, e.g. costco, sprouts, safeway, hmart, ranch99"),
		),
		mcp.WithString("category",
			mcp.Description("Category id, e.g. produce, meat, dairy"),
		),
		mcp.WithString("city",
			mcp.Description("City identifier, e.g. san_jose"),
		),
		mcp.WithBoolean("hot_only",
			mcp.Description("Only deals saving at least the hot threshold"),
		),
		mcp.WithString("active_on",
			mcp.Description("Only deals valid on this date (YYYY-MM-DD)"),
		),
	)
	s.AddTool(dealsTool, svc.handleListDeals)

	// list_stores
	storesTool := mcp.NewTool("list_stores",
		mcp.WithDescription("List the stores that can be scraped and the cities they cover"),
	)
	s.AddTool(storesTool, svc.handleListStores)

	// list_categories
	categoriesTool := mcp.NewTool("list_categories",
		mcp.WithDescription("Count catalog deals per category"),
	)
	s.AddTool(categoriesTool, svc.handleListCategories)

	// scrape_store
	scrapeTool := mcp.NewTool("scrape_store",
		mcp.WithDescription("Scrape one store's weekly ad now and optionally merge the deals into the catalog"),
		mcp.WithString("store",
			mcp.Required(),
			mcp.Description("Store id"),
		),
		mcp.WithBoolean("merge",
			mcp.Description("Merge the scraped deals into the catalog (default: false)"),
		),
	)
	s.AddTool(scrapeTool, svc.handleScrapeStore)
}

func (svc *Service) handleListDeals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := catalog.Filter{
		Store:    request.GetString("store", ""),
		Category: request.GetString("category", ""),
		City:     request.GetString("city", ""),
		HotOnly:  request.GetBool("hot_only", false),
		ActiveOn: request.GetString("active_on", ""),
	}
	deals, err := svc.Deals(f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog error: %v", err)), nil
	}
	return jsonResult(deals)
}

func (svc *Service) handleListStores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos := []retailer.Info{}
	for _, s := range svc.Registry.All() {
		infos = append(infos, retailer.Describe(s))
	}
	return jsonResult(infos)
}

func (svc *Service) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deals, err := svc.Deals(catalog.Filter{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog error: %v", err)), nil
	}
	return jsonResult(struct {
		Known  []string                `json:"known"`
		Counts []catalog.CategoryCount `json:"counts"`
	}{category.IDs(), catalog.CountByCategory(deals)})
}

type scrapeResult struct {
	Store  string        `json:"store"`
	Count  int           `json:"count"`
	Merged bool          `json:"merged"`
	Deals  []models.Deal `json:"deals"`
}

func (svc *Service) handleScrapeStore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := request.GetString("store", "")
	if store == "" {
		return mcp.NewToolResultError("store is required"), nil
	}
	merge := request.GetBool("merge", false)

	deals, merged, err := svc.Scrape(ctx, store, merge)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scrape error: %v", err)), nil
	}
	if deals == nil {
		deals = []models.Deal{}
	}
	return jsonResult(scrapeResult{Store: store, Count: len(deals), Merged: merged, Deals: deals})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
