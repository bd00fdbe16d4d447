package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lukman83/baydeals/internal/models"
)

// printDealsTable prints deals in a human-friendly card layout.
func printDealsTable(w io.Writer, deals []models.Deal) {
	for i, d := range deals {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := d.Title
		if d.IsHot {
			title = "[HOT] " + title
		}
		fmt.Fprintf(w, " %d. %s\n", i+1, truncate(title, 80))

		// Price line with savings and store
		priceLine := "    Price: " + formatPrice(d.SalePrice)
		if d.Unit != "" {
			priceLine += "/" + d.Unit
		}
		if d.OriginalPrice > d.SalePrice {
			priceLine += fmt.Sprintf("  (was %s, save %s)", formatPrice(d.OriginalPrice), formatPrice(d.Savings()))
		}
		priceLine += "  |  Store: " + d.StoreID
		fmt.Fprintln(w, priceLine)

		if d.TitleZh != "" && d.TitleZh != d.Title {
			fmt.Fprintf(w, "    %s\n", d.TitleZh)
		}
		fmt.Fprintf(w, "    Category: %s  |  %s to %s\n", d.CategoryID, d.StartDate, d.ExpiryDate)
		if d.Description != "" {
			fmt.Fprintf(w, "    %s\n", truncate(d.Description, 100))
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatPrice formats a dollar amount as "$1.99".
func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// formatCategory turns "frozen-foods" into "Frozen Foods".
func formatCategory(s string) string {
	words := strings.Split(s, "-")
	for j, w := range words {
		if len(w) > 0 {
			words[j] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
