package costco

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/lukman83/baydeals/internal/fetch"
	"github.com/lukman83/baydeals/internal/retailer"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text           string
		original, sale float64
		ok             bool
	}{
		{"Was $24.99 Now $19.99", 24.99, 19.99, true},
		{"$19.99 regular $24.99", 24.99, 19.99, true},
		{"$15.99 $5.00 off", 15.99, 5, true},
		{"Was $1,299.99 Now $999.99", 1299.99, 999.99, true},
		{"Was $29.99 Sale $24.99 Member $19.99", 29.99, 24.99, true},
		{"$20 and $15", 20, 15, true},
		{"$12.99 after 3 off", 15.99, 12.99, true},
		{"Only $5.99", 0, 0, false},
		{"$9.99 $9.99", 0, 0, false},
		{"No prices here", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		q, ok := ParsePrice(tt.text)
		if ok != tt.ok {
			t.Errorf("ParsePrice(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			continue
		}
		if ok && (q.Original != tt.original || q.Sale != tt.sale) {
			t.Errorf("ParsePrice(%q) = %v/%v, want %v/%v", tt.text, q.Original, q.Sale, tt.original, tt.sale)
		}
	}
}

func TestParseDates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text, start, expiry string
	}{
		{"Valid 1/29/2026 - 2/23/2026", "2026-01-29", "2026-02-23"},
		{"1/29/26 - 2/23/26", "2026-01-29", "2026-02-23"},
		{"1/29/2026 through 2/23/2026", "2026-01-29", "2026-02-23"},
		{"1/29/2026 thru 2/23/2026", "2026-01-29", "2026-02-23"},
		{"1/29/2026 to 2/23/2026", "2026-01-29", "2026-02-23"},
		{"3/5/2026 - 4/9/2026", "2026-03-05", "2026-04-09"},
		{"12/25/2025 - 01/05/2026", "2025-12-25", "2026-01-05"},
		{"Some product\n3/1/2026 - 3/15/2026", "2026-03-01", "2026-03-15"},
	}
	for _, tt := range tests {
		r, ok := ParseDates(tt.text)
		if !ok || r.Start != tt.start || r.Expiry != tt.expiry {
			t.Errorf("ParseDates(%q) = %+v, %v", tt.text, r, ok)
		}
	}
	for _, text := range []string{"No dates here", "", "1/29/2026"} {
		if _, ok := ParseDates(text); ok {
			t.Errorf("ParseDates(%q) should fail", text)
		}
	}
}

const savingsPage = `<html><body>
<div class="product-tile-set">
  <div class="product-tile">
    <p>Kirkland Signature</p>
    <p>Organic Maple Syrup, 1 L</p>
    <span>$14.99</span> <span>after 4 off</span>
    <p>Valid 1/29/26 - 2/23/26</p>
  </div>
  <div class="product-tile">
    <p>Dyson V8</p>
    <p>Cordless Vacuum</p>
    <p>Was $399.99 Now $299.99</p>
    <p>1/29/2026 through 2/23/2026</p>
  </div>
  <div class="product-tile">
    <p>Tide</p>
    <p>Only $5.99</p>
    <p>1/29/2026 - 2/23/2026</p>
  </div>
  <div class="product-tile"><p>Hi</p></div>
</div>
</body></html>`

func TestScrape(t *testing.T) {
	t.Parallel()

	s := New(retailer.Deps{Fetcher: fetch.Static{URL: savingsPage}})
	got, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates: %+v", len(got), got)
	}

	syrup := got[0]
	if syrup.Title != "Kirkland Signature Organic Maple Syrup, 1 L" {
		t.Errorf("title = %q", syrup.Title)
	}
	if syrup.OriginalPrice != 18.99 || syrup.SalePrice != 14.99 {
		t.Errorf("prices = %v/%v", syrup.OriginalPrice, syrup.SalePrice)
	}
	if syrup.StartDate != "2026-01-29" || syrup.ExpiryDate != "2026-02-23" {
		t.Errorf("dates = %s..%s", syrup.StartDate, syrup.ExpiryDate)
	}
	if syrup.Description != description || syrup.Details != details {
		t.Errorf("description/details = %q / %q", syrup.Description, syrup.Details)
	}

	if got[1].Title != "Dyson V8 Cordless Vacuum" || got[1].SalePrice != 299.99 {
		t.Errorf("second = %+v", got[1])
	}
}

func TestScrapeNoTiles(t *testing.T) {
	t.Parallel()

	s := New(retailer.Deps{Fetcher: fetch.Static{URL: "<html><body><p>Access Denied</p></body></html>"}})
	got, err := s.Scrape(context.Background())
	if err != nil || len(got) != 0 {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestScrapeFetchError(t *testing.T) {
	t.Parallel()

	boom := stderrors.New("net::ERR_HTTP2_PROTOCOL_ERROR")
	s := New(retailer.Deps{Fetcher: fetch.FetcherFunc(func(context.Context, fetch.Request) (*fetch.Page, error) {
		return nil, boom
	})})
	if _, err := s.Scrape(context.Background()); !stderrors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	s := New(retailer.Deps{})
	if s.ID() != "costco" || len(s.Locations()) != 14 {
		t.Errorf("id=%s locations=%d", s.ID(), len(s.Locations()))
	}
}
