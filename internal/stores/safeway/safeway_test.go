package safeway

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lukman83/baydeals/internal/fetch"
	"github.com/lukman83/baydeals/internal/retailer"
	"github.com/lukman83/baydeals/internal/textparse"
)

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWeek(t *testing.T) {
	t.Parallel()

	tests := []struct {
		now, start, expiry string
	}{
		{"2026-02-04T12:00", "2026-02-04", "2026-02-10"}, // Wednesday
		{"2026-02-05T12:00", "2026-02-04", "2026-02-10"},
		{"2026-02-03T12:00", "2026-01-28", "2026-02-03"}, // Tuesday
		{"2026-02-01T12:00", "2026-01-28", "2026-02-03"},
		{"2026-02-07T12:00", "2026-02-04", "2026-02-10"},
		{"2026-01-01T12:00", "2025-12-31", "2026-01-06"},
	}
	for _, tt := range tests {
		w := Week(at(tt.now))
		if w.Start != tt.start || w.Expiry != tt.expiry {
			t.Errorf("Week(%s) = %+v, want %s..%s", tt.now, w, tt.start, tt.expiry)
		}
	}
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want textparse.Quote
	}{
		{"2 for $5", textparse.SaleOnlyQuote(2.5)},
		{"3 for $10", textparse.SaleOnlyQuote(3.33)},
		{"$3.99 ea with card", textparse.SaleOnlyQuote(3.99)},
		{"CLUB PRICE $4.49", textparse.SaleOnlyQuote(4.49)},
		{"club price $2.50", textparse.SaleOnlyQuote(2.5)},
		{"Save $3.00 on 2", textparse.SavingsQuote(3)},
		{"Was $5.99 Now $3.99", textparse.ResolvedQuote(5.99, 3.99)},
		{"Buy 2 Get 1 Free", textparse.BuyGetFreeQuote(2, 1)},
	}
	for _, tt := range tests {
		got, ok := ParsePrice(tt.text)
		if !ok || got != tt.want {
			t.Errorf("ParsePrice(%q) = %+v, %v, want %+v", tt.text, got, ok, tt.want)
		}
	}
	for _, text := range []string{"Limited time offer", "", "Great value", "$1.99"} {
		if _, ok := ParsePrice(text); ok {
			t.Errorf("ParsePrice(%q) should fail", text)
		}
	}
}

func TestExtractPriceText(t *testing.T) {
	t.Parallel()

	tests := []struct{ text, want string }{
		{"Grapes\nWas $4.99 Now $2.99\n2 lb", "Was $4.99 Now $2.99"},
		{"Yogurt\n4 for $5", "4 for $5"},
		{"Cheese\nClub Price $5.99", "Club Price $5.99"},
		{"Pasta\nBuy 1 Get 1 Free\n$2.49", "Buy 1 Get 1 Free"},
		{"Chips\n$3.49", "$3.49"},
		{"Store hours", ""},
	}
	for _, tt := range tests {
		if got := ExtractPriceText(tt.text); got != tt.want {
			t.Errorf("ExtractPriceText(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	if got := ExtractTitle([]string{"$3.99", "Club Price", "2 for $5", "Fresh Salmon Fillet"}); got != "Fresh Salmon Fillet" {
		t.Errorf("title = %q", got)
	}
	if got := ExtractTitle([]string{"$3.99"}); got != "$3.99" {
		t.Errorf("fallback = %q", got)
	}
	if got := ExtractTitle(nil); got != "" {
		t.Errorf("empty = %q", got)
	}
}

func TestParseDates(t *testing.T) {
	t.Parallel()

	now := at("2026-02-14T12:00")
	tests := []struct {
		text          string
		now           time.Time
		start, expiry string
	}{
		{"Valid 2/12 - 2/18", now, "2026-02-12", "2026-02-18"},
		{"2/12/26 - 2/18/26", now, "2026-02-12", "2026-02-18"},
		{"02/12/2026 - 02/18/2026", now, "2026-02-12", "2026-02-18"},
		{"Valid 2/12 – 2/18", now, "2026-02-12", "2026-02-18"},
		{"Valid 12/31 - 1/6", at("2026-01-05T12:00"), "2025-12-31", "2026-01-06"},
		{"Valid 12/30 - 1/5", at("2026-12-30T12:00"), "2026-12-30", "2027-01-05"},
	}
	for _, tt := range tests {
		r, ok := ParseDates(tt.text, tt.now)
		if !ok || r.Start != tt.start || r.Expiry != tt.expiry {
			t.Errorf("ParseDates(%q) = %+v, %v", tt.text, r, ok)
		}
	}
	if _, ok := ParseDates("This week only", now); ok {
		t.Error("text without dates should fail")
	}
}

func TestToCandidate(t *testing.T) {
	t.Parallel()

	s := New(retailer.Deps{})
	week := textparse.DateRange{Start: "2026-02-11", Expiry: "2026-02-17"}

	c, ok := s.ToCandidate(Item{Title: "Pasta Sauce", PriceText: "Buy 1 Get 1 Free", PromoText: "$3.99"}, week)
	if !ok || c.OriginalPrice != 3.99 || c.SalePrice != 2 || c.Description != "Buy 1 get 1 free" {
		t.Errorf("bogo = %+v, %v", c, ok)
	}
	if _, ok := s.ToCandidate(Item{Title: "Pasta Sauce", PriceText: "Buy 1 Get 1 Free"}, week); ok {
		t.Error("bogo without reference price should be skipped")
	}

	c, ok = s.ToCandidate(Item{Title: "Butter", PriceText: "Save $2.00"}, week)
	if !ok || c.OriginalPrice-c.SalePrice != 2 || c.SalePrice != 4 {
		t.Errorf("save = %+v, %v", c, ok)
	}

	c, ok = s.ToCandidate(Item{Title: "Grapes", PriceText: "Was $4.99 Now $2.99", ImageURL: "https://img.safeway.com/g.jpg"}, week)
	if !ok || c.OriginalPrice != 4.99 || c.SalePrice != 2.99 || c.Description != "Was $4.99, now $2.99" {
		t.Errorf("was/now = %+v, %v", c, ok)
	}
	if c.ImageURL != "https://img.safeway.com/g.jpg" || c.Details != details || c.Unit != "" {
		t.Errorf("fields = %+v", c)
	}
	if c.StartDate != week.Start || c.ExpiryDate != week.Expiry {
		t.Errorf("dates = %s..%s", c.StartDate, c.ExpiryDate)
	}

	c, ok = s.ToCandidate(Item{Title: "Cheddar", PriceText: "Club Price $5.99"}, week)
	if !ok || c.OriginalPrice != 7.79 || c.Description != "Club price $5.99" {
		t.Errorf("club = %+v, %v", c, ok)
	}

	if _, ok := s.ToCandidate(Item{Title: "Grapes", PriceText: "Was $2.99 Now $2.99"}, week); ok {
		t.Error("no discount should be rejected")
	}

	c, _ = s.ToCandidate(Item{Title: strings.Repeat("B", 250), PriceText: "2 for $5"}, week)
	if len(c.Title) != 200 {
		t.Errorf("title length = %d", len(c.Title))
	}
}

const tilePage = `<html><body>
<h1>Weekly Ad</h1>
<div class="ad-dates">Valid 2/12 - 2/18</div>
<div class="product-card"><img src="https://img.safeway.com/berries.jpg"><div>Strawberries 1 lb</div><div>2 for $5</div></div>
<div class="product-card"><div>Signature Pasta</div><div>Buy 1 Get 1 Free</div><div>Reg $2.98</div></div>
<div class="product-card"><div>Lucerne Butter</div><div>Save $2.00</div></div>
<div class="product-card"><div>Chicken Thighs</div><div>$1.99</div></div>
<div class="product-card"><div>Strawberries 1 lb</div><div>2 for $5</div></div>
<div class="product-card"><div>Store info</div></div>
</body></html>`

func TestScrapeTiles(t *testing.T) {
	t.Parallel()

	s := New(retailer.Deps{
		Fetcher: fetch.Static{URL: tilePage},
		Clock:   func() time.Time { return at("2026-02-14T12:00") },
	})
	got, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d: %+v", len(got), got)
	}
	if got[0].Title != "Strawberries 1 lb" || got[0].SalePrice != 2.5 || got[0].ImageURL != "https://img.safeway.com/berries.jpg" {
		t.Errorf("berries = %+v", got[0])
	}
	if got[0].StartDate != "2026-02-12" || got[0].ExpiryDate != "2026-02-18" {
		t.Errorf("dates = %s..%s", got[0].StartDate, got[0].ExpiryDate)
	}
	if got[1].Title != "Signature Pasta" || got[1].OriginalPrice != 2.98 || got[1].SalePrice != 1.49 {
		t.Errorf("pasta = %+v", got[1])
	}
	if got[2].Title != "Lucerne Butter" || got[2].SalePrice != 4 || got[2].OriginalPrice != 6 {
		t.Errorf("butter = %+v", got[2])
	}
}

const genericPage = `<html><body><section>
<div><h3>Organic Bananas</h3><p>$0.69 ea per pound</p></div>
<div><h3>Tillamook Cheese</h3><p>Club Price $5.99 with card</p></div>
<div><h3>Weekly specials</h3><p>Shop now</p></div>
</section></body></html>`

func TestScrapeGeneric(t *testing.T) {
	t.Parallel()

	s := New(retailer.Deps{
		Fetcher: fetch.Static{URL: genericPage},
		Clock:   func() time.Time { return at("2026-02-14T12:00") },
	})
	got, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d: %+v", len(got), got)
	}
	if got[0].Title != "Organic Bananas" || got[0].SalePrice != 0.69 {
		t.Errorf("bananas = %+v", got[0])
	}
	if got[1].Title != "Tillamook Cheese" || got[1].SalePrice != 5.99 || got[1].OriginalPrice != 7.79 {
		t.Errorf("cheese = %+v", got[1])
	}
	if got[0].StartDate != "2026-02-11" || got[0].ExpiryDate != "2026-02-17" {
		t.Errorf("fallback week = %s..%s", got[0].StartDate, got[0].ExpiryDate)
	}
}

func TestLocations(t *testing.T) {
	t.Parallel()

	s := New(retailer.Deps{})
	locs := s.Locations()
	if len(locs) != 38 || locs[0] != "san_jose" {
		t.Errorf("locations = %v", locs)
	}
	locs[0] = "changed"
	if s.Locations()[0] != "san_jose" {
		t.Error("Locations must return a copy")
	}
}
