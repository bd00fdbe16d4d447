package retailer

import (
	"context"
	"testing"
	"time"

	"github.com/lukman83/baydeals/internal/models"
)

type stubScraper struct{ id string }

func (s stubScraper) ID() string          { return s.id }
func (s stubScraper) Name() string        { return "Store " + s.id }
func (s stubScraper) Locations() []string { return []string{"San Jose"} }
func (s stubScraper) Scrape(context.Context) ([]models.Candidate, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry(stubScraper{"sprouts"}, stubScraper{"costco"})
	r.Register(stubScraper{"hmart"})

	ids := r.List()
	if len(ids) != 3 || ids[0] != "costco" || ids[1] != "hmart" || ids[2] != "sprouts" {
		t.Errorf("List = %v", ids)
	}
	all := r.All()
	if len(all) != 3 || all[0].ID() != "costco" {
		t.Errorf("All = %v", all)
	}
	if s, err := r.Get("hmart"); err != nil || s.Name() != "Store hmart" {
		t.Errorf("Get(hmart) = %v, %v", s, err)
	}
	if _, err := r.Get("walmart"); err == nil {
		t.Error("expected error for unknown store")
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	info := Describe(stubScraper{"costco"})
	if info.ID != "costco" || info.Name != "Store costco" || len(info.Locations) != 1 {
		t.Errorf("Describe = %+v", info)
	}
}

func TestProgress(t *testing.T) {
	t.Parallel()

	ReportProgress(context.Background(), "ignored")

	var got []string
	ctx := WithProgress(context.Background(), func(msg string) { got = append(got, msg) })
	ReportProgress(ctx, "Scraping costco...")
	if len(got) != 1 || got[0] != "Scraping costco..." {
		t.Errorf("progress = %v", got)
	}
}

func TestClock(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 2, 4, 12, 0, 0, 0, time.UTC)
	if got := Clock(func() time.Time { return fixed }).Now(); !got.Equal(fixed) {
		t.Errorf("Now = %v", got)
	}
	var zero Clock
	if zero.Now().IsZero() {
		t.Error("nil clock should use time.Now")
	}
}
