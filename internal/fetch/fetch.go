// Package fetch is the page-fetching capability the store scrapers consume:
// a rendered page's HTML plus a parsed DOM to query with selectors.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Request describes one page visit.
type Request struct {
	URL string
	// Settle is extra time to let client-side rendering finish after load.
	Settle time.Duration
	// SettleJitter adds up to this much random time to Settle.
	SettleJitter time.Duration
	// ScrollSteps scrolls the page this many times to trigger lazy loading.
	// With ScrollStep > 0 step i scrolls to (i+1)*ScrollStep pixels;
	// otherwise to (i+1)/ScrollSteps of the document height.
	ScrollSteps int
	ScrollStep  int
}

// Page is a fetched document.
type Page struct {
	URL  string
	HTML string
	Doc  *goquery.Document
}

// Fetcher returns the rendered page for a request.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Page, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req Request) (*Page, error)

func (f FetcherFunc) Fetch(ctx context.Context, req Request) (*Page, error) {
	return f(ctx, req)
}

// NewPage parses raw HTML into a Page.
func NewPage(url, raw string) (*Page, error) {
	doc, err := ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	return &Page{URL: url, HTML: raw, Doc: doc}, nil
}

// ParseDocument parses HTML with the standard HTML5 parser.
func ParseDocument(raw string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// FirstMatch tries selectors in order and returns the first one matching
// at least atLeast elements. ok is false when none qualifies.
func FirstMatch(doc *goquery.Document, selectors []string, atLeast int) (selector string, sel *goquery.Selection, ok bool) {
	for _, s := range selectors {
		found := doc.Find(s)
		if found.Length() >= atLeast && found.Length() > 0 {
			return s, found, true
		}
	}
	return "", nil, false
}

// Static serves fixed HTML by URL. Scrapers are tested against it.
type Static map[string]string

func (s Static) Fetch(_ context.Context, req Request) (*Page, error) {
	raw, ok := s[req.URL]
	if !ok {
		return nil, fmt.Errorf("static fetcher: no page for %s", req.URL)
	}
	return NewPage(req.URL, raw)
}
