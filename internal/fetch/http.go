package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/lukman83/baydeals/internal/httputil"
	"golang.org/x/net/html/charset"
)

// HTTP fetches server-rendered HTML without a browser. Settle and scroll
// hints are ignored. Wrap the client's transport with stealth.Transport to
// get robots, pacing and fingerprint headers.
type HTTP struct {
	client *http.Client
}

func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = httputil.NewHTTPClient(nil)
	}
	return &HTTP{client: client}
}

func (h *HTTP) Fetch(ctx context.Context, req Request) (*Page, error) {
	body, header, err := httputil.Get(ctx, h.client, req.URL, httputil.BrowserHeaders())
	if err != nil {
		return nil, err
	}
	raw, err := decode(body, header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", req.URL, err)
	}
	return NewPage(req.URL, raw)
}

// decode converts body to UTF-8 using the declared or sniffed charset.
func decode(body []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
