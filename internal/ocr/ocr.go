// Package ocr reads product deals off promotional flyer images through a
// vision-capable generation backend, caching results by image URL.
package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/lukman83/baydeals/internal/httputil"
	"github.com/lukman83/baydeals/internal/kvstore"
	"github.com/lukman83/baydeals/internal/llm"
	"github.com/lukman83/baydeals/internal/models"
	"go.uber.org/zap"
)

// DefaultTimeout bounds one OCR backend call.
const DefaultTimeout = 180 * time.Second

const prompt = `You are analyzing a grocery store promotional flyer image.
Extract EVERY product deal visible in the image. For each deal, provide:
- title: the product name in English
- originalPrice: the original/regular price (number only, no $)
- salePrice: the sale/discounted price (number only, no $)
- unit: the unit of measurement (e.g., "/lb", "/ea", "/pkg", "each", or "" if not specified)
- categoryHints: array of category keywords (e.g., ["produce"], ["meat", "seafood"], ["dairy"])

If the original price is not shown, estimate it as salePrice * 1.3 (rounded to 2 decimal places).
If prices show a range like "2 for $5", calculate the per-unit price.

Return ONLY a JSON array of objects. No other text.
Example: [{"title":"Napa Cabbage","originalPrice":1.29,"salePrice":0.69,"unit":"/lb","categoryHints":["produce"]}]

Here is the flyer image as base64:
`

// Reader extracts deals from flyer images. Flyer never fails: every
// problem yields an empty result.
type Reader struct {
	backend llm.Backend
	cache   kvstore.Store
	client  *http.Client
	logger  *zap.Logger
	ci      bool
	timeout time.Duration
}

type Option func(*Reader)

// WithCI skips all OCR.
func WithCI(ci bool) Option {
	return func(r *Reader) { r.ci = ci }
}

// WithHTTPClient sets the client used to download images.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Reader) { r.client = c }
}

func WithTimeout(d time.Duration) Option {
	return func(r *Reader) { r.timeout = d }
}

func New(backend llm.Backend, cache kvstore.Store, logger *zap.Logger, opts ...Option) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reader{
		backend: backend,
		cache:   cache,
		logger:  logger,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = httputil.NewHTTPClient(nil)
	}
	return r
}

// CacheKey is the hex SHA-256 of the image URL.
func CacheKey(imageURL string) string {
	sum := sha256.Sum256([]byte(imageURL))
	return hex.EncodeToString(sum[:])
}

// Flyer returns the deals found in the image at imageURL.
func (r *Reader) Flyer(ctx context.Context, imageURL string) []models.OcrDeal {
	short := truncate(imageURL, 60)
	if r.ci {
		r.logger.Info("OCR: skipping in CI environment")
		return nil
	}

	key := CacheKey(imageURL)
	if r.cache != nil {
		deals, ok, err := kvstore.GetJSON[[]models.OcrDeal](ctx, r.cache, key)
		if err != nil {
			r.logger.Debug("OCR: cache read failed", zap.Error(err))
		}
		if ok {
			r.logger.Info(fmt.Sprintf("OCR: cache hit for %s...", short))
			return deals
		}
	}

	if r.backend == nil || !r.backend.Available(ctx) {
		r.logger.Info("OCR: backend not available, skipping")
		return nil
	}

	image, header, err := httputil.Get(ctx, r.client, imageURL, httputil.ImageHeaders(""))
	if err != nil {
		r.logger.Info(fmt.Sprintf("OCR: image fetch failed for %s", short), zap.Error(err))
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.backend.Generate(callCtx, llm.Request{
		Prompt:    prompt,
		Image:     image,
		ImageMIME: imageMIME(header, image),
		JSON:      true,
	})
	if err != nil {
		r.logger.Info("OCR: backend error", zap.String("backend", r.backend.Name()), zap.Error(err))
		return nil
	}

	deals, err := llm.DecodeArray[models.OcrDeal](out)
	if err != nil || len(deals) == 0 {
		r.logger.Info(fmt.Sprintf("OCR: no deals extracted from %s", short))
		return nil
	}

	if r.cache != nil {
		if err := kvstore.SetJSON(ctx, r.cache, key, deals); err != nil {
			r.logger.Warn("OCR: cache write failed", zap.Error(err))
		}
	}
	r.logger.Info(fmt.Sprintf("OCR: extracted %d deals from %s", len(deals), short))
	return deals
}

func imageMIME(h http.Header, body []byte) string {
	for _, ct := range []string{h.Get("Content-Type"), http.DetectContentType(body)} {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && strings.HasPrefix(mt, "image/") {
			return mt
		}
	}
	return "image/jpeg"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
