package cmd

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/lukman83/baydeals/config"
	"github.com/lukman83/baydeals/internal/fetch"
	"github.com/lukman83/baydeals/internal/httputil"
	"github.com/lukman83/baydeals/internal/kvstore"
	"github.com/lukman83/baydeals/internal/llm"
	"github.com/lukman83/baydeals/internal/ocr"
	"github.com/lukman83/baydeals/internal/pipeline"
	"github.com/lukman83/baydeals/internal/retailer"
	"github.com/lukman83/baydeals/internal/stealth"
	"github.com/lukman83/baydeals/internal/stores/costco"
	"github.com/lukman83/baydeals/internal/stores/hmart"
	"github.com/lukman83/baydeals/internal/stores/ranch99"
	"github.com/lukman83/baydeals/internal/stores/safeway"
	"github.com/lukman83/baydeals/internal/stores/sprouts"
	"github.com/lukman83/baydeals/internal/translate"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	translationsCache = "translations"
	ocrCache          = "ocr"
)

// app is everything a scrape needs, built once per command.
type app struct {
	registry *retailer.Registry
	runner   *pipeline.Runner
	caches   *caches
}

func (a *app) Close() {
	a.caches.Close()
}

func newApp(ctx context.Context) (*app, error) {
	c, err := openCaches(ctx)
	if err != nil {
		return nil, err
	}

	backend, err := buildBackend(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	fp := stealth.NewFingerprintPool()
	profile, _ := stealth.ParseDelayProfile(cfg.DelayProfile)
	delay := stealth.NewHumanDelay(profile)
	robots := stealth.NewRobotsChecker(&http.Client{Timeout: 10 * time.Second}, cfg.RespectRobots)

	var proxy *stealth.ProxyRotator
	if cfg.ProxyFile != "" {
		providers, err := stealth.LoadProxyFile(cfg.ProxyFile)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("load proxy file: %w", err)
		}
		proxy = stealth.NewProxyRotator(providers)
		logger.Info("Proxy rotation enabled", zap.Int("proxies", proxy.Len()))
	}

	var fetcher fetch.Fetcher
	switch cfg.Fetcher {
	case config.FetcherHTTP:
		fetcher = fetch.NewHTTP(httputil.NewHTTPClient(&stealth.Transport{
			Robots:      robots,
			Fingerprint: fp,
			Proxy:       proxy,
			Delay:       delay,
		}))
	default:
		fetcher = fetch.NewBrowser(fetch.BrowserConfig{
			Bin:               cfg.BrowserBin,
			NavigationTimeout: cfg.NavigationTimeout,
			Fingerprints:      fp,
			Delay:             delay,
			Robots:            robots,
			Proxy:             proxy,
		}, logger)
	}

	// Flyer images come from CDNs; pace them with a limiter instead of the
	// page-visit delay.
	imageClient := httputil.NewHTTPClient(&stealth.Transport{
		Robots:      robots,
		Fingerprint: fp,
		Proxy:       proxy,
		RateLimiter: rate.NewLimiter(rate.Limit(2), 2),
	})

	reader := ocr.New(backend, c.ocr, logger, ocr.WithCI(cfg.CI), ocr.WithHTTPClient(imageClient))
	translator := translate.New(backend, c.translations, logger, translate.WithCI(cfg.CI))

	deps := retailer.Deps{
		Fetcher: fetcher,
		OCR:     reader,
		Rules:   cfg.Rules(),
		Logger:  logger,
	}
	registry := retailer.NewRegistry(
		costco.New(deps),
		sprouts.New(deps),
		safeway.New(deps),
		hmart.New(deps, hmart.WithFlyerOCR(cfg.HMartOCR)),
		ranch99.New(deps, ranch99.WithOCRConcurrency(cfg.Ranch99OCRWorkers)),
	)

	runner := pipeline.New(translator, logger, pipeline.WithHotThreshold(cfg.HotThreshold))

	return &app{registry: registry, runner: runner, caches: c}, nil
}

// buildBackend assembles the configured LLM backends, in order, behind one
// rate limiter. Backends without credentials are skipped.
func buildBackend(ctx context.Context) (llm.Backend, error) {
	var backends []llm.Backend
	for _, name := range cfg.LLMBackends {
		switch name {
		case config.BackendGemini:
			g, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
			if err != nil {
				return nil, err
			}
			if g != nil {
				backends = append(backends, g)
			}
		case config.BackendOpenAI:
			if o := llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger); o != nil {
				backends = append(backends, o)
			}
		case config.BackendCommand:
			backends = append(backends, llm.NewCommand(cfg.LLMCommand))
		}
	}
	chain := llm.NewChain(logger, backends...)
	return llm.NewLimited(chain, cfg.LLMRatePerSec, cfg.LLMRateBurst), nil
}

// caches holds the translation and OCR caches plus whatever connection
// backs them.
type caches struct {
	translations kvstore.Store
	ocr          kvstore.Store
	client       *redis.Client
}

func (c *caches) Close() {
	if c.client != nil {
		_ = c.client.Close()
	}
}

// Get returns the cache called name.
func (c *caches) Get(name string) (kvstore.Store, error) {
	switch name {
	case translationsCache:
		return c.translations, nil
	case ocrCache:
		return c.ocr, nil
	default:
		return nil, fmt.Errorf("unknown cache %q (want %s or %s)", name, translationsCache, ocrCache)
	}
}

func openCaches(ctx context.Context) (*caches, error) {
	switch cfg.CacheBackend {
	case config.CacheMemory:
		return &caches{translations: kvstore.NewMemory(), ocr: kvstore.NewMemory()}, nil
	case config.CacheRedis:
		client, err := kvstore.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		return &caches{
			translations: kvstore.NewRedis(client, translationsCache, logger),
			ocr:          kvstore.NewRedis(client, ocrCache, logger),
			client:       client,
		}, nil
	default:
		return &caches{
			translations: kvstore.NewFile(filepath.Join(cfg.CacheDir, translationsCache+".json"), logger),
			ocr:          kvstore.NewFile(filepath.Join(cfg.CacheDir, ocrCache+".json"), logger),
		}, nil
	}
}
