package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/lukman83/baydeals/internal/stealth"
	"github.com/lukman83/baydeals/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultNavigationTimeout = 60 * time.Second
	stableTimeout            = 15 * time.Second
)

// BrowserConfig configures the headless Chromium fetcher.
type BrowserConfig struct {
	// Bin overrides the browser binary; ROD_BROWSER_BIN is used when empty.
	Bin               string
	NavigationTimeout time.Duration
	Fingerprints      *stealth.FingerprintPool
	Delay             *stealth.HumanDelay
	Robots            *stealth.RobotsChecker
	Proxy             *stealth.ProxyRotator
}

// Browser renders pages in a fresh headless Chromium per request.
type Browser struct {
	cfg    BrowserConfig
	logger *zap.Logger
}

func NewBrowser(cfg BrowserConfig, logger *zap.Logger) *Browser {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultNavigationTimeout
	}
	if cfg.Fingerprints == nil {
		cfg.Fingerprints = stealth.NewFingerprintPool()
	}
	if cfg.Delay == nil {
		cfg.Delay = stealth.NewHumanDelay(stealth.ProfileNormal)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Browser{cfg: cfg, logger: logger}
}

func (b *Browser) Fetch(ctx context.Context, req Request) (*Page, error) {
	fp := b.cfg.Fingerprints.NextChromium()
	if b.cfg.Robots != nil {
		if err := b.cfg.Robots.Check(ctx, fp.UserAgent, req.URL); err != nil {
			return nil, err
		}
	}

	page, cleanup, err := b.openPage(fp)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := b.cfg.Delay.Wait(ctx); err != nil {
		return nil, err
	}

	nav := page.Context(ctx).Timeout(b.cfg.NavigationTimeout)
	if err := nav.Navigate(req.URL); err != nil {
		return nil, errors.NewFetchError("Navigation failed", req.URL, 0, err)
	}
	if err := nav.WaitLoad(); err != nil {
		return nil, errors.NewFetchError("Navigation failed: Timeout waiting for load", req.URL, 0, err)
	}

	if err := sleep(ctx, req.settle()); err != nil {
		return nil, err
	}

	for i := range req.ScrollSteps {
		if err := scroll(page.Context(ctx), req, i); err != nil {
			b.logger.Debug("Scroll failed", zap.Int("step", i), zap.Error(err))
			break
		}
		if err := b.cfg.Delay.Scroll(ctx); err != nil {
			return nil, err
		}
	}

	// Best effort: a page that never settles is still read.
	_ = page.Context(ctx).Timeout(stableTimeout).WaitStable(time.Second)

	raw, err := page.Context(ctx).HTML()
	if err != nil {
		return nil, errors.NewFetchError("get page HTML", req.URL, 0, err)
	}
	return NewPage(req.URL, raw)
}

func scroll(page *rod.Page, req Request, step int) error {
	if req.ScrollStep > 0 {
		_, err := page.Eval(`(y) => window.scrollTo(0, y)`, (step+1)*req.ScrollStep)
		return err
	}
	fraction := float64(step+1) / float64(req.ScrollSteps)
	_, err := page.Eval(`(f) => window.scrollTo(0, document.body.scrollHeight * f)`, fraction)
	return err
}

func (b *Browser) openPage(fp stealth.Fingerprint) (*rod.Page, func(), error) {
	l := launcher.New().
		Headless(true).
		Logger(io.Discard).
		Set("disable-blink-features", "AutomationControlled")

	bin := b.cfg.Bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	if b.cfg.Proxy != nil {
		if p, ok := b.cfg.Proxy.Next().(*stealth.HTTPProxyProvider); ok {
			l = l.Proxy(p.Server())
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, errors.NewBrowserError("launch browser", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, errors.NewBrowserError("connect browser", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		l.Cleanup()
		return nil, nil, errors.NewBrowserError("open page", err)
	}

	cleanup := func() {
		page.Close()
		browser.Close()
		l.Cleanup()
	}

	err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      fp.UserAgent,
		AcceptLanguage: "en-US,en;q=0.9",
		Platform:       fp.Platform,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("set user agent: %w", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  1920,
		Height: 1080,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("set viewport: %w", err)
	}

	return page, cleanup, nil
}

func (r Request) settle() time.Duration {
	if r.SettleJitter <= 0 {
		return r.Settle
	}
	return r.Settle + rand.N(r.SettleJitter)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
