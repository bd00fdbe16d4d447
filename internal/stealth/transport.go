package stealth

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// Transport is an http.RoundTripper that applies the stealth pipeline:
// Fingerprint → RobotsCheck → RateLimiter → HumanDelay → Proxy → Send.
// Static page fetches and flyer image downloads both go through it.
type Transport struct {
	Base        http.RoundTripper
	Robots      *RobotsChecker
	Fingerprint *FingerprintPool
	Proxy       *ProxyRotator
	Delay       *HumanDelay
	RateLimiter *rate.Limiter
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request.
	req = req.Clone(req.Context())

	ua := req.Header.Get("User-Agent")
	if t.Fingerprint != nil {
		fp := t.Fingerprint.Next()
		ua = fp.UserAgent
		req.Header.Set("User-Agent", ua)
		for key, vals := range fp.Headers {
			if req.Header.Get(key) == "" {
				for _, v := range vals {
					req.Header.Add(key, v)
				}
			}
		}
	}

	if t.Robots != nil {
		if err := t.Robots.Check(req.Context(), ua, req.URL.String()); err != nil {
			return nil, err
		}
	}

	if t.RateLimiter != nil {
		if err := t.RateLimiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	if t.Delay != nil {
		if err := t.Delay.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("delay: %w", err)
		}
	}

	transport := t.Base
	if t.Proxy != nil {
		transport = t.Proxy.Next().Transport()
	}
	if transport == nil {
		transport = http.DefaultTransport
	}

	return transport.RoundTrip(req)
}
