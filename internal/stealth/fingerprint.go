package stealth

import (
	"net/http"
	"strings"
	"sync"
)

// Fingerprint is a browser identity: a user agent with matching headers.
type Fingerprint struct {
	UserAgent string
	Platform  string
	Headers   http.Header
}

// Chromium reports whether the identity can be worn by a headless Chrome.
func (f Fingerprint) Chromium() bool {
	return strings.Contains(f.UserAgent, "Chrome/")
}

// FingerprintPool rotates through a set of browser fingerprints.
type FingerprintPool struct {
	fingerprints []Fingerprint
	mu           sync.Mutex
	idx          int
}

// NewFingerprintPool creates a pool of US desktop browser identities.
func NewFingerprintPool() *FingerprintPool {
	return &FingerprintPool{
		fingerprints: defaultFingerprints(),
	}
}

// Next returns the next fingerprint in round-robin order.
func (fp *FingerprintPool) Next() Fingerprint {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	f := fp.fingerprints[fp.idx%len(fp.fingerprints)]
	fp.idx++
	return f
}

// NextChromium skips identities a Chromium page cannot impersonate.
func (fp *FingerprintPool) NextChromium() Fingerprint {
	for range len(fp.fingerprints) {
		if f := fp.Next(); f.Chromium() {
			return f
		}
	}
	return fp.fingerprints[0]
}

func defaultFingerprints() []Fingerprint {
	return []Fingerprint{
		{
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
			Platform:  "macOS",
			Headers:   chromeHeaders("131", "macOS"),
		},
		{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
			Platform:  "Windows",
			Headers:   chromeHeaders("133", "Windows"),
		},
		{
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:135.0) Gecko/20100101 Firefox/135.0",
			Platform:  "macOS",
			Headers:   firefoxHeaders(),
		},
		{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36 Edg/133.0.0.0",
			Platform:  "Windows",
			Headers:   chromeHeaders("133", "Windows"),
		},
	}
}

func chromeHeaders(version, platform string) http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Sec-Ch-Ua", `"Chromium";v="`+version+`", "Not(A:Brand";v="99", "Google Chrome";v="`+version+`"`)
	h.Set("Sec-Ch-Ua-Mobile", "?0")
	h.Set("Sec-Ch-Ua-Platform", `"`+platform+`"`)
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Upgrade-Insecure-Requests", "1")
	return h
}

func firefoxHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.5")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Upgrade-Insecure-Requests", "1")
	return h
}
