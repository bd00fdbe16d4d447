package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	s := NewSpinner(&out)
	s.Start("Scraping Costco...")
	time.Sleep(3 * tickInterval)
	s.Update("Translating 12 Costco deals...")
	time.Sleep(3 * tickInterval)
	s.Stop()

	text := out.String()
	if !strings.Contains(text, "Scraping Costco...") || !strings.Contains(text, "Translating 12 Costco deals...") {
		t.Errorf("output = %q", text)
	}
	if !strings.HasSuffix(text, "\r\033[K") {
		t.Error("Stop should clear the line last")
	}

	// Nothing is drawn after Stop returns.
	n := len(out.String())
	time.Sleep(2 * tickInterval)
	if len(out.String()) != n {
		t.Error("spinner kept drawing after Stop")
	}
	s.Stop()
}
