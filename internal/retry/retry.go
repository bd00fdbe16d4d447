// Package retry runs fallible operations with bounded exponential backoff.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/lukman83/baydeals/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
	DefaultMaxDelay   = 30 * time.Second
)

// Options configures Do. Zero values fall back to the defaults above.
type Options struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration

	// Sleep and Jitter are replaceable for tests.
	Sleep  func(ctx context.Context, d time.Duration) error
	Jitter func() float64
}

func (o Options) withDefaults() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = DefaultBaseDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = DefaultMaxDelay
	}
	if o.Sleep == nil {
		o.Sleep = sleep
	}
	if o.Jitter == nil {
		o.Jitter = func() float64 { return 0.5 + rand.Float64()*0.5 }
	}
	return o
}

// Backoff returns the un-jittered delay before retry number attempt+1.
func (o Options) Backoff(attempt int) time.Duration {
	o = o.withDefaults()
	d := float64(o.BaseDelay) * math.Pow(2, float64(attempt))
	if d > float64(o.MaxDelay) {
		return o.MaxDelay
	}
	return time.Duration(d)
}

// Do calls fn until it succeeds, returns a 4xx-classified error, or has
// been retried MaxRetries times. The last error is returned unchanged.
func Do[T any](ctx context.Context, logger *zap.Logger, opts Options, fn func(ctx context.Context) (T, error)) (T, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	var zero T
	for attempt := 0; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if attempt == opts.MaxRetries {
			return zero, err
		}
		if errors.IsClientError(err) {
			return zero, err
		}
		if ctx.Err() != nil {
			return zero, err
		}

		delay := time.Duration(float64(opts.Backoff(attempt)) * opts.Jitter())
		logger.Info(formatProgress(attempt+1, opts.MaxRetries, delay), zap.Error(err))
		if serr := opts.Sleep(ctx, delay); serr != nil {
			return zero, err
		}
	}
}

func formatProgress(n, max int, delay time.Duration) string {
	return fmt.Sprintf("Retry %d/%d in %dms", n, max, delay.Round(time.Millisecond).Milliseconds())
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
