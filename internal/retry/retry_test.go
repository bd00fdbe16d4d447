package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/lukman83/baydeals/pkg/errors"
	"go.uber.org/zap"
)

func noSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		if delays != nil {
			*delays = append(*delays, d)
		}
		return nil
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	for _, failures := range []int{0, 1, 2} {
		calls := 0
		got, err := Do(context.Background(), zap.NewNop(), Options{Sleep: noSleep(nil)},
			func(context.Context) (string, error) {
				calls++
				if calls <= failures {
					return "", stderrors.New("flaky")
				}
				return "ok", nil
			})
		if err != nil {
			t.Fatalf("failures=%d: unexpected error %v", failures, err)
		}
		if got != "ok" {
			t.Fatalf("failures=%d: got %q", failures, got)
		}
		if calls != failures+1 {
			t.Fatalf("failures=%d: calls = %d, want %d", failures, calls, failures+1)
		}
	}
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := Do(context.Background(), zap.NewNop(), Options{Sleep: noSleep(nil)},
		func(context.Context) (int, error) {
			calls++
			return 0, errors.NewFetchError("not found", "https://example.com", 404, nil)
		})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesServerErrorsUntilExhausted(t *testing.T) {
	t.Parallel()

	calls := 0
	want := errors.NewFetchError("bad gateway", "https://example.com", 502, nil)
	_, err := Do(context.Background(), zap.NewNop(), Options{MaxRetries: 2, Sleep: noSleep(nil)},
		func(context.Context) (int, error) {
			calls++
			return 0, want
		})
	if !stderrors.Is(err, want) {
		t.Fatalf("err = %v, want last error returned unchanged", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestDoBackoffIsExponentialCappedAndJittered(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	opts := Options{
		MaxRetries: 4,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   300 * time.Millisecond,
		Sleep:      noSleep(&delays),
		Jitter:     func() float64 { return 0.5 },
	}
	_, _ = Do(context.Background(), zap.NewNop(), opts, func(context.Context) (int, error) {
		return 0, stderrors.New("down")
	})

	want := []time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 150 * time.Millisecond, 150 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Fatalf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestDoStopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Do(ctx, zap.NewNop(), Options{Sleep: noSleep(nil)}, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, stderrors.New("boom")
	})
	if err == nil || calls != 1 {
		t.Fatalf("calls = %d err = %v, want a single call", calls, err)
	}
}

func TestBackoffDefaults(t *testing.T) {
	t.Parallel()

	var o Options
	if got := o.Backoff(0); got != time.Second {
		t.Fatalf("Backoff(0) = %v", got)
	}
	if got := o.Backoff(10); got != 30*time.Second {
		t.Fatalf("Backoff(10) = %v, want cap", got)
	}
}

func TestFormatProgress(t *testing.T) {
	t.Parallel()

	if got := formatProgress(1, 3, 1234*time.Millisecond); got != "Retry 1/3 in 1234ms" {
		t.Fatalf("got %q", got)
	}
}
