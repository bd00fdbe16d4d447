package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited paces calls to the wrapped backend. The limiter belongs to the
// instance, so separate adapters never share a budget.
type Limited struct {
	Backend
	limiter *rate.Limiter
}

// NewLimited allows perSecond requests with the given burst. A
// non-positive rate disables pacing.
func NewLimited(b Backend, perSecond float64, burst int) *Limited {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Limited{Backend: b, limiter: rate.NewLimiter(limit, burst)}
}

func (l *Limited) Generate(ctx context.Context, req Request) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.Backend.Generate(ctx, req)
}
