package llm

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/lukman83/baydeals/pkg/errors"
	"go.uber.org/zap"
)

// Chain tries each available backend in order until one succeeds.
type Chain struct {
	backends []Backend
	logger   *zap.Logger
}

// NewChain drops nil backends.
func NewChain(logger *zap.Logger, backends ...Backend) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Chain{logger: logger}
	for _, b := range backends {
		if b != nil {
			c.backends = append(c.backends, b)
		}
	}
	return c
}

func (c *Chain) Name() string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

func (c *Chain) Available(ctx context.Context) bool {
	for _, b := range c.backends {
		if b.Available(ctx) {
			return true
		}
	}
	return false
}

func (c *Chain) Generate(ctx context.Context, req Request) (string, error) {
	var errs []error
	for _, b := range c.backends {
		if !b.Available(ctx) {
			continue
		}
		text, err := b.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		c.logger.Warn("Backend failed, trying next", zap.String("backend", b.Name()), zap.Error(err))
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return "", errors.NewDealError("no generation backend available", errors.CodeUnavailable, 0, nil)
	}
	return "", stderrors.Join(errs...)
}
