package generate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/raglab/morgana/internal/domain"
	"github.com/raglab/morgana/internal/metrics"
)

// Gateway wraps a Completer with the call protocol the synthesizer
// requires: up to maxRetries attempts with exponential backoff between
// them, and a fixed post-call delay after every successful call for
// rate-limit courtesy. Exhausting all attempts degrades to
// domain.ErrModelUnavailable; no transport error escapes past it.
type Gateway struct {
	inner      Completer
	model      string
	maxRetries int
	retryDelay time.Duration
	callDelay  time.Duration
	sleep      func(time.Duration)
	logger     *zap.Logger
}

// GatewayConfig holds the retry protocol parameters.
type GatewayConfig struct {
	Model      string
	MaxRetries int
	RetryDelay time.Duration
	CallDelay  time.Duration
	Logger     *zap.Logger
}

// NewGateway creates a gateway around a raw completer.
func NewGateway(inner Completer, cfg GatewayConfig) *Gateway {
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		inner:      inner,
		model:      cfg.Model,
		maxRetries: retries,
		retryDelay: cfg.RetryDelay,
		callDelay:  cfg.CallDelay,
		sleep:      time.Sleep,
		logger:     logger,
	}
}

// WithSleep replaces the sleep function. Tests inject a recorder to
// assert the backoff schedule without real waiting.
func (g *Gateway) WithSleep(sleep func(time.Duration)) *Gateway {
	g.sleep = sleep
	return g
}

// Complete implements Completer. Backoff before attempt k+1 is
// retryDelay * 2^k; there is no sleep after the final failed attempt.
func (g *Gateway) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < g.maxRetries; attempt++ {
		response, err := g.inner.Complete(ctx, prompt)
		if err == nil {
			if g.callDelay > 0 {
				g.sleep(g.callDelay)
			}
			return response, nil
		}

		lastErr = err
		g.logger.Warn("completion call failed",
			zap.String("model", g.model),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", g.maxRetries),
			zap.Error(err),
		)

		if attempt < g.maxRetries-1 {
			metrics.ModelRetriesTotal.WithLabelValues(g.model).Inc()
			g.sleep(g.retryDelay * (1 << attempt))
		}
	}

	return "", fmt.Errorf("%w after %d attempts: %w", domain.ErrModelUnavailable, g.maxRetries, lastErr)
}
