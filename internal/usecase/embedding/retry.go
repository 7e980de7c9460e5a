package embedding

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

const (
	// DefaultBackoffBase is the delay before the first retry; it doubles on every attempt.
	DefaultBackoffBase = time.Second
	// MaxBackoff caps a single retry delay.
	MaxBackoff = 2 * time.Minute
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryingEmbedder retries failed embeddings with exponential backoff and degrades
// to the zero vector once attempts run out. Embed never returns a provider error.
type RetryingEmbedder struct {
	inner       domain.Embedder
	maxAttempts int
	base        time.Duration
	dimensions  int
	sleep       SleepFunc
	logger      *zap.Logger
}

// NewRetryingEmbedder makes at most maxAttempts calls per text (values below 1 mean 1).
// dimensions sizes the zero-vector fallback.
func NewRetryingEmbedder(inner domain.Embedder, maxAttempts, dimensions int, logger *zap.Logger) *RetryingEmbedder {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if dimensions <= 0 {
		dimensions = domain.DefaultEmbeddingDimensions
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingEmbedder{
		inner:       inner,
		maxAttempts: maxAttempts,
		base:        DefaultBackoffBase,
		dimensions:  dimensions,
		sleep:       sleepCtx,
		logger:      logger,
	}
}

// WithBackoffBase overrides the first retry delay.
func (r *RetryingEmbedder) WithBackoffBase(d time.Duration) *RetryingEmbedder {
	if d > 0 {
		r.base = d
	}
	return r
}

// WithSleep replaces the blocking delay.
func (r *RetryingEmbedder) WithSleep(fn SleepFunc) *RetryingEmbedder {
	if fn != nil {
		r.sleep = fn
	}
	return r
}

// Backoff returns the delay after the 0-indexed failed attempt: base * 2^attempt,
// capped at MaxBackoff.
func (r *RetryingEmbedder) Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := r.base
	for i := 0; i < attempt && d < MaxBackoff; i++ {
		d *= 2
	}
	return min(d, MaxBackoff)
}

// Embed returns the provider's vector, or a zero vector flagged Degraded after
// maxAttempts failures. Cancellation during a backoff also yields the fallback.
func (r *RetryingEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	var lastErr error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		res, err := r.inner.Embed(ctx, text)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt == r.maxAttempts-1 {
			break
		}
		wait := r.Backoff(attempt)
		r.logger.Warn("Embedding failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		metrics.EmbeddingRetriesTotal.Inc()
		if err := r.sleep(ctx, wait); err != nil {
			lastErr = err
			break
		}
	}

	metrics.EmbeddingFallbacksTotal.Inc()
	r.logger.Error("Embedding unavailable, using zero vector",
		zap.Int("max_attempts", r.maxAttempts),
		zap.Int("dimensions", r.dimensions),
		zap.Error(lastErr),
	)
	return domain.EmbeddingResult{Embedding: domain.ZeroVector(r.dimensions), Degraded: true}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
