package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

type recordedSleep struct {
	delays []time.Duration
	err    error
}

func (s *recordedSleep) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return s.err
}

func TestRetryingEmbedder_SuccessFirstTry(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 2}}}
	rec := &recordedSleep{}
	r := NewRetryingEmbedder(inner, 3, 2, nil).WithSleep(rec.sleep)

	res, err := r.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, res.Embedding)
	assert.False(t, res.Degraded)
	assert.Equal(t, 1, inner.calls)
	assert.Empty(t, rec.delays)
}

func TestRetryingEmbedder_RecoversAfterFailures(t *testing.T) {
	inner := &mockEmbedder{
		result:   domain.EmbeddingResult{Embedding: []float32{3}},
		err:      errors.New("429"),
		failures: 2,
	}
	rec := &recordedSleep{}
	r := NewRetryingEmbedder(inner, 3, 1, nil).WithSleep(rec.sleep)

	before := testutil.ToFloat64(metrics.EmbeddingRetriesTotal)
	res, err := r.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{3}, res.Embedding)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.EmbeddingRetriesTotal)-before, 0)
}

func TestRetryingEmbedder_ExhaustionReturnsZeroVector(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("down")}
	rec := &recordedSleep{}
	r := NewRetryingEmbedder(inner, 4, 0, nil).WithSleep(rec.sleep)

	before := testutil.ToFloat64(metrics.EmbeddingFallbacksTotal)
	res, err := r.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 4, inner.calls)
	assert.True(t, res.Degraded)
	assert.Len(t, res.Embedding, domain.DefaultEmbeddingDimensions)
	assert.True(t, domain.IsZeroVector(res.Embedding))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, rec.delays)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.EmbeddingFallbacksTotal)-before, 0)
}

func TestRetryingEmbedder_AtLeastOneAttempt(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("down")}
	r := NewRetryingEmbedder(inner, 0, 8, nil).WithSleep((&recordedSleep{}).sleep)

	res, err := r.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Len(t, res.Embedding, 8)
}

func TestRetryingEmbedder_CancelledDuringBackoff(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("down")}
	rec := &recordedSleep{err: context.Canceled}
	r := NewRetryingEmbedder(inner, 5, 4, nil).WithSleep(rec.sleep)

	res, err := r.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.True(t, res.Degraded)
	assert.Len(t, res.Embedding, 4)
}

func TestRetryingEmbedder_Backoff(t *testing.T) {
	r := NewRetryingEmbedder(&mockEmbedder{}, 3, 1, nil).WithBackoffBase(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, r.Backoff(0))
	assert.Equal(t, 200*time.Millisecond, r.Backoff(1))
	assert.Equal(t, 800*time.Millisecond, r.Backoff(3))
}

func TestRetryingEmbedder_BackoffCapped(t *testing.T) {
	r := NewRetryingEmbedder(&mockEmbedder{}, 50, 1, nil)
	for _, attempt := range []int{7, 34, 40, 63, 1000} {
		d := r.Backoff(attempt)
		assert.Positive(t, d, "attempt %d", attempt)
		assert.LessOrEqual(t, d, MaxBackoff, "attempt %d", attempt)
	}
	assert.Equal(t, MaxBackoff, r.Backoff(34))
	assert.Equal(t, DefaultBackoffBase, r.Backoff(-1))
}

func TestSleepCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepCtx(context.Background(), time.Millisecond))
}
