package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Values of the "result" label on the cache counter.
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultStale = "stale"
)

type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config scopes the cache. Entries whose length differs from Dimensions are
// treated as misses; 0 accepts any length.
type Config struct {
	KeyPrefix  string
	Model      string
	Dimensions int
	TTL        time.Duration
	Results    *prometheus.CounterVec // label "result"; nil disables
}

// CachedEmbedder serves embeddings from Redis before asking the provider.
// Degraded and zero vectors are never written back.
type CachedEmbedder struct {
	next   domain.Embedder
	kv     kv
	cfg    Config
	ns     string
	logger *zap.Logger
}

// New wraps next. Keys are <prefix>emb_cache:<model>:<sha256(text)>.
func New(next domain.Embedder, store kv, cfg Config, logger *zap.Logger) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{
		next:   next,
		kv:     store,
		cfg:    cfg,
		ns:     cfg.KeyPrefix + "emb_cache:" + cfg.Model + ":",
		logger: logger.Named("embcache"),
	}
}

// Embed implements domain.Embedder. A hit reports zero tokens.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.key(text)

	vec, result := c.lookup(ctx, key)
	c.count(result)
	if result == resultHit {
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	res, err := c.next.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	if res.Degraded || domain.IsZeroVector(res.Embedding) {
		return res, nil
	}
	if err := c.kv.SetWithTTL(ctx, key, encodeVector(res.Embedding), c.cfg.TTL); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return res, nil
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.ns + hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, string) {
	raw, err := c.kv.Get(ctx, key)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return nil, resultMiss
	case err != nil:
		c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return nil, resultMiss
	case len(raw) == 0:
		return nil, resultMiss
	}

	vec, err := decodeVector(raw)
	if err != nil {
		c.logger.Warn("Discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return nil, resultStale
	}
	if c.cfg.Dimensions > 0 && len(vec) != c.cfg.Dimensions {
		c.logger.Debug("Discarding cache entry of another dimension",
			zap.String("key", key), zap.Int("got", len(vec)), zap.Int("want", c.cfg.Dimensions))
		return nil, resultStale
	}
	return vec, resultHit
}

func (c *CachedEmbedder) count(result string) {
	if c.cfg.Results != nil {
		c.cfg.Results.WithLabelValues(result).Inc()
	}
}
