package ragdex

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string

	keyPrefix string
	indexName string

	embedder    Embedder
	maxRetries  int
	backoffBase time.Duration

	vectorDimensions int
	hnswM            int
	hnswEFConstruct  int
	defaultTopK      int
	aggregationCap   int
	analyticsCap     int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		keyPrefix:        "ragdex:",
		indexName:        "cms1500-claims",
		maxRetries:       3,
		backoffBase:      time.Second,
		vectorDimensions: 3072,
		defaultTopK:      50,
		aggregationCap:   1000,
		analyticsCap:     10000,
	}
}

// WithRedis configures the Redis Stack address.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCredentials sets the ACL user and password.
func WithCredentials(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithIndex names the keyspace: documents live under <prefix><name>:<id>.
// Defaults: "ragdex:" and "cms1500-claims".
func WithIndex(prefix, name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
		c.indexName = name
	})
}

// WithEmbedder sets the text embedding provider used by Upload.
// maxRetries and backoffBase control the zero-vector fallback; values <= 0 keep the defaults (3, 1s).
func WithEmbedder(e Embedder, maxRetries int, backoffBase time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
		if maxRetries > 0 {
			c.maxRetries = maxRetries
		}
		if backoffBase > 0 {
			c.backoffBase = backoffBase
		}
	})
}

// WithVectorDimensions sets the embedding dimension. Defaults to 3072.
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithCaps bounds how many documents aggregation and analytics retrieve.
func WithCaps(aggregation, analytics int) Option {
	return optionFunc(func(c *clientConfig) {
		c.aggregationCap = aggregation
		c.analyticsCap = analytics
	})
}

// WithDefaultTopK sets the page size used when a query asks for top 0.
func WithDefaultTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultTopK = k
	})
}

// WithLogger enables structured logging for SDK operations. Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
