package ragdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbRedis "github.com/kailas-cloud/ragdex/internal/db/redis"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/aggregation"
	"github.com/kailas-cloud/ragdex/internal/domain/analytics"
	"github.com/kailas-cloud/ragdex/internal/domain/batch"
	"github.com/kailas-cloud/ragdex/internal/domain/query"
	documentrepo "github.com/kailas-cloud/ragdex/internal/repository/document"
	indexrepo "github.com/kailas-cloud/ragdex/internal/repository/index"
	searchrepo "github.com/kailas-cloud/ragdex/internal/repository/search"
	aggregateuc "github.com/kailas-cloud/ragdex/internal/usecase/aggregate"
	analyticsuc "github.com/kailas-cloud/ragdex/internal/usecase/analytics"
	embeddinguc "github.com/kailas-cloud/ragdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	"github.com/kailas-cloud/ragdex/internal/usecase/ingest"
	queryuc "github.com/kailas-cloud/ragdex/internal/usecase/query"
)

const defaultReadinessTimeout = 10 * time.Second

// Result types shared with the HTTP API.
type (
	// Document is one stored claim.
	Document = domain.Document
	// QueryResult is a page of documents plus the total match count.
	QueryResult = query.Result
	// AggregationResult is a computed scalar.
	AggregationResult = aggregation.Result
	// Report is a ranked group-by report.
	Report = analytics.Report
	// UploadOutcome tallies an upload.
	UploadOutcome = batch.UploadOutcome
)

// QueryParams describes one query. Select is a comma-delimited projection;
// OrderBy is "<field> [asc|desc]".
type QueryParams struct {
	Text    string
	Filter  string
	Top     int
	Select  string
	OrderBy string
}

// GroupParams describes one group-by analysis. Zero values take the API defaults
// (metric kind count, top 10, descending).
type GroupParams struct {
	GroupBy     string
	MetricField string
	MetricKind  string
	Filter      string
	Text        string
	Top         int
	Order       string
}

type queryUseCase interface {
	Execute(ctx context.Context, req query.Request) (*query.Result, error)
}

type aggregateUseCase interface {
	Aggregate(ctx context.Context, spec aggregation.Spec, filter, text string) (*aggregation.Result, error)
}

type analyticsUseCase interface {
	Analyze(ctx context.Context, spec analytics.GroupSpec) (*analytics.Report, error)
}

type indexUseCase interface {
	Ensure(ctx context.Context) (bool, error)
}

type uploadUseCase interface {
	UploadAll(ctx context.Context, docs []domain.Document, size int) batch.UploadOutcome
}

type storeCloser interface {
	Ping(ctx context.Context) error
	Close()
}

// Client is the ragdex SDK entry point.
type Client struct {
	store        storeCloser
	querySvc     queryUseCase
	aggregateSvc aggregateUseCase
	analyticsSvc analyticsUseCase
	index        indexUseCase
	uploader     uploadUseCase
	healthSvc    healthUseCase
	obs          *observer
}

// New creates a Client and connects to Redis Stack.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("ragdex: database address required (use WithRedis)")
	}
	if cfg.indexName == "" {
		return nil, errors.New("ragdex: index name required")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.addrs,
		Username:   cfg.username,
		Password:   cfg.password,
		ClientName: "ragdex-sdk",
	})
	if err != nil {
		return nil, fmt.Errorf("ragdex: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("ragdex: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func wireClient(store *dbRedis.Store, cfg *clientConfig, obs *observer) *Client {
	ks := domain.Keyspace{Prefix: cfg.keyPrefix, Name: cfg.indexName}
	logger := obs.logger

	provisioner := indexrepo.New(store, ks, cfg.vectorDimensions).
		WithHNSW(indexrepo.HNSWConfig{M: cfg.hnswM, EFConstruct: cfg.hnswEFConstruct})
	executor := queryuc.New(searchrepo.New(store, ks), cfg.defaultTopK, logger)

	c := &Client{
		store:        store,
		querySvc:     executor,
		aggregateSvc: aggregateuc.New(executor, cfg.aggregationCap, logger),
		analyticsSvc: analyticsuc.New(executor, cfg.analyticsCap, logger),
		index:        provisioner,
		healthSvc:    healthuc.New(store, provisioner, nil, logger),
		obs:          obs,
	}

	if cfg.embedder != nil {
		emb := embeddinguc.NewRetryingEmbedder(
			&embedderAdapter{inner: cfg.embedder}, cfg.maxRetries, cfg.vectorDimensions, logger,
		).WithBackoffBase(cfg.backoffBase)
		c.uploader = ingest.NewUploader(documentrepo.New(store, ks), emb, logger)
	}
	return c
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureIndex creates the claims index when it is missing.
func (c *Client) EnsureIndex(ctx context.Context) (created bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ensure_index", start, err) }()

	return c.index.Ensure(ctx)
}

// Query runs one query against the claims index.
func (c *Client) Query(ctx context.Context, p QueryParams) (res *QueryResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("query", start, err) }()

	req, err := query.New(p.Text, p.Filter, p.Top, p.Select, p.OrderBy)
	if err != nil {
		return nil, err
	}
	return c.querySvc.Execute(ctx, req)
}

// Aggregate computes kind (avg, sum, min, max, count) over field across every match.
func (c *Client) Aggregate(
	ctx context.Context, field, kind, filter, text string,
) (res *AggregationResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("aggregate", start, err) }()

	k, err := aggregation.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	return c.aggregateSvc.Aggregate(ctx, aggregation.Spec{Field: field, Kind: k}, filter, text)
}

// Analyze groups matching documents by p.GroupBy and ranks the groups.
func (c *Client) Analyze(ctx context.Context, p GroupParams) (res *Report, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analyze", start, err) }()

	spec, err := analytics.NewGroupSpec(p.GroupBy, p.MetricField, p.MetricKind, p.Filter, p.Text, p.Top, p.Order)
	if err != nil {
		return nil, err
	}
	return c.analyticsSvc.Analyze(ctx, spec)
}

// Upload embeds and stores docs in batches of batchSize. Every document needs an "id"
// and a non-blank "content", which is the text that gets embedded.
// Per-document failures are reported in the outcome, never as an error.
func (c *Client) Upload(ctx context.Context, docs []Document, batchSize int) (out UploadOutcome, err error) {
	start := time.Now()
	defer func() { c.obs.observe("upload", start, err) }()

	if c.uploader == nil {
		return UploadOutcome{}, errors.New("ragdex: embedder not configured (use WithEmbedder)")
	}
	return c.uploader.UploadAll(ctx, docs, batchSize), nil
}
