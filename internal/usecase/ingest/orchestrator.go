package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/aggregation"
	"github.com/kailas-cloud/ragdex/internal/domain/batch"
	"github.com/kailas-cloud/ragdex/internal/domain/query"
)

// Options configures one ingestion run.
type Options struct {
	SourcePath   string
	BatchSize    int
	SkipIndex    bool
	SanityFilter string
	SanityField  string
	SanityTop    int
}

// SanityReport is what the post-upload read-back saw. Average is nil when no
// sampled document carried a numeric SanityField.
type SanityReport struct {
	Sampled    int
	TotalCount int
	Field      string
	Average    *float64
}

// Summary describes a finished run.
type Summary struct {
	IndexCreated bool
	Prepared     int
	Attempted    int
	Succeeded    int
	Failed       int
	Batches      int
	SuccessRate  float64
	Elapsed      time.Duration
	Failures     []batch.Failure
	Sanity       *SanityReport
}

// Orchestrator sequences index provisioning, preparation, upload and read-back.
type Orchestrator struct {
	index    IndexProvisioner
	source   RecordSource
	prepare  Preparer
	uploader *Uploader
	querier  Querier
	now      func() time.Time
	logger   *zap.Logger
}

// NewOrchestrator creates an ingestion orchestrator.
func NewOrchestrator(
	index IndexProvisioner, source RecordSource, prepare Preparer,
	uploader *Uploader, querier Querier, logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		index:    index,
		source:   source,
		prepare:  prepare,
		uploader: uploader,
		querier:  querier,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the clock used for elapsed time.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	if now != nil {
		o.now = now
	}
	return o
}

// Run executes one ingestion. Provisioning, reading and preparation errors abort the run;
// upload failures are accounted for in the summary, and the read-back never fails it.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Summary, error) {
	start := o.now()
	summary := &Summary{}

	if opts.SkipIndex {
		o.logger.Info("Using existing index")
	} else {
		created, err := o.index.Ensure(ctx)
		if err != nil {
			return nil, fmt.Errorf("provision index: %w", err)
		}
		summary.IndexCreated = created
		o.logger.Info("Index ready", zap.Bool("created", created))
	}

	records, err := o.source.Read(ctx, opts.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", opts.SourcePath, err)
	}
	docs := o.prepare(records)
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: %w", opts.SourcePath, domain.ErrNoDocuments)
	}
	summary.Prepared = len(docs)
	o.logger.Info("Uploading documents",
		zap.Int("documents", len(docs)),
		zap.Int("batch_size", opts.BatchSize),
	)

	outcome := o.uploader.UploadAll(ctx, docs, opts.BatchSize)
	summary.Attempted = outcome.Attempted
	summary.Succeeded = outcome.Succeeded
	summary.Failed = outcome.Failed()
	summary.Batches = outcome.Batches
	summary.SuccessRate = outcome.SuccessRate()
	summary.Failures = outcome.Failures
	summary.Elapsed = o.now().Sub(start)

	o.logger.Info("Ingestion complete",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("attempted", summary.Attempted),
		zap.Float64("success_rate", summary.SuccessRate),
		zap.Duration("elapsed", summary.Elapsed),
	)

	summary.Sanity = o.readBack(ctx, opts)
	return summary, nil
}

// readBack samples the index after upload. Failures are logged and yield nil.
func (o *Orchestrator) readBack(ctx context.Context, opts Options) *SanityReport {
	if o.querier == nil || opts.SanityField == "" {
		return nil
	}
	res, err := o.querier.Execute(ctx, query.Request{
		Text:   query.MatchAll,
		Filter: opts.SanityFilter,
		TopK:   opts.SanityTop,
		Select: []string{domain.FieldID, opts.SanityField},
	})
	if err != nil {
		o.logger.Warn("Read-back query failed", zap.Error(err))
		return nil
	}

	report := &SanityReport{Sampled: len(res.Documents), TotalCount: res.TotalCount, Field: opts.SanityField}
	raw := make([]any, 0, len(res.Documents))
	for _, doc := range res.Documents {
		if v, ok := doc[opts.SanityField]; ok && v != nil {
			raw = append(raw, v)
		}
	}
	if values := aggregation.CoerceAll(raw); len(values) > 0 {
		avg, _ := aggregation.Compute(aggregation.KindAvg, values) //nolint:errcheck // non-empty values
		report.Average = &avg
		o.logger.Info("Read-back sample",
			zap.Int("sampled", report.Sampled),
			zap.Int("total_count", report.TotalCount),
			zap.String("field", report.Field),
			zap.Float64("average", avg),
			zap.Int("values", len(values)),
		)
	} else {
		o.logger.Info("Read-back sample",
			zap.Int("sampled", report.Sampled),
			zap.Int("total_count", report.TotalCount),
		)
	}
	return report
}
