package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/config"
	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/claims"
	"github.com/kailas-cloud/ragdex/internal/metrics"
	documentrepo "github.com/kailas-cloud/ragdex/internal/repository/document"
	"github.com/kailas-cloud/ragdex/internal/repository/embcache"
	searchrepo "github.com/kailas-cloud/ragdex/internal/repository/search"
	"github.com/kailas-cloud/ragdex/internal/source"
	openaiEmb "github.com/kailas-cloud/ragdex/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/ragdex/internal/usecase/embedding"
	"github.com/kailas-cloud/ragdex/internal/usecase/ingest"
	queryuc "github.com/kailas-cloud/ragdex/internal/usecase/query"
)

func runCmd(a *app) *cobra.Command {
	var (
		sourcePath string
		batchSize  int
		skipIndex  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Read a claims file, embed every row and upload it in batches",
		Long: `Reads a .csv, .tsv or .parquet claims export, prepares one document per row,
embeds its content and uploads the documents in batches. The index is created
first unless --skip-index is given. A summary is printed when the run ends.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := ingestOptions(a.cfg.Ingest)
			if cmd.Flags().Changed("source") {
				opts.SourcePath = sourcePath
			}
			if cmd.Flags().Changed("batch-size") {
				opts.BatchSize = batchSize
			}
			if cmd.Flags().Changed("skip-index") {
				opts.SkipIndex = skipIndex
			}
			if opts.SourcePath == "" {
				return fmt.Errorf("%w: no source file (set --source or ingest.source_path)", domain.ErrInvalidInput)
			}

			metrics.RegisterEmbeddingMetrics()
			metrics.RegisterIngestMetrics()

			ks := a.keyspace()
			docs := documentrepo.New(a.store, ks)
			executor := queryuc.New(searchrepo.New(a.store, ks), a.cfg.Index.DefaultTopK, a.logger)
			embedder := buildEmbedder(a.cfg.Embedding, a.cfg.Index.KeyPrefix, a.store, a.logger)

			orch := ingest.NewOrchestrator(
				newProvisioner(a),
				source.Reader{},
				claims.Prepare,
				ingest.NewUploader(docs, embedder, a.logger),
				executor,
				a.logger,
			)

			summary, err := orch.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "claims file (.csv, .tsv, .parquet)")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0, "documents per upload batch")
	cmd.Flags().BoolVar(&skipIndex, "skip-index", false, "assume the index already exists")
	return cmd
}

func ingestOptions(c config.IngestConfig) ingest.Options {
	return ingest.Options{
		SourcePath:   c.SourcePath,
		BatchSize:    c.BatchSize,
		SkipIndex:    c.SkipIndexCreation,
		SanityFilter: c.SanityFilter,
		SanityField:  c.SanityField,
		SanityTop:    c.SanityTop,
	}
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Retrying.
// The cache sits beneath the retry layer so zero-vector fallbacks never reach it.
func buildEmbedder(cfg config.EmbeddingConfig, keyPrefix string, store db.KVStore, logger *zap.Logger) domain.Embedder {
	var embedder domain.Embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		APIVersion: cfg.APIVersion,
		Deployment: cfg.Deployment,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})

	if cfg.CacheTTLSec > 0 && store != nil {
		embedder = embcache.New(embedder, store, embcache.Config{
			KeyPrefix:  keyPrefix,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			TTL:        time.Duration(cfg.CacheTTLSec) * time.Second,
			Results:    metrics.EmbeddingCacheTotal,
		}, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, cfg.Dimensions, logger)

	return embeddinguc.NewRetryingEmbedder(embedder, cfg.MaxRetries, cfg.Dimensions, logger).
		WithBackoffBase(time.Duration(cfg.BackoffBaseMs) * time.Millisecond)
}
