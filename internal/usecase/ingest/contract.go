package ingest

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/batch"
	"github.com/kailas-cloud/ragdex/internal/domain/query"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// BatchWriter submits one batch and reports per-document outcomes.
// The error is reserved for a failure of the whole submission.
type BatchWriter interface {
	UpsertBatch(ctx context.Context, docs []domain.Document) ([]batch.Result, error)
}

// IndexProvisioner creates the search index when it is missing.
type IndexProvisioner interface {
	Ensure(ctx context.Context) (bool, error)
}

// RecordSource reads source rows. A missing source yields domain.ErrSourceNotFound.
type RecordSource interface {
	Read(ctx context.Context, path string) ([]domain.Record, error)
}

// Preparer turns source rows into documents.
type Preparer func(records []domain.Record) []domain.Document

// Querier runs the read-back query after upload.
type Querier interface {
	Execute(ctx context.Context, req query.Request) (*query.Result, error)
}
