package query

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain/query"
)

// Repository runs one query against the search index.
type Repository interface {
	Query(ctx context.Context, req query.Request) (*query.Result, error)
}
