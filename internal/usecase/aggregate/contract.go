package aggregate

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain/query"
)

// Executor runs a query against the search index.
type Executor interface {
	Execute(ctx context.Context, req query.Request) (*query.Result, error)
}
