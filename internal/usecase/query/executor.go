package query

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain/query"
)

const statusUnknown = "SEARCH"

// Executor issues single queries against the search service.
type Executor struct {
	repo        Repository
	defaultTopK int
	logger      *zap.Logger
}

// New creates a query executor. Requests with TopK == 0 get defaultTopK.
func New(repo Repository, defaultTopK int, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{repo: repo, defaultTopK: defaultTopK, logger: logger}
}

// Execute runs the query. TopK bounds the returned documents, never TotalCount.
// Failures are logged and returned as *query.Error; there is no empty-result fallback.
func (e *Executor) Execute(ctx context.Context, req query.Request) (*query.Result, error) {
	if req.Text == "" {
		req.Text = query.MatchAll
	}
	if req.TopK == 0 {
		req.TopK = e.defaultTopK
	}

	res, err := e.repo.Query(ctx, req)
	if err != nil {
		qerr := query.NewError(statusOf(err), err)
		e.logger.Error("Search query failed",
			zap.String("status", qerr.Status),
			zap.String("detail", qerr.Detail),
			zap.String("query", req.Text),
			zap.String("filter", req.Filter),
		)
		return nil, qerr
	}

	e.logger.Debug("Search query completed",
		zap.String("query", req.Text),
		zap.Int("returned", len(res.Documents)),
		zap.Int("total_count", res.TotalCount),
	)
	return res, nil
}

func statusOf(err error) string {
	if op, ok := db.OpOf(err); ok {
		return op
	}
	if errors.Is(err, db.ErrIndexNotFound) {
		return db.OpSearch
	}
	return statusUnknown
}
