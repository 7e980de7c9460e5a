package chi

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain/aggregation"
	"github.com/kailas-cloud/ragdex/internal/domain/analytics"
	"github.com/kailas-cloud/ragdex/internal/domain/query"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
)

// QueryExecutor runs a single query against the claims index.
type QueryExecutor interface {
	Execute(ctx context.Context, req query.Request) (*query.Result, error)
}

// Aggregator computes one scalar over a matching result set.
type Aggregator interface {
	Aggregate(ctx context.Context, spec aggregation.Spec, filter, text string) (*aggregation.Result, error)
}

// Analyzer groups matching documents and ranks the groups.
type Analyzer interface {
	Analyze(ctx context.Context, spec analytics.GroupSpec) (*analytics.Report, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// GroupResolver resolves the security groups of a delegated user token.
type GroupResolver interface {
	FetchUserGroups(ctx context.Context, token string) ([]string, error)
}
