package ragdex

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/aggregation"
	"github.com/kailas-cloud/ragdex/internal/domain/analytics"
	"github.com/kailas-cloud/ragdex/internal/domain/batch"
	"github.com/kailas-cloud/ragdex/internal/domain/query"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
)

type mockQueryUC struct {
	fn func(ctx context.Context, req query.Request) (*query.Result, error)
}

func (m *mockQueryUC) Execute(ctx context.Context, req query.Request) (*query.Result, error) {
	return m.fn(ctx, req)
}

type mockAggregateUC struct {
	fn func(ctx context.Context, spec aggregation.Spec, filter, text string) (*aggregation.Result, error)
}

func (m *mockAggregateUC) Aggregate(
	ctx context.Context, spec aggregation.Spec, filter, text string,
) (*aggregation.Result, error) {
	return m.fn(ctx, spec, filter, text)
}

type mockAnalyticsUC struct {
	fn func(ctx context.Context, spec analytics.GroupSpec) (*analytics.Report, error)
}

func (m *mockAnalyticsUC) Analyze(ctx context.Context, spec analytics.GroupSpec) (*analytics.Report, error) {
	return m.fn(ctx, spec)
}

type mockIndexUC struct {
	created bool
	err     error
}

func (m *mockIndexUC) Ensure(context.Context) (bool, error) { return m.created, m.err }

type mockUploadUC struct {
	fn func(ctx context.Context, docs []domain.Document, size int) batch.UploadOutcome
}

func (m *mockUploadUC) UploadAll(ctx context.Context, docs []domain.Document, size int) batch.UploadOutcome {
	return m.fn(ctx, docs, size)
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

type mockStore struct {
	pingErr error
	closed  bool
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }
func (m *mockStore) Close() { m.closed = true }

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

// newTestClient builds a Client around mocks; nil fields stay unset.
func newTestClient(obs *observer) *Client {
	if obs == nil {
		obs, _ = newObserver(nil, nil)
	}
	return &Client{store: &mockStore{}, obs: obs}
}
