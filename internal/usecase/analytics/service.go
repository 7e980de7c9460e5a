package analytics

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/aggregation"
	"github.com/kailas-cloud/ragdex/internal/domain/analytics"
	"github.com/kailas-cloud/ragdex/internal/domain/query"
)

// DefaultCap bounds how many documents one group-by reads.
const DefaultCap = 10000

// Service groups a bounded page of matches by a field and ranks the groups.
type Service struct {
	exec   Executor
	cap    int
	logger *zap.Logger
}

// New creates a group-by service. limit <= 0 means DefaultCap.
func New(exec Executor, limit int, logger *zap.Logger) *Service {
	if limit <= 0 {
		limit = DefaultCap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{exec: exec, cap: limit, logger: logger}
}

type group struct {
	value string
	docs  []domain.Document
}

// Analyze partitions matches by spec.GroupField, computes the optional metric,
// ranks every group and then keeps the top spec.TopN.
func (s *Service) Analyze(ctx context.Context, spec analytics.GroupSpec) (*analytics.Report, error) {
	res, err := s.exec.Execute(ctx, query.Request{
		Text:   spec.Query,
		Filter: spec.Filter,
		TopK:   s.cap,
		Select: spec.ProjectedFields(),
	})
	if err != nil {
		return nil, fmt.Errorf("analyze by %s: %w", spec.GroupField, err)
	}
	if len(res.Documents) == 0 {
		return nil, analytics.ErrNoDocuments
	}

	groups := partition(res.Documents, spec.GroupField)

	results := make([]analytics.GroupResult, 0, len(groups))
	anyMetric := false
	for _, g := range groups {
		gr := analytics.GroupResult{Group: g.value, Count: len(g.docs)}
		if spec.WantsMetric() {
			if values := metricValues(g.docs, spec.MetricField); len(values) > 0 {
				m := analytics.GroupMetric(spec.MetricKind, values)
				gr.Metric = &m
				gr.MetricKind = spec.MetricKind
				gr.MetricField = spec.MetricField
				anyMetric = true
			}
		}
		results = append(results, gr)
	}

	rank(results, !spec.IsCount() && anyMetric, spec.Descending())

	totalGroups := len(results)
	if len(results) > spec.TopN {
		results = results[:spec.TopN]
	}

	report := &analytics.Report{
		Results:        results,
		TotalGroups:    totalGroups,
		TotalDocuments: res.TotalCount,
		GroupByField:   spec.GroupField,
		MetricKind:     spec.MetricKind,
	}
	if !spec.IsCount() && spec.MetricField != "" {
		field := spec.MetricField
		report.MetricField = &field
	}

	s.logger.Debug("Group-by computed",
		zap.String("group_by", spec.GroupField),
		zap.String("metric_kind", spec.MetricKind),
		zap.Int("retrieved", len(res.Documents)),
		zap.Int("groups", totalGroups),
	)
	return report, nil
}

// partition groups documents by the exact group value, in order of first appearance.
// Documents without a value are skipped.
func partition(docs []domain.Document, field string) []*group {
	index := make(map[string]*group)
	var ordered []*group
	for _, doc := range docs {
		v, ok := doc[field]
		if !ok || v == nil {
			continue
		}
		key := fmt.Sprint(v)
		g, seen := index[key]
		if !seen {
			g = &group{value: key}
			index[key] = g
			ordered = append(ordered, g)
		}
		g.docs = append(g.docs, doc)
	}
	return ordered
}

func metricValues(docs []domain.Document, field string) []float64 {
	out := make([]float64, 0, len(docs))
	for _, doc := range docs {
		if f, ok := aggregation.Coerce(doc[field]); ok {
			out = append(out, f)
		}
	}
	return out
}

// rank sorts in place by metric (missing counts as 0) or by document count.
// The sort is stable, so ties keep first-appearance order.
func rank(results []analytics.GroupResult, byMetric, desc bool) {
	key := func(g analytics.GroupResult) float64 { return float64(g.Count) }
	if byMetric {
		key = analytics.GroupResult.MetricOrZero
	}
	sort.SliceStable(results, func(i, j int) bool {
		if desc {
			return key(results[i]) > key(results[j])
		}
		return key(results[i]) < key(results[j])
	})
}
