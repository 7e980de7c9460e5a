// Package analytics defines group-by report types and the permissive per-group metric.
package analytics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/aggregation"
)

// Defaults applied by NewGroupSpec.
const (
	DefaultMetricKind = "count"
	DefaultTopN       = 10
	DefaultOrder      = "desc"
)

// ErrNoDocuments is returned when the query matched nothing to group.
var ErrNoDocuments = errors.New("no documents found matching the query")

// GroupSpec describes one group-by request.
// MetricKind is kept verbatim: kinds outside avg/sum/min/max degrade to a value count.
type GroupSpec struct {
	GroupField  string
	MetricField string
	MetricKind  string
	Filter      string
	Query       string
	TopN        int
	Order       string
}

// NewGroupSpec validates input and fills defaults. Order is lowercased.
func NewGroupSpec(groupField, metricField, metricKind, filter, query string, topN int, order string) (GroupSpec, error) {
	groupField = strings.TrimSpace(groupField)
	if groupField == "" {
		return GroupSpec{}, fmt.Errorf("%w: group_by field is required", domain.ErrInvalidInput)
	}
	if topN < 0 {
		return GroupSpec{}, fmt.Errorf("%w: top must be positive, got %d", domain.ErrInvalidInput, topN)
	}
	if topN == 0 {
		topN = DefaultTopN
	}
	if metricKind == "" {
		metricKind = DefaultMetricKind
	}
	if order == "" {
		order = DefaultOrder
	}
	if strings.TrimSpace(query) == "" {
		query = "*"
	}
	return GroupSpec{
		GroupField:  groupField,
		MetricField: strings.TrimSpace(metricField),
		MetricKind:  metricKind,
		Filter:      filter,
		Query:       query,
		TopN:        topN,
		Order:       strings.ToLower(order),
	}, nil
}

// IsCount reports whether groups are ranked by document count only.
func (s GroupSpec) IsCount() bool { return s.MetricKind == string(aggregation.KindCount) }

// Descending reports whether ranking is largest-first.
func (s GroupSpec) Descending() bool { return s.Order == "desc" }

// WantsMetric reports whether a per-group metric should be attempted.
func (s GroupSpec) WantsMetric() bool { return s.MetricField != "" && !s.IsCount() }

// ProjectedFields returns the fields the engine needs from each document.
func (s GroupSpec) ProjectedFields() []string {
	if s.MetricField == "" || s.MetricField == s.GroupField {
		return []string{s.GroupField}
	}
	return []string{s.GroupField, s.MetricField}
}

// GroupResult is one ranked group. Metric is nil when the group had no coercible values.
type GroupResult struct {
	Group       string   `json:"group"`
	Count       int      `json:"count"`
	Metric      *float64 `json:"metric,omitempty"`
	MetricKind  string   `json:"metric_kind,omitempty"`
	MetricField string   `json:"metric_field,omitempty"`
}

// MetricOrZero is the ranking key for groups without a metric.
func (g GroupResult) MetricOrZero() float64 {
	if g.Metric == nil {
		return 0
	}
	return *g.Metric
}

// Report is the analytics output. TotalGroups counts groups before truncation;
// TotalDocuments is the search service's match count, not the retrieved page size.
type Report struct {
	Results        []GroupResult `json:"results"`
	TotalGroups    int           `json:"total_groups"`
	TotalDocuments int           `json:"total_documents"`
	GroupByField   string        `json:"group_by_field"`
	MetricKind     string        `json:"metric_kind"`
	MetricField    *string       `json:"metric_field"`
}

// GroupMetric computes a per-group metric. Unlike aggregation.Compute it never fails on
// an unknown kind: anything other than sum/avg/min/max yields the number of values.
func GroupMetric(kind string, values []float64) float64 {
	switch aggregation.Kind(kind) {
	case aggregation.KindSum, aggregation.KindAvg, aggregation.KindMin, aggregation.KindMax:
		v, _ := aggregation.Compute(aggregation.Kind(kind), values) //nolint:errcheck // kind is valid, values non-empty at call site
		return v
	}
	return float64(len(values))
}
