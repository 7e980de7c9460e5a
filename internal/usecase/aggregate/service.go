package aggregate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/aggregation"
	"github.com/kailas-cloud/ragdex/internal/domain/query"
)

// DefaultCap bounds how many documents one aggregation reads.
const DefaultCap = 1000

// Service computes one scalar over a field across a bounded page of matches.
// The page is not paginated further, so results over larger match sets are approximate.
type Service struct {
	exec   Executor
	cap    int
	logger *zap.Logger
}

// New creates an aggregation service. limit <= 0 means DefaultCap.
func New(exec Executor, limit int, logger *zap.Logger) *Service {
	if limit <= 0 {
		limit = DefaultCap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{exec: exec, cap: limit, logger: logger}
}

// Aggregate applies spec.Kind to the numeric values of spec.Field among documents
// matching text and filter. Unknown kinds fail before any query is issued.
func (s *Service) Aggregate(
	ctx context.Context, spec aggregation.Spec, filter, text string,
) (*aggregation.Result, error) {
	if spec.Field == "" {
		return nil, fmt.Errorf("%w: field is required", domain.ErrInvalidInput)
	}
	if !spec.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", aggregation.ErrUnsupportedKind, spec.Kind)
	}
	if text == "" {
		text = query.MatchAll
	}

	res, err := s.exec.Execute(ctx, query.Request{
		Text:   text,
		Filter: filter,
		TopK:   s.cap,
		Select: []string{spec.Field},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate %s(%s): %w", spec.Kind, spec.Field, err)
	}

	raw := make([]any, 0, len(res.Documents))
	for _, doc := range res.Documents {
		if v, ok := doc[spec.Field]; ok && v != nil {
			raw = append(raw, v)
		}
	}
	values := aggregation.CoerceAll(raw)
	if len(values) == 0 {
		return nil, fmt.Errorf("%w '%s'", aggregation.ErrNoNumericValues, spec.Field)
	}

	v, err := aggregation.Compute(spec.Kind, values)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Aggregation computed",
		zap.String("field", spec.Field),
		zap.String("kind", string(spec.Kind)),
		zap.Int("values", len(values)),
		zap.Int("matched", res.TotalCount),
	)
	return &aggregation.Result{Value: v, Count: len(values), Kind: spec.Kind, Field: spec.Field}, nil
}
