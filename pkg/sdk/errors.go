package ragdex

import (
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/aggregation"
	"github.com/kailas-cloud/ragdex/internal/domain/analytics"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrInvalidInput           = domain.ErrInvalidInput
	ErrInvalidSchema          = domain.ErrInvalidSchema
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrRateLimited            = domain.ErrRateLimited
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrNoDocuments            = domain.ErrNoDocuments
	ErrUnsupportedKind        = aggregation.ErrUnsupportedKind
	ErrNoNumericValues        = aggregation.ErrNoNumericValues
	ErrNoMatches              = analytics.ErrNoDocuments
)
