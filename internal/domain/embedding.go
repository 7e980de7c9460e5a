package domain

import "context"

// DefaultEmbeddingDimensions matches text-embedding-3-large.
const DefaultEmbeddingDimensions = 3072

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
// Degraded is set when the vector is the zero-vector fallback, not a real embedding.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
	Degraded     bool
}

// ZeroVector returns an all-zero vector of the given dimension.
func ZeroVector(dim int) []float32 {
	if dim < 0 {
		dim = 0
	}
	return make([]float32, dim)
}

// IsZeroVector reports whether v carries no signal ("embedding unavailable").
func IsZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
