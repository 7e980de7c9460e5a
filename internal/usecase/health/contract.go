package health

import "context"

// Pinger is the database round trip.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexProbe reports whether the claims index is provisioned (index.Provisioner).
type IndexProbe interface {
	Exists(ctx context.Context) (bool, error)
}

// EmbeddingProbe is the optional provider probe (the OpenAI client's HealthCheck).
type EmbeddingProbe interface {
	HealthCheck(ctx context.Context) error
}
