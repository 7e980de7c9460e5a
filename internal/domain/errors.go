package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput signals a malformed request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidSchema signals an invalid index schema definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding quota on the provider side.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")

	// ErrGroupLookupFailed signals that the caller's permission groups could not be resolved.
	ErrGroupLookupFailed = errors.New("permission group lookup failed")

	// ErrSourceNotFound signals a missing ingestion source file.
	ErrSourceNotFound = errors.New("source not found")
	// ErrNoDocuments signals that preparation produced nothing to upload.
	ErrNoDocuments = errors.New("no documents to upload")
)
