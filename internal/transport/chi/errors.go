package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/aggregation"
	"github.com/kailas-cloud/ragdex/internal/domain/analytics"
	"github.com/kailas-cloud/ragdex/internal/domain/query"
)

// ErrorCode is the machine-readable part of an error response.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeNotFound          ErrorCode = "not_found"
	CodeUnprocessable     ErrorCode = "unprocessable"
	CodeRateLimited       ErrorCode = "rate_limited"
	CodeQuotaExceeded     ErrorCode = "embedding_quota_exceeded"
	CodeEmbeddingProvider ErrorCode = "embedding_provider_error"
	CodeSearchUnavailable ErrorCode = "search_unavailable"
	CodeGroupLookupFailed ErrorCode = "group_lookup_failed"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorBody describes one failure.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse is the envelope of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeBadRequest),
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	sentinelHandler(aggregation.ErrUnsupportedKind, http.StatusUnprocessableEntity, CodeUnprocessable),
	sentinelHandler(aggregation.ErrNoNumericValues, http.StatusUnprocessableEntity, CodeUnprocessable),
	sentinelHandler(analytics.ErrNoDocuments, http.StatusUnprocessableEntity, CodeUnprocessable),
	sentinelHandler(domain.ErrGroupLookupFailed, http.StatusBadGateway, CodeGroupLookupFailed),
	queryErrorHandler,
	sentinelHandler(domain.ErrEmbeddingQuotaExceeded, http.StatusPaymentRequired, CodeQuotaExceeded),
	sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
	sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProvider),
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// Business and validation errors carry the offending value, so their full text is returned.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := err.Error()
		if status >= http.StatusInternalServerError {
			msg = sentinel.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

// queryErrorHandler exposes the failing store operation but not the raw detail.
func queryErrorHandler(w http.ResponseWriter, err error) bool {
	var qe *query.Error
	if !errors.As(err, &qe) {
		return false
	}
	msg := "search service error"
	if qe.Status != "" {
		msg += " (" + qe.Status + ")"
	}
	writeError(w, http.StatusBadGateway, CodeSearchUnavailable, msg)
	return true
}

func handleDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	for _, h := range errorHandlers {
		if h(w, err) {
			logger.Warn("request failed", zap.Error(err))
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
