package ragdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/aggregation"
	"github.com/kailas-cloud/ragdex/internal/domain/analytics"
)

// Outcome labels on ragdex_sdk_operations_total.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected" // caller input, a missing resource or an empty result
	outcomeCanceled = "canceled"
	outcomeError    = "error"
)

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound),
		errors.Is(err, aggregation.ErrUnsupportedKind), errors.Is(err, aggregation.ErrNoNumericValues),
		errors.Is(err, analytics.ErrNoDocuments):
		return outcomeRejected
	default:
		return outcomeError
	}
}

// observer records every public Client call. A nil observer is a no-op.
type observer struct {
	logger   *zap.Logger
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &observer{logger: logger.Named("sdk")}
	if reg == nil {
		return o, nil
	}

	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ragdex",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "SDK calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ragdex",
		Subsystem: "sdk",
		Name:      "operation_duration_seconds",
		Help:      "SDK call latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"operation"})

	var err error
	if o.calls, err = register(reg, calls); err != nil {
		return nil, err
	}
	if o.duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return o, nil
}

// register adds c to reg. When an equal collector is already there (a second
// Client on the same registry) that one is returned instead.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("ragdex: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("ragdex: metric registered as %T", are.ExistingCollector)
	}
	return existing, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	elapsed := time.Since(start)
	result := outcome(err)

	if o.calls != nil {
		o.calls.WithLabelValues(op, result).Inc()
		o.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	}

	fields := []zap.Field{zap.String("op", op), zap.Duration("duration", elapsed)}
	switch result {
	case outcomeOK:
		o.logger.Debug("Operation completed", fields...)
	case outcomeError:
		o.logger.Warn("Operation failed", append(fields, zap.Error(err))...)
	default:
		o.logger.Debug("Operation not completed", append(fields, zap.String("outcome", result), zap.Error(err))...)
	}
}
