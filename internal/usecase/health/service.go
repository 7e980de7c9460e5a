package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultCheckTimeout bounds each component probe.
const DefaultCheckTimeout = 3 * time.Second

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means queries still run but some dependency is impaired.
	Degraded Status = "degraded"
	// Unhealthy means the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckMissing indicates the claims index has not been created yet.
	CheckMissing CheckResult = "missing"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        Pinger
	index     IndexProbe
	embedding EmbeddingProbe
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a Service. index and embedding can be nil.
func New(db Pinger, index IndexProbe, embedding EmbeddingProbe, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:        db,
		index:     index,
		embedding: embedding,
		timeout:   DefaultCheckTimeout,
		logger:    logger,
	}
}

// WithTimeout overrides the per-check timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check probes every configured component concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, 3)
	)
	record := func(name string, res CheckResult, err error) {
		if err != nil {
			s.logger.Warn("health check failed", zap.String("component", name), zap.Error(err))
		}
		mu.Lock()
		checks[name] = res
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gctx, s.timeout)
		defer cancel()
		err := s.db.Ping(cctx)
		record("database", resultOf(err), err)
		return nil
	})
	if s.index != nil {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()
			ok, err := s.index.Exists(cctx)
			switch {
			case err != nil:
				record("index", CheckError, err)
			case !ok:
				record("index", CheckMissing, nil)
			default:
				record("index", CheckOK, nil)
			}
			return nil
		})
	}
	if s.embedding != nil {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()
			err := s.embedding.HealthCheck(cctx)
			record("embedding", resultOf(err), err)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // checks never return errors

	return Report{Status: aggregate(checks), Checks: checks}
}

func resultOf(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}

func aggregate(checks map[string]CheckResult) Status {
	if checks["database"] == CheckError {
		return Unhealthy
	}
	for _, v := range checks {
		if v != CheckOK {
			return Degraded
		}
	}
	return Healthy
}
