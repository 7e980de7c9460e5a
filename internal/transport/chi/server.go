package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/aggregation"
	"github.com/kailas-cloud/ragdex/internal/domain/analytics"
	"github.com/kailas-cloud/ragdex/internal/domain/query"
	logpkg "github.com/kailas-cloud/ragdex/internal/logger"
	"github.com/kailas-cloud/ragdex/internal/transport/msgraph"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
)

// GraphTokenHeader carries the caller's delegated Graph token for permission trimming.
const GraphTokenHeader = "X-Graph-Token"

// QueryRequest is the body of POST /query. Select is a comma-delimited projection.
type QueryRequest struct {
	Query   string `json:"query"`
	Filter  string `json:"filter"`
	Top     int    `json:"top"`
	Select  string `json:"select"`
	OrderBy string `json:"order_by"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Deps wires the server to its use cases. Groups may be nil to disable permission trimming.
type Deps struct {
	Query       QueryExecutor
	Aggregate   Aggregator
	Analytics   Analyzer
	Health      HealthChecker
	Groups      GroupResolver
	GroupsField string
	Logger      *zap.Logger
}

// Server serves the claims query API.
type Server struct {
	query       QueryExecutor
	aggregate   Aggregator
	analytics   Analyzer
	health      HealthChecker
	groups      GroupResolver
	groupsField string
	logger      *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		query:       d.Query,
		aggregate:   d.Aggregate,
		analytics:   d.Analytics,
		health:      d.Health,
		groups:      d.Groups,
		groupsField: d.GroupsField,
		logger:      logger,
	}
}

// Routes mounts the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.Post("/query", s.Query)
	r.Get("/aggregate", s.Aggregate)
	r.Get("/analytics", s.Analytics)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	log := logpkg.FromContextOr(r.Context(), s.logger)

	var body QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	req, err := query.New(body.Query, body.Filter, body.Top, body.Select, body.OrderBy)
	if err != nil {
		handleDomainError(w, log, err)
		return
	}

	filter, denied, err := s.scope(r, req.Filter)
	if err != nil {
		handleDomainError(w, log, err)
		return
	}
	if denied {
		writeJSON(w, http.StatusOK, query.Result{Documents: []domain.Document{}})
		return
	}
	req.Filter = filter

	res, err := s.query.Execute(r.Context(), req)
	if err != nil {
		handleDomainError(w, log, err)
		return
	}
	if res.Documents == nil {
		res.Documents = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, res)
}

// Aggregate handles GET /aggregate.
func (s *Server) Aggregate(w http.ResponseWriter, r *http.Request) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	params := r.URL.Query()

	var field, kind, filter, text string
	if err := bindAll(params,
		binding{"field", true, &field},
		binding{"kind", true, &kind},
		binding{"filter", false, &filter},
		binding{"query", false, &text},
	); err != nil {
		handleDomainError(w, log, err)
		return
	}

	k, err := aggregation.ParseKind(kind)
	if err != nil {
		handleDomainError(w, log, err)
		return
	}

	filter, denied, err := s.scope(r, filter)
	if err != nil {
		handleDomainError(w, log, err)
		return
	}
	if denied {
		handleDomainError(w, log, fmt.Errorf("%w '%s'", aggregation.ErrNoNumericValues, field))
		return
	}

	res, err := s.aggregate.Aggregate(r.Context(), aggregation.Spec{Field: field, Kind: k}, filter, text)
	if err != nil {
		handleDomainError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Analytics handles GET /analytics.
func (s *Server) Analytics(w http.ResponseWriter, r *http.Request) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	params := r.URL.Query()

	var (
		groupBy, metricField, metricKind string
		filter, text, order              string
		top                              int
	)
	if err := bindAll(params,
		binding{"group_by", true, &groupBy},
		binding{"metric_field", false, &metricField},
		binding{"metric_kind", false, &metricKind},
		binding{"filter", false, &filter},
		binding{"query", false, &text},
		binding{"top", false, &top},
		binding{"order", false, &order},
	); err != nil {
		handleDomainError(w, log, err)
		return
	}

	spec, err := analytics.NewGroupSpec(groupBy, metricField, metricKind, filter, text, top, order)
	if err != nil {
		handleDomainError(w, log, err)
		return
	}

	scoped, denied, err := s.scope(r, spec.Filter)
	if err != nil {
		handleDomainError(w, log, err)
		return
	}
	if denied {
		handleDomainError(w, log, analytics.ErrNoDocuments)
		return
	}
	spec.Filter = scoped

	report, err := s.analytics.Analyze(r.Context(), spec)
	if err != nil {
		handleDomainError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

// scope AND-s the caller's permission filter onto filter when a Graph token is forwarded.
// denied reports a caller that belongs to no group and therefore sees nothing.
func (s *Server) scope(r *http.Request, filter string) (scoped string, denied bool, err error) {
	token := r.Header.Get(GraphTokenHeader)
	if s.groups == nil || token == "" {
		return filter, false, nil
	}

	ids, err := s.groups.FetchUserGroups(r.Context(), token)
	if err != nil {
		return "", false, err
	}
	if len(ids) == 0 {
		return "", true, nil
	}
	return combineFilters(filter, msgraph.FilterString(s.groupsField, ids)), false, nil
}

func combineFilters(filter, permission string) string {
	if filter == "" {
		return permission
	}
	return "(" + filter + ") " + permission
}

type binding struct {
	name     string
	required bool
	dest     any
}

// bindAll binds form-style query parameters; failures are client errors.
func bindAll(params url.Values, bs ...binding) error {
	for _, b := range bs {
		if err := runtime.BindQueryParameter("form", true, b.required, b.name, params, b.dest); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	return nil
}
