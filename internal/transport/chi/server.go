package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tastematch/internal/domain"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	healthuc "github.com/kailas-cloud/tastematch/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/tastematch/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/tastematch/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/tastematch/internal/usecase/suggest"
)

// CodeBadRequest marks a request that failed before reaching a use case.
const CodeBadRequest = "bad_request"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface on top of the use case services.
type Server struct {
	search        *searchuc.Service
	suggest       *suggestuc.Service
	recommend     *recommenduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	suggest *suggestuc.Service,
	recommend *recommenduc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:    search,
		suggest:   suggest,
		recommend: recommend,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		notFoundHandler,
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest),
		sentinelHandler(domain.ErrUnknownCategory, http.StatusBadRequest),
		sentinelHandler(domain.ErrEntityNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrMissingFeatures, http.StatusUnprocessableEntity),
		sentinelHandler(domain.ErrNoRecommendations, http.StatusUnprocessableEntity),
	}
	return s
}

// SearchEntities handles GET /api/v1/{category}/search.
func (s *Server) SearchEntities(w http.ResponseWriter, r *http.Request, cat string, params SearchParams) {
	c, err := parseCategory(cat)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	results, err := s.search.Search(r.Context(), c, params.Q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResultsToResponse(results))
}

// SuggestEntities handles GET /api/v1/{category}/suggest.
func (s *Server) SuggestEntities(w http.ResponseWriter, r *http.Request, cat string, params SuggestParams) {
	c, err := parseCategory(cat)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	out, err := s.suggest.Suggest(r.Context(), c, params.Q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestResponse{
		Items:   entitiesToResponse(out.Items),
		Visible: out.Visible,
	})
}

// RecommendEntities handles GET /api/v1/{category}/entities/{id}/recommendations.
func (s *Server) RecommendEntities(w http.ResponseWriter, r *http.Request, cat string, id int) {
	c, err := parseCategory(cat)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	res, err := s.recommend.Recommend(r.Context(), c, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationsToResponse(&res.Selected, res.Recommendations))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ParamErrorHandler renders binding failures from HandlerWithOptions.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
}

func parseCategory(raw string) (category.Category, error) {
	c, err := category.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnknownCategory, err)
	}
	return c, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Typed domain errors carry user-facing detail, so their full text is kept.
func safeDomainMessage(err error) string {
	if domain.Code(err) == domain.CodeInternal {
		return "internal error"
	}
	var (
		nf *domain.NotFoundError
		mf *domain.MissingFeaturesError
		nr *domain.NoRecommendationsError
	)
	switch {
	case errors.As(err, &nf):
		return nf.Error()
	case errors.As(err, &mf):
		return mf.Error()
	case errors.As(err, &nr):
		return nr.Error()
	}
	for _, s := range []error{
		domain.ErrEmptyQuery,
		domain.ErrUnknownCategory,
		domain.ErrEntityNotFound,
		domain.ErrMissingFeatures,
		domain.ErrNoRecommendations,
		domain.ErrNotFound,
	} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, domain.Code(sentinel), msg)
		return true
	}
}

// notFoundHandler handles ErrNotFound and attaches the sample titles.
func notFoundHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrNotFound) {
		return false
	}
	resp := ErrorResponse{Code: domain.CodeNotFound, Message: msg}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		resp.Samples = nf.Samples
	}
	writeJSON(w, http.StatusNotFound, resp)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, domain.CodeInternal, "internal error")
}
