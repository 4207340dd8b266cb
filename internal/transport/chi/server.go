package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mediadex/internal/domain"
	"github.com/kailas-cloud/mediadex/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/mediadex/internal/logger"
	"github.com/kailas-cloud/mediadex/internal/metrics"
	healthuc "github.com/kailas-cloud/mediadex/internal/usecase/health"
	mediauc "github.com/kailas-cloud/mediadex/internal/usecase/media"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeValidationFailed = "validation_failed"
	CodeMediaNotFound    = "media_not_found"
	CodeStoreTimeout     = "store_timeout"
	CodeStoreUnavailable = "store_unavailable"
	CodeInternalError    = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PhotographersResponse is the body of GET /api/photographers.
type PhotographersResponse struct {
	Photographers []string `json:"photographers"`
}

// SearchParams are the query parameters of GET /api/search.
type SearchParams struct {
	Q            *string `form:"q"`
	Page         *int    `form:"page"`
	Size         *int    `form:"size"`
	Photographer *string `form:"photographer"`
	MinDate      *string `form:"min_date"`
	MaxDate      *string `form:"max_date"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the media API over a media.API implementation.
type Server struct {
	media         mediauc.API
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(media mediauc.API, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		media:  media,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeMediaNotFound),
		sentinelHandler(domain.ErrTimeout, http.StatusGatewayTimeout, CodeStoreTimeout),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, CodeStoreUnavailable),
	}
	return s
}

// SearchMedia handles GET /api/search.
func (s *Server) SearchMedia(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid query parameter: "+err.Error())
		return
	}

	req, err := request.New(
		deref(params.Q, ""),
		request.Filters{
			Photographer: deref(params.Photographer, ""),
			MinDate:      deref(params.MinDate, ""),
			MaxDate:      deref(params.MaxDate, ""),
		},
		deref(params.Page, request.DefaultPage),
		deref(params.Size, request.DefaultSize),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	page, err := s.media.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetMedia handles GET /api/media/{id}.
func (s *Server) GetMedia(w http.ResponseWriter, r *http.Request) {
	item, err := s.media.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// ListPhotographers handles GET /api/photographers.
func (s *Server) ListPhotographers(w http.ResponseWriter, r *http.Request) {
	names, err := s.media.ListPhotographers(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PhotographersResponse{Photographers: names})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics.Handler().ServeHTTP(w, r)
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	var p SearchParams
	q := r.URL.Query()
	bindings := []struct {
		name string
		dest any
	}{
		{"q", &p.Q},
		{"page", &p.Page},
		{"size", &p.Size},
		{"photographer", &p.Photographer},
		{"min_date", &p.MinDate},
		{"max_date", &p.MaxDate},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return SearchParams{}, err //nolint:wrapcheck // message already names the parameter
		}
	}
	return p, nil
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrNotFound,
		domain.ErrTimeout,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
