package media

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mediadex/internal/domain"
	dommedia "github.com/kailas-cloud/mediadex/internal/domain/media"
	"github.com/kailas-cloud/mediadex/internal/domain/search/request"
	"github.com/kailas-cloud/mediadex/internal/domain/search/result"
	"github.com/kailas-cloud/mediadex/internal/metrics"
)

// Operation labels.
const (
	OpSearch        = "search"
	OpGetByID       = "get_by_id"
	OpPhotographers = "list_photographers"
)

// Compile-time checks.
var (
	_ API = (*Service)(nil)
	_ API = (*InstrumentedService)(nil)
)

// InstrumentedService wraps an API with request, error and latency metrics.
type InstrumentedService struct {
	inner  API
	logger *zap.Logger
}

// NewInstrumentedService wraps inner with observability.
func NewInstrumentedService(inner API, logger *zap.Logger) *InstrumentedService {
	return &InstrumentedService{inner: inner, logger: logger}
}

// Search delegates to the inner service and records the outcome.
func (s *InstrumentedService) Search(ctx context.Context, req request.Request) (result.Page, error) {
	start := time.Now()
	page, err := s.inner.Search(ctx, req)
	s.observe(OpSearch, start, err)
	if err == nil {
		s.logger.Debug("Search completed",
			zap.Int("page", req.Page()),
			zap.Int("size", req.Size()),
			zap.Int("total", page.Total),
			zap.Int("hits", len(page.Hits)),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return page, err
}

// GetByID delegates to the inner service and records the outcome.
func (s *InstrumentedService) GetByID(ctx context.Context, id string) (dommedia.Item, error) {
	start := time.Now()
	item, err := s.inner.GetByID(ctx, id)
	s.observe(OpGetByID, start, err)
	return item, err
}

// ListPhotographers delegates to the inner service and records the outcome.
func (s *InstrumentedService) ListPhotographers(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := s.inner.ListPhotographers(ctx)
	s.observe(OpPhotographers, start, err)
	return names, err
}

func (s *InstrumentedService) observe(op string, start time.Time, err error) {
	duration := time.Since(start)
	metrics.MediaRequestDuration.WithLabelValues(op).Observe(duration.Seconds())

	if err == nil {
		metrics.MediaRequestsTotal.WithLabelValues(op, "ok").Inc()
		return
	}

	kind := ErrorType(err)
	metrics.MediaRequestsTotal.WithLabelValues(op, "error").Inc()
	metrics.MediaErrorsTotal.WithLabelValues(op, kind).Inc()

	// Caller mistakes and misses are not service failures.
	if kind == "invalid_request" || kind == "not_found" {
		s.logger.Debug("Media request rejected", zap.String("operation", op), zap.Error(err))
		return
	}
	s.logger.Error("Media request failed",
		zap.String("operation", op),
		zap.String("error_type", kind),
		zap.Duration("duration", duration),
		zap.Error(err),
	)
}

// ErrorType classifies err into a low-cardinality metric label.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}
