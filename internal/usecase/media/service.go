package media

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mediadex/internal/db"
	"github.com/kailas-cloud/mediadex/internal/domain"
	dommedia "github.com/kailas-cloud/mediadex/internal/domain/media"
	"github.com/kailas-cloud/mediadex/internal/domain/search/request"
	"github.com/kailas-cloud/mediadex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/mediadex/internal/logger"
	"github.com/kailas-cloud/mediadex/internal/metrics"
	"github.com/kailas-cloud/mediadex/internal/sanitize"
)

// DefaultFacetSize bounds the distinct photographer listing.
const DefaultFacetSize = 1000

// Service searches, fetches and lists media. It is stateless between calls.
type Service struct {
	store     Store
	norm      Normalizer
	logger    *zap.Logger
	dropped   Counter
	facetSize int
}

// Option configures a Service.
type Option func(*Service)

// WithDroppedHitsCounter overrides the counter incremented per dropped hit.
func WithDroppedHitsCounter(c Counter) Option {
	return func(s *Service) { s.dropped = c }
}

// WithFacetSize sets how many distinct photographers are requested.
func WithFacetSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.facetSize = n
		}
	}
}

// New creates a media service.
func New(store Store, norm Normalizer, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		norm:      norm,
		logger:    logger,
		dropped:   metrics.MediaDroppedHitsTotal.WithLabelValues("missing_id"),
		facetSize: DefaultFacetSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs the request and normalizes every hit. Hits that cannot be
// normalized are dropped and counted; Total stays the store's count.
func (s *Service) Search(ctx context.Context, req request.Request) (result.Page, error) {
	q, err := BuildQuery(req)
	if err != nil {
		return result.Page{}, err
	}

	res, err := s.store.Search(ctx, &q)
	if err != nil {
		return result.Page{}, fmt.Errorf("search: %w", storeError(err))
	}

	items := make([]dommedia.Item, 0, len(res.Hits))
	for i, hit := range res.Hits {
		item, err := s.norm.Normalize(hit, req.Query())
		if err != nil {
			s.dropped.Inc()
			logpkg.FromContext(ctx, s.logger).Warn("Dropping hit",
				zap.Int("position", req.Offset()+i),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}

	return result.New(res.Total, items), nil
}

// GetByID fetches and normalizes one document.
func (s *Service) GetByID(ctx context.Context, id string) (dommedia.Item, error) {
	if strings.TrimSpace(id) == "" {
		return dommedia.Item{}, fmt.Errorf("%w: id is required", domain.ErrInvalidRequest)
	}

	hit, err := s.store.Get(ctx, id)
	if err != nil {
		return dommedia.Item{}, fmt.Errorf("get %q: %w", id, storeError(err))
	}
	if hit.ID == "" {
		hit.ID = id
	}

	item, err := s.norm.Normalize(hit, "")
	if err != nil {
		return dommedia.Item{}, fmt.Errorf("normalize %q: %w", id, err)
	}
	return item, nil
}

// ListPhotographers returns distinct photographer names, sorted, without duplicates.
func (s *Service) ListPhotographers(ctx context.Context) ([]string, error) {
	values, err := s.store.Distinct(ctx, dommedia.RawPhotographer, s.facetSize)
	if err != nil {
		return nil, fmt.Errorf("list photographers: %w", storeError(err))
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		name := sanitize.String(v)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// storeError maps store failures onto domain sentinels, keeping the cause.
func storeError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, db.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	case errors.Is(err, db.ErrDocNotFound):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case errors.Is(err, db.ErrBadQuery):
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
}
