// Package mediacache caches point lookups and the photographer facet of the
// media service in a key-value store. Search results are never cached.
package mediacache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mediadex/internal/db"
	dommedia "github.com/kailas-cloud/mediadex/internal/domain/media"
	"github.com/kailas-cloud/mediadex/internal/domain/search/request"
	"github.com/kailas-cloud/mediadex/internal/domain/search/result"
	"github.com/kailas-cloud/mediadex/internal/usecase/media"
)

const (
	keyPrefix        = "mediadex:"
	itemKeyPrefix    = keyPrefix + "item:"
	photographersKey = keyPrefix + "photographers"

	// DefaultTTL applies when New receives a non-positive ttl.
	DefaultTTL = 5 * time.Minute
)

// store is the consumer interface for the cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Compile-time check.
var _ media.API = (*CachedService)(nil)

// CachedService decorates a media.API with a read-through cache.
// Cache failures are logged and fall through to the inner service.
type CachedService struct {
	inner      media.API
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "operation" and "result" ("hit"/"miss"); nil disables it.
func New(
	inner media.API,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedService{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search always goes to the inner service.
func (c *CachedService) Search(ctx context.Context, req request.Request) (result.Page, error) {
	return c.inner.Search(ctx, req) //nolint:wrapcheck // transparent decorator
}

// GetByID returns a cached item or fetches and caches it.
func (c *CachedService) GetByID(ctx context.Context, id string) (dommedia.Item, error) {
	key := itemKey(id)

	var item dommedia.Item
	if c.load(ctx, key, &item) {
		c.incCache(media.OpGetByID, "hit")
		return item, nil
	}
	c.incCache(media.OpGetByID, "miss")

	item, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return dommedia.Item{}, err //nolint:wrapcheck // transparent decorator
	}
	c.save(ctx, key, item)
	return item, nil
}

// ListPhotographers returns the cached facet or fetches and caches it.
func (c *CachedService) ListPhotographers(ctx context.Context) ([]string, error) {
	var names []string
	if c.load(ctx, photographersKey, &names) {
		c.incCache(media.OpPhotographers, "hit")
		return names, nil
	}
	c.incCache(media.OpPhotographers, "miss")

	names, err := c.inner.ListPhotographers(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck // transparent decorator
	}
	c.save(ctx, photographersKey, names)
	return names, nil
}

func (c *CachedService) incCache(op, res string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(op, res).Inc()
	}
}

// load decodes a cached value into v. Numbers stay json.Number so cached
// items serialize exactly like fresh ones.
func (c *CachedService) load(ctx context.Context, key string, v any) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read media cache", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if len(data) == 0 {
		return false
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		c.logger.Warn("Failed to parse cached media entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CachedService) save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode media cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to write media cache", zap.String("key", key), zap.Error(err))
	}
}

func itemKey(id string) string {
	h := sha256.Sum256([]byte(id))
	return itemKeyPrefix + hex.EncodeToString(h[:])
}

